package echo

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

const ownerIDKey = "owner_id"

// RequireOwner trusts the user id an upstream authenticator put in header and
// rejects requests without a valid one.
func RequireOwner(header string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := strings.TrimSpace(c.Request().Header.Get(header))
			ownerID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || ownerID <= 0 {
				return unauthorized(c)
			}
			c.Set(ownerIDKey, ownerID)
			return next(c)
		}
	}
}

func OwnerIDFromContext(c echo.Context) (int64, bool) {
	ownerID, ok := c.Get(ownerIDKey).(int64)
	return ownerID, ok && ownerID > 0
}
