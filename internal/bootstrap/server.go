package bootstrap

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	app "github.com/mohammadpnp/moodjournal-import/internal/application/journal"
	"github.com/mohammadpnp/moodjournal-import/internal/config"
	httpecho "github.com/mohammadpnp/moodjournal-import/internal/interfaces/http/echo"
)

func NewHTTPServer(cfg config.Config, startImport app.StartBackupImport, getJob app.GetImportJob, logger *slog.Logger) *echo.Echo {
	server := echo.New()
	server.HideBanner = true

	server.Use(middleware.Recover())
	server.Use(middleware.RequestID())
	server.Use(middleware.BodyLimit(cfg.Server.BodyLimit))
	server.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization, cfg.Auth.UserHeader},
	}))
	server.Use(requestLogger(logger))

	importHandler := httpecho.NewImportHandler(startImport, getJob).WithMaxUploadSize(cfg.Import.MaxUploadSize)
	httpecho.RegisterRoutes(server, importHandler, httpecho.RequireOwner(cfg.Auth.UserHeader))

	server.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	return server
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			req := c.Request()
			logger.Info("http request",
				"method", req.Method,
				"path", req.URL.Path,
				"status", c.Response().Status,
				"duration", time.Since(start),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			)
			return nil
		}
	}
}
