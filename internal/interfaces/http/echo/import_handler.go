package echo

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	app "github.com/mohammadpnp/moodjournal-import/internal/application/journal"
)

const defaultMaxUploadSize = 64 << 20

type ImportHandler struct {
	startImport   app.StartBackupImport
	getJob        app.GetImportJob
	maxUploadSize int64
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiResponse struct {
	Data  any        `json:"data,omitempty"`
	Error *errorBody `json:"error,omitempty"`
}

func NewImportHandler(startImport app.StartBackupImport, getJob app.GetImportJob) *ImportHandler {
	return &ImportHandler{startImport: startImport, getJob: getJob, maxUploadSize: defaultMaxUploadSize}
}

// WithMaxUploadSize caps the accepted backup size in bytes. Non-positive
// values keep the default.
func (h *ImportHandler) WithMaxUploadSize(limit int64) *ImportHandler {
	if limit > 0 {
		h.maxUploadSize = limit
	}
	return h
}

func (h *ImportHandler) StartDaylioImport(c echo.Context) error {
	ownerID, ok := OwnerIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	upload, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "missing_file", "missing file upload")
	}
	if strings.TrimSpace(upload.Filename) == "" {
		return badRequest(c, "missing_filename", "missing filename")
	}

	file, err := upload.Open()
	if err != nil {
		return badRequest(c, "invalid_file", "could not read uploaded file")
	}
	defer file.Close()

	payload, err := io.ReadAll(io.LimitReader(file, h.maxUploadSize+1))
	if err != nil {
		return badRequest(c, "invalid_file", "could not read uploaded file")
	}
	if int64(len(payload)) > h.maxUploadSize {
		return c.JSON(http.StatusRequestEntityTooLarge, apiResponse{Error: &errorBody{
			Code:    "file_too_large",
			Message: "uploaded file is too large",
		}})
	}

	dryRun := isTruthy(c.QueryParam("dry_run")) || isTruthy(c.FormValue("dry_run"))

	out, err := h.startImport.Execute(c.Request().Context(), app.StartBackupImportInput{
		OwnerID:  ownerID,
		Filename: upload.Filename,
		Payload:  payload,
		DryRun:   dryRun,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrEmptyUpload):
			return badRequest(c, "empty_file", "uploaded file is empty")
		case errors.Is(err, app.ErrMissingFilename):
			return badRequest(c, "missing_filename", "missing filename")
		case errors.Is(err, app.ErrInvalidOwner):
			return unauthorized(c)
		}
		return c.JSON(http.StatusInternalServerError, apiResponse{Error: &errorBody{
			Code:    "internal_error",
			Message: "failed to enqueue import job",
		}})
	}

	return c.JSON(http.StatusAccepted, apiResponse{Data: out})
}

func (h *ImportHandler) GetDaylioImport(c echo.Context) error {
	ownerID, ok := OwnerIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.getJob.Execute(c.Request().Context(), app.GetImportJobInput{
		JobID:   c.Param("job_id"),
		OwnerID: ownerID,
	})
	if err != nil {
		if errors.Is(err, app.ErrImportJobNotFound) {
			return c.JSON(http.StatusNotFound, apiResponse{Error: &errorBody{
				Code:    "not_found",
				Message: "import job not found",
			}})
		}
		return c.JSON(http.StatusInternalServerError, apiResponse{Error: &errorBody{
			Code:    "internal_error",
			Message: "failed to get import job",
		}})
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func badRequest(c echo.Context, code, message string) error {
	return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
		Code:    code,
		Message: message,
	}})
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, apiResponse{Error: &errorBody{
		Code:    "unauthorized",
		Message: "unauthorized",
	}})
}

func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
