package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"fieldservice/internal/service"
	"fieldservice/internal/tenant"
	"fieldservice/pkg/logger"
	"fieldservice/prometheus"
)

// FileHandler exposes job file attachments over HTTP.
type FileHandler struct {
	files *service.FileService
}

// NewFileHandler builds a FileHandler.
func NewFileHandler(files *service.FileService) *FileHandler {
	return &FileHandler{files: files}
}

// List handles GET /api/jobs/:job_id/files
func (h *FileHandler) List(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordEntityOperation("file", "list")

	jobID, err := paramID(c, "job_id")
	if err != nil {
		return writeError(c, log, err)
	}

	ctx := tenant.FromEcho(c)
	defer prometheus.TrackDBOperation("query")(time.Now())

	files, err := h.files.List(ctx, jobID)
	if err != nil {
		return writeError(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"files": files})
}

// Create handles POST /api/jobs/:job_id/files
func (h *FileHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordEntityOperation("file", "create")

	jobID, err := paramID(c, "job_id")
	if err != nil {
		return writeError(c, log, err)
	}

	var in service.CreateFileInput
	if err := c.Bind(&in); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	ctx := tenant.FromEcho(c)
	defer prometheus.TrackDBOperation("insert")(time.Now())

	file, err := h.files.Create(ctx, jobID, in)
	if err != nil {
		return writeError(c, log, err)
	}

	log.Info("File attachment registered",
		zap.Uint("job_id", jobID),
		zap.Uint("file_id", file.ID),
		zap.String("name", file.Name))
	return c.JSON(http.StatusCreated, file)
}

// Remove handles DELETE /api/jobs/:job_id/files/:file_id
func (h *FileHandler) Remove(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordEntityOperation("file", "delete")

	jobID, err := paramID(c, "job_id")
	if err != nil {
		return writeError(c, log, err)
	}
	fileID, err := paramID(c, "file_id")
	if err != nil {
		return writeError(c, log, err)
	}

	ctx := tenant.FromEcho(c)
	defer prometheus.TrackDBOperation("delete")(time.Now())

	if err := h.files.Remove(ctx, jobID, fileID); err != nil {
		return writeError(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "File deleted successfully"})
}
