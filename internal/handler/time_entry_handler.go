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

// TimeEntryHandler exposes job time entries over HTTP.
type TimeEntryHandler struct {
	entries *service.TimeEntryService
}

// NewTimeEntryHandler builds a TimeEntryHandler.
func NewTimeEntryHandler(entries *service.TimeEntryService) *TimeEntryHandler {
	return &TimeEntryHandler{entries: entries}
}

// List handles GET /api/jobs/:job_id/time-entries
func (h *TimeEntryHandler) List(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordEntityOperation("time_entry", "list")

	jobID, err := paramID(c, "job_id")
	if err != nil {
		return writeError(c, log, err)
	}

	ctx := tenant.FromEcho(c)
	defer prometheus.TrackDBOperation("query")(time.Now())

	entries, err := h.entries.List(ctx, jobID)
	if err != nil {
		return writeError(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"time_entries": entries})
}

// Create handles POST /api/jobs/:job_id/time-entries
func (h *TimeEntryHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordEntityOperation("time_entry", "create")

	jobID, err := paramID(c, "job_id")
	if err != nil {
		return writeError(c, log, err)
	}

	var in service.CreateTimeEntryInput
	if err := c.Bind(&in); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	ctx := tenant.FromEcho(c)
	defer prometheus.TrackDBOperation("insert")(time.Now())

	entry, err := h.entries.Create(ctx, jobID, in)
	if err != nil {
		return writeError(c, log, err)
	}

	log.Info("Time entry recorded",
		zap.Uint("job_id", jobID),
		zap.Uint("entry_id", entry.ID))
	return c.JSON(http.StatusCreated, entry)
}

// Update handles PATCH /api/jobs/:job_id/time-entries/:entry_id
func (h *TimeEntryHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordEntityOperation("time_entry", "update")

	jobID, err := paramID(c, "job_id")
	if err != nil {
		return writeError(c, log, err)
	}
	entryID, err := paramID(c, "entry_id")
	if err != nil {
		return writeError(c, log, err)
	}

	var in service.UpdateTimeEntryInput
	if err := c.Bind(&in); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	ctx := tenant.FromEcho(c)
	defer prometheus.TrackDBOperation("update")(time.Now())

	entry, err := h.entries.Update(ctx, jobID, entryID, in)
	if err != nil {
		return writeError(c, log, err)
	}
	return c.JSON(http.StatusOK, entry)
}

// Remove handles DELETE /api/jobs/:job_id/time-entries/:entry_id
func (h *TimeEntryHandler) Remove(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordEntityOperation("time_entry", "delete")

	jobID, err := paramID(c, "job_id")
	if err != nil {
		return writeError(c, log, err)
	}
	entryID, err := paramID(c, "entry_id")
	if err != nil {
		return writeError(c, log, err)
	}

	ctx := tenant.FromEcho(c)
	defer prometheus.TrackDBOperation("delete")(time.Now())

	if err := h.entries.Remove(ctx, jobID, entryID); err != nil {
		return writeError(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Time entry deleted successfully"})
}
