package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"fieldservice/internal/activity"
	"fieldservice/internal/tenant"
	"fieldservice/pkg/logger"
	"fieldservice/prometheus"
)

// ActivityHandler exposes the audit trail, read-only.
type ActivityHandler struct {
	writer *activity.Writer
}

// NewActivityHandler builds an ActivityHandler.
func NewActivityHandler(writer *activity.Writer) *ActivityHandler {
	return &ActivityHandler{writer: writer}
}

// List handles GET /api/activity. Optional entity_type and entity_id
// query parameters narrow the trail to one entity.
func (h *ActivityHandler) List(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordEntityOperation("activity", "list")

	ctx := tenant.FromEcho(c)
	defer prometheus.TrackDBOperation("query")(time.Now())

	entityType := c.QueryParam("entity_type")
	if entityType != "" {
		entityID, err := strconv.ParseUint(c.QueryParam("entity_id"), 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid entity_id"})
		}
		entries, err := h.writer.ListForEntity(ctx, entityType, uint(entityID))
		if err != nil {
			return writeError(c, log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"activity": entries})
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	entries, err := h.writer.ListForTenant(ctx, limit)
	if err != nil {
		return writeError(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"activity": entries})
}
