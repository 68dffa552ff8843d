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

// MaterialHandler exposes job material usage over HTTP.
type MaterialHandler struct {
	materials *service.MaterialService
}

// NewMaterialHandler builds a MaterialHandler.
func NewMaterialHandler(materials *service.MaterialService) *MaterialHandler {
	return &MaterialHandler{materials: materials}
}

// List handles GET /api/jobs/:job_id/materials
func (h *MaterialHandler) List(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordEntityOperation("material", "list")

	jobID, err := paramID(c, "job_id")
	if err != nil {
		return writeError(c, log, err)
	}

	ctx := tenant.FromEcho(c)
	defer prometheus.TrackDBOperation("query")(time.Now())

	materials, err := h.materials.List(ctx, jobID)
	if err != nil {
		return writeError(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"materials": materials})
}

// Create handles POST /api/jobs/:job_id/materials
func (h *MaterialHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordEntityOperation("material", "create")

	jobID, err := paramID(c, "job_id")
	if err != nil {
		return writeError(c, log, err)
	}

	var in service.CreateMaterialInput
	if err := c.Bind(&in); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	ctx := tenant.FromEcho(c)
	defer prometheus.TrackDBOperation("insert")(time.Now())

	material, err := h.materials.Create(ctx, jobID, in)
	if err != nil {
		return writeError(c, log, err)
	}

	log.Info("Material usage recorded",
		zap.Uint("job_id", jobID),
		zap.Uint("material_id", material.ID),
		zap.String("name", material.Name))
	return c.JSON(http.StatusCreated, material)
}

// Update handles PATCH /api/jobs/:job_id/materials/:material_id
func (h *MaterialHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordEntityOperation("material", "update")

	jobID, err := paramID(c, "job_id")
	if err != nil {
		return writeError(c, log, err)
	}
	materialID, err := paramID(c, "material_id")
	if err != nil {
		return writeError(c, log, err)
	}

	var in service.UpdateMaterialInput
	if err := c.Bind(&in); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	ctx := tenant.FromEcho(c)
	defer prometheus.TrackDBOperation("update")(time.Now())

	material, err := h.materials.Update(ctx, jobID, materialID, in)
	if err != nil {
		return writeError(c, log, err)
	}
	return c.JSON(http.StatusOK, material)
}

// Remove handles DELETE /api/jobs/:job_id/materials/:material_id
func (h *MaterialHandler) Remove(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordEntityOperation("material", "delete")

	jobID, err := paramID(c, "job_id")
	if err != nil {
		return writeError(c, log, err)
	}
	materialID, err := paramID(c, "material_id")
	if err != nil {
		return writeError(c, log, err)
	}

	ctx := tenant.FromEcho(c)
	defer prometheus.TrackDBOperation("delete")(time.Now())

	if err := h.materials.Remove(ctx, jobID, materialID); err != nil {
		return writeError(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Material usage deleted successfully"})
}
