package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"fieldservice/internal/service"
	"fieldservice/internal/tenant"
	"fieldservice/pkg/logger"
	"fieldservice/prometheus"
)

// JobHandler exposes the job aggregate over HTTP.
type JobHandler struct {
	jobs *service.JobService
}

// NewJobHandler builds a JobHandler.
func NewJobHandler(jobs *service.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// List handles GET /api/jobs
func (h *JobHandler) List(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordEntityOperation("job", "list")

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page <= 0 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	ctx := tenant.FromEcho(c)
	defer prometheus.TrackDBOperation("query")(time.Now())

	jobs, err := h.jobs.List(ctx, c.QueryParam("status"), limit, (page-1)*limit)
	if err != nil {
		return writeError(c, log, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"jobs": jobs,
		"pagination": echo.Map{
			"current_page": page,
			"limit":        limit,
		},
	})
}

// Get handles GET /api/jobs/:job_id
func (h *JobHandler) Get(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordEntityOperation("job", "get")

	jobID, err := paramID(c, "job_id")
	if err != nil {
		return writeError(c, log, err)
	}

	ctx := tenant.FromEcho(c)
	defer prometheus.TrackDBOperation("query")(time.Now())

	job, err := h.jobs.Get(ctx, jobID)
	if err != nil {
		return writeError(c, log, err)
	}
	return c.JSON(http.StatusOK, job)
}

// Create handles POST /api/jobs
func (h *JobHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordEntityOperation("job", "create")

	var in service.CreateJobInput
	if err := c.Bind(&in); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	ctx := tenant.FromEcho(c)
	defer prometheus.TrackDBOperation("insert")(time.Now())

	job, err := h.jobs.Create(ctx, in)
	if err != nil {
		return writeError(c, log, err)
	}

	go h.updateJobCount(ctx)

	log.Info("Job created",
		zap.Uint("job_id", job.ID),
		zap.String("title", job.Title))
	return c.JSON(http.StatusCreated, job)
}

// updateJobCount refreshes the jobs-per-tenant gauge.
func (h *JobHandler) updateJobCount(ctx tenant.Context) {
	tenantID, ok := ctx.Peek()
	if !ok {
		return
	}
	count, err := h.jobs.CountForTenant(ctx)
	if err != nil {
		return
	}
	prometheus.UpdateJobsPerTenant(tenantID, count)
}
