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

// TaskHandler exposes job tasks over HTTP.
type TaskHandler struct {
	tasks *service.TaskService
}

// NewTaskHandler builds a TaskHandler.
func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// List handles GET /api/jobs/:job_id/tasks
func (h *TaskHandler) List(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordEntityOperation("task", "list")

	jobID, err := paramID(c, "job_id")
	if err != nil {
		return writeError(c, log, err)
	}

	filters := service.TaskFilters{Status: c.QueryParam("status")}
	if raw := c.QueryParam("assignee_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid assignee_id"})
		}
		assignee := uint(id)
		filters.AssigneeID = &assignee
	}

	ctx := tenant.FromEcho(c)
	defer prometheus.TrackDBOperation("query")(time.Now())

	tasks, err := h.tasks.List(ctx, jobID, filters)
	if err != nil {
		return writeError(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"tasks": tasks})
}

// Create handles POST /api/jobs/:job_id/tasks
func (h *TaskHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordEntityOperation("task", "create")

	jobID, err := paramID(c, "job_id")
	if err != nil {
		return writeError(c, log, err)
	}

	var in service.CreateTaskInput
	if err := c.Bind(&in); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	ctx := tenant.FromEcho(c)
	defer prometheus.TrackDBOperation("insert")(time.Now())

	task, err := h.tasks.Create(ctx, jobID, in)
	if err != nil {
		return writeError(c, log, err)
	}

	log.Info("Task created",
		zap.Uint("job_id", jobID),
		zap.Uint("task_id", task.ID),
		zap.String("title", task.Title))
	return c.JSON(http.StatusCreated, task)
}

// Update handles PATCH /api/jobs/:job_id/tasks/:task_id
func (h *TaskHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordEntityOperation("task", "update")

	jobID, err := paramID(c, "job_id")
	if err != nil {
		return writeError(c, log, err)
	}
	taskID, err := paramID(c, "task_id")
	if err != nil {
		return writeError(c, log, err)
	}

	var in service.UpdateTaskInput
	if err := c.Bind(&in); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	ctx := tenant.FromEcho(c)
	defer prometheus.TrackDBOperation("update")(time.Now())

	task, err := h.tasks.Update(ctx, jobID, taskID, in)
	if err != nil {
		return writeError(c, log, err)
	}

	log.Info("Task updated",
		zap.Uint("job_id", jobID),
		zap.Uint("task_id", taskID))
	return c.JSON(http.StatusOK, task)
}

// Remove handles DELETE /api/jobs/:job_id/tasks/:task_id
func (h *TaskHandler) Remove(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordEntityOperation("task", "delete")

	jobID, err := paramID(c, "job_id")
	if err != nil {
		return writeError(c, log, err)
	}
	taskID, err := paramID(c, "task_id")
	if err != nil {
		return writeError(c, log, err)
	}

	ctx := tenant.FromEcho(c)
	defer prometheus.TrackDBOperation("delete")(time.Now())

	if err := h.tasks.Remove(ctx, jobID, taskID); err != nil {
		return writeError(c, log, err)
	}

	log.Info("Task deleted",
		zap.Uint("job_id", jobID),
		zap.Uint("task_id", taskID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Task deleted successfully"})
}
