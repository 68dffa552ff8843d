package service

import (
	"time"

	"gorm.io/datatypes"

	"fieldservice/internal/activity"
	"fieldservice/internal/apperr"
	"fieldservice/internal/model"
	"fieldservice/internal/optional"
	"fieldservice/internal/repository"
	"fieldservice/internal/tenant"
)

// taskOrder is the fixed list ordering: status, then due date with open
// ends last, then creation time, all ascending.
const taskOrder = "status asc, due_at asc nulls last, created_at asc, id asc"

// TaskService manages tasks under a job.
type TaskService struct {
	tasks    *repository.Scoped[model.Task]
	users    *repository.Scoped[model.User]
	jobs     *JobService
	activity *activity.Writer
}

// NewTaskService builds a TaskService.
func NewTaskService(tasks *repository.Scoped[model.Task], users *repository.Scoped[model.User], jobs *JobService, writer *activity.Writer) *TaskService {
	return &TaskService{tasks: tasks, users: users, jobs: jobs, activity: writer}
}

// TaskSummary is the serialization-ready projection of a task. Absent
// optional relations are omitted from the JSON, not rendered as null.
type TaskSummary struct {
	ID                  uint                   `json:"id"`
	JobID               uint                   `json:"job_id"`
	Title               string                 `json:"title"`
	Status              string                 `json:"status"`
	AssigneeID          *uint                  `json:"assignee_id,omitempty"`
	AssigneeName        string                 `json:"assignee_name,omitempty"`
	ChecklistTemplateID *uint                  `json:"checklist_template_id,omitempty"`
	DueAt               *string                `json:"due_at,omitempty"`
	Metadata            map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt           string                 `json:"created_at"`
	UpdatedAt           string                 `json:"updated_at"`
}

// TaskFilters narrows List results. Zero values mean no filter.
type TaskFilters struct {
	Status     string
	AssigneeID *uint
}

// CreateTaskInput is the validated shape for task creation. Optional
// relations are linked only when the corresponding field is present.
type CreateTaskInput struct {
	Title               string                 `json:"title"`
	Status              string                 `json:"status"`
	AssigneeID          *uint                  `json:"assignee_id"`
	ChecklistTemplateID *uint                  `json:"checklist_template_id"`
	DueAt               *time.Time             `json:"due_at"`
	Metadata            map[string]interface{} `json:"metadata"`
}

// Validate checks the input shape before any store access.
func (in *CreateTaskInput) Validate() error {
	if in.Title == "" {
		return apperr.Validation("title is required")
	}
	if in.Status != "" && !model.TaskStatuses[in.Status] {
		return apperr.Validation("invalid task status %q", in.Status)
	}
	return nil
}

// UpdateTaskInput is the partial-update shape. Field presence, not
// truthiness, decides whether a field is touched: an absent field leaves
// the stored value alone, an explicit null clears a nullable relation.
type UpdateTaskInput struct {
	Title               optional.Field[string]                 `json:"title"`
	Status              optional.Field[string]                 `json:"status"`
	AssigneeID          optional.Field[uint]                   `json:"assignee_id"`
	ChecklistTemplateID optional.Field[uint]                   `json:"checklist_template_id"`
	DueAt               optional.Field[time.Time]              `json:"due_at"`
	Metadata            optional.Field[map[string]interface{}] `json:"metadata"`
}

// Validate checks the fields that were actually supplied.
func (in *UpdateTaskInput) Validate() error {
	if in.Title.IsNull() {
		return apperr.Validation("title cannot be null")
	}
	if v, ok := in.Title.Value(); ok && v == "" {
		return apperr.Validation("title cannot be empty")
	}
	if in.Status.IsNull() {
		return apperr.Validation("status cannot be null")
	}
	if v, ok := in.Status.Value(); ok && !model.TaskStatuses[v] {
		return apperr.Validation("invalid task status %q", v)
	}
	return nil
}

// List returns the job's tasks under the context's tenant in the fixed
// order, after verifying the job belongs to that tenant.
func (s *TaskService) List(ctx tenant.Context, jobID uint, filters TaskFilters) ([]TaskSummary, error) {
	tenantID, err := ctx.Resolve()
	if err != nil {
		return nil, err
	}
	if err := s.jobs.Verify(ctx, jobID); err != nil {
		return nil, err
	}

	scopes := []repository.Scope{
		repository.Where("tenant_id = ? AND job_id = ?", tenantID, jobID),
		repository.Order(taskOrder),
	}
	if filters.Status != "" {
		scopes = append(scopes, repository.Where("status = ?", filters.Status))
	}
	if filters.AssigneeID != nil {
		scopes = append(scopes, repository.Where("assignee_id = ?", *filters.AssigneeID))
	}

	tasks, err := s.tasks.FindMany(ctx, scopes...)
	if err != nil {
		return nil, err
	}

	names, err := s.assigneeNames(ctx, tasks)
	if err != nil {
		return nil, err
	}

	summaries := make([]TaskSummary, 0, len(tasks))
	for i := range tasks {
		summaries = append(summaries, taskSummary(&tasks[i], names))
	}
	return summaries, nil
}

// Create inserts a task under the job, linking optional relations only
// when the input carries them and defaulting status to PENDING.
func (s *TaskService) Create(ctx tenant.Context, jobID uint, in CreateTaskInput) (*TaskSummary, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	tenantID, err := ctx.Resolve()
	if err != nil {
		return nil, err
	}
	if err := s.jobs.Verify(ctx, jobID); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = model.TaskStatusPending
	}

	task := model.Task{
		TenantID:  tenantID,
		JobID:     jobID,
		Title:     in.Title,
		Status:    status,
		CreatedBy: ctx.ActorID(),
		UpdatedBy: ctx.ActorID(),
	}
	if in.AssigneeID != nil {
		task.AssigneeID = in.AssigneeID
	}
	if in.ChecklistTemplateID != nil {
		task.ChecklistTemplateID = in.ChecklistTemplateID
	}
	if in.DueAt != nil {
		task.DueAt = in.DueAt
	}
	if in.Metadata != nil {
		task.Metadata = datatypes.JSONMap(in.Metadata)
	}

	if err := s.tasks.Create(ctx, &task); err != nil {
		return nil, err
	}
	return s.summarize(ctx, &task)
}

// Update applies the supplied fields to the task, then diffs the before
// and after snapshots: a checklist template transitioning from set to
// unset and a title change each append exactly one activity entry.
func (s *TaskService) Update(ctx tenant.Context, jobID, taskID uint, in UpdateTaskInput) (*TaskSummary, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	tenantID, err := ctx.Resolve()
	if err != nil {
		return nil, err
	}
	if err := s.jobs.Verify(ctx, jobID); err != nil {
		return nil, err
	}

	task, err := s.tasks.FindOne(ctx, repository.Where("id = ? AND job_id = ? AND tenant_id = ?", taskID, jobID, tenantID))
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, apperr.NotFound("task")
	}

	prevTitle := task.Title
	prevTemplate := task.ChecklistTemplateID

	if v, ok := in.Title.Value(); ok {
		task.Title = v
	}
	if v, ok := in.Status.Value(); ok {
		task.Status = v
	}
	if in.AssigneeID.IsSet() {
		if v, ok := in.AssigneeID.Value(); ok {
			task.AssigneeID = &v
		} else {
			task.AssigneeID = nil
		}
	}
	if in.ChecklistTemplateID.IsSet() {
		if v, ok := in.ChecklistTemplateID.Value(); ok {
			task.ChecklistTemplateID = &v
		} else {
			task.ChecklistTemplateID = nil
		}
	}
	if in.DueAt.IsSet() {
		if v, ok := in.DueAt.Value(); ok {
			task.DueAt = &v
		} else {
			task.DueAt = nil
		}
	}
	if in.Metadata.IsSet() {
		if v, ok := in.Metadata.Value(); ok {
			task.Metadata = datatypes.JSONMap(v)
		} else {
			task.Metadata = nil
		}
	}
	task.UpdatedBy = ctx.ActorID()

	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, err
	}

	if prevTemplate != nil && task.ChecklistTemplateID == nil {
		err := s.activity.Append(ctx, EntityTask, task.ID, model.ActionTaskChecklistDetached, map[string]interface{}{
			"checklist_template_id": *prevTemplate,
		})
		if err != nil {
			return nil, err
		}
	}
	if task.Title != prevTitle {
		err := s.activity.Append(ctx, EntityTask, task.ID, model.ActionTaskRenamed, map[string]interface{}{
			"from": prevTitle,
			"to":   task.Title,
		})
		if err != nil {
			return nil, err
		}
	}

	return s.summarize(ctx, task)
}

// Remove deletes the task scoped by id, job and tenant. A delete that
// matches nothing is reported as NotFound, not as a store error.
func (s *TaskService) Remove(ctx tenant.Context, jobID, taskID uint) error {
	tenantID, err := ctx.Resolve()
	if err != nil {
		return err
	}
	if err := s.jobs.Verify(ctx, jobID); err != nil {
		return err
	}

	rows, err := s.tasks.Delete(ctx, repository.Where("id = ? AND job_id = ? AND tenant_id = ?", taskID, jobID, tenantID))
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.NotFound("task")
	}
	return nil
}

func (s *TaskService) summarize(ctx tenant.Context, task *model.Task) (*TaskSummary, error) {
	names, err := s.assigneeNames(ctx, []model.Task{*task})
	if err != nil {
		return nil, err
	}
	summary := taskSummary(task, names)
	return &summary, nil
}

// assigneeNames resolves assignee display names for a batch of tasks in
// one query.
func (s *TaskService) assigneeNames(ctx tenant.Context, tasks []model.Task) (map[uint]string, error) {
	ids := make([]uint, 0, len(tasks))
	seen := make(map[uint]bool)
	for i := range tasks {
		if id := tasks[i].AssigneeID; id != nil && !seen[*id] {
			seen[*id] = true
			ids = append(ids, *id)
		}
	}
	names := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	tenantID, err := ctx.Resolve()
	if err != nil {
		return nil, err
	}
	users, err := s.users.FindMany(ctx, repository.Where("id IN ? AND tenant_id = ?", ids, tenantID))
	if err != nil {
		return nil, err
	}
	for i := range users {
		names[users[i].ID] = users[i].Name
	}
	return names, nil
}

func taskSummary(task *model.Task, names map[uint]string) TaskSummary {
	s := TaskSummary{
		ID:        task.ID,
		JobID:     task.JobID,
		Title:     task.Title,
		Status:    task.Status,
		CreatedAt: isoTime(task.CreatedAt),
		UpdatedAt: isoTime(task.UpdatedAt),
	}
	if task.AssigneeID != nil {
		s.AssigneeID = task.AssigneeID
		s.AssigneeName = names[*task.AssigneeID]
	}
	if task.ChecklistTemplateID != nil {
		s.ChecklistTemplateID = task.ChecklistTemplateID
	}
	if task.DueAt != nil {
		due := isoTime(*task.DueAt)
		s.DueAt = &due
	}
	if task.Metadata != nil {
		s.Metadata = map[string]interface{}(task.Metadata)
	}
	return s
}
