package service

import (
	"time"

	"fieldservice/internal/apperr"
	"fieldservice/internal/model"
	"fieldservice/internal/repository"
	"fieldservice/internal/tenant"
)

// JobService manages the parent aggregate. Child entity services call
// Verify before touching anything under a job.
type JobService struct {
	jobs *repository.Scoped[model.Job]
}

// NewJobService builds a JobService.
func NewJobService(jobs *repository.Scoped[model.Job]) *JobService {
	return &JobService{jobs: jobs}
}

// JobSummary is the serialization-ready projection of a job.
type JobSummary struct {
	ID          uint    `json:"id"`
	Code        string  `json:"code"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Status      string  `json:"status"`
	CustomerRef string  `json:"customer_ref,omitempty"`
	SiteAddress string  `json:"site_address,omitempty"`
	ScheduledAt *string `json:"scheduled_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// CreateJobInput is the validated shape for job creation.
type CreateJobInput struct {
	Code        string     `json:"code"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	CustomerRef string     `json:"customer_ref"`
	SiteAddress string     `json:"site_address"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

var jobStatuses = map[string]bool{
	model.JobStatusDraft:     true,
	model.JobStatusScheduled: true,
	model.JobStatusActive:    true,
	model.JobStatusComplete:  true,
	model.JobStatusCancelled: true,
}

// Validate checks the input shape before any store access.
func (in *CreateJobInput) Validate() error {
	if in.Title == "" {
		return apperr.Validation("title is required")
	}
	if in.Status != "" && !jobStatuses[in.Status] {
		return apperr.Validation("invalid job status %q", in.Status)
	}
	return nil
}

// Verify checks that jobID exists under the context's tenant. Returns
// NotFound when the job is absent or belongs to another tenant; callers
// cannot distinguish the two.
func (s *JobService) Verify(ctx tenant.Context, jobID uint) error {
	tenantID, err := ctx.Resolve()
	if err != nil {
		return err
	}
	job, err := s.jobs.FindOne(ctx, repository.Where("id = ? AND tenant_id = ?", jobID, tenantID))
	if err != nil {
		return err
	}
	if job == nil {
		return apperr.NotFound("job")
	}
	return nil
}

// Get returns one job under the context's tenant.
func (s *JobService) Get(ctx tenant.Context, jobID uint) (*JobSummary, error) {
	tenantID, err := ctx.Resolve()
	if err != nil {
		return nil, err
	}
	job, err := s.jobs.FindOne(ctx, repository.Where("id = ? AND tenant_id = ?", jobID, tenantID))
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apperr.NotFound("job")
	}
	summary := jobSummary(job)
	return &summary, nil
}

// List returns the tenant's jobs, newest first, optionally narrowed by
// status.
func (s *JobService) List(ctx tenant.Context, status string, limit, offset int) ([]JobSummary, error) {
	tenantID, err := ctx.Resolve()
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	scopes := []repository.Scope{
		repository.Where("tenant_id = ?", tenantID),
		repository.Order("created_at desc"),
		repository.Page(limit, offset),
	}
	if status != "" {
		scopes = append(scopes, repository.Where("status = ?", status))
	}

	jobs, err := s.jobs.FindMany(ctx, scopes...)
	if err != nil {
		return nil, err
	}

	summaries := make([]JobSummary, 0, len(jobs))
	for i := range jobs {
		summaries = append(summaries, jobSummary(&jobs[i]))
	}
	return summaries, nil
}

// Create inserts a new job under the context's tenant.
func (s *JobService) Create(ctx tenant.Context, in CreateJobInput) (*JobSummary, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	tenantID, err := ctx.Resolve()
	if err != nil {
		return nil, err
	}

	// Job codes are unique per tenant
	if in.Code != "" {
		var count int64
		err := s.jobs.DB().Model(&model.Job{}).
			Where("code = ? AND tenant_id = ?", in.Code, tenantID).
			Count(&count).Error
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, apperr.Conflict("job with code %q already exists", in.Code)
		}
	}

	status := in.Status
	if status == "" {
		status = model.JobStatusDraft
	}

	job := model.Job{
		TenantID:    tenantID,
		Code:        in.Code,
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		CustomerRef: in.CustomerRef,
		SiteAddress: in.SiteAddress,
		ScheduledAt: in.ScheduledAt,
		CreatedBy:   ctx.ActorID(),
	}
	if err := s.jobs.Create(ctx, &job); err != nil {
		return nil, err
	}

	summary := jobSummary(&job)
	return &summary, nil
}

// CountForTenant reports how many live jobs the tenant has; used for the
// jobs-per-tenant gauge.
func (s *JobService) CountForTenant(ctx tenant.Context) (int64, error) {
	tenantID, err := ctx.Resolve()
	if err != nil {
		return 0, err
	}
	var count int64
	err = s.jobs.DB().Model(&model.Job{}).Where("tenant_id = ?", tenantID).Count(&count).Error
	return count, err
}

func jobSummary(job *model.Job) JobSummary {
	s := JobSummary{
		ID:          job.ID,
		Code:        job.Code,
		Title:       job.Title,
		Description: job.Description,
		Status:      job.Status,
		CustomerRef: job.CustomerRef,
		SiteAddress: job.SiteAddress,
		CreatedAt:   isoTime(job.CreatedAt),
		UpdatedAt:   isoTime(job.UpdatedAt),
	}
	if job.ScheduledAt != nil {
		at := isoTime(*job.ScheduledAt)
		s.ScheduledAt = &at
	}
	return s
}
