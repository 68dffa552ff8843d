package service

import (
	"time"

	"fieldservice/internal/activity"
	"fieldservice/internal/apperr"
	"fieldservice/internal/model"
	"fieldservice/internal/optional"
	"fieldservice/internal/repository"
	"fieldservice/internal/tenant"
)

// TimeEntryService manages labor time entries under a job.
type TimeEntryService struct {
	entries  *repository.Scoped[model.TimeEntry]
	jobs     *JobService
	activity *activity.Writer
}

// NewTimeEntryService builds a TimeEntryService.
func NewTimeEntryService(entries *repository.Scoped[model.TimeEntry], jobs *JobService, writer *activity.Writer) *TimeEntryService {
	return &TimeEntryService{entries: entries, jobs: jobs, activity: writer}
}

// TimeEntrySummary is the serialization-ready projection of an entry.
// EndedAt is omitted while the entry is still running.
type TimeEntrySummary struct {
	ID        uint    `json:"id"`
	JobID     uint    `json:"job_id"`
	UserID    uint    `json:"user_id"`
	StartedAt string  `json:"started_at"`
	EndedAt   *string `json:"ended_at,omitempty"`
	Notes     string  `json:"notes,omitempty"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

// CreateTimeEntryInput is the validated shape for starting an entry.
type CreateTimeEntryInput struct {
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`
	Notes     string     `json:"notes"`
}

// Validate checks the input shape before any store access.
func (in *CreateTimeEntryInput) Validate() error {
	if in.StartedAt.IsZero() {
		return apperr.Validation("started_at is required")
	}
	if in.EndedAt != nil && in.EndedAt.Before(in.StartedAt) {
		return apperr.Validation("ended_at cannot precede started_at")
	}
	return nil
}

// UpdateTimeEntryInput is the partial-update shape. A null ended_at
// reopens the entry.
type UpdateTimeEntryInput struct {
	StartedAt optional.Field[time.Time] `json:"started_at"`
	EndedAt   optional.Field[time.Time] `json:"ended_at"`
	Notes     optional.Field[string]    `json:"notes"`
}

// Validate checks the fields that were actually supplied.
func (in *UpdateTimeEntryInput) Validate() error {
	if in.StartedAt.IsNull() {
		return apperr.Validation("started_at cannot be null")
	}
	return nil
}

// List returns the job's time entries under the context's tenant, oldest
// first.
func (s *TimeEntryService) List(ctx tenant.Context, jobID uint) ([]TimeEntrySummary, error) {
	tenantID, err := ctx.Resolve()
	if err != nil {
		return nil, err
	}
	if err := s.jobs.Verify(ctx, jobID); err != nil {
		return nil, err
	}

	records, err := s.entries.FindMany(ctx,
		repository.Where("tenant_id = ? AND job_id = ?", tenantID, jobID),
		repository.Order("started_at asc, id asc"),
	)
	if err != nil {
		return nil, err
	}

	summaries := make([]TimeEntrySummary, 0, len(records))
	for i := range records {
		summaries = append(summaries, timeEntrySummary(&records[i]))
	}
	return summaries, nil
}

// Create records a time entry for the acting user against the job.
func (s *TimeEntryService) Create(ctx tenant.Context, jobID uint, in CreateTimeEntryInput) (*TimeEntrySummary, error) {
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

	record := model.TimeEntry{
		TenantID:  tenantID,
		JobID:     jobID,
		UserID:    ctx.ActorID(),
		StartedAt: in.StartedAt,
		EndedAt:   in.EndedAt,
		Notes:     in.Notes,
	}
	if err := s.entries.Create(ctx, &record); err != nil {
		return nil, err
	}

	summary := timeEntrySummary(&record)
	return &summary, nil
}

// Update applies the supplied fields to the entry. A change to the
// started or ended time appends one activity entry carrying the old and
// new values.
func (s *TimeEntryService) Update(ctx tenant.Context, jobID, entryID uint, in UpdateTimeEntryInput) (*TimeEntrySummary, error) {
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

	record, err := s.entries.FindOne(ctx, repository.Where("id = ? AND job_id = ? AND tenant_id = ?", entryID, jobID, tenantID))
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperr.NotFound("time entry")
	}

	prevStarted := record.StartedAt
	prevEnded := record.EndedAt

	if v, ok := in.StartedAt.Value(); ok {
		record.StartedAt = v
	}
	if in.EndedAt.IsSet() {
		if v, ok := in.EndedAt.Value(); ok {
			record.EndedAt = &v
		} else {
			record.EndedAt = nil
		}
	}
	if in.Notes.IsSet() {
		v, _ := in.Notes.Value()
		record.Notes = v
	}
	if record.EndedAt != nil && record.EndedAt.Before(record.StartedAt) {
		return nil, apperr.Validation("ended_at cannot precede started_at")
	}

	if err := s.entries.Save(ctx, record); err != nil {
		return nil, err
	}

	startedChanged := !record.StartedAt.Equal(prevStarted)
	endedChanged := (record.EndedAt == nil) != (prevEnded == nil) ||
		(record.EndedAt != nil && prevEnded != nil && !record.EndedAt.Equal(*prevEnded))
	if startedChanged || endedChanged {
		meta := map[string]interface{}{
			"started_from": isoTime(prevStarted),
			"started_to":   isoTime(record.StartedAt),
		}
		if prevEnded != nil {
			meta["ended_from"] = isoTime(*prevEnded)
		}
		if record.EndedAt != nil {
			meta["ended_to"] = isoTime(*record.EndedAt)
		}
		if err := s.activity.Append(ctx, EntityTimeEntry, record.ID, model.ActionTimeEntryUpdated, meta); err != nil {
			return nil, err
		}
	}

	summary := timeEntrySummary(record)
	return &summary, nil
}

// Remove deletes the entry scoped by id, job and tenant.
func (s *TimeEntryService) Remove(ctx tenant.Context, jobID, entryID uint) error {
	tenantID, err := ctx.Resolve()
	if err != nil {
		return err
	}
	if err := s.jobs.Verify(ctx, jobID); err != nil {
		return err
	}

	rows, err := s.entries.Delete(ctx, repository.Where("id = ? AND job_id = ? AND tenant_id = ?", entryID, jobID, tenantID))
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.NotFound("time entry")
	}
	return nil
}

func timeEntrySummary(record *model.TimeEntry) TimeEntrySummary {
	s := TimeEntrySummary{
		ID:        record.ID,
		JobID:     record.JobID,
		UserID:    record.UserID,
		StartedAt: isoTime(record.StartedAt),
		Notes:     record.Notes,
		CreatedAt: isoTime(record.CreatedAt),
		UpdatedAt: isoTime(record.UpdatedAt),
	}
	if record.EndedAt != nil {
		ended := isoTime(*record.EndedAt)
		s.EndedAt = &ended
	}
	return s
}
