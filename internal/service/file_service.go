package service

import (
	"fieldservice/internal/activity"
	"fieldservice/internal/apperr"
	"fieldservice/internal/model"
	"fieldservice/internal/repository"
	"fieldservice/internal/tenant"
)

// FileService manages file attachment metadata under a job. Upload and
// download of the bytes happen against external object storage; this
// service only tracks the references.
type FileService struct {
	files    *repository.Scoped[model.FileAttachment]
	jobs     *JobService
	activity *activity.Writer
}

// NewFileService builds a FileService.
func NewFileService(files *repository.Scoped[model.FileAttachment], jobs *JobService, writer *activity.Writer) *FileService {
	return &FileService{files: files, jobs: jobs, activity: writer}
}

// FileSummary is the serialization-ready projection of an attachment.
type FileSummary struct {
	ID          uint   `json:"id"`
	JobID       uint   `json:"job_id"`
	Name        string `json:"name"`
	ContentType string `json:"content_type,omitempty"`
	SizeBytes   int64  `json:"size_bytes"`
	StorageKey  string `json:"storage_key"`
	UploadedBy  uint   `json:"uploaded_by"`
	CreatedAt   string `json:"created_at"`
}

// CreateFileInput is the validated shape for registering an upload.
type CreateFileInput struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	StorageKey  string `json:"storage_key"`
}

// Validate checks the input shape before any store access.
func (in *CreateFileInput) Validate() error {
	if in.Name == "" {
		return apperr.Validation("name is required")
	}
	if in.StorageKey == "" {
		return apperr.Validation("storage_key is required")
	}
	if in.SizeBytes < 0 {
		return apperr.Validation("size_bytes cannot be negative")
	}
	return nil
}

// List returns the job's attachments under the context's tenant, newest
// first.
func (s *FileService) List(ctx tenant.Context, jobID uint) ([]FileSummary, error) {
	tenantID, err := ctx.Resolve()
	if err != nil {
		return nil, err
	}
	if err := s.jobs.Verify(ctx, jobID); err != nil {
		return nil, err
	}

	records, err := s.files.FindMany(ctx,
		repository.Where("tenant_id = ? AND job_id = ?", tenantID, jobID),
		repository.Order("created_at desc, id desc"),
	)
	if err != nil {
		return nil, err
	}

	summaries := make([]FileSummary, 0, len(records))
	for i := range records {
		summaries = append(summaries, fileSummary(&records[i]))
	}
	return summaries, nil
}

// Create registers an uploaded file against the job.
func (s *FileService) Create(ctx tenant.Context, jobID uint, in CreateFileInput) (*FileSummary, error) {
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

	record := model.FileAttachment{
		TenantID:    tenantID,
		JobID:       jobID,
		Name:        in.Name,
		ContentType: in.ContentType,
		SizeBytes:   in.SizeBytes,
		StorageKey:  in.StorageKey,
		UploadedBy:  ctx.ActorID(),
	}
	if err := s.files.Create(ctx, &record); err != nil {
		return nil, err
	}

	summary := fileSummary(&record)
	return &summary, nil
}

// Remove deletes the attachment row scoped by id, job and tenant, and
// appends a deletion entry so the trail records what was removed.
func (s *FileService) Remove(ctx tenant.Context, jobID, fileID uint) error {
	tenantID, err := ctx.Resolve()
	if err != nil {
		return err
	}
	if err := s.jobs.Verify(ctx, jobID); err != nil {
		return err
	}

	record, err := s.files.FindOne(ctx, repository.Where("id = ? AND job_id = ? AND tenant_id = ?", fileID, jobID, tenantID))
	if err != nil {
		return err
	}
	if record == nil {
		return apperr.NotFound("file attachment")
	}

	rows, err := s.files.Delete(ctx, repository.Where("id = ? AND job_id = ? AND tenant_id = ?", fileID, jobID, tenantID))
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.NotFound("file attachment")
	}

	return s.activity.Append(ctx, EntityFile, record.ID, model.ActionFileDeleted, map[string]interface{}{
		"name":        record.Name,
		"storage_key": record.StorageKey,
	})
}

func fileSummary(record *model.FileAttachment) FileSummary {
	return FileSummary{
		ID:          record.ID,
		JobID:       record.JobID,
		Name:        record.Name,
		ContentType: record.ContentType,
		SizeBytes:   record.SizeBytes,
		StorageKey:  record.StorageKey,
		UploadedBy:  record.UploadedBy,
		CreatedAt:   isoTime(record.CreatedAt),
	}
}
