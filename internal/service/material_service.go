package service

import (
	"fieldservice/internal/activity"
	"fieldservice/internal/apperr"
	"fieldservice/internal/model"
	"fieldservice/internal/optional"
	"fieldservice/internal/repository"
	"fieldservice/internal/tenant"
)

// MaterialService manages material usage records under a job.
type MaterialService struct {
	materials *repository.Scoped[model.MaterialUsage]
	jobs      *JobService
	activity  *activity.Writer
}

// NewMaterialService builds a MaterialService.
func NewMaterialService(materials *repository.Scoped[model.MaterialUsage], jobs *JobService, writer *activity.Writer) *MaterialService {
	return &MaterialService{materials: materials, jobs: jobs, activity: writer}
}

// MaterialSummary is the serialization-ready projection of a usage row.
type MaterialSummary struct {
	ID            uint    `json:"id"`
	JobID         uint    `json:"job_id"`
	Name          string  `json:"name"`
	SKU           string  `json:"sku,omitempty"`
	Quantity      float64 `json:"quantity"`
	Unit          string  `json:"unit,omitempty"`
	UnitCostCents int64   `json:"unit_cost_cents"`
	Notes         string  `json:"notes,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

// CreateMaterialInput is the validated shape for recording usage.
type CreateMaterialInput struct {
	Name          string  `json:"name"`
	SKU           string  `json:"sku"`
	Quantity      float64 `json:"quantity"`
	Unit          string  `json:"unit"`
	UnitCostCents int64   `json:"unit_cost_cents"`
	Notes         string  `json:"notes"`
}

// Validate checks the input shape before any store access.
func (in *CreateMaterialInput) Validate() error {
	if in.Name == "" {
		return apperr.Validation("name is required")
	}
	if in.Quantity < 0 {
		return apperr.Validation("quantity cannot be negative")
	}
	return nil
}

// UpdateMaterialInput is the partial-update shape.
type UpdateMaterialInput struct {
	Name          optional.Field[string]  `json:"name"`
	SKU           optional.Field[string]  `json:"sku"`
	Quantity      optional.Field[float64] `json:"quantity"`
	Unit          optional.Field[string]  `json:"unit"`
	UnitCostCents optional.Field[int64]   `json:"unit_cost_cents"`
	Notes         optional.Field[string]  `json:"notes"`
}

// Validate checks the fields that were actually supplied.
func (in *UpdateMaterialInput) Validate() error {
	if in.Name.IsNull() {
		return apperr.Validation("name cannot be null")
	}
	if v, ok := in.Name.Value(); ok && v == "" {
		return apperr.Validation("name cannot be empty")
	}
	if in.Quantity.IsNull() {
		return apperr.Validation("quantity cannot be null")
	}
	if v, ok := in.Quantity.Value(); ok && v < 0 {
		return apperr.Validation("quantity cannot be negative")
	}
	if in.UnitCostCents.IsNull() {
		return apperr.Validation("unit_cost_cents cannot be null")
	}
	return nil
}

// List returns the job's material usage under the context's tenant,
// newest first.
func (s *MaterialService) List(ctx tenant.Context, jobID uint) ([]MaterialSummary, error) {
	tenantID, err := ctx.Resolve()
	if err != nil {
		return nil, err
	}
	if err := s.jobs.Verify(ctx, jobID); err != nil {
		return nil, err
	}

	records, err := s.materials.FindMany(ctx,
		repository.Where("tenant_id = ? AND job_id = ?", tenantID, jobID),
		repository.Order("created_at desc, id desc"),
	)
	if err != nil {
		return nil, err
	}

	summaries := make([]MaterialSummary, 0, len(records))
	for i := range records {
		summaries = append(summaries, materialSummary(&records[i]))
	}
	return summaries, nil
}

// Create records material usage against the job.
func (s *MaterialService) Create(ctx tenant.Context, jobID uint, in CreateMaterialInput) (*MaterialSummary, error) {
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

	record := model.MaterialUsage{
		TenantID:      tenantID,
		JobID:         jobID,
		Name:          in.Name,
		SKU:           in.SKU,
		Quantity:      in.Quantity,
		Unit:          in.Unit,
		UnitCostCents: in.UnitCostCents,
		Notes:         in.Notes,
		RecordedBy:    ctx.ActorID(),
	}
	if err := s.materials.Create(ctx, &record); err != nil {
		return nil, err
	}

	summary := materialSummary(&record)
	return &summary, nil
}

// Update applies the supplied fields. A quantity change appends one
// activity entry carrying the old and new amounts.
func (s *MaterialService) Update(ctx tenant.Context, jobID, materialID uint, in UpdateMaterialInput) (*MaterialSummary, error) {
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

	record, err := s.materials.FindOne(ctx, repository.Where("id = ? AND job_id = ? AND tenant_id = ?", materialID, jobID, tenantID))
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperr.NotFound("material usage")
	}

	prevQuantity := record.Quantity

	if v, ok := in.Name.Value(); ok {
		record.Name = v
	}
	if in.SKU.IsSet() {
		v, _ := in.SKU.Value()
		record.SKU = v
	}
	if v, ok := in.Quantity.Value(); ok {
		record.Quantity = v
	}
	if in.Unit.IsSet() {
		v, _ := in.Unit.Value()
		record.Unit = v
	}
	if v, ok := in.UnitCostCents.Value(); ok {
		record.UnitCostCents = v
	}
	if in.Notes.IsSet() {
		v, _ := in.Notes.Value()
		record.Notes = v
	}

	if err := s.materials.Save(ctx, record); err != nil {
		return nil, err
	}

	if record.Quantity != prevQuantity {
		err := s.activity.Append(ctx, EntityMaterial, record.ID, model.ActionMaterialAdjusted, map[string]interface{}{
			"from": prevQuantity,
			"to":   record.Quantity,
		})
		if err != nil {
			return nil, err
		}
	}

	summary := materialSummary(record)
	return &summary, nil
}

// Remove deletes the usage row scoped by id, job and tenant.
func (s *MaterialService) Remove(ctx tenant.Context, jobID, materialID uint) error {
	tenantID, err := ctx.Resolve()
	if err != nil {
		return err
	}
	if err := s.jobs.Verify(ctx, jobID); err != nil {
		return err
	}

	rows, err := s.materials.Delete(ctx, repository.Where("id = ? AND job_id = ? AND tenant_id = ?", materialID, jobID, tenantID))
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.NotFound("material usage")
	}
	return nil
}

func materialSummary(record *model.MaterialUsage) MaterialSummary {
	return MaterialSummary{
		ID:            record.ID,
		JobID:         record.JobID,
		Name:          record.Name,
		SKU:           record.SKU,
		Quantity:      record.Quantity,
		Unit:          record.Unit,
		UnitCostCents: record.UnitCostCents,
		Notes:         record.Notes,
		CreatedAt:     isoTime(record.CreatedAt),
		UpdatedAt:     isoTime(record.UpdatedAt),
	}
}
