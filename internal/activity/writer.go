// Package activity appends audit trail entries. Writes are synchronous:
// the append completes (or fails loudly) before the triggering request
// returns, so the trail never lags the mutation that produced it.
package activity

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"fieldservice/internal/model"
	"fieldservice/internal/tenant"
	"fieldservice/prometheus"
)

// Writer appends ActivityLog rows. It never updates or deletes them.
type Writer struct {
	db *gorm.DB
}

// NewWriter builds a Writer on db.
func NewWriter(db *gorm.DB) *Writer {
	return &Writer{db: db}
}

// Append records one audit entry under the context's tenant. The error is
// returned to the caller, never swallowed; whether an audit failure is
// fatal to the surrounding mutation is the caller's decision.
func (w *Writer) Append(ctx tenant.Context, entityType string, entityID uint, action string, meta map[string]interface{}) error {
	tenantID, err := ctx.Resolve()
	if err != nil {
		return err
	}

	entry := model.ActivityLog{
		TenantID:   tenantID,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Meta:       datatypes.JSONMap(meta),
	}
	if actor := ctx.ActorID(); actor != 0 {
		entry.ActorID = &actor
	}

	if err := w.db.Create(&entry).Error; err != nil {
		prometheus.RecordActivityAppendError()
		return err
	}
	return nil
}

// ListForEntity returns the trail for one entity under the context's
// tenant, newest first.
func (w *Writer) ListForEntity(ctx tenant.Context, entityType string, entityID uint) ([]model.ActivityLog, error) {
	tenantID, err := ctx.Resolve()
	if err != nil {
		return nil, err
	}

	var entries []model.ActivityLog
	result := w.db.
		Where("tenant_id = ? AND entity_type = ? AND entity_id = ?", tenantID, entityType, entityID).
		Order("created_at desc, id desc").
		Find(&entries)
	return entries, result.Error
}

// ListForTenant returns recent activity under the context's tenant,
// newest first, limited to limit rows.
func (w *Writer) ListForTenant(ctx tenant.Context, limit int) ([]model.ActivityLog, error) {
	tenantID, err := ctx.Resolve()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	var entries []model.ActivityLog
	result := w.db.
		Where("tenant_id = ?", tenantID).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&entries)
	return entries, result.Error
}
