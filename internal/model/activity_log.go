package model

import (
	"time"

	"gorm.io/datatypes"
)

// Activity actions recorded by the entity services.
const (
	ActionTaskRenamed           = "task.renamed"
	ActionTaskChecklistDetached = "task.checklist_detached"
	ActionMaterialAdjusted      = "material.adjusted"
	ActionTimeEntryUpdated      = "time_entry.updated"
	ActionFileDeleted           = "file.deleted"
)

// ActivityLog is the append-only audit trail. Rows are never updated or
// deleted by this service; EntityID is a weak reference with no foreign
// key, lookups only.
type ActivityLog struct {
	ID         uint              `json:"id" gorm:"primaryKey"`
	TenantID   uint              `json:"tenant_id" gorm:"index;not null"`
	EntityType string            `json:"entity_type" gorm:"type:varchar(64);index;not null"`
	EntityID   uint              `json:"entity_id" gorm:"index;not null"`
	Action     string            `json:"action" gorm:"type:varchar(64);index;not null"`
	ActorID    *uint             `json:"actor_id,omitempty"`
	Meta       datatypes.JSONMap `json:"meta,omitempty" gorm:"type:json"`
	CreatedAt  time.Time         `json:"created_at" gorm:"index"`
}
