package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Task statuses. Stored verbatim; list ordering sorts on the raw value.
const (
	TaskStatusPending    = "PENDING"
	TaskStatusInProgress = "IN_PROGRESS"
	TaskStatusBlocked    = "BLOCKED"
	TaskStatusDone       = "DONE"
	TaskStatusCancelled  = "CANCELLED"
)

// TaskStatuses is the accepted status set for input validation.
var TaskStatuses = map[string]bool{
	TaskStatusPending:    true,
	TaskStatusInProgress: true,
	TaskStatusBlocked:    true,
	TaskStatusDone:       true,
	TaskStatusCancelled:  true,
}

// Task is a unit of work on a job. AssigneeID and ChecklistTemplateID are
// nullable relations: a nil pointer means the relation is unset.
type Task struct {
	ID                  uint              `json:"id" gorm:"primaryKey"`
	TenantID            uint              `json:"tenant_id" gorm:"index;not null"`
	JobID               uint              `json:"job_id" gorm:"index;not null"`
	Title               string            `json:"title" gorm:"type:varchar(200);not null"`
	Status              string            `json:"status" gorm:"type:varchar(20);index;default:'PENDING'"`
	AssigneeID          *uint             `json:"assignee_id,omitempty" gorm:"index"`
	ChecklistTemplateID *uint             `json:"checklist_template_id,omitempty"`
	DueAt               *time.Time        `json:"due_at,omitempty"`
	Metadata            datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:json"`
	CreatedBy           uint              `json:"created_by"`
	UpdatedBy           uint              `json:"updated_by"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
	DeletedAt           gorm.DeletedAt    `json:"-" gorm:"index"`
}

// ChecklistTemplate is a reusable list of steps a task can be created
// from. Detaching a template from a task is an audited transition.
type ChecklistTemplate struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	TenantID  uint           `json:"tenant_id" gorm:"index;not null"`
	Name      string         `json:"name" gorm:"type:varchar(100);not null"`
	Items     datatypes.JSON `json:"items" gorm:"type:json"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
