package model

import (
	"time"

	"gorm.io/gorm"
)

// Job statuses. The service treats these as an opaque validated set.
const (
	JobStatusDraft     = "DRAFT"
	JobStatusScheduled = "SCHEDULED"
	JobStatusActive    = "ACTIVE"
	JobStatusComplete  = "COMPLETE"
	JobStatusCancelled = "CANCELLED"
)

// Job is the parent aggregate: every task, material usage, time entry and
// file attachment belongs to exactly one job, and a job belongs to exactly
// one tenant. Child access always verifies job ownership first.
type Job struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	TenantID    uint           `json:"tenant_id" gorm:"index;not null;comment:'Tenant this job belongs to'"`
	Code        string         `json:"code" gorm:"type:varchar(50);index"` // Unique per tenant, enforced on create
	Title       string         `json:"title" gorm:"type:varchar(200);not null"`
	Description string         `json:"description" gorm:"type:text"`
	Status      string         `json:"status" gorm:"type:varchar(20);index;default:'DRAFT'"`
	CustomerRef string         `json:"customer_ref" gorm:"type:varchar(100)"`
	SiteAddress string         `json:"site_address" gorm:"type:text"`
	ScheduledAt *time.Time     `json:"scheduled_at,omitempty"`
	CreatedBy   uint           `json:"created_by" gorm:"index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}
