package model

import (
	"time"

	"gorm.io/gorm"
)

// TimeEntry is a span of labor on a job. EndedAt is nil while the entry
// is still running.
type TimeEntry struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	TenantID  uint           `json:"tenant_id" gorm:"index;not null"`
	JobID     uint           `json:"job_id" gorm:"index;not null"`
	UserID    uint           `json:"user_id" gorm:"index;not null"`
	StartedAt time.Time      `json:"started_at" gorm:"not null"`
	EndedAt   *time.Time     `json:"ended_at,omitempty"`
	Notes     string         `json:"notes" gorm:"type:text"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
