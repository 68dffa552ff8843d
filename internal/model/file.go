package model

import (
	"time"

	"gorm.io/gorm"
)

// FileAttachment is metadata for a file uploaded against a job. The bytes
// live in external object storage; this row only records the reference.
type FileAttachment struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	TenantID    uint           `json:"tenant_id" gorm:"index;not null"`
	JobID       uint           `json:"job_id" gorm:"index;not null"`
	Name        string         `json:"name" gorm:"type:varchar(255);not null"`
	ContentType string         `json:"content_type" gorm:"type:varchar(100)"`
	SizeBytes   int64          `json:"size_bytes" gorm:"default:0"`
	StorageKey  string         `json:"storage_key" gorm:"type:varchar(500);not null"`
	UploadedBy  uint           `json:"uploaded_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}
