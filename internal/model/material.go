package model

import (
	"time"

	"gorm.io/gorm"
)

// MaterialUsage records material consumed on a job: what, how much, and
// at what unit cost at the time of recording.
type MaterialUsage struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	TenantID      uint           `json:"tenant_id" gorm:"index;not null"`
	JobID         uint           `json:"job_id" gorm:"index;not null"`
	Name          string         `json:"name" gorm:"type:varchar(200);not null"`
	SKU           string         `json:"sku" gorm:"type:varchar(50);index"`
	Quantity      float64        `json:"quantity" gorm:"not null;default:0"`
	Unit          string         `json:"unit" gorm:"type:varchar(20)"`
	UnitCostCents int64          `json:"unit_cost_cents" gorm:"default:0"`
	Notes         string         `json:"notes" gorm:"type:text"`
	RecordedBy    uint           `json:"recorded_by"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}
