package model

import "time"

// ProfitRecord snapshots the all-time profit at a point in time
type ProfitRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Profit    float64   `gorm:"not null" json:"profit"`
	Timestamp time.Time `gorm:"column:recorded_at;not null;index" json:"timestamp"`
}
