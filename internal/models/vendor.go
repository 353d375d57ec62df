package models

import (
	"time"

	"github.com/google/uuid"
)

// VendorPlatform внешняя экспертная сеть из каталога (GLG, AlphaSights и т.п.).
type VendorPlatform struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	Name              string     `db:"name" json:"name"`
	LogoURL           *string    `db:"logo_url" json:"logo_url"`
	Location          string     `db:"location" json:"location"`
	OverallScore      float64    `db:"overall_score" json:"overall_score"`
	AvgCostPerCallMin int        `db:"avg_cost_per_call_min" json:"avg_cost_per_call_min"`
	AvgCostPerCallMax int        `db:"avg_cost_per_call_max" json:"avg_cost_per_call_max"`
	Description       *string    `db:"description" json:"description"`
	Tags              StringList `db:"tags" json:"tags"`
	IsActive          bool       `db:"is_active" json:"is_active"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}
