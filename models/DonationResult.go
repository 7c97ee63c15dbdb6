package models

import (
	"time"

	"gorm.io/gorm"
)

// DonationResult caches the footprint computed for a donation. It is
// derived data, recomputable at any time and safe to overwrite; the
// engine is the only writer.
type DonationResult struct {
	gorm.Model
	DonationID uint   `gorm:"not null;uniqueIndex" json:"donation_id"`
	Namespace  string `gorm:"not null" json:"namespace"`

	TotalCO2eKg    float64 `gorm:"not null" json:"total_co2e_kg"`
	TotalMassKg    float64 `gorm:"not null" json:"total_mass_kg"`
	UnmappedMassKg float64 `gorm:"not null" json:"unmapped_mass_kg"`

	ComputedAt time.Time `gorm:"not null" json:"computed_at"`
}
