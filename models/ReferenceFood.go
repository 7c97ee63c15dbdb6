package models

import (
	"gorm.io/gorm"
)

// ReferenceFood is a reference row carrying CO2-equivalent factors. At
// least one factor should be present for a mapping to be usable.
type ReferenceFood struct {
	gorm.Model
	Name string `gorm:"not null" json:"name"`

	CO2ePerKg   *float64 `json:"co2e_per_kg,omitempty"`
	CO2ePer100g *float64 `json:"co2e_per_100g,omitempty"`
}
