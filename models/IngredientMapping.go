package models

import (
	"gorm.io/gorm"
)

// Weight states a mapping's emission factor can apply to.
const (
	WeightStateIgnore = "ignore"
	WeightStateCooked = "cooked"
	WeightStateRaw    = "raw"
)

// IngredientMapping links an ingredient core, within a mapping namespace,
// to a reference food and the conversion metadata needed to apply its
// emission factor. At most one active mapping exists per (namespace, core).
type IngredientMapping struct {
	gorm.Model
	Namespace      string `gorm:"not null;index:idx_mapping_namespace_core" json:"namespace"`
	IngredientCore string `gorm:"not null;index:idx_mapping_namespace_core" json:"ingredient_core"`

	ReferenceFoodID *uint          `json:"reference_food_id,omitempty"`
	ReferenceFood   *ReferenceFood `gorm:"foreignKey:ReferenceFoodID" json:"reference_food,omitempty"`

	WeightState string `gorm:"not null;default:cooked" json:"weight_state"`

	// YieldCookedPerRaw is the cooked-mass-per-raw-mass ratio, required
	// when WeightState is raw.
	YieldCookedPerRaw *float64 `json:"yield_cooked_per_raw,omitempty"`

	// CO2OverridePerKg short-circuits the reference food's factors.
	CO2OverridePerKg *float64 `json:"co2_override_per_kg,omitempty"`

	Active bool `gorm:"not null;default:true" json:"active"`
}
