package models

import (
	"gorm.io/gorm"
)

// Donation is a weighed quantity of surplus food referencing exactly one
// of a dish or a dish component. Immutable once created, except for its
// cached result.
type Donation struct {
	gorm.Model
	WeightKg float64 `gorm:"not null" json:"weight_kg"`

	// Exactly one of DishID and ComponentID is set.
	DishID      *uint `json:"dish_id,omitempty"`
	ComponentID *uint `json:"component_id,omitempty"`

	Dish      *Dish           `gorm:"foreignKey:DishID" json:"dish,omitempty"`
	Component *DishComponent  `gorm:"foreignKey:ComponentID" json:"component,omitempty"`
	Result    *DonationResult `gorm:"foreignKey:DonationID" json:"result,omitempty"`
}
