package models

import (
	"gorm.io/gorm"
)

// ComponentIngredient is one fragment of a component's composition. The
// IngredientCore is the normalized identifier used for mapping lookup.
type ComponentIngredient struct {
	gorm.Model
	ComponentID    uint   `gorm:"not null;index" json:"component_id"`
	Name           string `gorm:"not null" json:"name"`
	IngredientCore string `gorm:"not null;index" json:"ingredient_core"`
	Position       int    `gorm:"not null;default:0" json:"position"`

	// ShareOfComponent is the percentage of the component's mass this
	// ingredient represents, in [0,100]. Nil when never declared.
	ShareOfComponent *float64 `json:"share_of_component,omitempty"`

	IsWater bool `gorm:"not null;default:false" json:"is_water"`
	IsSalt  bool `gorm:"not null;default:false" json:"is_salt"`
}
