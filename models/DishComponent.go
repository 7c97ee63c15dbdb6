package models

import (
	"gorm.io/gorm"
)

// DishComponent is a named part of a dish, e.g. "rice" or "sauce".
type DishComponent struct {
	gorm.Model
	DishID   uint   `gorm:"not null;index" json:"dish_id"`
	Name     string `gorm:"not null" json:"name"`
	Position int    `gorm:"not null;default:0" json:"position"`

	// PlateShare is the fraction of the dish's mass this component
	// represents, in [0,1]. Nil when the share was never declared.
	PlateShare *float64 `json:"plate_share,omitempty"`

	Ingredients []ComponentIngredient `gorm:"foreignKey:ComponentID" json:"ingredients"`
}
