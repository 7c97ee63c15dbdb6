package models

import (
	"gorm.io/gorm"
)

// Dish is a single menu occurrence. A dish has no intrinsic weight; donated
// mass is attributed to its components via their plate shares.
type Dish struct {
	gorm.Model
	Name       string          `gorm:"not null" json:"name"`
	Notes      string          `gorm:"type:text" json:"notes"`
	Components []DishComponent `gorm:"foreignKey:DishID" json:"components"`
}
