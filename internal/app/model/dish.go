package model

import (
	"time"

	"gorm.io/gorm"
)

type Dish struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	Name           string         `gorm:"not null" json:"name"`
	Price          float64        `gorm:"not null;check:price >= 0" json:"price"`
	Ingredients    string         `json:"ingredients"`
	IncludesDrink  bool           `gorm:"default:false" json:"includes_drink"`
	AvailableUnits int            `gorm:"default:0;check:available_units >= 0" json:"available_units"`
	RestaurantID   uint           `gorm:"index;not null" json:"restaurant_id"`
	Active         bool           `gorm:"default:true" json:"active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Restaurant *Restaurant `gorm:"foreignKey:RestaurantID" json:"restaurant,omitempty"`
}

func (Dish) TableName() string {
	return "dishes"
}
