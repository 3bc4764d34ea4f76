package model

import (
	"time"

	"gorm.io/gorm"
)

type PriceTier string // general price bracket shown on listings

const (
	PriceEconomic PriceTier = "economic"
	PriceModerate PriceTier = "moderate"
	PricePremium  PriceTier = "premium"
)

type Restaurant struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	Name           string         `gorm:"not null" json:"name"`
	Location       string         `gorm:"not null" json:"location"`
	PriceTier      PriceTier      `gorm:"type:varchar(20);not null" json:"price_tier"`
	CuisineType    string         `gorm:"not null" json:"cuisine_type"`
	AvgWaitMinutes int            `gorm:"default:20" json:"avg_wait_minutes"`
	OpeningTime    string         `gorm:"type:varchar(32)" json:"opening_time"` // stored raw, normalized on read
	ClosingTime    string         `gorm:"type:varchar(32)" json:"closing_time"`
	OfferCount     int            `gorm:"default:0" json:"offer_count"`
	VendorID       uint           `gorm:"index;not null" json:"vendor_id"`
	Active         bool           `gorm:"default:true" json:"active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Vendor *User  `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	Dishes []Dish `gorm:"foreignKey:RestaurantID" json:"dishes,omitempty"`
}

func (Restaurant) TableName() string {
	return "restaurants"
}
