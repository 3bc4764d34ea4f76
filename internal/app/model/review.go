package model

import (
	"time"
)

// Review is an append-only fact: one per (user, restaurant) pair, enforced
// both by a pre-check in the service and by the composite unique index.
type Review struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Score        int       `gorm:"not null;check:score >= 1 AND score <= 5" json:"score"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	FoodQuality  *int      `json:"food_quality,omitempty"`
	WaitTime     *int      `json:"wait_time,omitempty"`
	Service      *int      `json:"service,omitempty"`
	PortionSize  *int      `json:"portion_size,omitempty"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_reviews_user_restaurant" json:"user_id"`
	RestaurantID uint      `gorm:"not null;uniqueIndex:idx_reviews_user_restaurant" json:"restaurant_id"`
	CreatedAt    time.Time `json:"created_at"`

	User       *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Restaurant *Restaurant `gorm:"foreignKey:RestaurantID" json:"restaurant,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}
