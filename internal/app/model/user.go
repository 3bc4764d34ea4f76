package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string // application role, also selects the database principal

const (
	RoleConsumer      UserRole = "consumer"      // diners browsing and reviewing
	RoleVendor        UserRole = "vendor"        // restaurant owners
	RoleAdministrator UserRole = "administrator" // back-office
)

// ValidRole reports whether s is one of the closed set of assignable roles.
// Unknown role strings are rejected at the boundary, never mapped.
func ValidRole(s string) bool {
	switch UserRole(s) {
	case RoleConsumer, RoleVendor, RoleAdministrator:
		return true
	}
	return false
}

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	Surname      string         `gorm:"not null" json:"surname"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Role         UserRole       `gorm:"type:varchar(20);not null" json:"role"`
	Active       bool           `gorm:"default:true" json:"active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Restaurants []Restaurant `gorm:"foreignKey:VendorID" json:"restaurants,omitempty"`
}

func (User) TableName() string {
	return "users"
}
