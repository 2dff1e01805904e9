package models

import (
	"time"
)

// Verification levels stored on the user
const (
	VerificationLevelNone     = "none"
	VerificationLevelVerified = "verified"
)

// User represents a marketplace member who can sell items
type User struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Name              string    `gorm:"size:255;not null" json:"name"`
	Rating            float64   `gorm:"type:decimal(3,2);default:0" json:"rating"`
	Phone             string    `gorm:"size:50" json:"phone,omitempty"`
	Email             string    `gorm:"size:255" json:"email,omitempty"`
	Verified          bool      `gorm:"default:false" json:"verified"`
	VerificationLevel string    `gorm:"size:20;default:none" json:"verification_level"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}
