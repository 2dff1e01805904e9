package models

import (
	"time"
)

// VerificationRequest is a user's application for the verified seller badge
type VerificationRequest struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	UserID          uint       `gorm:"not null;index" json:"user_id"`
	User            *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Status          string     `gorm:"size:20;not null;default:pending;index" json:"status"` // pending, approved, rejected
	Phone           string     `gorm:"size:50;not null" json:"phone"`
	Email           string     `gorm:"size:255;not null" json:"email"`
	DocumentType    string     `gorm:"size:50;not null" json:"document_type"`
	DocumentNumber  string     `gorm:"size:100;not null" json:"-"`
	SubmittedAt     time.Time  `gorm:"autoCreateTime" json:"submitted_at"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	RejectionReason *string    `gorm:"type:text" json:"rejection_reason,omitempty"`
}

// TableName specifies the table name for VerificationRequest model
func (VerificationRequest) TableName() string {
	return "verification_requests"
}
