package models

import (
	"time"
)

// Product is a listing offered by a seller. Price is a whole amount in the
// minor currency unit.
type Product struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	Price          int64     `gorm:"not null" json:"price"`
	Category       string    `gorm:"size:100;not null;index" json:"category"`
	Description    string    `gorm:"type:text" json:"description"`
	Location       string    `gorm:"size:255" json:"location"`
	ImageEmoji     string    `gorm:"size:16" json:"image_emoji"`
	Views          int64     `gorm:"default:0" json:"views"`
	SellerID       uint      `gorm:"not null;index" json:"seller_id"`
	Seller         *User     `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	VerifiedSeller bool      `gorm:"default:false" json:"verified_seller"`
	PostedAt       time.Time `gorm:"autoCreateTime;index" json:"posted_at"`
}

// TableName specifies the table name for Product model
func (Product) TableName() string {
	return "products"
}
