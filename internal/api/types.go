// Package api holds the JSON contracts shared by the marketplace backend and
// its clients, plus the typed errors both sides use to describe failures.
package api

import "time"

// Verification request statuses. Approved and rejected are terminal.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	// StatusNone is reported by the per-user status lookup when the user has
	// never submitted a request.
	StatusNone = "none"
)

// Notification types produced by verification decisions.
const (
	NotificationVerificationApproved = "verification_approved"
	NotificationVerificationRejected = "verification_rejected"
)

// Moderation actions accepted by the verification resource.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// CategoryAll is the filter sentinel that matches every category.
const CategoryAll = "all"

// Listing is a single marketplace item as served by the listings resource.
// Price is a whole amount in the minor currency unit.
type Listing struct {
	ID          uint       `json:"id" validate:"required"`
	Title       string     `json:"title" validate:"required"`
	Price       int64      `json:"price" validate:"gte=0"`
	Category    string     `json:"category" validate:"required"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	Image       string     `json:"image"`
	Verified    bool       `json:"verified"`
	Seller      string     `json:"seller"`
	Rating      float64    `json:"rating" validate:"gte=0,lte=5"`
	Views       int64      `json:"views" validate:"gte=0"`
	PostedAt    *time.Time `json:"posted_at,omitempty"`
	Posted      string     `json:"posted,omitempty"`
}

// ListingsResponse is the body of GET on the listings resource.
type ListingsResponse struct {
	Products []Listing `json:"products" validate:"dive"`
}

// CreateListingRequest is the body of POST on the listings resource. Price
// is text because it comes straight from a form field.
type CreateListingRequest struct {
	SellerID    uint   `json:"seller_id" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Price       string `json:"price" validate:"required"`
	Category    string `json:"category" validate:"required"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location" validate:"required"`
}

// CategorySummary is a category tile with its listing count.
type CategorySummary struct {
	Name  string `json:"name" validate:"required"`
	Image string `json:"image"`
	Count int    `json:"count" validate:"gte=0"`
}

// CategoriesResponse is the body of GET on the categories resource.
type CategoriesResponse struct {
	Categories []CategorySummary `json:"categories" validate:"dive"`
}

// CreatedResponse acknowledges a create on any resource.
type CreatedResponse struct {
	ID      uint   `json:"id" validate:"required"`
	Message string `json:"message,omitempty"`
}

// VerificationRequest is a seller's application for the verified badge,
// with a read-only snapshot of the owner for the moderation view.
type VerificationRequest struct {
	ID              uint       `json:"id" validate:"required"`
	UserID          uint       `json:"user_id" validate:"required"`
	Status          string     `json:"status" validate:"oneof=pending approved rejected"`
	Phone           string     `json:"phone"`
	Email           string     `json:"email"`
	DocumentType    string     `json:"document_type,omitempty"`
	SubmittedAt     *time.Time `json:"submitted_at,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	UserName        string     `json:"user_name"`
	UserRating      float64    `json:"user_rating" validate:"gte=0,lte=5"`
}

// VerificationListResponse is the body of the admin listing of requests.
type VerificationListResponse struct {
	Requests []VerificationRequest `json:"requests" validate:"dive"`
}

// VerificationStatus is the per-user view returned when the verification
// resource is queried with a user id.
type VerificationStatus struct {
	ID                uint       `json:"id,omitempty"`
	Status            string     `json:"status" validate:"oneof=none pending approved rejected"`
	Phone             string     `json:"phone,omitempty"`
	Email             string     `json:"email,omitempty"`
	DocumentType      string     `json:"document_type,omitempty"`
	SubmittedAt       *time.Time `json:"submitted_at,omitempty"`
	ReviewedAt        *time.Time `json:"reviewed_at,omitempty"`
	RejectionReason   string     `json:"rejection_reason,omitempty"`
	UserName          string     `json:"user_name"`
	Verified          bool       `json:"verified"`
	VerificationLevel string     `json:"verification_level,omitempty"`
}

// SubmitVerificationRequest is the body of POST on the verification resource.
type SubmitVerificationRequest struct {
	UserID         uint   `json:"user_id" validate:"required"`
	Phone          string `json:"phone" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	DocumentType   string `json:"document_type" validate:"required"`
	DocumentNumber string `json:"document_number" validate:"required"`
}

// DecisionRequest is the body of PUT on the verification resource.
type DecisionRequest struct {
	RequestID       uint   `json:"request_id" validate:"required"`
	Action          string `json:"action" validate:"oneof=approve reject"`
	RejectionReason string `json:"rejection_reason,omitempty"`
}

// DecisionResponse reports a completed transition. Notified is false when the
// backend recorded the decision without delivering the user notification, in
// which case the caller owns delivery.
type DecisionResponse struct {
	Message        string              `json:"message"`
	Request        VerificationRequest `json:"request"`
	Notified       bool                `json:"notified"`
	NotificationID uint                `json:"notification_id,omitempty"`
}

// Notification is a message delivered to a user about a backend event.
type Notification struct {
	ID        uint       `json:"id" validate:"required"`
	UserID    uint       `json:"user_id,omitempty"`
	Type      string     `json:"type" validate:"required"`
	Title     string     `json:"title" validate:"required"`
	Message   string     `json:"message"`
	IsRead    bool       `json:"is_read"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// NotificationsResponse is the body of GET on the notifications resource.
type NotificationsResponse struct {
	Notifications []Notification `json:"notifications" validate:"dive"`
	UnreadCount   int            `json:"unread_count" validate:"gte=0"`
}

// CreateNotificationRequest is the body of POST on the notifications
// resource. A repeated DedupeKey returns the existing notification.
type CreateNotificationRequest struct {
	UserID    uint   `json:"user_id" validate:"required"`
	Type      string `json:"type" validate:"required"`
	Title     string `json:"title" validate:"required"`
	Message   string `json:"message" validate:"required"`
	DedupeKey string `json:"dedupe_key,omitempty"`
}

// MarkReadRequest is the body of PUT on the notifications resource.
type MarkReadRequest struct {
	NotificationID uint `json:"notification_id" validate:"required"`
}

// ErrorResponse is the body every resource returns on failure.
type ErrorResponse struct {
	Error string `json:"error"`
}
