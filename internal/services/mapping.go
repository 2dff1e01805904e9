package services

import (
	"fmt"
	"time"

	"marketplace/internal/api"
	"marketplace/internal/models"
)

func toAPIListing(p *models.Product, now time.Time) api.Listing {
	posted := p.PostedAt
	l := api.Listing{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price,
		Category:    p.Category,
		Description: p.Description,
		Location:    p.Location,
		Image:       p.ImageEmoji,
		Verified:    p.VerifiedSeller,
		Views:       p.Views,
		PostedAt:    &posted,
		Posted:      PostedLabel(posted, now),
	}
	if p.Seller != nil {
		l.Seller = p.Seller.Name
		l.Rating = p.Seller.Rating
	}
	return l
}

func toAPIVerificationRequest(r *models.VerificationRequest) api.VerificationRequest {
	submitted := r.SubmittedAt
	out := api.VerificationRequest{
		ID:           r.ID,
		UserID:       r.UserID,
		Status:       r.Status,
		Phone:        r.Phone,
		Email:        r.Email,
		DocumentType: r.DocumentType,
		SubmittedAt:  &submitted,
		ReviewedAt:   r.ReviewedAt,
	}
	if r.RejectionReason != nil {
		out.RejectionReason = *r.RejectionReason
	}
	if r.User != nil {
		out.UserName = r.User.Name
		out.UserRating = r.User.Rating
	}
	return out
}

func toAPINotification(n *models.Notification) api.Notification {
	created := n.CreatedAt
	return api.Notification{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: &created,
	}
}

// PostedLabel renders how long ago a listing was posted
func PostedLabel(posted, now time.Time) string {
	days := int(now.Sub(posted).Hours() / 24)
	switch {
	case days <= 0:
		return "today"
	case days == 1:
		return "1 day ago"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 14:
		return "1 week ago"
	default:
		return fmt.Sprintf("%d weeks ago", days/7)
	}
}
