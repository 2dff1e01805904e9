package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"marketplace/internal/api"
	"marketplace/internal/models"
)

// CreateVerificationRequest stores a new pending request
func (r *Repository) CreateVerificationRequest(ctx context.Context, req *models.VerificationRequest) error {
	req.Status = api.StatusPending
	return r.db.WithContext(ctx).Create(req).Error
}

// GetVerificationRequestByID retrieves a request with its owner
func (r *Repository) GetVerificationRequestByID(ctx context.Context, requestID uint) (*models.VerificationRequest, error) {
	var req models.VerificationRequest
	err := r.db.WithContext(ctx).Preload("User").First(&req, requestID).Error
	if err != nil {
		return nil, notFound(err, "verification request", requestID)
	}
	return &req, nil
}

// GetLatestVerificationRequest retrieves the most recent request of a user,
// or nil when the user never applied
func (r *Repository) GetLatestVerificationRequest(ctx context.Context, userID uint) (*models.VerificationRequest, error) {
	var req models.VerificationRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("submitted_at DESC").
		Order("id DESC").
		First(&req).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// HasPendingVerificationRequest reports whether a user has an undecided request
func (r *Repository) HasPendingVerificationRequest(ctx context.Context, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.VerificationRequest{}).
		Where("user_id = ? AND status = ?", userID, api.StatusPending).
		Count(&count).Error
	return count > 0, err
}

// ListVerificationRequests retrieves requests in a status (all when status is
// empty) with their owners, oldest first
func (r *Repository) ListVerificationRequests(ctx context.Context, status string) ([]*models.VerificationRequest, error) {
	query := r.db.WithContext(ctx).Preload("User")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []*models.VerificationRequest
	if err := query.Order("submitted_at ASC").Order("id ASC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// CountVerificationRequestsByStatus returns the number of requests per status
func (r *Repository) CountVerificationRequestsByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	err := r.db.WithContext(ctx).Model(&models.VerificationRequest{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := map[string]int64{
		api.StatusPending:  0,
		api.StatusApproved: 0,
		api.StatusRejected: 0,
	}
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// DecideVerificationRequest moves a pending request to a terminal status.
// The update only applies while the request is still pending, so two
// concurrent decisions cannot both succeed.
func (r *Repository) DecideVerificationRequest(ctx context.Context, requestID uint, status string, reason *string, reviewedAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.VerificationRequest{}).
		Where("id = ? AND status = ?", requestID, api.StatusPending).
		Updates(map[string]interface{}{
			"status":           status,
			"reviewed_at":      reviewedAt,
			"rejection_reason": reason,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		current, err := r.GetVerificationRequestByID(ctx, requestID)
		if err != nil {
			return err
		}
		return &api.ConflictError{
			Resource: "verification request",
			ID:       requestID,
			Message:  "request is already " + current.Status,
		}
	}
	return nil
}
