package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"marketplace/internal/models"
)

// CreateNotification stores a notification. When the notification carries a
// dedupe key that was already used, the existing row is loaded into n and
// created is false.
func (r *Repository) CreateNotification(ctx context.Context, n *models.Notification) (created bool, err error) {
	db := r.db.WithContext(ctx)

	if n.DedupeKey != nil {
		var existing models.Notification
		err := db.Where("dedupe_key = ?", *n.DedupeKey).First(&existing).Error
		if err == nil {
			*n = existing
			return false, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, err
		}
	}

	if err := db.Create(n).Error; err != nil {
		return false, err
	}
	return true, nil
}

// GetNotificationByID retrieves a notification
func (r *Repository) GetNotificationByID(ctx context.Context, notificationID uint) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.WithContext(ctx).First(&n, notificationID).Error; err != nil {
		return nil, notFound(err, "notification", notificationID)
	}
	return &n, nil
}

// ListNotifications retrieves a user's notifications, newest first
func (r *Repository) ListNotifications(ctx context.Context, userID uint, limit int) ([]*models.Notification, error) {
	var notifications []*models.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&notifications).Error

	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// CountUnreadNotifications counts a user's unread notifications
func (r *Repository) CountUnreadNotifications(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkNotificationRead sets the read flag. Marking a read notification again
// is a no-op.
func (r *Repository) MarkNotificationRead(ctx context.Context, notificationID uint) error {
	if _, err := r.GetNotificationByID(ctx, notificationID); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ?", notificationID).
		Update("is_read", true).Error
}
