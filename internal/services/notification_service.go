package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"marketplace/internal/api"
	"marketplace/internal/logging"
	"marketplace/internal/models"
	"marketplace/internal/repository"
)

// NotificationPageSize caps how many notifications a listing returns
const NotificationPageSize = 50

type NotificationService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewNotificationService(repo *repository.Repository, log *zap.Logger) *NotificationService {
	return &NotificationService{
		repo: repo,
		log:  logging.OrNop(log),
	}
}

// List returns a user's latest notifications and the total unread count
func (s *NotificationService) List(ctx context.Context, userID uint) (api.NotificationsResponse, error) {
	if userID == 0 {
		return api.NotificationsResponse{}, api.Invalid("user_id", "is required")
	}

	records, err := s.repo.ListNotifications(ctx, userID, NotificationPageSize)
	if err != nil {
		return api.NotificationsResponse{}, fmt.Errorf("failed to list notifications: %w", err)
	}

	unread, err := s.repo.CountUnreadNotifications(ctx, userID)
	if err != nil {
		return api.NotificationsResponse{}, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	resp := api.NotificationsResponse{
		Notifications: make([]api.Notification, 0, len(records)),
		UnreadCount:   int(unread),
	}
	for _, n := range records {
		resp.Notifications = append(resp.Notifications, toAPINotification(n))
	}
	return resp, nil
}

// Create stores a notification. A repeated dedupe key returns the existing
// notification with created set to false.
func (s *NotificationService) Create(ctx context.Context, req api.CreateNotificationRequest) (id uint, created bool, err error) {
	req.DedupeKey = strings.TrimSpace(req.DedupeKey)
	if err := api.Validate(req); err != nil {
		return 0, false, err
	}

	if _, err := s.repo.GetUserByID(ctx, req.UserID); err != nil {
		return 0, false, err
	}

	n := models.Notification{
		UserID:  req.UserID,
		Type:    req.Type,
		Title:   req.Title,
		Message: req.Message,
	}
	if req.DedupeKey != "" {
		n.DedupeKey = &req.DedupeKey
	}

	created, err = s.repo.CreateNotification(ctx, &n)
	if err != nil {
		return 0, false, fmt.Errorf("failed to create notification: %w", err)
	}

	if created {
		s.log.Info("Notification created",
			zap.Uint("notification_id", n.ID),
			zap.Uint("user_id", n.UserID),
			zap.String("type", n.Type))
	}
	return n.ID, created, nil
}

// MarkRead flags a notification as read. Repeating it is harmless.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID uint) error {
	if notificationID == 0 {
		return api.Invalid("notification_id", "is required")
	}
	return s.repo.MarkNotificationRead(ctx, notificationID)
}
