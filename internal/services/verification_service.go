package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"marketplace/internal/api"
	"marketplace/internal/logging"
	"marketplace/internal/models"
	"marketplace/internal/repository"
)

type VerificationService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewVerificationService(repo *repository.Repository, log *zap.Logger) *VerificationService {
	return &VerificationService{
		repo: repo,
		log:  logging.OrNop(log),
		now:  time.Now,
	}
}

// Submit files a pending verification request for a user
func (s *VerificationService) Submit(ctx context.Context, req api.SubmitVerificationRequest) (uint, error) {
	req.Phone = strings.TrimSpace(req.Phone)
	req.Email = strings.TrimSpace(req.Email)
	req.DocumentType = strings.TrimSpace(req.DocumentType)
	req.DocumentNumber = strings.TrimSpace(req.DocumentNumber)

	if err := api.Validate(req); err != nil {
		return 0, err
	}

	if _, err := s.repo.GetUserByID(ctx, req.UserID); err != nil {
		return 0, err
	}

	record := models.VerificationRequest{
		UserID:         req.UserID,
		Phone:          req.Phone,
		Email:          req.Email,
		DocumentType:   req.DocumentType,
		DocumentNumber: req.DocumentNumber,
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		pending, err := tx.HasPendingVerificationRequest(ctx, req.UserID)
		if err != nil {
			return err
		}
		if pending {
			return &api.ConflictError{Resource: "verification request", Message: "pending request already exists"}
		}

		if err := tx.CreateVerificationRequest(ctx, &record); err != nil {
			return fmt.Errorf("failed to create verification request: %w", err)
		}

		return tx.UpdateUserContacts(ctx, req.UserID, req.Phone, req.Email)
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("Verification request submitted",
		zap.Uint("request_id", record.ID),
		zap.Uint("user_id", record.UserID))
	return record.ID, nil
}

// StatusForUser reports the latest request of a user, or status "none"
func (s *VerificationService) StatusForUser(ctx context.Context, userID uint) (api.VerificationStatus, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return api.VerificationStatus{}, err
	}

	status := api.VerificationStatus{
		Status:            api.StatusNone,
		UserName:          user.Name,
		Verified:          user.Verified,
		VerificationLevel: user.VerificationLevel,
	}

	latest, err := s.repo.GetLatestVerificationRequest(ctx, userID)
	if err != nil {
		return api.VerificationStatus{}, err
	}
	if latest == nil {
		return status, nil
	}

	submitted := latest.SubmittedAt
	status.ID = latest.ID
	status.Status = latest.Status
	status.Phone = latest.Phone
	status.Email = latest.Email
	status.DocumentType = latest.DocumentType
	status.SubmittedAt = &submitted
	status.ReviewedAt = latest.ReviewedAt
	if latest.RejectionReason != nil {
		status.RejectionReason = *latest.RejectionReason
	}
	return status, nil
}

// List returns requests in a status (all when empty), oldest first
func (s *VerificationService) List(ctx context.Context, status string) ([]api.VerificationRequest, error) {
	switch status {
	case "", api.StatusPending, api.StatusApproved, api.StatusRejected:
	default:
		return nil, api.Invalid("status", "unknown status %q", status)
	}

	records, err := s.repo.ListVerificationRequests(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list verification requests: %w", err)
	}

	out := make([]api.VerificationRequest, 0, len(records))
	for _, r := range records {
		out = append(out, toAPIVerificationRequest(r))
	}
	return out, nil
}

// ListPending returns the moderation queue
func (s *VerificationService) ListPending(ctx context.Context) ([]api.VerificationRequest, error) {
	return s.List(ctx, api.StatusPending)
}

// Counts returns the number of requests per status
func (s *VerificationService) Counts(ctx context.Context) (map[string]int64, error) {
	return s.repo.CountVerificationRequestsByStatus(ctx)
}

// Decide applies a moderation decision
func (s *VerificationService) Decide(ctx context.Context, req api.DecisionRequest) (api.DecisionResponse, error) {
	if err := api.Validate(req); err != nil {
		return api.DecisionResponse{}, err
	}
	if req.Action == api.ActionApprove {
		return s.Approve(ctx, req.RequestID)
	}
	return s.Reject(ctx, req.RequestID, req.RejectionReason)
}

// Approve grants the verified badge. The request must be pending.
func (s *VerificationService) Approve(ctx context.Context, requestID uint) (api.DecisionResponse, error) {
	return s.decide(ctx, requestID, api.StatusApproved, "")
}

// Reject declines a pending request. A non-blank reason is required.
func (s *VerificationService) Reject(ctx context.Context, requestID uint, reason string) (api.DecisionResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return api.DecisionResponse{}, api.Invalid("rejection_reason", "is required when rejecting")
	}
	return s.decide(ctx, requestID, api.StatusRejected, reason)
}

// decide records the transition, the badge change and the user notification
// in one transaction.
func (s *VerificationService) decide(ctx context.Context, requestID uint, status, reason string) (api.DecisionResponse, error) {
	var (
		request      *models.VerificationRequest
		notification models.Notification
	)

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		var reasonPtr *string
		if status == api.StatusRejected {
			reasonPtr = &reason
		}

		if err := tx.DecideVerificationRequest(ctx, requestID, status, reasonPtr, s.now()); err != nil {
			return err
		}

		var err error
		request, err = tx.GetVerificationRequestByID(ctx, requestID)
		if err != nil {
			return err
		}

		if status == api.StatusApproved {
			if err := tx.MarkUserVerified(ctx, request.UserID); err != nil {
				return fmt.Errorf("failed to mark user verified: %w", err)
			}
			// reload so the snapshot reflects the new badge
			if request, err = tx.GetVerificationRequestByID(ctx, requestID); err != nil {
				return err
			}
		}

		template := api.DecisionNotification(request.UserID, request.ID, status, reason)
		notification = models.Notification{
			UserID:    template.UserID,
			Type:      template.Type,
			Title:     template.Title,
			Message:   template.Message,
			DedupeKey: &template.DedupeKey,
		}
		if _, err := tx.CreateNotification(ctx, &notification); err != nil {
			return fmt.Errorf("failed to create notification: %w", err)
		}
		return nil
	})
	if err != nil {
		return api.DecisionResponse{}, err
	}

	s.log.Info("Verification request decided",
		zap.Uint("request_id", request.ID),
		zap.Uint("user_id", request.UserID),
		zap.String("status", status),
		zap.Uint("notification_id", notification.ID))

	action := api.ActionApprove
	if status == api.StatusRejected {
		action = api.ActionReject
	}
	return api.DecisionResponse{
		Message:        fmt.Sprintf("Request %sd successfully", action),
		Request:        toAPIVerificationRequest(request),
		Notified:       true,
		NotificationID: notification.ID,
	}, nil
}
