// Package verification drives seller verification from the client side:
// moderation decisions, notification delivery and the submission wizard.
package verification

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"marketplace/internal/api"
	"marketplace/internal/logging"
)

// Backend is the subset of the marketplace API the workflow uses.
// *client.Client satisfies it.
type Backend interface {
	DecideVerification(ctx context.Context, req api.DecisionRequest) (api.DecisionResponse, error)
	CreateNotification(ctx context.Context, req api.CreateNotificationRequest) (api.CreatedResponse, error)
	MarkNotificationRead(ctx context.Context, notificationID uint) error
}

// Workflow approves and rejects verification requests. The backend records
// the decision and the user's notification together; when it reports that
// the notification was not stored, the workflow queues it in the outbox.
type Workflow struct {
	backend Backend
	outbox  *Outbox
	log     *zap.Logger
}

// NewWorkflow creates a workflow. outbox may be nil, in which case a private
// one is created.
func NewWorkflow(backend Backend, outbox *Outbox, log *zap.Logger) *Workflow {
	log = logging.OrNop(log)
	if outbox == nil {
		outbox = NewOutbox(backend, log)
	}
	return &Workflow{backend: backend, outbox: outbox, log: log}
}

// Outbox returns the queue of undelivered decision notifications.
func (w *Workflow) Outbox() *Outbox {
	return w.outbox
}

// Approve moves a pending request to approved. Deciding a request that is
// no longer pending fails with *api.ConflictError.
func (w *Workflow) Approve(ctx context.Context, requestID uint) (api.DecisionResponse, error) {
	return w.decide(ctx, api.DecisionRequest{RequestID: requestID, Action: api.ActionApprove})
}

// Reject moves a pending request to rejected with a reason. An empty reason
// fails with *api.ValidationError before the backend is contacted.
func (w *Workflow) Reject(ctx context.Context, requestID uint, reason string) (api.DecisionResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return api.DecisionResponse{}, api.Invalid("rejection_reason", "is required when rejecting")
	}
	return w.decide(ctx, api.DecisionRequest{
		RequestID:       requestID,
		Action:          api.ActionReject,
		RejectionReason: reason,
	})
}

func (w *Workflow) decide(ctx context.Context, req api.DecisionRequest) (api.DecisionResponse, error) {
	resp, err := w.backend.DecideVerification(ctx, req)
	if err != nil {
		return api.DecisionResponse{}, err
	}

	if !resp.Notified {
		note := api.DecisionNotification(resp.Request.UserID, req.RequestID, resp.Request.Status, req.RejectionReason)
		w.outbox.Enqueue(note)
		w.log.Warn("Decision stored without notification, queued for delivery",
			zap.Uint("request_id", req.RequestID),
			zap.String("status", resp.Request.Status))
		if _, err := w.outbox.Flush(ctx); err != nil {
			w.log.Warn("Notification delivery deferred", zap.Error(err))
		}
	}
	return resp, nil
}

// MarkRead flags a notification as read. Repeating it is harmless.
func (w *Workflow) MarkRead(ctx context.Context, notificationID uint) error {
	return w.backend.MarkNotificationRead(ctx, notificationID)
}
