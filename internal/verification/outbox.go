package verification

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"marketplace/internal/api"
	"marketplace/internal/jobs"
	"marketplace/internal/logging"
)

// Notifier stores notifications.
type Notifier interface {
	CreateNotification(ctx context.Context, req api.CreateNotificationRequest) (api.CreatedResponse, error)
}

// OutboxEntry is a notification waiting for acknowledgement.
type OutboxEntry struct {
	ID           uuid.UUID
	Notification api.CreateNotificationRequest
	Attempts     int
	LastError    string
}

// Outbox retries decision notifications until the backend stores them.
// Entries are keyed by dedupe key, so a decision is queued at most once and
// a retry after a lost acknowledgement cannot create a duplicate.
type Outbox struct {
	notifier Notifier
	log      *zap.Logger

	mu      sync.Mutex
	order   []string
	entries map[string]*OutboxEntry
}

// NewOutbox creates an empty outbox delivering through notifier.
func NewOutbox(notifier Notifier, log *zap.Logger) *Outbox {
	return &Outbox{
		notifier: notifier,
		log:      logging.OrNop(log),
		entries:  make(map[string]*OutboxEntry),
	}
}

// Enqueue adds a notification unless one with the same dedupe key is
// already waiting. It returns false for duplicates.
func (o *Outbox) Enqueue(note api.CreateNotificationRequest) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.entries[note.DedupeKey]; ok {
		return false
	}
	o.entries[note.DedupeKey] = &OutboxEntry{ID: uuid.New(), Notification: note}
	o.order = append(o.order, note.DedupeKey)
	return true
}

// Pending returns copies of the waiting entries in enqueue order.
func (o *Outbox) Pending() []OutboxEntry {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]OutboxEntry, 0, len(o.order))
	for _, key := range o.order {
		out = append(out, *o.entries[key])
	}
	return out
}

// Len returns the number of waiting entries.
func (o *Outbox) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.order)
}

// Flush tries to deliver every waiting entry once and returns how many were
// acknowledged. Entries the backend rejects as invalid or addressed to a
// missing user are dropped; transport and server failures stay queued. The
// returned error joins the failures that remain queued.
func (o *Outbox) Flush(ctx context.Context) (int, error) {
	var (
		delivered int
		errs      []error
	)
	for _, entry := range o.Pending() {
		key := entry.Notification.DedupeKey
		_, err := o.notifier.CreateNotification(ctx, entry.Notification)
		switch {
		case err == nil:
			o.remove(key)
			delivered++
			o.log.Info("Queued notification delivered",
				zap.String("dedupe_key", key),
				zap.Int("attempts", entry.Attempts+1))
		case api.IsValidation(err) || api.IsNotFound(err):
			o.remove(key)
			o.log.Error("Dropping undeliverable notification",
				zap.String("dedupe_key", key),
				zap.Error(err))
		default:
			o.recordFailure(key, err)
			errs = append(errs, err)
		}
		if ctx.Err() != nil {
			break
		}
	}
	return delivered, errors.Join(errs...)
}

// Run flushes the outbox on every trigger tick until ctx is done.
func (o *Outbox) Run(ctx context.Context, trigger jobs.Trigger) {
	defer trigger.Stop()
	for {
		select {
		case <-trigger.C():
			if o.Len() == 0 {
				continue
			}
			if _, err := o.Flush(ctx); err != nil && ctx.Err() == nil {
				o.log.Warn("Outbox flush incomplete", zap.Int("pending", o.Len()), zap.Error(err))
			}
		case <-ctx.Done():
			return
		}
	}
}

func (o *Outbox) remove(key string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	delete(o.entries, key)
	for i, k := range o.order {
		if k == key {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
}

func (o *Outbox) recordFailure(key string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if entry, ok := o.entries[key]; ok {
		entry.Attempts++
		entry.LastError = err.Error()
	}
}
