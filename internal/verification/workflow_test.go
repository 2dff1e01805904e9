package verification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"marketplace/internal/api"
	"marketplace/internal/jobs"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeBackend keeps verification requests and notifications in memory.
type fakeBackend struct {
	mu sync.Mutex

	requests      map[uint]*api.VerificationRequest
	notifications map[string]api.CreateNotificationRequest
	read          map[uint]bool

	decideCalls int
	createCalls int
	skipNotify  bool
	createErr   error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		requests: map[uint]*api.VerificationRequest{
			1: {ID: 1, UserID: 10, Status: api.StatusPending},
			2: {ID: 2, UserID: 20, Status: api.StatusPending},
		},
		notifications: map[string]api.CreateNotificationRequest{},
		read:          map[uint]bool{},
	}
}

func (f *fakeBackend) DecideVerification(ctx context.Context, req api.DecisionRequest) (api.DecisionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decideCalls++

	r, ok := f.requests[req.RequestID]
	if !ok {
		return api.DecisionResponse{}, &api.NotFoundError{Resource: "verification request", ID: req.RequestID}
	}
	if r.Status != api.StatusPending {
		return api.DecisionResponse{}, &api.ConflictError{Resource: "verification request", ID: r.ID, Message: "request is already " + r.Status}
	}
	if req.Action == api.ActionApprove {
		r.Status = api.StatusApproved
	} else {
		r.Status = api.StatusRejected
		r.RejectionReason = req.RejectionReason
	}

	resp := api.DecisionResponse{Message: "ok", Request: *r}
	if !f.skipNotify {
		note := api.DecisionNotification(r.UserID, r.ID, r.Status, r.RejectionReason)
		f.notifications[note.DedupeKey] = note
		resp.Notified = true
	}
	return resp, nil
}

func (f *fakeBackend) CreateNotification(ctx context.Context, req api.CreateNotificationRequest) (api.CreatedResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++

	if f.createErr != nil {
		return api.CreatedResponse{}, f.createErr
	}
	f.notifications[req.DedupeKey] = req
	return api.CreatedResponse{ID: uint(len(f.notifications)), Message: "created"}, nil
}

func (f *fakeBackend) MarkNotificationRead(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.read[id] = true
	return nil
}

func (f *fakeBackend) setCreateErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createErr = err
}

func (f *fakeBackend) notificationCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.notifications)
}

func TestApproveNotifiesOwner(t *testing.T) {
	backend := newFakeBackend()
	w := NewWorkflow(backend, nil, nil)

	resp, err := w.Approve(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, api.StatusApproved, resp.Request.Status)
	assert.True(t, resp.Notified)

	note, ok := backend.notifications[api.DecisionDedupeKey(1, api.StatusApproved)]
	require.True(t, ok)
	assert.Equal(t, uint(10), note.UserID)
	assert.Equal(t, api.NotificationVerificationApproved, note.Type)
	assert.Zero(t, w.Outbox().Len())
}

func TestApproveDecidedRequestConflicts(t *testing.T) {
	backend := newFakeBackend()
	w := NewWorkflow(backend, nil, nil)

	_, err := w.Reject(context.Background(), 1, "blurry photo")
	require.NoError(t, err)
	require.Equal(t, 1, backend.notificationCount())

	_, err = w.Approve(context.Background(), 1)
	var conflict *api.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, 1, backend.notificationCount())
	assert.Equal(t, 0, backend.createCalls)
	assert.Equal(t, api.StatusRejected, backend.requests[1].Status)
}

func TestRejectRequiresReason(t *testing.T) {
	for _, reason := range []string{"", "   ", "\t\n"} {
		backend := newFakeBackend()
		w := NewWorkflow(backend, nil, nil)

		_, err := w.Reject(context.Background(), 1, reason)
		var validation *api.ValidationError
		require.ErrorAs(t, err, &validation, "reason %q", reason)
		assert.Equal(t, "rejection_reason", validation.Field)
		assert.Zero(t, backend.decideCalls)
		assert.Equal(t, api.StatusPending, backend.requests[1].Status)
	}
}

func TestRejectMessageCarriesReason(t *testing.T) {
	backend := newFakeBackend()
	w := NewWorkflow(backend, nil, nil)

	resp, err := w.Reject(context.Background(), 2, "  document expired ")
	require.NoError(t, err)
	assert.Equal(t, "document expired", resp.Request.RejectionReason)

	note := backend.notifications[api.DecisionDedupeKey(2, api.StatusRejected)]
	assert.Equal(t, api.NotificationVerificationRejected, note.Type)
	assert.Contains(t, note.Message, "document expired")
}

func TestUnnotifiedDecisionIsDeliveredFromOutbox(t *testing.T) {
	backend := newFakeBackend()
	backend.skipNotify = true
	w := NewWorkflow(backend, nil, nil)

	_, err := w.Approve(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, backend.notificationCount())
	assert.Zero(t, w.Outbox().Len())
}

func TestOutboxRetriesUntilAcknowledged(t *testing.T) {
	backend := newFakeBackend()
	backend.skipNotify = true
	backend.setCreateErr(errors.New("connection refused"))
	w := NewWorkflow(backend, nil, nil)

	_, err := w.Reject(context.Background(), 2, "name mismatch")
	require.NoError(t, err)
	require.Equal(t, 1, w.Outbox().Len())
	assert.Equal(t, 1, w.Outbox().Pending()[0].Attempts)
	assert.Zero(t, backend.notificationCount())

	ctx, cancel := context.WithCancel(context.Background())
	trigger := jobs.NewManualTrigger()
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Outbox().Run(ctx, trigger)
	}()

	trigger.Fire()
	backend.setCreateErr(nil)
	trigger.Fire()
	require.Eventually(t, func() bool { return w.Outbox().Len() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
	assert.Equal(t, 1, backend.notificationCount())
}

func TestOutboxDropsUndeliverableEntries(t *testing.T) {
	backend := newFakeBackend()
	backend.setCreateErr(&api.NotFoundError{Resource: "user", ID: 99})
	o := NewOutbox(backend, nil)

	o.Enqueue(api.DecisionNotification(99, 5, api.StatusApproved, ""))
	delivered, err := o.Flush(context.Background())
	require.NoError(t, err)
	assert.Zero(t, delivered)
	assert.Zero(t, o.Len())
}

func TestOutboxEnqueueIsKeyedByDecision(t *testing.T) {
	o := NewOutbox(newFakeBackend(), nil)

	assert.True(t, o.Enqueue(api.DecisionNotification(10, 1, api.StatusApproved, "")))
	assert.False(t, o.Enqueue(api.DecisionNotification(10, 1, api.StatusApproved, "")))
	assert.True(t, o.Enqueue(api.DecisionNotification(20, 2, api.StatusRejected, "x")))

	pending := o.Pending()
	require.Len(t, pending, 2)
	assert.NotEqual(t, pending[0].ID, pending[1].ID)
	assert.Equal(t, api.DecisionDedupeKey(1, api.StatusApproved), pending[0].Notification.DedupeKey)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	backend := newFakeBackend()
	w := NewWorkflow(backend, nil, nil)

	require.NoError(t, w.MarkRead(context.Background(), 3))
	require.NoError(t, w.MarkRead(context.Background(), 3))
	assert.True(t, backend.read[3])
	assert.Equal(t, api.StatusPending, backend.requests[1].Status)
}
