package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSnapshotZeroValue(t *testing.T) {
	var s Snapshot[[]string]
	value, updated := s.Get()
	assert.Nil(t, value)
	assert.True(t, updated.IsZero())
	assert.False(t, s.Loaded())

	s.Set([]string{"a"})
	value, updated = s.Get()
	assert.Equal(t, []string{"a"}, value)
	assert.False(t, updated.IsZero())
	assert.True(t, s.Loaded())
}

func TestRefreshFailureKeepsPreviousValue(t *testing.T) {
	var (
		snapshot Snapshot[int]
		fail     atomic.Bool
	)
	r := NewRefresher("counter", &snapshot, func(ctx context.Context) (int, error) {
		if fail.Load() {
			return 0, errors.New("backend down")
		}
		return 7, nil
	}, nil)

	require.NoError(t, r.Refresh(context.Background()))
	fail.Store(true)
	require.Error(t, r.Refresh(context.Background()))

	value, _ := snapshot.Get()
	assert.Equal(t, 7, value)
}

func TestRefreshFailureBeforeFirstLoadLeavesEmpty(t *testing.T) {
	var snapshot Snapshot[[]int]
	r := NewRefresher("empty", &snapshot, func(ctx context.Context) ([]int, error) {
		return nil, errors.New("unreachable")
	}, nil)

	require.Error(t, r.Refresh(context.Background()))
	assert.False(t, snapshot.Loaded())
}

func TestRunRefreshesOnEveryTick(t *testing.T) {
	var (
		snapshot Snapshot[int64]
		calls    atomic.Int64
	)
	r := NewRefresher("ticks", &snapshot, func(ctx context.Context) (int64, error) {
		return calls.Add(1), nil
	}, nil)

	trigger := NewManualTrigger()
	r.Start(context.Background(), trigger)
	defer r.Stop()

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	trigger.Fire()
	trigger.Fire()
	// the two tick refreshes may finish in either order
	require.Eventually(t, func() bool {
		v, _ := snapshot.Get()
		return calls.Load() == 3 && v >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestLastCompletedRefreshWins(t *testing.T) {
	var (
		snapshot Snapshot[string]
		mu       sync.Mutex
		calls    int
	)
	gates := []chan struct{}{nil, make(chan struct{}), make(chan struct{})}
	results := []string{"initial", "first", "second"}

	r := NewRefresher("overlap", &snapshot, func(ctx context.Context) (string, error) {
		mu.Lock()
		n := calls
		calls++
		mu.Unlock()
		if gates[n] != nil {
			<-gates[n]
		}
		return results[n], nil
	}, nil)

	trigger := NewManualTrigger()
	r.Start(context.Background(), trigger)
	defer r.Stop()

	trigger.Fire()
	trigger.Fire()
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 3
	}, time.Second, 5*time.Millisecond)

	close(gates[2])
	require.Eventually(t, func() bool {
		v, _ := snapshot.Get()
		return v == "second"
	}, time.Second, 5*time.Millisecond)

	close(gates[1])
	require.Eventually(t, func() bool {
		v, _ := snapshot.Get()
		return v == "first"
	}, time.Second, 5*time.Millisecond)
}

func TestStopWithoutStartIsNoop(t *testing.T) {
	var snapshot Snapshot[int]
	r := NewRefresher("idle", &snapshot, func(ctx context.Context) (int, error) { return 1, nil }, nil)
	r.Stop()
}

func TestTickerTriggerFires(t *testing.T) {
	trigger := NewTicker(5 * time.Millisecond)
	defer trigger.Stop()

	select {
	case <-trigger.C():
	case <-time.After(time.Second):
		t.Fatal("ticker never fired")
	}
}
