package jobs

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"marketplace/internal/logging"
)

// FetchFunc loads a fresh value for a snapshot.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Refresher keeps a Snapshot current by calling a fetch function on every
// trigger tick. Refreshes may overlap; whichever completes last is what the
// snapshot holds. A failed fetch leaves the previous value in place.
type Refresher[T any] struct {
	name     string
	fetch    FetchFunc[T]
	snapshot *Snapshot[T]
	log      *zap.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRefresher creates a refresher writing into snapshot.
func NewRefresher[T any](name string, snapshot *Snapshot[T], fetch FetchFunc[T], log *zap.Logger) *Refresher[T] {
	return &Refresher[T]{
		name:     name,
		fetch:    fetch,
		snapshot: snapshot,
		log:      logging.OrNop(log).With(zap.String("job", name)),
	}
}

// Snapshot returns the snapshot being refreshed.
func (r *Refresher[T]) Snapshot() *Snapshot[T] {
	return r.snapshot
}

// Refresh runs one fetch and stores its result on success.
func (r *Refresher[T]) Refresh(ctx context.Context) error {
	value, err := r.fetch(ctx)
	if err != nil {
		if ctx.Err() == nil {
			r.log.Warn("Refresh failed, keeping previous snapshot", zap.Error(err))
		}
		return err
	}
	r.snapshot.Set(value)
	return nil
}

// Run refreshes immediately, then once per tick until ctx is done. It waits
// for in-flight refreshes before returning and stops the trigger.
func (r *Refresher[T]) Run(ctx context.Context, trigger Trigger) {
	defer trigger.Stop()
	defer r.wg.Wait()

	r.log.Debug("Starting refresh job")
	_ = r.Refresh(ctx)

	for {
		select {
		case <-trigger.C():
			r.wg.Add(1)
			go func() {
				defer r.wg.Done()
				_ = r.Refresh(ctx)
			}()
		case <-ctx.Done():
			r.log.Debug("Stopping refresh job")
			return
		}
	}
}

// Start runs the refresher in the background until Stop is called.
func (r *Refresher[T]) Start(ctx context.Context, trigger Trigger) {
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	go func() {
		defer close(r.done)
		r.Run(ctx, trigger)
	}()
}

// Stop cancels a refresher started with Start and waits for it to exit.
func (r *Refresher[T]) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
}
