// Package jobs runs periodic background work: snapshot refreshes and
// outbox retries. Work is paced by a Trigger so tests can drive it by hand.
package jobs

import "time"

// Trigger delivers ticks that start one round of work.
type Trigger interface {
	C() <-chan time.Time
	Stop()
}

type tickerTrigger struct {
	ticker *time.Ticker
}

// NewTicker returns a Trigger that fires every d.
func NewTicker(d time.Duration) Trigger {
	return &tickerTrigger{ticker: time.NewTicker(d)}
}

func (t *tickerTrigger) C() <-chan time.Time { return t.ticker.C }

func (t *tickerTrigger) Stop() { t.ticker.Stop() }

// ManualTrigger fires only when Fire is called.
type ManualTrigger struct {
	ch chan time.Time
}

// NewManualTrigger returns an unbuffered manual trigger. Fire blocks until
// the consumer receives the tick.
func NewManualTrigger() *ManualTrigger {
	return &ManualTrigger{ch: make(chan time.Time)}
}

func (m *ManualTrigger) C() <-chan time.Time { return m.ch }

// Fire delivers one tick.
func (m *ManualTrigger) Fire() {
	m.ch <- time.Now()
}

// Stop is a no-op; the consumer stops via its context.
func (m *ManualTrigger) Stop() {}
