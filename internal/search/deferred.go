package search

import (
	"sync"
	"time"
)

// Deferred coalesces rapid updates: Set replaces the pending value and
// restarts the delay; the value becomes visible through Value once the delay
// elapses without another Set. Dependent query parameters must read the
// deferred value, never the raw one, so a request is not fired per keystroke.
type Deferred[T any] struct {
	mu        sync.Mutex
	delay     time.Duration
	latest    T
	committed T
	timer     *time.Timer
	onCommit  func(T)
}

func NewDeferred[T any](delay time.Duration, onCommit func(T)) *Deferred[T] {
	return &Deferred[T]{delay: delay, onCommit: onCommit}
}

// Set records a new pending value and restarts the delay.
func (d *Deferred[T]) Set(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.latest = v
	if d.timer != nil {
		d.timer.Stop()
	}
	if d.delay <= 0 {
		d.commitLocked()
		return
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.commitLocked()
	})
}

// Flush commits the pending value immediately.
func (d *Deferred[T]) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.commitLocked()
}

// Value returns the last committed value.
func (d *Deferred[T]) Value() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.committed
}

// Latest returns the raw, possibly uncommitted value (for echoing back into
// an input field).
func (d *Deferred[T]) Latest() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.latest
}

func (d *Deferred[T]) commitLocked() {
	d.committed = d.latest
	d.timer = nil
	if d.onCommit != nil {
		go d.onCommit(d.committed)
	}
}
