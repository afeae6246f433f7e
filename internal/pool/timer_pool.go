// Package pool recycles the timers behind command timeouts, scan polling
// and emulated latency.
package pool

import (
	"context"
	"sync"
	"time"
)

var timers = sync.Pool{}

// GetTimer returns a running timer that fires after d. Hand it back with
// PutTimer once the caller is done with its channel.
func GetTimer(d time.Duration) *time.Timer {
	t, ok := timers.Get().(*time.Timer)
	if !ok {
		return time.NewTimer(d)
	}
	if t.Reset(d) {
		drain(t)
	}

	return t
}

// PutTimer stops t and recycles it. t must not be used afterwards.
func PutTimer(t *time.Timer) {
	if !t.Stop() {
		drain(t)
	}
	timers.Put(t)
}

// drain discards a pending tick so a recycled timer never reports a stale
// expiry.
func drain(t *time.Timer) {
	select {
	case <-t.C:
	default:
	}
}

// Sleep pauses for d. It returns ctx.Err() when ctx ends first; a
// non-positive d only reports ctx.Err().
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := GetTimer(d)
	defer PutTimer(t)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
