package database

import (
	"context"
	"time"
)

// writeBackoffs is the delay schedule for transient write failures. One
// attempt is made per entry, waiting the entry's duration after a failure.
var writeBackoffs = []time.Duration{
	100 * time.Millisecond,
	250 * time.Millisecond,
	500 * time.Millisecond,
	1000 * time.Millisecond,
}

// withRetry runs fn up to once per backoff entry, sleeping the scheduled
// delay after each failed attempt. It returns nil on the first success,
// the last error once the schedule is exhausted, or the context error if
// the caller gives up mid-schedule. Reads are never routed through here.
func withRetry(ctx context.Context, backoffs []time.Duration, fn func() error) error {
	var lastErr error
	for _, delay := range backoffs {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}
