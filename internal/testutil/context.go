package testutil

import (
	"context"
	"testing"
	"time"
)

// DefaultTimeout bounds tests that wait on session timers or observers.
const DefaultTimeout = 5 * time.Second

// Context returns a context cancelled at test cleanup or after timeout,
// whichever comes first. A non-positive timeout selects DefaultTimeout.
func Context(t testing.TB, timeout time.Duration) context.Context {
	t.Helper()
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if dt, hasDeadline := t.(interface{ Deadline() (time.Time, bool) }); hasDeadline {
		if deadline, ok := dt.Deadline(); ok {
			if remaining := time.Until(deadline) - time.Second; remaining > 0 && remaining < timeout {
				timeout = remaining
			}
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}
