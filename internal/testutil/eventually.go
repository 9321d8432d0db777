package testutil

import (
	"testing"
	"time"
)

// Eventually polls fn every interval until it returns true, failing the test
// with the formatted message once timeout elapses.
func Eventually(t testing.TB, timeout, interval time.Duration, fn func() bool, format string, args ...any) {
	t.Helper()
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for !fn() {
		select {
		case <-deadline.C:
			if format == "" {
				format = "condition not met before timeout"
			}
			t.Fatalf(format, args...)
		case <-ticker.C:
		}
	}
}

// Closed waits for ch to close or fails after timeout.
func Closed(t testing.TB, ch <-chan struct{}, timeout time.Duration, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(timeout):
		t.Fatalf("%s did not finish within %s", what, timeout)
	}
}
