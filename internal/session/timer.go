package session

import (
	"context"
	"sync"
	"time"
)

// Timer finalizes a session with ReasonTimeout when its limit elapses.
type Timer struct {
	stop     chan struct{}
	done     chan struct{}
	once     sync.Once
	deadline time.Time
	expired  bool
	mu       sync.Mutex
}

// StartTimer arms the session time limit. It returns nil when the session has
// no limit. The timer stops on ctx cancellation or when the session is
// finalized by any other caller.
func (s *Session) StartTimer(ctx context.Context) *Timer {
	if s.timeLimit <= 0 {
		return nil
	}
	s.mu.Lock()
	if s.outcome != nil {
		s.mu.Unlock()
		return nil
	}
	if s.timer != nil {
		s.mu.Unlock()
		return s.timer
	}
	remaining := s.timeLimit - s.clock.Now().Sub(s.startedAt)
	timer := &Timer{
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		deadline: s.startedAt.Add(s.timeLimit),
	}
	s.timer = timer
	expiry := s.clock.After(remaining)
	s.mu.Unlock()

	go func() {
		defer close(timer.done)
		select {
		case <-ctx.Done():
		case <-timer.stop:
		case <-expiry:
			outcome := s.Finalize(ReasonTimeout)
			timer.mu.Lock()
			timer.expired = outcome.Reason == ReasonTimeout
			timer.mu.Unlock()
		}
	}()
	return timer
}

// Stop disarms the timer. It is safe to call more than once.
func (t *Timer) Stop() {
	if t == nil {
		return
	}
	t.once.Do(func() {
		close(t.stop)
	})
}

// Done is closed when the timer goroutine exits.
func (t *Timer) Done() <-chan struct{} {
	return t.done
}

// Deadline returns the wall-clock time the limit elapses.
func (t *Timer) Deadline() time.Time {
	return t.deadline
}

// Expired reports whether the limit elapsed before any other finalization.
func (t *Timer) Expired() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.expired
}
