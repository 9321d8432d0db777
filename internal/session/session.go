package session

import (
	"fmt"
	"sync"
	"time"

	"quizdown/internal/grading"
	"quizdown/internal/question"
)

// Options configures a Session.
type Options struct {
	ID           string
	Title        string
	Scale        float64
	PassingScore float64
	TimeLimit    time.Duration
	Engine       *grading.Engine
	Observer     Observer
	Clock        Clock
}

// Session serializes operations on a State so manual submission, timer
// expiry and self-grading can arrive from different goroutines.
type Session struct {
	mu        sync.Mutex
	id        string
	state     State
	engine    *grading.Engine
	observer  Observer
	clock     Clock
	timeLimit time.Duration
	startedAt time.Time
	outcome   *Outcome
	selfGrade map[string]struct{}
	timer     *Timer
}

// New opens a session over specs.
func New(specs []question.Spec, opts Options) (*Session, error) {
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock
	}
	id := opts.ID
	if id == "" {
		generated, err := NewID(clock.Now())
		if err != nil {
			return nil, fmt.Errorf("session id: %w", err)
		}
		id = generated
	}
	engine := opts.Engine
	if engine == nil {
		engine = grading.NewEngine()
	}
	s := &Session{
		id:        id,
		state:     NewState(specs, opts.Scale, opts.PassingScore),
		engine:    engine,
		observer:  opts.Observer,
		clock:     clock,
		timeLimit: opts.TimeLimit,
		startedAt: clock.Now(),
		selfGrade: map[string]struct{}{},
	}
	if s.observer != nil {
		questions := make([]QuestionInfo, len(specs))
		for i, spec := range specs {
			header := spec.Info()
			questions[i] = QuestionInfo{ID: header.ID, Title: header.Title, Kind: header.Kind, Points: header.Points}
		}
		s.observer.OnSessionStart(Info{ID: id, Title: opts.Title, Questions: questions, TimeLimit: opts.TimeLimit, StartedAt: s.startedAt})
	}
	return s, nil
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Snapshot returns the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Finalized reports whether the session has been submitted.
func (s *Session) Finalized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome != nil
}

// Record stores a response. Responses are rejected after finalization.
func (s *Session) Record(id string, response grading.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := Record(s.state, id, response)
	if err != nil {
		return err
	}
	s.state = next
	if s.observer != nil {
		index, _ := next.Index(id)
		s.observer.OnQuestionEvent(QuestionEvent{SessionID: s.id, QuestionIndex: index, QuestionID: id, Type: QuestionRecorded, EmittedAt: s.clock.Now()})
	}
	return nil
}

// Finalize grades and aggregates once. Later calls, whatever their reason,
// return the recorded outcome without regrading; its summary reflects any
// self-grades applied since.
func (s *Session) Finalize(reason Reason) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outcome != nil {
		return s.copyOutcome()
	}
	s.state = Finalize(s.state, s.engine, reason)
	s.outcome = &Outcome{
		SessionID:   s.id,
		Reason:      reason,
		Results:     s.state.Results,
		Summary:     s.state.Summary,
		FinalizedAt: s.clock.Now(),
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	if s.observer != nil {
		for index, result := range s.state.Results {
			s.observer.OnQuestionEvent(QuestionEvent{SessionID: s.id, QuestionIndex: index, QuestionID: result.QuestionID, Type: QuestionGraded, Result: result, EmittedAt: s.outcome.FinalizedAt})
		}
		s.observer.OnFinalize(s.copyOutcome())
	}
	return s.copyOutcome()
}

// Outcome returns the finalization outcome, if any.
func (s *Session) Outcome() (Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outcome == nil {
		return Outcome{}, false
	}
	return s.copyOutcome(), true
}

// SelfGrade resolves a pending shortanswer. Each question id accepts one
// self-grade; a second attempt fails with grading.ErrAlreadySelfGraded and
// leaves the summary unchanged.
func (s *Session) SelfGrade(id string, coefficient float64) (grading.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, done := s.selfGrade[id]; done {
		index, _ := s.state.Index(id)
		return s.state.Results[index], fmt.Errorf("%s: %w", id, grading.ErrAlreadySelfGraded)
	}
	next, result, err := SelfGrade(s.state, id, coefficient)
	if err != nil {
		return result, err
	}
	s.state = next
	s.selfGrade[id] = struct{}{}
	if s.observer != nil {
		index, _ := next.Index(id)
		s.observer.OnQuestionEvent(QuestionEvent{SessionID: s.id, QuestionIndex: index, QuestionID: id, Type: QuestionSelfGraded, Result: result, Summary: next.Summary, EmittedAt: s.clock.Now()})
	}
	return result, nil
}

// Remaining reports the time left before the limit, or false when unlimited.
func (s *Session) Remaining() (time.Duration, bool) {
	if s.timeLimit <= 0 {
		return 0, false
	}
	remaining := s.timeLimit - s.clock.Now().Sub(s.startedAt)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}

// copyOutcome returns the outcome with the latest summary. Callers hold mu.
func (s *Session) copyOutcome() Outcome {
	outcome := *s.outcome
	outcome.Results = append([]grading.Result(nil), s.state.Results...)
	outcome.Summary = s.state.Summary
	return outcome
}
