package live

import (
	"time"

	"quizdown/internal/document"
	"quizdown/internal/grading"
	"quizdown/internal/score"
	"quizdown/internal/session"
)

// QuestionRow holds UI state for a single question.
type QuestionRow struct {
	Index     int
	ID        string
	Title     string
	Kind      document.Kind
	Answered  bool
	Graded    bool
	Status    grading.Status
	Earned    float64
	Points    float64
	UpdatedAt time.Time
}

// StatusCounts aggregates counts by status bucket.
type StatusCounts struct {
	Answered   int
	Unanswered int
	Correct    int
	Partial    int
	Incorrect  int
	Pending    int
	SelfGraded int
}

// State captures the live UI state for a grading session.
type State struct {
	SessionID  string
	Title      string
	StartedAt  time.Time
	TimeLimit  time.Duration
	Finalized  bool
	Reason     session.Reason
	Summary    score.Summary
	HasSummary bool
	LastEvent  string
	Rows       []QuestionRow
	Counts     StatusCounts
}

// Deadline returns when the time limit runs out, or false when unlimited.
func (s State) Deadline() (time.Time, bool) {
	if s.TimeLimit <= 0 || s.StartedAt.IsZero() {
		return time.Time{}, false
	}
	return s.StartedAt.Add(s.TimeLimit), true
}
