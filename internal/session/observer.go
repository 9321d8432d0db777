package session

import (
	"time"

	"quizdown/internal/document"
	"quizdown/internal/grading"
	"quizdown/internal/score"
)

// QuestionEventType identifies a question update for observers.
type QuestionEventType string

const (
	// QuestionRecorded marks a stored or replaced response.
	QuestionRecorded QuestionEventType = "recorded"
	// QuestionGraded marks a result produced at finalization.
	QuestionGraded QuestionEventType = "graded"
	// QuestionSelfGraded marks an applied self-grade.
	QuestionSelfGraded QuestionEventType = "self_graded"
)

// QuestionInfo identifies one question of a session.
type QuestionInfo struct {
	ID     string
	Title  string
	Kind   document.Kind
	Points float64
}

// Info describes a session when it starts.
type Info struct {
	ID        string
	Title     string
	Questions []QuestionInfo
	TimeLimit time.Duration
	StartedAt time.Time
}

// QuestionEvent carries a single question update.
type QuestionEvent struct {
	SessionID     string
	QuestionIndex int
	QuestionID    string
	Type          QuestionEventType
	Result        grading.Result
	Summary       score.Summary
	EmittedAt     time.Time
}

// Outcome is the result of the one effective finalization.
type Outcome struct {
	SessionID   string
	Reason      Reason
	Results     []grading.Result
	Summary     score.Summary
	FinalizedAt time.Time
}

// Observer receives session lifecycle events. Calls are made while the
// session lock is held, so implementations must not call back into the session.
type Observer interface {
	OnSessionStart(info Info)
	OnQuestionEvent(event QuestionEvent)
	OnFinalize(outcome Outcome)
}

// Observers fans events out to several observers.
type Observers []Observer

func (o Observers) OnSessionStart(info Info) {
	for _, observer := range o {
		if observer != nil {
			observer.OnSessionStart(info)
		}
	}
}

func (o Observers) OnQuestionEvent(event QuestionEvent) {
	for _, observer := range o {
		if observer != nil {
			observer.OnQuestionEvent(event)
		}
	}
}

func (o Observers) OnFinalize(outcome Outcome) {
	for _, observer := range o {
		if observer != nil {
			observer.OnFinalize(outcome)
		}
	}
}
