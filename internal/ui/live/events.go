package live

import "quizdown/internal/session"

// EventKind identifies the type of live UI event.
type EventKind int

const (
	// EventSessionStart signals the start of a grading session.
	EventSessionStart EventKind = iota
	// EventQuestion delivers a question update.
	EventQuestion
	// EventFinalize signals the one effective submission.
	EventFinalize
)

// Event carries a UI update payload.
type Event struct {
	Kind     EventKind
	Session  session.Info
	Question session.QuestionEvent
	Outcome  session.Outcome
}
