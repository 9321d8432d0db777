package report

import (
	"time"

	"quizdown/internal/document"
	"quizdown/internal/grading"
	"quizdown/internal/question"
	"quizdown/internal/score"
	"quizdown/internal/session"
)

// Line is one graded question as shown in a report.
type Line struct {
	ID     string         `json:"id"`
	Title  string         `json:"title,omitempty"`
	Result grading.Result `json:"result"`
}

// Attempt is the printable outcome of one graded session.
type Attempt struct {
	SessionID   string              `json:"session_id"`
	Title       string              `json:"title"`
	Reason      session.Reason      `json:"reason"`
	FinalizedAt time.Time           `json:"finalized_at"`
	Lines       []Line              `json:"questions"`
	Summary     score.Summary       `json:"summary"`
	Excluded    []document.Rejected `json:"excluded,omitempty"`
}

// Build pairs each result with its question title.
func Build(title string, specs []question.Spec, outcome session.Outcome, excluded []document.Rejected) Attempt {
	titles := make(map[string]string, len(specs))
	for _, spec := range specs {
		header := spec.Info()
		titles[header.ID] = header.Title
	}
	attempt := Attempt{
		SessionID:   outcome.SessionID,
		Title:       title,
		Reason:      outcome.Reason,
		FinalizedAt: outcome.FinalizedAt,
		Summary:     outcome.Summary,
		Excluded:    excluded,
	}
	for _, result := range outcome.Results {
		attempt.Lines = append(attempt.Lines, Line{ID: result.QuestionID, Title: titles[result.QuestionID], Result: result})
	}
	return attempt
}
