package grading

import (
	"quizdown/internal/document"
	"quizdown/internal/question"
)

// Status is the grading state of one question.
type Status string

const (
	StatusUnanswered       Status = "unanswered"
	StatusCorrect          Status = "correct"
	StatusIncorrect        Status = "incorrect"
	StatusPartial          Status = "partial"
	StatusPendingSelfGrade Status = "pending_self_grade"
	StatusSelfGraded       Status = "self_graded"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusCorrect, StatusPartial, StatusIncorrect, StatusUnanswered, StatusPendingSelfGrade, StatusSelfGraded}

// Key is the canonical answer surfaced for review. Only the field for the
// question's kind is set.
type Key struct {
	Choice  string              `json:"choice,omitempty"`
	Choices []string            `json:"choices,omitempty"`
	Pairs   map[string]string   `json:"pairs,omitempty"`
	Order   []string            `json:"order,omitempty"`
	Blanks  map[string][]string `json:"blanks,omitempty"`
	Sample  string              `json:"sample,omitempty"`
}

// Result is the outcome of grading one response.
type Result struct {
	QuestionID string        `json:"question_id"`
	Kind       document.Kind `json:"kind"`
	Status     Status        `json:"status"`
	Earned     float64       `json:"earned"`
	Points     float64       `json:"points"`
	Correct    Key           `json:"correct"`
	SelfGrade  *float64      `json:"self_grade,omitempty"`
}

// KeyOf returns the canonical answer of spec.
func KeyOf(spec question.Spec) Key {
	switch typed := spec.(type) {
	case question.Single:
		return Key{Choice: typed.Correct}
	case question.TrueFalse:
		return Key{Choice: typed.Correct}
	case question.Multiple:
		return Key{Choices: append([]string(nil), typed.Correct...)}
	case question.Matching:
		pairs := make(map[string]string, len(typed.Correct))
		for left, right := range typed.Correct {
			pairs[left] = right
		}
		return Key{Pairs: pairs}
	case question.Ordering:
		return Key{Order: append([]string(nil), typed.Correct...)}
	case question.FillBlank:
		blanks := make(map[string][]string, len(typed.Blanks))
		for _, blank := range typed.Blanks {
			blanks[blank.ID] = append([]string(nil), blank.Alternatives...)
		}
		return Key{Blanks: blanks}
	case question.ShortAnswer:
		return Key{Sample: typed.Sample}
	}
	return Key{}
}
