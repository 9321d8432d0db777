package grading

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadySelfGraded reports a second self-grade for the same question.
	ErrAlreadySelfGraded = errors.New("question already self-graded")
	// ErrNotPendingSelfGrade reports a self-grade for a result that awaits none.
	ErrNotPendingSelfGrade = errors.New("question is not pending self-grade")
	// ErrInvalidCoefficient reports a coefficient outside {0, 0.5, 1}.
	ErrInvalidCoefficient = errors.New("self-grade coefficient must be 0, 0.5 or 1")
)

// Coefficients lists the accepted self-grade coefficients.
var Coefficients = []float64{0, 0.5, 1}

// ValidCoefficient reports whether c is an accepted coefficient.
func ValidCoefficient(c float64) bool {
	for _, allowed := range Coefficients {
		if c == allowed {
			return true
		}
	}
	return false
}

// ApplySelfGrade moves a pending result to self_graded with earned set to
// coefficient × points. The edge can be taken once.
func ApplySelfGrade(result Result, coefficient float64) (Result, error) {
	switch result.Status {
	case StatusSelfGraded:
		return result, fmt.Errorf("%s: %w", result.QuestionID, ErrAlreadySelfGraded)
	case StatusPendingSelfGrade:
	default:
		return result, fmt.Errorf("%s is %s: %w", result.QuestionID, result.Status, ErrNotPendingSelfGrade)
	}
	if !ValidCoefficient(coefficient) {
		return result, fmt.Errorf("%s: got %v: %w", result.QuestionID, coefficient, ErrInvalidCoefficient)
	}
	applied := coefficient
	result.Status = StatusSelfGraded
	result.Earned = coefficient * result.Points
	result.SelfGrade = &applied
	return result, nil
}
