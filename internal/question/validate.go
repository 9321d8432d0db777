package question

import (
	"fmt"
	"strings"
)

// Issue captures a problem that prevents deriving an answer key.
type Issue struct {
	Field   string
	Message string
}

// ValidationError reports one or more build issues for a question.
type ValidationError struct {
	QuestionID string
	Issues     []Issue
}

// Error returns a readable message for validation failures.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return ""
	}
	parts := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return fmt.Sprintf("question %s: %s", err.QuestionID, strings.Join(parts, "; "))
}

type issueCollector struct {
	questionID string
	issues     []Issue
}

func (collector *issueCollector) add(field, message string) {
	collector.issues = append(collector.issues, Issue{Field: field, Message: message})
}

func (collector *issueCollector) addf(field, format string, args ...any) {
	collector.add(field, fmt.Sprintf(format, args...))
}

func (collector *issueCollector) result() error {
	if len(collector.issues) == 0 {
		return nil
	}
	return &ValidationError{QuestionID: collector.questionID, Issues: collector.issues}
}
