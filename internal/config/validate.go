package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"quizdown/internal/diag"
	"quizdown/internal/spec"
)

// Issue captures a validation problem with a config field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates config validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error renders validation errors as a multi-line string.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the typed config against its field constraints.
func Validate(cfg spec.Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validate config: %w", err)
	}
	issues := make([]Issue, 0, len(fieldErrors))
	for _, fieldErr := range fieldErrors {
		issues = append(issues, Issue{Field: fieldPath(fieldErr), Message: describe(fieldErr)})
	}
	return &ValidationError{Issues: issues}
}

// revertInvalid replaces each invalid field with its default value.
func revertInvalid(cfg spec.Config, defaults map[string]any, sink diag.Sink) spec.Config {
	err := Validate(cfg)
	if err == nil {
		return cfg
	}
	validationErr, ok := err.(*ValidationError)
	if !ok {
		diag.Warnf(sink, diag.Location{Source: "config"}, "%v", err)
		return cfg
	}
	tree := cloneTree(cfg.Raw)
	for _, issue := range validationErr.Issues {
		diag.Warnf(sink, diag.Location{Source: "config"}, "%s %s; using default", issue.Field, issue.Message)
		path := strings.Split(issue.Field, ".")
		if value, ok := lookupPath(defaults, path); ok {
			setPath(tree, path, cloneValue(value))
		}
	}
	reverted, decodeErr := spec.Decode(tree)
	if decodeErr != nil {
		diag.Warnf(sink, diag.Location{Source: "config"}, "%v", decodeErr)
		return cfg
	}
	return reverted
}

func fieldPath(fieldErr validator.FieldError) string {
	parts := strings.Split(fieldErr.Namespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return strings.Join(parts, ".")
}

func describe(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "gt":
		return fmt.Sprintf("must be > %s", fieldErr.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", fieldErr.Param())
	case "lte":
		return fmt.Sprintf("must be <= %s", fieldErr.Param())
	case "url":
		return "must be a valid URL"
	case "email":
		return "must be a valid email address"
	default:
		return fmt.Sprintf("failed rule %q", fieldErr.Tag())
	}
}

func lookupPath(tree map[string]any, path []string) (any, bool) {
	var current any = tree
	for _, key := range path {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = node[key]; !ok {
			return nil, false
		}
	}
	return current, true
}

func setPath(tree map[string]any, path []string, value any) {
	node := tree
	for _, key := range path[:len(path)-1] {
		next, ok := node[key].(map[string]any)
		if !ok {
			next = map[string]any{}
			node[key] = next
		}
		node = next
	}
	node[path[len(path)-1]] = value
}
