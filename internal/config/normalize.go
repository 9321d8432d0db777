package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"quizdown/internal/diag"
)

// shortcuts maps top-level shorthand keys to their section and key.
var shortcuts = map[string][2]string{
	"title":             {"quiz", "title"},
	"subject":           {"quiz", "subject"},
	"chapter":           {"quiz", "chapter"},
	"class":             {"quiz", "class"},
	"author":            {"quiz", "author"},
	"date":              {"quiz", "date"},
	"time_limit":        {"quiz", "time_limit"},
	"shuffle_questions": {"behavior", "shuffle_questions"},
	"shuffle_answers":   {"behavior", "shuffle_answers"},
	"passing_score":     {"behavior", "passing_score"},
	"show_explanations": {"behavior", "show_explanations"},
	"allow_retry":       {"behavior", "allow_retry"},
	"scale":             {"grading", "scale"},
	"ide_url":           {"services", "ide_url"},
	"email":             {"services", "email"},
	"share_folder":      {"services", "share_folder"},
	"google_docs":       {"services", "google_docs"},
	"book_pdf":          {"book", "pdf_path"},
	"default_language":  {"code", "default_language"},
	"highlight_theme":   {"code", "highlight_theme"},
	"students":          {"roster", "students"},
	"classes":           {"roster", "classes"},
}

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
	kindBool
	kindStrings
)

// recognized lists the typed leaves that get coerced.
var recognized = map[string]valueKind{
	"quiz.title":                 kindString,
	"quiz.subject":               kindString,
	"quiz.chapter":               kindString,
	"quiz.class":                 kindString,
	"quiz.author":                kindString,
	"quiz.date":                  kindString,
	"quiz.time_limit":            kindInt,
	"behavior.shuffle_questions": kindBool,
	"behavior.shuffle_answers":   kindBool,
	"behavior.passing_score":     kindFloat,
	"behavior.show_explanations": kindBool,
	"behavior.allow_retry":       kindBool,
	"grading.scale":              kindFloat,
	"buttons.print":              kindBool,
	"buttons.export":             kindBool,
	"buttons.email":              kindBool,
	"buttons.share":              kindBool,
	"buttons.reset":              kindBool,
	"services.ide_url":           kindString,
	"services.email":             kindString,
	"services.share_folder":      kindString,
	"services.google_docs":       kindString,
	"book.pdf_path":              kindString,
	"code.default_language":      kindString,
	"code.highlight_theme":       kindString,
	"roster.classes":             kindStrings,
	"roster.students":            kindStrings,
}

// Normalize moves shorthand keys into their sections and coerces recognized
// leaves to their types. Values that cannot be coerced are dropped with a
// warning so lower-precedence sources apply.
func Normalize(tree map[string]any, source string, sink diag.Sink) map[string]any {
	out := cloneTree(tree)
	for shortcut, target := range shortcuts {
		value, ok := out[shortcut]
		if !ok {
			continue
		}
		section, ok := out[target[0]].(map[string]any)
		if !ok {
			if _, exists := out[target[0]]; exists {
				diag.Warnf(sink, diag.Location{Source: source}, "%s is not a mapping; shorthand %q ignored", target[0], shortcut)
				delete(out, shortcut)
				continue
			}
			section = map[string]any{}
			out[target[0]] = section
		}
		section[target[1]] = value
		delete(out, shortcut)
	}
	for path, kind := range recognized {
		parts := strings.SplitN(path, ".", 2)
		section, ok := out[parts[0]].(map[string]any)
		if !ok {
			continue
		}
		value, ok := section[parts[1]]
		if !ok {
			continue
		}
		coerced, err := coerce(value, kind)
		if err != nil {
			diag.Warnf(sink, diag.Location{Source: source}, "%s: %v; value ignored", path, err)
			delete(section, parts[1])
			continue
		}
		section[parts[1]] = coerced
	}
	return out
}

// resolveDate replaces quiz.date "auto" with today's date.
func resolveDate(tree map[string]any, now func() time.Time) {
	quiz, ok := tree["quiz"].(map[string]any)
	if !ok {
		return
	}
	if date, _ := quiz["date"].(string); strings.EqualFold(strings.TrimSpace(date), "auto") {
		if now == nil {
			now = time.Now
		}
		quiz["date"] = now().Format("2006-01-02")
	}
}

func coerce(value any, kind valueKind) (any, error) {
	switch kind {
	case kindString:
		switch typed := value.(type) {
		case nil:
			return "", nil
		case string:
			return typed, nil
		case map[string]any, []any:
			return nil, fmt.Errorf("expected a scalar, got %T", value)
		default:
			return fmt.Sprint(typed), nil
		}
	case kindInt:
		switch typed := value.(type) {
		case int:
			return typed, nil
		case float64:
			if typed != float64(int(typed)) {
				return nil, fmt.Errorf("expected a whole number, got %v", typed)
			}
			return int(typed), nil
		case string:
			parsed, err := strconv.Atoi(strings.TrimSpace(typed))
			if err != nil {
				return nil, fmt.Errorf("expected a whole number, got %q", typed)
			}
			return parsed, nil
		}
		return nil, fmt.Errorf("expected a whole number, got %T", value)
	case kindFloat:
		switch typed := value.(type) {
		case int:
			return float64(typed), nil
		case float64:
			return typed, nil
		case string:
			parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
			if err != nil {
				return nil, fmt.Errorf("expected a number, got %q", typed)
			}
			return parsed, nil
		}
		return nil, fmt.Errorf("expected a number, got %T", value)
	case kindBool:
		switch typed := value.(type) {
		case bool:
			return typed, nil
		case int:
			return typed != 0, nil
		case string:
			switch strings.ToLower(strings.TrimSpace(typed)) {
			case "1", "true", "yes", "on":
				return true, nil
			case "0", "false", "no", "off":
				return false, nil
			}
			return nil, fmt.Errorf("expected a boolean, got %q", typed)
		}
		return nil, fmt.Errorf("expected a boolean, got %T", value)
	case kindStrings:
		switch typed := value.(type) {
		case nil:
			return []any{}, nil
		case string:
			parts := strings.Split(typed, ",")
			out := make([]any, 0, len(parts))
			for _, part := range parts {
				if trimmed := strings.TrimSpace(part); trimmed != "" {
					out = append(out, trimmed)
				}
			}
			return out, nil
		case []any:
			out := make([]any, 0, len(typed))
			for _, item := range typed {
				switch item.(type) {
				case map[string]any, []any:
					return nil, fmt.Errorf("expected a list of names")
				}
				out = append(out, fmt.Sprint(item))
			}
			return out, nil
		}
		return nil, fmt.Errorf("expected a list, got %T", value)
	}
	return value, nil
}
