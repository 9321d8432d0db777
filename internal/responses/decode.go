package responses

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"quizdown/internal/grading"
	"quizdown/internal/question"
)

// ErrShape reports a value whose shape does not fit the question kind.
var ErrShape = errors.New("response shape does not match question kind")

// Decode turns a raw YAML or JSON value into the response variant for spec.
// A nil value yields a nil response. Choice values may be option ids or
// option texts; matching and ordering values may use ids or item texts.
func Decode(spec question.Spec, value any) (grading.Response, error) {
	response, _, err := DecodeWithNotes(spec, value)
	return response, err
}

// DecodeWithNotes is Decode that also returns notes about keys it ignored,
// such as two matching keys naming the same item.
func DecodeWithNotes(spec question.Spec, value any) (grading.Response, []string, error) {
	if value == nil {
		return nil, nil, nil
	}
	switch typed := spec.(type) {
	case question.Matching:
		return decodeMatching(typed, value)
	case question.FillBlank:
		return decodeBlanks(typed, value)
	}
	response, err := decodeValue(spec, value)
	return response, nil, err
}

func decodeValue(spec question.Spec, value any) (grading.Response, error) {
	switch typed := spec.(type) {
	case question.Single:
		return decodeChoice(typed.Header, value)
	case question.TrueFalse:
		return decodeTrueFalse(typed, value)
	case question.Multiple:
		entries, err := list(value)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(entries))
		for _, entry := range entries {
			ids = append(ids, optionID(typed.Header, entry))
		}
		return grading.Choices{IDs: ids}, nil
	case question.Ordering:
		return decodeOrdering(typed, value)
	case question.ShortAnswer:
		text, ok := scalar(value)
		if !ok {
			return nil, fmt.Errorf("%w: shortanswer expects text", ErrShape)
		}
		return grading.Text{Value: text}, nil
	default:
		return nil, fmt.Errorf("unsupported question type %T", spec)
	}
}

func decodeChoice(header question.Header, value any) (grading.Response, error) {
	text, ok := scalar(value)
	if !ok {
		return nil, fmt.Errorf("%w: %s expects one option", ErrShape, header.Kind)
	}
	return grading.Choice{ID: optionID(header, text)}, nil
}

func decodeTrueFalse(spec question.TrueFalse, value any) (grading.Response, error) {
	flag, isBool := value.(bool)
	if !isBool {
		return decodeChoice(spec.Header, value)
	}
	want := "false"
	if flag {
		want = "true"
	}
	for _, option := range spec.Options {
		if truthLabel(option.Text) == want {
			return grading.Choice{ID: option.ID}, nil
		}
	}
	return grading.Choice{ID: strconv.FormatBool(flag)}, nil
}

func truthLabel(text string) string {
	switch question.NormalizeAnswerText(text) {
	case "true", "σωστό", "σωστο", "yes":
		return "true"
	case "false", "λάθοσ", "λαθοσ", "no":
		return "false"
	}
	return ""
}

// decodeMatching reads keys in sorted order. When two keys name the same left
// item, a key equal to the item id beats one matched by text; otherwise the
// first key wins.
func decodeMatching(spec question.Matching, value any) (grading.Response, []string, error) {
	mapping, ok := value.(map[string]any)
	if !ok {
		return nil, nil, fmt.Errorf("%w: matching expects a mapping", ErrShape)
	}
	matches := make(map[string]string, len(mapping))
	byID := make(map[string]bool, len(mapping))
	var notes []string
	for _, key := range sortedKeys(mapping) {
		right, ok := scalar(mapping[key])
		if !ok {
			return nil, nil, fmt.Errorf("%w: matching value for %q must be text", ErrShape, key)
		}
		left, exact := resolveItem(spec.Left, key)
		if earlierExact, seen := byID[left]; seen {
			if earlierExact || !exact {
				notes = append(notes, fmt.Sprintf("matching key %q repeats item %s and is ignored", key, left))
				continue
			}
			notes = append(notes, fmt.Sprintf("matching key %q replaces an earlier text key for item %s", key, left))
		}
		byID[left] = exact
		matches[left] = itemID(spec.Right, right)
	}
	return grading.Pairs{Matches: matches}, notes, nil
}

func decodeOrdering(spec question.Ordering, value any) (grading.Response, error) {
	untouched := false
	if mapping, ok := value.(map[string]any); ok {
		for key := range mapping {
			if key != "order" && key != "untouched" {
				return nil, fmt.Errorf("%w: unexpected ordering field %q", ErrShape, key)
			}
		}
		if flag, ok := mapping["untouched"].(bool); ok {
			untouched = flag
		}
		value = mapping["order"]
		if value == nil {
			return grading.Sequence{Untouched: untouched}, nil
		}
	}
	entries, err := list(value)
	if err != nil {
		return nil, err
	}
	items := make([]string, 0, len(entries))
	for _, entry := range entries {
		items = append(items, orderID(spec.Items, entry))
	}
	return grading.Sequence{Items: items, Untouched: untouched}, nil
}

func decodeBlanks(spec question.FillBlank, value any) (grading.Response, []string, error) {
	values := map[string]string{}
	var notes []string
	switch typed := value.(type) {
	case map[string]any:
		for _, key := range sortedKeys(typed) {
			text, ok := scalar(typed[key])
			if !ok {
				return nil, nil, fmt.Errorf("%w: blank %q must be text", ErrShape, key)
			}
			id := question.NormalizeBlankID(key)
			if _, seen := values[id]; seen {
				notes = append(notes, fmt.Sprintf("blank key %q repeats blank %s and is ignored", key, id))
				continue
			}
			values[id] = text
		}
	case []any:
		if len(typed) > len(spec.Blanks) {
			return nil, nil, fmt.Errorf("%w: %d values for %d blanks", ErrShape, len(typed), len(spec.Blanks))
		}
		for i, raw := range typed {
			text, ok := scalar(raw)
			if !ok {
				return nil, nil, fmt.Errorf("%w: blank %d must be text", ErrShape, i+1)
			}
			values[spec.Blanks[i].ID] = text
		}
	default:
		text, ok := scalar(value)
		if !ok || len(spec.Blanks) != 1 {
			return nil, nil, fmt.Errorf("%w: fillblank expects a mapping of blank ids", ErrShape)
		}
		values[spec.Blanks[0].ID] = text
	}
	return grading.Blanks{Values: values}, notes, nil
}

func optionID(header question.Header, entry string) string {
	for _, option := range header.Options {
		if strings.EqualFold(option.ID, entry) {
			return option.ID
		}
	}
	folded := question.NormalizeAnswerText(entry)
	for _, option := range header.Options {
		if question.NormalizeAnswerText(option.Text) == folded {
			return option.ID
		}
	}
	return entry
}

func itemID(items []question.MatchItem, entry string) string {
	id, _ := resolveItem(items, entry)
	return id
}

// resolveItem matches entry against item ids first, then item texts. exact
// reports an id match.
func resolveItem(items []question.MatchItem, entry string) (id string, exact bool) {
	for _, item := range items {
		if item.ID == entry {
			return item.ID, true
		}
	}
	folded := question.NormalizeAnswerText(entry)
	for _, item := range items {
		if question.NormalizeAnswerText(item.Text) == folded {
			return item.ID, false
		}
	}
	return entry, false
}

func orderID(items []question.OrderItem, entry string) string {
	for _, item := range items {
		if item.ID == entry {
			return item.ID
		}
	}
	folded := question.NormalizeAnswerText(entry)
	for _, item := range items {
		if question.NormalizeAnswerText(item.Text) == folded {
			return item.ID
		}
	}
	return entry
}

// list accepts a sequence of scalars or a comma separated string.
func list(value any) ([]string, error) {
	switch typed := value.(type) {
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			text, ok := scalar(item)
			if !ok {
				return nil, fmt.Errorf("%w: list entries must be text", ErrShape)
			}
			out = append(out, text)
		}
		return out, nil
	case string:
		var out []string
		for _, part := range strings.Split(typed, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: expected a list", ErrShape)
	}
}

func scalar(value any) (string, bool) {
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed), true
	case json.Number:
		return typed.String(), true
	case int:
		return strconv.Itoa(typed), true
	case int64:
		return strconv.FormatInt(typed, 10), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(typed), true
	default:
		return "", false
	}
}
