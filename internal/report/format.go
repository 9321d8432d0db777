package report

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"quizdown/internal/grading"
)

func formatPoints(value float64) string {
	return strconv.FormatFloat(math.Round(value*100)/100, 'f', -1, 64)
}

func formatGrade(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}

// formatKey renders the canonical answer of a result on one line.
func formatKey(key grading.Key) string {
	switch {
	case key.Choice != "":
		return key.Choice
	case len(key.Choices) > 0:
		return strings.Join(key.Choices, ", ")
	case len(key.Pairs) > 0:
		return joinSorted(key.Pairs, func(left, right string) string { return left + " -> " + right })
	case len(key.Order) > 0:
		return strings.Join(key.Order, " > ")
	case len(key.Blanks) > 0:
		flat := make(map[string]string, len(key.Blanks))
		for id, alternatives := range key.Blanks {
			flat[id] = strings.Join(alternatives, " | ")
		}
		return joinSorted(flat, func(id, value string) string { return fmt.Sprintf("[%s] %s", id, value) })
	case key.Sample != "":
		return key.Sample
	}
	return ""
}

func joinSorted(values map[string]string, format func(key, value string) string) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, format(key, values[key]))
	}
	return strings.Join(parts, "; ")
}

func truncate(text string, limit int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-3]) + "..."
}
