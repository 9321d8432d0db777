package question

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeAnswerText trims, composes and case-folds text for comparison.
func NormalizeAnswerText(value string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(value)))
}

// NormalizeBlankID maps "blank01", "01" and "1" to "1".
func NormalizeBlankID(id string) string {
	id = strings.TrimSpace(strings.ToLower(id))
	id = strings.TrimPrefix(id, "blank")
	if n, err := strconv.Atoi(id); err == nil && n >= 0 {
		return strconv.Itoa(n)
	}
	return id
}
