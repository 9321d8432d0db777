package live

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"quizdown/internal/grading"
)

// formatQuestionID returns the display id for a question row.
func formatQuestionID(row QuestionRow) string {
	if row.ID != "" {
		return row.ID
	}
	return formatIndex(row.Index)
}

// formatIndex formats a question index.
func formatIndex(index int) string {
	return "Q" + pad2(index+1)
}

// pad2 left-pads a number to two digits when needed.
func pad2(value int) string {
	if value >= 10 {
		return fmtInt(value)
	}
	return "0" + fmtInt(value)
}

// fmtInt converts an int to string.
func fmtInt(value int) string {
	return strconv.Itoa(value)
}

// formatPoints renders points without trailing zeros.
func formatPoints(value float64) string {
	return strconv.FormatFloat(math.Round(value*100)/100, 'f', -1, 64)
}

// formatQuestionText truncates question text for display.
func formatQuestionText(text string) string {
	normalized := strings.Join(strings.Fields(text), " ")
	if normalized == "" {
		return ""
	}
	const limit = 60
	runes := []rune(normalized)
	if len(runes) <= limit {
		return normalized
	}
	return string(runes[:limit-3]) + "..."
}

// formatStatus renders a status string for a row.
func formatStatus(row QuestionRow, noColor bool) string {
	if !row.Graded {
		if row.Answered {
			return stylizeMuted("answered", noColor)
		}
		return stylizeMuted("waiting", noColor)
	}
	return stylizeStatus(statusLabel(row.Status), row.Status, noColor)
}

// formatRowPoints renders earned/total once graded, else the total.
func formatRowPoints(row QuestionRow) string {
	if !row.Graded {
		return formatPoints(row.Points)
	}
	return formatPoints(row.Earned) + "/" + formatPoints(row.Points)
}

// statusLabel maps status codes to display labels.
func statusLabel(status grading.Status) string {
	switch status {
	case grading.StatusPendingSelfGrade:
		return "needs self-grade"
	case grading.StatusSelfGraded:
		return "self-graded"
	default:
		return string(status)
	}
}

// formatRemaining renders the time left, clamped at zero.
func formatRemaining(remaining time.Duration) string {
	if remaining <= 0 {
		return "0s"
	}
	return remaining.Round(time.Second).String()
}

// stylizeStatus applies status coloring when enabled.
func stylizeStatus(text string, status grading.Status, noColor bool) string {
	if noColor {
		return text
	}
	return statusStyle(status).Render(text)
}

// stylizeMuted applies muted styling to pre-grade states.
func stylizeMuted(text string, noColor bool) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Render(text)
}

// statusStyle selects a style for a given status.
func statusStyle(status grading.Status) lipgloss.Style {
	color := lipgloss.Color("244")
	switch status {
	case grading.StatusCorrect:
		color = lipgloss.Color("42")
	case grading.StatusPartial:
		color = lipgloss.Color("220")
	case grading.StatusIncorrect:
		color = lipgloss.Color("196")
	case grading.StatusPendingSelfGrade:
		color = lipgloss.Color("201")
	case grading.StatusSelfGraded:
		color = lipgloss.Color("39")
	case grading.StatusUnanswered:
		color = lipgloss.Color("246")
	}
	return lipgloss.NewStyle().Foreground(color)
}
