package live

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the session header line.
func renderHeader(state State, now time.Time, noColor bool) string {
	title := state.Title
	if title == "" {
		title = "Quiz"
	}
	line := title
	if state.SessionID != "" {
		line += " | Session " + state.SessionID
	}
	if deadline, ok := state.Deadline(); ok && !state.Finalized {
		line += " | Remaining: " + formatRemaining(deadline.Sub(now))
	} else if !state.StartedAt.IsZero() && !state.Finalized {
		line += " | Elapsed: " + now.Sub(state.StartedAt).Round(time.Second).String()
	}
	return stylize(line, noColor, lipgloss.Color("33"))
}

// renderSummary renders the status counts line.
func renderSummary(state State, noColor bool) string {
	counts := state.Counts
	line := "Answered: " + fmtInt(counts.Answered) + "/" + fmtInt(len(state.Rows)) +
		" Correct: " + fmtInt(counts.Correct) +
		" Partial: " + fmtInt(counts.Partial) +
		" Incorrect: " + fmtInt(counts.Incorrect) +
		" Unanswered: " + fmtInt(counts.Unanswered) +
		" Pending: " + fmtInt(counts.Pending) +
		" Self-graded: " + fmtInt(counts.SelfGraded)
	return stylize(line, noColor, lipgloss.Color("242"))
}

// renderScore renders the aggregate score once the attempt is submitted.
func renderScore(state State, noColor bool) string {
	if !state.HasSummary {
		return ""
	}
	summary := state.Summary
	line := "Score " + formatPoints(summary.EarnedPoints) + "/" + formatPoints(summary.TotalPoints) +
		" | " + formatPoints(summary.Percentage) + "%" +
		" | Grade " + formatPoints(summary.ScaledGrade) + "/" + formatPoints(summary.Scale)
	color := lipgloss.Color("196")
	if summary.Passed {
		line += " | passed"
		color = lipgloss.Color("42")
	} else {
		line += " | not passed"
	}
	return stylize(line, noColor, color)
}

// renderFooter renders the last event line.
func renderFooter(state State, noColor bool) string {
	if state.LastEvent == "" {
		return ""
	}
	return stylize("Last event: "+state.LastEvent, noColor, lipgloss.Color("244"))
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
