package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"quizdown/internal/diag"
	"quizdown/internal/grading"
	"quizdown/internal/session"
)

// Options controls text rendering.
type Options struct {
	NoColor bool
	// ShowKey prints the canonical answer under questions not fully correct.
	ShowKey bool
}

// RenderText writes a human readable summary of an attempt.
func RenderText(w io.Writer, attempt Attempt, opts Options) error {
	var b strings.Builder
	title := attempt.Title
	if title == "" {
		title = "Quiz"
	}
	b.WriteString(style(opts.NoColor, lipgloss.NewStyle().Bold(true)).Render(title))
	if attempt.SessionID != "" {
		b.WriteString("  (session " + attempt.SessionID + ")")
	}
	b.WriteString("\n")
	if attempt.Reason == session.ReasonTimeout {
		b.WriteString(style(opts.NoColor, lipgloss.NewStyle().Foreground(lipgloss.Color("220"))).Render("Submitted automatically: time limit reached"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for _, line := range attempt.Lines {
		result := line.Result
		status := fmt.Sprintf("%-18s", statusLabel(result.Status))
		fmt.Fprintf(&b, "  %-8s %-12s %s %s/%s  %s\n",
			line.ID,
			result.Kind,
			statusStyle(result.Status, opts.NoColor).Render(status),
			formatPoints(result.Earned),
			formatPoints(result.Points),
			truncate(line.Title, 48),
		)
		if opts.ShowKey && result.Status != grading.StatusCorrect && result.Status != grading.StatusSelfGraded {
			if key := formatKey(result.Correct); key != "" {
				fmt.Fprintf(&b, "  %-8s answer: %s\n", "", key)
			}
		}
	}
	for _, excluded := range attempt.Excluded {
		fmt.Fprintf(&b, "  %-8s %s\n", excluded.ID, style(opts.NoColor, lipgloss.NewStyle().Foreground(lipgloss.Color("244"))).Render("excluded: "+excluded.Reason))
	}

	summary := attempt.Summary
	b.WriteString("\n")
	fmt.Fprintf(&b, "Score: %s/%s (%s%%)  Grade: %s/%s  ",
		formatPoints(summary.EarnedPoints),
		formatPoints(summary.TotalPoints),
		formatPoints(summary.Percentage),
		formatGrade(summary.ScaledGrade),
		formatPoints(summary.Scale),
	)
	if summary.Passed {
		b.WriteString(style(opts.NoColor, lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))).Render("PASSED"))
	} else {
		b.WriteString(style(opts.NoColor, lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))).Render("NOT PASSED"))
	}
	b.WriteString("\n")
	if pending := summary.Pending(); pending > 0 {
		fmt.Fprintf(&b, "Awaiting self-grade: %d\n", pending)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderJSON writes the attempt as indented JSON.
func RenderJSON(w io.Writer, attempt Attempt) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(attempt)
}

// RenderDiagnostics writes one line per entry, coloured by severity.
func RenderDiagnostics(w io.Writer, entries []diag.Entry, noColor bool) {
	for _, entry := range entries {
		label := style(noColor, severityStyle(entry.Severity)).Render(entry.Severity.String())
		loc := entry.Location.String()
		if loc == "" {
			fmt.Fprintf(w, "%s: %s\n", label, entry.Message)
			continue
		}
		fmt.Fprintf(w, "%s: %s: %s\n", label, loc, entry.Message)
	}
}

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

func statusStyle(status grading.Status, noColor bool) lipgloss.Style {
	color := lipgloss.Color("246")
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
	}
	return style(noColor, lipgloss.NewStyle().Foreground(color))
}

func severityStyle(severity diag.Severity) lipgloss.Style {
	switch severity {
	case diag.SeverityFatal, diag.SeverityError:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	case diag.SeverityWarning:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	case diag.SeverityInfo:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	}
}

// style drops all styling when colour is disabled.
func style(noColor bool, s lipgloss.Style) lipgloss.Style {
	if noColor {
		return lipgloss.NewStyle()
	}
	return s
}
