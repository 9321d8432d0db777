package live

import (
	"fmt"

	"quizdown/internal/grading"
	"quizdown/internal/session"
)

// StartState resets the state for a new session.
func StartState(info session.Info) State {
	state := State{
		SessionID: info.ID,
		Title:     info.Title,
		StartedAt: info.StartedAt,
		TimeLimit: info.TimeLimit,
		Rows:      make([]QuestionRow, len(info.Questions)),
	}
	for i, question := range info.Questions {
		state.Rows[i] = QuestionRow{
			Index:  i,
			ID:     question.ID,
			Title:  question.Title,
			Kind:   question.Kind,
			Status: grading.StatusUnanswered,
			Points: question.Points,
		}
	}
	state.Counts = recount(state.Rows)
	return state
}

// Reduce applies a question event to the UI state.
func Reduce(state State, event session.QuestionEvent) State {
	state = ensureRow(state, event)
	state = applyQuestionEvent(state, event)
	state.Counts = recount(state.Rows)
	if event.Type == session.QuestionSelfGraded {
		state.Summary = event.Summary
		state.HasSummary = true
	}
	if message := formatLastEvent(event); message != "" {
		state.LastEvent = message
	}
	return state
}

// Finish records the submission outcome.
func Finish(state State, outcome session.Outcome) State {
	state.Finalized = true
	state.Reason = outcome.Reason
	state.Summary = outcome.Summary
	state.HasSummary = true
	state.LastEvent = formatFinalize(outcome)
	return state
}

// ensureRow grows the state rows to include the target index.
func ensureRow(state State, event session.QuestionEvent) State {
	if event.QuestionIndex < 0 || event.QuestionIndex < len(state.Rows) {
		return state
	}
	rows := make([]QuestionRow, event.QuestionIndex+1)
	copy(rows, state.Rows)
	for i := len(state.Rows); i < len(rows); i++ {
		rows[i] = QuestionRow{Index: i, Status: grading.StatusUnanswered}
	}
	state.Rows = rows
	return state
}

// applyQuestionEvent updates a row with the given event.
func applyQuestionEvent(state State, event session.QuestionEvent) State {
	if event.QuestionIndex < 0 || event.QuestionIndex >= len(state.Rows) {
		return state
	}
	row := state.Rows[event.QuestionIndex]
	if row.ID == "" {
		row.ID = event.QuestionID
	}
	switch event.Type {
	case session.QuestionRecorded:
		row.Answered = true
	case session.QuestionGraded, session.QuestionSelfGraded:
		row.Graded = true
		row.Status = event.Result.Status
		row.Earned = event.Result.Earned
		row.Points = event.Result.Points
		row.Answered = event.Result.Status != grading.StatusUnanswered
	}
	if !event.EmittedAt.IsZero() {
		row.UpdatedAt = event.EmittedAt
	}
	state.Rows[event.QuestionIndex] = row
	return state
}

// recount recomputes status counts for the current rows.
func recount(rows []QuestionRow) StatusCounts {
	var counts StatusCounts
	for _, row := range rows {
		if row.Answered {
			counts.Answered++
		}
		if !row.Graded {
			if !row.Answered {
				counts.Unanswered++
			}
			continue
		}
		switch row.Status {
		case grading.StatusUnanswered:
			counts.Unanswered++
		case grading.StatusCorrect:
			counts.Correct++
		case grading.StatusPartial:
			counts.Partial++
		case grading.StatusIncorrect:
			counts.Incorrect++
		case grading.StatusPendingSelfGrade:
			counts.Pending++
		case grading.StatusSelfGraded:
			counts.SelfGraded++
		}
	}
	return counts
}

// formatLastEvent creates a short footer message for the event.
func formatLastEvent(event session.QuestionEvent) string {
	label := event.QuestionID
	if label == "" {
		label = formatIndex(event.QuestionIndex)
	}
	switch event.Type {
	case session.QuestionRecorded:
		return fmt.Sprintf("%s answered", label)
	case session.QuestionGraded:
		return fmt.Sprintf("%s %s (%s/%s)", label, statusLabel(event.Result.Status), formatPoints(event.Result.Earned), formatPoints(event.Result.Points))
	case session.QuestionSelfGraded:
		return fmt.Sprintf("%s self-graded %s/%s", label, formatPoints(event.Result.Earned), formatPoints(event.Result.Points))
	}
	return ""
}

func formatFinalize(outcome session.Outcome) string {
	if outcome.Reason == session.ReasonTimeout {
		return "Time is up, attempt submitted"
	}
	return "Attempt submitted"
}
