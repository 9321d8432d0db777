package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"quizdown/internal/diag"
	"quizdown/internal/document"
	"quizdown/internal/grading"
	"quizdown/internal/question"
	"quizdown/internal/score"
	"quizdown/internal/session"
)

func sampleAttempt() Attempt {
	specs := []question.Spec{
		question.Single{Header: question.Header{ID: "q1", Title: "Which keyword declares a constant?", Kind: document.KindSingle, Points: 1}, Correct: "B"},
		question.Ordering{Header: question.Header{ID: "q2", Title: "Order the pipeline", Kind: document.KindOrdering, Points: 2}, Correct: []string{"step1", "step2"}},
		question.ShortAnswer{Header: question.Header{ID: "q3", Title: "Explain defer", Kind: document.KindShortAnswer, Points: 2}},
	}
	results := []grading.Result{
		{QuestionID: "q1", Kind: document.KindSingle, Status: grading.StatusCorrect, Earned: 1, Points: 1, Correct: grading.Key{Choice: "B"}},
		{QuestionID: "q2", Kind: document.KindOrdering, Status: grading.StatusIncorrect, Earned: 0, Points: 2, Correct: grading.Key{Order: []string{"step1", "step2"}}},
		{QuestionID: "q3", Kind: document.KindShortAnswer, Status: grading.StatusPendingSelfGrade, Earned: 0, Points: 2},
	}
	outcome := session.Outcome{
		SessionID:   "20260314T090000Z-abcd",
		Reason:      session.ReasonTimeout,
		Results:     results,
		Summary:     score.Aggregate(results, 20, 50),
		FinalizedAt: time.Date(2026, 3, 14, 9, 10, 0, 0, time.UTC),
	}
	return Build("Go basics", specs, outcome, []document.Rejected{{ID: "q4", Reason: "options: exactly one option must be checked"}})
}

// TestRenderTextPlain verifies the uncoloured summary layout.
func TestRenderTextPlain(t *testing.T) {
	var out bytes.Buffer
	if err := RenderText(&out, sampleAttempt(), Options{NoColor: true, ShowKey: true}); err != nil {
		t.Fatalf("render: %v", err)
	}
	text := out.String()
	for _, want := range []string{
		"Go basics  (session 20260314T090000Z-abcd)",
		"Submitted automatically: time limit reached",
		"q1       single       correct",
		"answer: step1 > step2",
		"needs self-grade",
		"q4       excluded: options: exactly one option must be checked",
		"Score: 1/5 (20%)  Grade: 4.00/20  NOT PASSED",
		"Awaiting self-grade: 1",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output:\n%s", want, text)
		}
	}
	if strings.Contains(text, "\x1b[") {
		t.Fatalf("expected no escape codes with NoColor")
	}
	if strings.Contains(text, "answer: B") {
		t.Fatalf("expected no key for correct answers")
	}
}

// TestRenderJSON verifies the attempt encodes with stable field names.
func TestRenderJSON(t *testing.T) {
	var out bytes.Buffer
	if err := RenderJSON(&out, sampleAttempt()); err != nil {
		t.Fatalf("render: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded["reason"] != "timeout" || decoded["title"] != "Go basics" {
		t.Fatalf("unexpected json %v", decoded)
	}
	questions := decoded["questions"].([]any)
	if len(questions) != 3 || questions[2].(map[string]any)["title"] != "Explain defer" {
		t.Fatalf("unexpected questions %v", questions)
	}
}

// TestFormatKey verifies each key shape renders deterministically.
func TestFormatKey(t *testing.T) {
	cases := map[string]grading.Key{
		"A, C":                       {Choices: []string{"A", "C"}},
		"A -> match2; B -> match1":   {Pairs: map[string]string{"B": "match1", "A": "match2"}},
		"[1] range; [2] slice | map": {Blanks: map[string][]string{"2": {"slice", "map"}, "1": {"range"}}},
		"Runs at exit.":              {Sample: "Runs at exit."},
	}
	for want, key := range cases {
		if got := formatKey(key); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
}

// TestRenderDiagnostics verifies location formatting.
func TestRenderDiagnostics(t *testing.T) {
	var out bytes.Buffer
	RenderDiagnostics(&out, []diag.Entry{
		{Severity: diag.SeverityWarning, Location: diag.Location{Source: "quiz.md", Line: 12}, Message: "unknown tag"},
		{Severity: diag.SeverityFatal, Message: "document contains no questions"},
	}, true)
	expected := "warning: quiz.md:12: unknown tag\nfatal: document contains no questions\n"
	if out.String() != expected {
		t.Fatalf("unexpected output %q", out.String())
	}
}
