package quiz

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"quizdown/internal/diag"
	"quizdown/internal/question"
)

const sampleQuiz = `---
title: Go basics
time_limit: 10
grading:
  scale: 10
---
# Syntax

## Which keyword declares a constant?
- [ ] var
- [x] const

::: hint
Think immutable.
:::

## Broken single
type: single
- [x] a
- [x] b

## Explain defer
::: sample_answer
Runs at function exit.
:::
`

// TestParseBuildsQuiz verifies config, specs, exclusions and diagnostics.
func TestParseBuildsQuiz(t *testing.T) {
	fixed := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	q, err := Parse([]byte(sampleQuiz), Options{Name: "basics.md", Now: func() time.Time { return fixed }})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if q.Config.Quiz.Title != "Go basics" || q.Config.Grading.Scale != 10 {
		t.Fatalf("unexpected config %+v", q.Config.Quiz)
	}
	if q.TimeLimit() != 10*time.Minute {
		t.Fatalf("expected 10m limit, got %s", q.TimeLimit())
	}
	if got := strings.Join(q.QuestionIDs(), ","); got != "q1,q3" {
		t.Fatalf("expected q1,q3 got %s", got)
	}
	if len(q.Excluded) != 1 || q.Excluded[0].ID != "q2" {
		t.Fatalf("expected q2 excluded, got %+v", q.Excluded)
	}
	if _, ok := q.Specs[1].(question.ShortAnswer); !ok {
		t.Fatalf("expected short answer, got %T", q.Specs[1])
	}
	if q.Document.Sections[0].Questions[0].Line != 9 {
		t.Fatalf("expected body line numbers after frontmatter, got %d", q.Document.Sections[0].Questions[0].Line)
	}
	foundError := false
	for _, entry := range q.Diagnostics {
		if entry.Severity == diag.SeverityError && strings.Contains(entry.Message, "q2") {
			foundError = true
			if entry.Location.Source != "basics.md" && entry.Location.Line == 0 {
				t.Fatalf("expected located error, got %+v", entry)
			}
		}
	}
	if !foundError {
		t.Fatalf("expected q2 error in %+v", q.Diagnostics)
	}
}

// TestParseFingerprintIsStable verifies identical input yields the same fingerprint.
func TestParseFingerprintIsStable(t *testing.T) {
	first, err := Parse([]byte(sampleQuiz), Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	second, _ := Parse([]byte(sampleQuiz), Options{})
	if first.Fingerprint != second.Fingerprint {
		t.Fatalf("fingerprint changed between parses")
	}
	other, _ := Parse([]byte(sampleQuiz+"\n## Extra\n- [x] yes\n- [ ] no\n"), Options{})
	if other.Fingerprint == first.Fingerprint {
		t.Fatalf("expected different fingerprint for different input")
	}
}

// TestParseNoQuestions verifies the fatal path.
func TestParseNoQuestions(t *testing.T) {
	q, err := Parse([]byte("---\ntitle: Empty\n---\nJust prose.\n"), Options{})
	if !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
	if len(q.Diagnostics) == 0 || q.Diagnostics[len(q.Diagnostics)-1].Severity != diag.SeverityFatal {
		t.Fatalf("expected trailing fatal diagnostic, got %+v", q.Diagnostics)
	}

	_, err = Parse([]byte("## Only broken\ntype: single\n- [ ] a\n- [ ] b\n"), Options{})
	if !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions when every question is excluded, got %v", err)
	}
}

// TestLoadLayersConfigFiles verifies external and env-file sources and a forwarded sink.
func TestLoadLayersConfigFiles(t *testing.T) {
	dir := t.TempDir()
	quizPath := filepath.Join(dir, "quiz.md")
	writeFile(t, quizPath, "## Q\n- [x] a\n- [ ] b\n")
	configPath := filepath.Join(dir, "course.yaml")
	writeFile(t, configPath, "quiz:\n  author: Staff\ngrading:\n  scale: 100\n")
	envPath := filepath.Join(dir, ".env")
	writeFile(t, envPath, "GRADING__SCALE=5\nQUIZ__SUBJECT=Go\n")

	forwarded := diag.NewCollector()
	q, err := Load(quizPath, Options{ConfigPath: configPath, EnvFile: envPath, Sink: forwarded})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if q.Config.Grading.Scale != 100 || q.Config.Quiz.Subject != "Go" || q.Config.Quiz.Author != "Staff" {
		t.Fatalf("unexpected layered config %+v %+v", q.Config.Quiz, q.Config.Grading)
	}
	if len(forwarded.Entries()) != len(q.Diagnostics) {
		t.Fatalf("expected forwarded sink to mirror diagnostics")
	}

	_, err = Load(filepath.Join(dir, "missing.md"), Options{})
	if !errors.Is(err, ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable, got %v", err)
	}

	q, err = Load(quizPath, Options{ConfigPath: filepath.Join(dir, "nope.yaml")})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(q.Diagnostics) == 0 || q.Diagnostics[0].Severity != diag.SeverityWarning {
		t.Fatalf("expected warning for missing config, got %+v", q.Diagnostics)
	}
}

// TestRenderPrompts verifies the converter sees prompts, options and text helpers.
func TestRenderPrompts(t *testing.T) {
	q, err := Parse([]byte(sampleQuiz), Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	upper := ConverterFunc(func(text string) (string, error) { return strings.ToUpper(text), nil })
	rendered, err := RenderPrompts(q.Specs, upper)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	first := rendered[0]
	if first.Prompt != strings.ToUpper(q.Specs[0].Info().Prompt) || first.Options[1] != "CONST" {
		t.Fatalf("unexpected rendering %+v", first)
	}
	if len(first.Helpers) != 1 || first.Helpers[0].Tag != "hint" || first.Helpers[0].Text != "THINK IMMUTABLE." {
		t.Fatalf("unexpected helpers %+v", first.Helpers)
	}

	failing := ConverterFunc(func(string) (string, error) { return "", errors.New("boom") })
	if _, err := RenderPrompts(q.Specs, failing); err == nil || !strings.Contains(err.Error(), "q1") {
		t.Fatalf("expected converter error naming q1, got %v", err)
	}

	plain, err := RenderPrompts(q.Specs, nil)
	if err != nil || plain[1].QuestionID != "q3" {
		t.Fatalf("expected plain text rendering, got %+v %v", plain, err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
