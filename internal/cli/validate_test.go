package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validQuiz = `---
title: Go basics
---
# Syntax

## Which keyword declares a constant?
- [ ] var
- [x] const

## Explain defer
::: sample_answer
Runs at function exit.
:::
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// TestValidateCommandSuccess verifies validate command success path.
func TestValidateCommandSuccess(t *testing.T) {
	dir := t.TempDir()
	quizPath := writeFile(t, dir, "quiz.md", validQuiz)

	var out, err bytes.Buffer
	code := Run([]string{"validate", quizPath}, &out, &err)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d (stderr %q)", ExitOK, code, err.String())
	}
	if !strings.Contains(out.String(), "Quiz OK: 2 questions in 1 sections") {
		t.Fatalf("expected success message, got %q", out.String())
	}
}

// TestValidateCommandFailure verifies structural errors fail validation.
func TestValidateCommandFailure(t *testing.T) {
	dir := t.TempDir()
	quizPath := writeFile(t, dir, "quiz.md", validQuiz+"\n## Broken\ntype: single\n- [x] a\n- [x] b\n")

	var out, err bytes.Buffer
	code := Run([]string{"validate", "--no-color", quizPath}, &out, &err)
	if code != ExitError {
		t.Fatalf("expected exit %d, got %d", ExitError, code)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no stdout output, got %q", out.String())
	}
	if !strings.Contains(err.String(), "error: quiz.md:") || !strings.Contains(err.String(), "q3 excluded") {
		t.Fatalf("expected located error for q3, got %q", err.String())
	}
}

// TestValidateCommandNoQuestions verifies the fatal path.
func TestValidateCommandNoQuestions(t *testing.T) {
	dir := t.TempDir()
	quizPath := writeFile(t, dir, "quiz.md", "Only prose here.\n")

	var out, err bytes.Buffer
	code := Run([]string{"validate", "--no-color", quizPath}, &out, &err)
	if code != ExitError {
		t.Fatalf("expected exit %d, got %d", ExitError, code)
	}
	if !strings.Contains(err.String(), "fatal:") {
		t.Fatalf("expected fatal diagnostic, got %q", err.String())
	}
}

// TestValidateCommandUsage verifies argument errors.
func TestValidateCommandUsage(t *testing.T) {
	var out, err bytes.Buffer
	if code := Run([]string{"validate"}, &out, &err); code != ExitUsage {
		t.Fatalf("expected exit %d, got %d", ExitUsage, code)
	}
	if !strings.Contains(err.String(), "missing quiz path") {
		t.Fatalf("expected missing path error, got %q", err.String())
	}
	err.Reset()
	if code := Run([]string{"validate", "a.md", "b.md"}, &out, &err); code != ExitUsage {
		t.Fatalf("expected exit %d, got %d", ExitUsage, code)
	}
	if !strings.Contains(err.String(), "unexpected arguments: b.md") {
		t.Fatalf("expected unexpected arguments error, got %q", err.String())
	}
}

// TestValidateDiscoversConfig verifies quizdown.yaml beside the quiz is applied.
func TestValidateDiscoversConfig(t *testing.T) {
	dir := t.TempDir()
	quizPath := writeFile(t, dir, "quiz.md", "## Q\n- [x] a\n- [ ] b\n")
	writeFile(t, dir, "quizdown.yaml", "grading:\n  scale: 0\n")

	var out, err bytes.Buffer
	code := Run([]string{"validate", "--no-color", quizPath}, &out, &err)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d", ExitOK, code)
	}
	if !strings.Contains(err.String(), "warning: ") || !strings.Contains(err.String(), "grading.scale") {
		t.Fatalf("expected scale warning from discovered config, got %q", err.String())
	}
}

// TestInspectCommand verifies the JSON dump.
func TestInspectCommand(t *testing.T) {
	dir := t.TempDir()
	quizPath := writeFile(t, dir, "quiz.md", validQuiz)
	envPath := writeFile(t, dir, "quiz.env", "GRADING__SCALE=10\n")

	var out, err bytes.Buffer
	code := Run([]string{"inspect", quizPath, "--env-file", envPath}, &out, &err)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d (stderr %q)", ExitOK, code, err.String())
	}
	var decoded struct {
		Fingerprint string `json:"fingerprint"`
		Config      struct {
			Quiz struct {
				Title string `json:"title"`
			} `json:"quiz"`
			Grading struct {
				Scale float64 `json:"scale"`
			} `json:"grading"`
		} `json:"config"`
		Questions []map[string]any `json:"questions"`
	}
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v\n%s", err, out.String())
	}
	if decoded.Config.Quiz.Title != "Go basics" || decoded.Config.Grading.Scale != 10 {
		t.Fatalf("unexpected config %+v", decoded.Config)
	}
	if len(decoded.Questions) != 2 || decoded.Questions[0]["correct"] != "B" || decoded.Questions[1]["kind"] != "shortanswer" {
		t.Fatalf("unexpected questions %v", decoded.Questions)
	}
	if decoded.Fingerprint == "" {
		t.Fatalf("expected fingerprint")
	}
}
