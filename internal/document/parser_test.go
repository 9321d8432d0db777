package document

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"quizdown/internal/diag"
	"quizdown/internal/tags"
)

const sampleBody = `# Basics

## Question 1
What does ` + "`len`" + ` return?

- [ ] The capacity
- [x] The number of elements
- [ ] The last index

::: hint
Think about slices.
:::

## Question 2 (multiple)
points: 2
Pick the reference types.

- [x] map
- [ ] int
- [x] slice

# Advanced

## Question 3
Complete the loop.

` + "```go" + `
# not a heading
for i := [___1___] 10 {
    fmt.Println([___2___])
}
` + "```" + `

::: blanks
1: range|Range
2: i
:::

## Question 4
id: order-q
::: items
1. Write code
2. Run tests
3. Ship
:::
`

func parseSample(t *testing.T, sink diag.Sink) Document {
	t.Helper()
	doc, err := NewParser(nil).Parse(Source{Name: "quiz.md", Body: sampleBody, StartLine: 5}, sink)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

// TestParseSectionsAndQuestions verifies the section tree and question metadata.
func TestParseSectionsAndQuestions(t *testing.T) {
	doc := parseSample(t, diag.Discard)
	if len(doc.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(doc.Sections))
	}
	if doc.Sections[0].Title != "Basics" || doc.Sections[1].Title != "Advanced" {
		t.Fatalf("unexpected section titles %+v", doc.Sections)
	}
	questions := doc.Questions()
	if len(questions) != 4 {
		t.Fatalf("expected 4 questions, got %d", len(questions))
	}
	ids := []string{questions[0].ID, questions[1].ID, questions[2].ID, questions[3].ID}
	if !reflect.DeepEqual(ids, []string{"q1", "q2", "q3", "order-q"}) {
		t.Fatalf("unexpected ids %v", ids)
	}
	if questions[0].Line != 7 || questions[0].SectionID != "s1" || questions[2].SectionID != "s2" {
		t.Fatalf("unexpected question position %+v", questions[0])
	}
	if questions[1].Points != 2 || questions[0].Points != 1 {
		t.Fatalf("unexpected points %v %v", questions[0].Points, questions[1].Points)
	}
}

// TestParseOptionsAndPrompt verifies option ids, checked flags and prompt extraction.
func TestParseOptionsAndPrompt(t *testing.T) {
	q := parseSample(t, diag.Discard).Questions()[0]
	if q.Prompt != "What does `len` return?" {
		t.Fatalf("unexpected prompt %q", q.Prompt)
	}
	if len(q.Options) != 3 || q.Options[1].ID != "B" || !q.Options[1].Checked || q.Options[0].Checked {
		t.Fatalf("unexpected options %+v", q.Options)
	}
	if q.Kind != KindSingle || q.KindSource != KindInferred {
		t.Fatalf("expected inferred single, got %s/%s", q.Kind, q.KindSource)
	}
	hint, ok := q.Helper("hint")
	if !ok || hint.Payload.(tags.Text).Text != "Think about slices." {
		t.Fatalf("unexpected hint %+v", hint)
	}
}

// TestParseHeaderHint verifies the heading hint sets an explicit kind.
func TestParseHeaderHint(t *testing.T) {
	q := parseSample(t, diag.Discard).Questions()[1]
	if q.Kind != KindMultiple || q.KindSource != KindExplicit || q.Title != "Question 2" {
		t.Fatalf("unexpected header handling %+v", q)
	}
}

// TestParseCodeFencesAndPlaceholders verifies fences stay verbatim and placeholders are found.
func TestParseCodeFencesAndPlaceholders(t *testing.T) {
	q := parseSample(t, diag.Discard).Questions()[2]
	if len(q.CodeBlocks) != 1 || q.CodeBlocks[0].Language != "go" {
		t.Fatalf("unexpected code blocks %+v", q.CodeBlocks)
	}
	if !strings.HasPrefix(q.CodeBlocks[0].Code, "# not a heading\n") || !strings.Contains(q.CodeBlocks[0].Code, "    fmt.Println([___2___])") {
		t.Fatalf("code not preserved verbatim: %q", q.CodeBlocks[0].Code)
	}
	if !reflect.DeepEqual(q.Placeholders, []string{"1", "2"}) {
		t.Fatalf("unexpected placeholders %v", q.Placeholders)
	}
	if q.Kind != KindFillBlank {
		t.Fatalf("expected fillblank, got %s", q.Kind)
	}
	if q.Prompt != "Complete the loop." {
		t.Fatalf("unexpected prompt %q", q.Prompt)
	}
}

// TestParseIsDeterministic verifies repeated parses are equal.
func TestParseIsDeterministic(t *testing.T) {
	first := parseSample(t, diag.Discard)
	second := parseSample(t, diag.Discard)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical documents")
	}
}

// TestParseWarnings verifies malformed metadata and unknown tags only warn.
func TestParseWarnings(t *testing.T) {
	body := "## Q\npoints: -3\ntype: essay\nWhat?\n::: mystery\nhello\n:::\n::: matches\nno colon\n:::\n"
	sink := diag.NewCollector()
	doc, err := NewParser(nil).Parse(Source{Body: body}, sink)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	q := doc.Questions()[0]
	if q.Points != 1 {
		t.Fatalf("expected default points, got %v", q.Points)
	}
	if q.Kind != KindMatching || !q.Declares("matches") {
		t.Fatalf("expected the dropped matches block to drive inference, got %s", q.Kind)
	}
	if len(q.Helpers) != 1 || q.Helpers[0].Tag != tags.RawTag {
		t.Fatalf("expected only the raw block to survive, got %+v", q.Helpers)
	}
	if got := len(sink.Warnings()); got != 5 {
		t.Fatalf("expected 5 warnings, got %d: %+v", got, sink.Entries())
	}
	if sink.HasErrors() {
		t.Fatalf("expected no errors")
	}
}

// TestParseStructuralBlockWithStrayLine verifies a stray line is skipped while
// the rest of the block still defines the question.
func TestParseStructuralBlockWithStrayLine(t *testing.T) {
	cases := []struct {
		body string
		kind Kind
		line int
	}{
		{"## Question 1\n\nMatch.\n\n::: matches\nPairs below\nGreece: Athens\n:::\n", KindMatching, 6},
		{"## Question 1\n\nOrder.\n\n::: items\n1. boil\nthen the rest\n2. pour\n:::\n", KindOrdering, 7},
	}
	for _, tc := range cases {
		sink := diag.NewCollector()
		doc, err := NewParser(nil).Parse(Source{Body: tc.body}, sink)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		q := doc.Questions()[0]
		if q.Kind != tc.kind || len(q.Helpers) != 1 {
			t.Fatalf("expected %s with its block, got %s %+v", tc.kind, q.Kind, q.Helpers)
		}
		warnings := sink.Warnings()
		if len(warnings) != 1 || warnings[0].Location.Line != tc.line {
			t.Fatalf("expected one warning on line %d, got %+v", tc.line, warnings)
		}
	}
}

// TestParseDuplicateIDs verifies the later duplicate is excluded with an error.
func TestParseDuplicateIDs(t *testing.T) {
	body := "## A\nid: same\n- [x] yes\n- [ ] no\n## B\nid: same\n- [x] yes\n- [ ] no\n## C\nText\n"
	sink := diag.NewCollector()
	doc, err := NewParser(nil).Parse(Source{Body: body}, sink)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(doc.Questions()) != 2 || doc.Questions()[1].ID != "q3" {
		t.Fatalf("unexpected questions %+v", doc.Questions())
	}
	if len(doc.Rejected) != 1 || doc.Rejected[0].Number != 2 {
		t.Fatalf("unexpected rejected %+v", doc.Rejected)
	}
	if len(sink.Errors()) != 1 {
		t.Fatalf("expected one error, got %+v", sink.Entries())
	}
}

// TestParseImplicitSection verifies questions before any heading get an untitled section.
func TestParseImplicitSection(t *testing.T) {
	doc, err := NewParser(nil).Parse(Source{Body: "## Q\nWhy?\n# Later\n## R\nHow?\n"}, diag.Discard)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(doc.Sections) != 2 || doc.Sections[0].ID != "s0" || doc.Sections[0].Title != "" {
		t.Fatalf("unexpected sections %+v", doc.Sections)
	}
}

// TestParseNoQuestions verifies an empty body is fatal.
func TestParseNoQuestions(t *testing.T) {
	sink := diag.NewCollector()
	_, err := NewParser(nil).Parse(Source{Body: "# Only a section\ntext\n"}, sink)
	if !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
	if len(sink.AtLeast(diag.SeverityFatal)) != 1 {
		t.Fatalf("expected a fatal diagnostic")
	}
}

// TestParseCustomInference verifies the inference step can be replaced.
func TestParseCustomInference(t *testing.T) {
	parser := NewParser(nil)
	parser.Infer = func(Question, diag.Sink) (Kind, KindSource) {
		return KindShortAnswer, KindDefault
	}
	doc, err := parser.Parse(Source{Body: "## Q\n- [x] a\n- [ ] b\n"}, diag.Discard)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if q := doc.Questions()[0]; q.Kind != KindShortAnswer || q.KindSource != KindDefault {
		t.Fatalf("expected custom inference, got %s/%s", q.Kind, q.KindSource)
	}
}

// TestParseOptionContinuation verifies wrapped option text joins the option.
func TestParseOptionContinuation(t *testing.T) {
	doc, err := NewParser(nil).Parse(Source{Body: "## Q\nPick\n- [x] first line\n  second line\n- [ ] other\n\nAfter text\n"}, diag.Discard)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	q := doc.Questions()[0]
	if q.Options[0].Text != "first line\nsecond line" {
		t.Fatalf("unexpected option text %q", q.Options[0].Text)
	}
	if q.Tail != "After text" {
		t.Fatalf("unexpected tail %q", q.Tail)
	}
}
