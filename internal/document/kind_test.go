package document

import (
	"testing"

	"quizdown/internal/diag"
	"quizdown/internal/tags"
)

// TestParseKindAliases verifies English and Greek hints.
func TestParseKindAliases(t *testing.T) {
	cases := map[string]Kind{
		"multiple":        KindMultiple,
		" True/False ":    KindTrueFalse,
		"Σωστό/Λάθος":     KindTrueFalse,
		"αντιστοίχιση":    KindMatching,
		"fill-blank":      KindFillBlank,
		"multiple choice": KindMultiple,
		"short-answer":    KindShortAnswer,
	}
	for hint, expected := range cases {
		kind, ok := ParseKind(hint)
		if !ok || kind != expected {
			t.Fatalf("hint %q: expected %s, got %s (%v)", hint, expected, kind, ok)
		}
	}
	if _, ok := ParseKind("essay"); ok {
		t.Fatalf("expected essay to be unknown")
	}
}

// TestInferKind verifies the default inference rules.
func TestInferKind(t *testing.T) {
	options := func(checked ...bool) []Option {
		out := make([]Option, len(checked))
		for i, c := range checked {
			out[i] = Option{ID: optionID(i), Text: "opt", Checked: c}
		}
		return out
	}
	trueFalse := []Option{{ID: "A", Text: "Σωστό", Checked: true}, {ID: "B", Text: "Λάθος"}}
	cases := []struct {
		name     string
		question Question
		kind     Kind
		source   KindSource
	}{
		{"truefalse", Question{Options: trueFalse}, KindTrueFalse, KindInferred},
		{"multiple", Question{Options: options(true, false, true)}, KindMultiple, KindInferred},
		{"single", Question{Options: options(false, true, false)}, KindSingle, KindInferred},
		{"unchecked", Question{Options: options(false, false)}, KindSingle, KindDefault},
		{"matching", Question{Helpers: []tags.Block{{Tag: "matches"}}}, KindMatching, KindInferred},
		{"ordering", Question{Helpers: []tags.Block{{Tag: "items"}}}, KindOrdering, KindInferred},
		{"fillblank", Question{Placeholders: []string{"1"}}, KindFillBlank, KindInferred},
		{"shortanswer", Question{}, KindShortAnswer, KindInferred},
	}
	for _, tc := range cases {
		sink := diag.NewCollector()
		kind, source := InferKind(tc.question, sink)
		if kind != tc.kind || source != tc.source {
			t.Fatalf("%s: expected %s/%s, got %s/%s", tc.name, tc.kind, tc.source, kind, source)
		}
		if tc.source == KindDefault && len(sink.Warnings()) != 1 {
			t.Fatalf("%s: expected an ambiguity warning", tc.name)
		}
	}
}

// TestOptionIDs verifies option ids continue past Z.
func TestOptionIDs(t *testing.T) {
	if optionID(0) != "A" || optionID(25) != "Z" || optionID(26) != "AA" || optionID(27) != "AB" {
		t.Fatalf("unexpected option ids %s %s %s %s", optionID(0), optionID(25), optionID(26), optionID(27))
	}
}
