package document

import (
	"strings"

	"quizdown/internal/diag"
)

// Kind names one of the supported question shapes.
type Kind string

const (
	KindSingle      Kind = "single"
	KindMultiple    Kind = "multiple"
	KindTrueFalse   Kind = "truefalse"
	KindMatching    Kind = "matching"
	KindOrdering    Kind = "ordering"
	KindFillBlank   Kind = "fillblank"
	KindShortAnswer Kind = "shortanswer"
)

// Kinds lists every kind in display order.
var Kinds = []Kind{KindSingle, KindMultiple, KindTrueFalse, KindMatching, KindOrdering, KindFillBlank, KindShortAnswer}

// KindSource records how a question's kind was decided.
type KindSource string

const (
	KindExplicit KindSource = "explicit"
	KindInferred KindSource = "inferred"
	KindDefault  KindSource = "default"
)

type kindAlias struct {
	alias string
	kind  Kind
}

// kindAliases is checked in order; longer aliases come before their prefixes.
var kindAliases = []kindAlias{
	{"single", KindSingle},
	{"μίας επιλογής", KindSingle},
	{"μιας επιλογης", KindSingle},
	{"multiple", KindMultiple},
	{"πολλαπλής", KindMultiple},
	{"πολλαπλης", KindMultiple},
	{"truefalse", KindTrueFalse},
	{"true/false", KindTrueFalse},
	{"true-false", KindTrueFalse},
	{"σωστό/λάθος", KindTrueFalse},
	{"σωστο/λαθος", KindTrueFalse},
	{"matching", KindMatching},
	{"αντιστοίχιση", KindMatching},
	{"αντιστοιχιση", KindMatching},
	{"ordering", KindOrdering},
	{"ταξινόμηση", KindOrdering},
	{"ταξινομηση", KindOrdering},
	{"fillblank", KindFillBlank},
	{"fill-blank", KindFillBlank},
	{"συμπλήρωση", KindFillBlank},
	{"συμπληρωση", KindFillBlank},
	{"shortanswer", KindShortAnswer},
	{"short-answer", KindShortAnswer},
	{"σύντομη", KindShortAnswer},
	{"συντομη", KindShortAnswer},
	{"ανοικτή", KindShortAnswer},
	{"ανοικτη", KindShortAnswer},
}

// ParseKind resolves a type hint such as "multiple" or "Σωστό/Λάθος".
// An exact alias wins; otherwise the first alias contained in the hint is used.
func ParseKind(hint string) (Kind, bool) {
	hint = strings.ToLower(strings.TrimSpace(hint))
	if hint == "" {
		return "", false
	}
	for _, entry := range kindAliases {
		if hint == entry.alias {
			return entry.kind, true
		}
	}
	for _, entry := range kindAliases {
		if strings.Contains(hint, entry.alias) {
			return entry.kind, true
		}
	}
	return "", false
}

// InferFunc decides the kind of a question that carries no explicit type.
type InferFunc func(q Question, sink diag.Sink) (Kind, KindSource)

var trueFalseLabels = [][2]string{
	{"true", "false"},
	{"σωστό", "λάθος"},
	{"σωστο", "λαθος"},
}

// InferKind is the default inference:
// two options labelled true/false give truefalse; several checked options
// give multiple; one checked option gives single; without options the
// structural blocks decide, even ones dropped as unusable, falling back to
// shortanswer.
func InferKind(q Question, sink diag.Sink) (Kind, KindSource) {
	if len(q.Options) == 2 && isTrueFalse(q.Options[0].Text, q.Options[1].Text) {
		return KindTrueFalse, KindInferred
	}
	if len(q.Options) > 0 {
		switch checked := len(q.CheckedOptions()); {
		case checked > 1:
			return KindMultiple, KindInferred
		case checked == 1:
			return KindSingle, KindInferred
		default:
			diag.Warnf(sink, diag.Location{Line: q.Line}, "question %s: no option is checked; assuming single choice", q.ID)
			return KindSingle, KindDefault
		}
	}
	switch {
	case q.Declares("matches"):
		return KindMatching, KindInferred
	case q.Declares("items"):
		return KindOrdering, KindInferred
	case q.Declares("blanks"), len(q.Placeholders) > 0:
		return KindFillBlank, KindInferred
	}
	return KindShortAnswer, KindInferred
}

func isTrueFalse(first, second string) bool {
	a, b := normalizeLabel(first), normalizeLabel(second)
	for _, labels := range trueFalseLabels {
		if (a == labels[0] && b == labels[1]) || (a == labels[1] && b == labels[0]) {
			return true
		}
	}
	return false
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.Trim(strings.TrimSpace(label), ".!"))
}
