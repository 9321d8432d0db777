package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizdown/internal/document"
	"quizdown/internal/question"
)

func options(ids ...string) []document.Option {
	out := make([]document.Option, len(ids))
	for i, id := range ids {
		out[i] = document.Option{ID: id, Text: "option " + id}
	}
	return out
}

func header(id string, kind document.Kind, points float64, opts ...string) question.Header {
	return question.Header{ID: id, Kind: kind, Points: points, Options: options(opts...)}
}

func multipleSpec() question.Multiple {
	return question.Multiple{Header: header("m", document.KindMultiple, 3, "A", "B", "C", "D"), Correct: []string{"A", "B", "C"}}
}

func matchingSpec() question.Matching {
	return question.Matching{
		Header:  header("match", document.KindMatching, 3),
		Correct: map[string]string{"item1": "match1", "item2": "match2", "item3": "match3"},
	}
}

func orderingSpec() question.Ordering {
	return question.Ordering{
		Header:  header("order", document.KindOrdering, 4),
		Correct: []string{"step1", "step2", "step3", "step4"},
	}
}

func fillSpec() question.FillBlank {
	return question.FillBlank{
		Header: header("fill", document.KindFillBlank, 2),
		Blanks: []question.Blank{{ID: "1", Alternatives: []string{"range", "Range"}}, {ID: "2", Alternatives: []string{"i"}}},
	}
}

func TestSingleChoice(t *testing.T) {
	engine := NewEngine()
	spec := question.Single{Header: header("s", document.KindSingle, 2, "A", "B", "C"), Correct: "B"}

	correct := engine.Grade(spec, Choice{ID: "B"})
	assert.Equal(t, StatusCorrect, correct.Status)
	assert.Equal(t, 2.0, correct.Earned)

	wrong := engine.Grade(spec, Choice{ID: "A"})
	assert.Equal(t, StatusIncorrect, wrong.Status)
	assert.Zero(t, wrong.Earned)

	unknown := engine.Grade(spec, Choice{ID: "Z"})
	assert.Equal(t, StatusUnanswered, unknown.Status)
}

func TestTrueFalseUsesChoice(t *testing.T) {
	spec := question.TrueFalse{Header: header("tf", document.KindTrueFalse, 1, "A", "B"), Correct: "A"}
	result := NewEngine().Grade(spec, Choice{ID: "A"})
	assert.Equal(t, StatusCorrect, result.Status)
	assert.Equal(t, "A", result.Correct.Choice)
}

func TestMultipleExactAndPartial(t *testing.T) {
	engine := NewEngine()
	spec := multipleSpec()

	exact := engine.Grade(spec, Choices{IDs: []string{"C", "A", "B"}})
	assert.Equal(t, StatusCorrect, exact.Status)
	assert.Equal(t, 3.0, exact.Earned)

	oneWrong := engine.Grade(spec, Choices{IDs: []string{"A", "B", "C", "D"}})
	assert.Equal(t, StatusPartial, oneWrong.Status)
	assert.InDelta(t, 2.0/3.0*3, oneWrong.Earned, 1e-9)

	subset := engine.Grade(spec, Choices{IDs: []string{"A"}})
	assert.Equal(t, StatusPartial, subset.Status)
	assert.InDelta(t, 1.0, subset.Earned, 1e-9)

	clamped := engine.Grade(spec, Choices{IDs: []string{"A", "D"}})
	assert.Equal(t, StatusIncorrect, clamped.Status)
	assert.Zero(t, clamped.Earned)
}

func TestMultipleDropsUnknownIDs(t *testing.T) {
	engine := NewEngine()
	assert.Equal(t, StatusUnanswered, engine.Grade(multipleSpec(), Choices{IDs: []string{"X", "Y"}}).Status)
	assert.Equal(t, StatusPartial, engine.Grade(multipleSpec(), Choices{IDs: []string{"A", "X"}}).Status)
}

func TestMatchingPartial(t *testing.T) {
	result := NewEngine().Grade(matchingSpec(), Pairs{Matches: map[string]string{"item1": "match1", "item2": "match2", "item3": "match1"}})
	assert.Equal(t, StatusPartial, result.Status)
	assert.InDelta(t, 2.0/3.0*3, result.Earned, 1e-9)
}

func TestOrderingIsPositional(t *testing.T) {
	engine := NewEngine()
	reversed := engine.Grade(orderingSpec(), Sequence{Items: []string{"step4", "step3", "step2", "step1"}})
	assert.Equal(t, StatusIncorrect, reversed.Status)
	assert.Zero(t, reversed.Earned)

	swapped := engine.Grade(orderingSpec(), Sequence{Items: []string{"step2", "step1", "step3", "step4"}})
	assert.Equal(t, StatusPartial, swapped.Status)
	assert.InDelta(t, 2.0, swapped.Earned, 1e-9)

	correct := engine.Grade(orderingSpec(), Sequence{Items: []string{"step1", "step2", "step3", "step4"}})
	assert.Equal(t, StatusCorrect, correct.Status)

	untouched := engine.Grade(orderingSpec(), Sequence{Items: []string{"step1", "step2", "step3", "step4"}, Untouched: true})
	assert.Equal(t, StatusUnanswered, untouched.Status)
}

func TestFillBlankFolding(t *testing.T) {
	engine := NewEngine()
	folded := engine.Grade(fillSpec(), Blanks{Values: map[string]string{"1": "RANGE", "blank2": " i "}})
	assert.Equal(t, StatusCorrect, folded.Status)
	assert.Equal(t, 2.0, folded.Earned)

	half := engine.Grade(fillSpec(), Blanks{Values: map[string]string{"1": "ranges", "2": "i"}})
	assert.Equal(t, StatusPartial, half.Status)
	assert.InDelta(t, 1.0, half.Earned, 1e-9)
}

func TestFillBlankCustomNormalizer(t *testing.T) {
	engine := NewEngine(WithNormalizer(func(s string) string { return s }))
	result := engine.Grade(fillSpec(), Blanks{Values: map[string]string{"1": "RANGE", "2": "i"}})
	assert.Equal(t, StatusPartial, result.Status)
}

func TestShortAnswerPending(t *testing.T) {
	spec := question.ShortAnswer{Header: header("sa", document.KindShortAnswer, 5), Sample: "threads"}
	result := NewEngine().Grade(spec, Text{Value: "green threads"})
	assert.Equal(t, StatusPendingSelfGrade, result.Status)
	assert.Zero(t, result.Earned)
	assert.Equal(t, "threads", result.Correct.Sample)
}

func TestUnansweredDetection(t *testing.T) {
	engine := NewEngine()
	shortAnswer := question.ShortAnswer{Header: header("sa", document.KindShortAnswer, 1)}
	single := question.Single{Header: header("s", document.KindSingle, 1, "A", "B"), Correct: "A"}
	cases := []struct {
		name     string
		spec     question.Spec
		response Response
	}{
		{"no selection", single, Choice{}},
		{"nil response", single, nil},
		{"wrong variant", single, Text{Value: "A"}},
		{"empty set", multipleSpec(), Choices{}},
		{"empty mapping", matchingSpec(), Pairs{Matches: map[string]string{}}},
		{"empty sequence", orderingSpec(), Sequence{}},
		{"blank values", fillSpec(), Blanks{Values: map[string]string{"1": "  "}}},
		{"blank string", shortAnswer, Text{Value: " \n "}},
	}
	for _, tc := range cases {
		result := engine.Grade(tc.spec, tc.response)
		assert.Equal(t, StatusUnanswered, result.Status, tc.name)
		assert.Zero(t, result.Earned, tc.name)
	}

	unanswered := engine.Unanswered(orderingSpec())
	assert.Equal(t, []string{"step1", "step2", "step3", "step4"}, unanswered.Correct.Order)
}

func TestEarnedNeverExceedsPoints(t *testing.T) {
	engine := NewEngine()
	specs := []question.Spec{multipleSpec(), matchingSpec(), orderingSpec(), fillSpec()}
	responses := []Response{
		Choices{IDs: []string{"A", "B", "C", "C", "A"}},
		Pairs{Matches: map[string]string{"item1": "match1", "item2": "match2", "item3": "match3", "extra": "match1"}},
		Sequence{Items: []string{"step1", "step2", "step3", "step4", "step1"}},
		Blanks{Values: map[string]string{"1": "range", "01": "Range", "2": "i", "9": "x"}},
	}
	for i, spec := range specs {
		result := engine.Grade(spec, responses[i])
		require.LessOrEqual(t, result.Earned, spec.Info().Points)
		require.GreaterOrEqual(t, result.Earned, 0.0)
	}
}
