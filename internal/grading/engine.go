package grading

import (
	"math"
	"strings"

	"quizdown/internal/document"
	"quizdown/internal/question"
)

// Engine grades responses against specs. Grading never fails: a missing or
// malformed response grades as unanswered. An Engine is safe for concurrent use.
type Engine struct {
	normalize func(string) string
}

// Option configures an Engine.
type Option func(*Engine)

// WithNormalizer replaces the fill-blank text comparison normalizer.
func WithNormalizer(fn func(string) string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.normalize = fn
		}
	}
}

// NewEngine returns an engine with the default Unicode-aware normalizer.
func NewEngine(opts ...Option) *Engine {
	engine := &Engine{normalize: question.NormalizeAnswerText}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Grade evaluates response against spec.
func (e *Engine) Grade(spec question.Spec, response Response) Result {
	if spec == nil {
		return Result{Status: StatusUnanswered}
	}
	info := spec.Info()
	result := Result{QuestionID: info.ID, Kind: info.Kind, Points: info.Points, Correct: KeyOf(spec), Status: StatusUnanswered}

	switch typed := spec.(type) {
	case question.Single:
		return gradeChoice(result, info, typed.Correct, response)
	case question.TrueFalse:
		return gradeChoice(result, info, typed.Correct, response)
	case question.Multiple:
		return gradeMultiple(result, info, typed, response)
	case question.Matching:
		return gradeMatching(result, typed, response)
	case question.Ordering:
		return gradeOrdering(result, typed, response)
	case question.FillBlank:
		return e.gradeFillBlank(result, typed, response)
	case question.ShortAnswer:
		return gradeShortAnswer(result, response)
	}
	return result
}

func gradeChoice(result Result, info question.Header, correct string, response Response) Result {
	choice, ok := response.(Choice)
	if !ok || choice.Empty() {
		return result
	}
	id := strings.TrimSpace(choice.ID)
	if !hasOption(info.Options, id) {
		return result
	}
	if id == correct {
		return settle(result, result.Points, true)
	}
	return settle(result, 0, false)
}

func gradeMultiple(result Result, info question.Header, spec question.Multiple, response Response) Result {
	choices, ok := response.(Choices)
	if !ok || choices.Empty() {
		return result
	}
	chosen := map[string]struct{}{}
	for _, id := range choices.IDs {
		id = strings.TrimSpace(id)
		if hasOption(info.Options, id) {
			chosen[id] = struct{}{}
		}
	}
	if len(chosen) == 0 {
		return result
	}
	correct := make(map[string]struct{}, len(spec.Correct))
	for _, id := range spec.Correct {
		correct[id] = struct{}{}
	}
	hits, misses := 0, 0
	for id := range chosen {
		if _, ok := correct[id]; ok {
			hits++
		} else {
			misses++
		}
	}
	exact := hits == len(correct) && misses == 0
	earned := math.Max(0, float64(hits-misses)/float64(len(correct))*result.Points)
	return settle(result, earned, exact)
}

func gradeMatching(result Result, spec question.Matching, response Response) Result {
	pairs, ok := response.(Pairs)
	if !ok || pairs.Empty() || len(spec.Correct) == 0 {
		return result
	}
	matched := 0
	for left, right := range spec.Correct {
		if strings.TrimSpace(pairs.Matches[left]) == right {
			matched++
		}
	}
	earned := float64(matched) / float64(len(spec.Correct)) * result.Points
	return settle(result, earned, matched == len(spec.Correct))
}

// gradeOrdering awards credit per position holding the expected item.
func gradeOrdering(result Result, spec question.Ordering, response Response) Result {
	sequence, ok := response.(Sequence)
	if !ok || sequence.Empty() || len(spec.Correct) == 0 {
		return result
	}
	matched := 0
	for i, id := range spec.Correct {
		if i < len(sequence.Items) && strings.TrimSpace(sequence.Items[i]) == id {
			matched++
		}
	}
	earned := float64(matched) / float64(len(spec.Correct)) * result.Points
	return settle(result, earned, matched == len(spec.Correct))
}

func (e *Engine) gradeFillBlank(result Result, spec question.FillBlank, response Response) Result {
	blanks, ok := response.(Blanks)
	if !ok || blanks.Empty() || len(spec.Blanks) == 0 {
		return result
	}
	values := make(map[string]string, len(blanks.Values))
	for id, value := range blanks.Values {
		values[question.NormalizeBlankID(id)] = value
	}
	matched := 0
	for _, blank := range spec.Blanks {
		given := e.normalize(values[blank.ID])
		if given == "" {
			continue
		}
		for _, alternative := range blank.Alternatives {
			if given == e.normalize(alternative) {
				matched++
				break
			}
		}
	}
	earned := float64(matched) / float64(len(spec.Blanks)) * result.Points
	return settle(result, earned, matched == len(spec.Blanks))
}

func gradeShortAnswer(result Result, response Response) Result {
	text, ok := response.(Text)
	if !ok || text.Empty() {
		return result
	}
	result.Status = StatusPendingSelfGrade
	result.Earned = 0
	return result
}

// settle clamps earned into [0, points] and derives the status.
func settle(result Result, earned float64, exact bool) Result {
	earned = math.Min(math.Max(earned, 0), result.Points)
	result.Earned = earned
	switch {
	case exact:
		result.Status = StatusCorrect
		result.Earned = result.Points
	case earned > 0:
		result.Status = StatusPartial
	default:
		result.Status = StatusIncorrect
	}
	return result
}

func hasOption(options []document.Option, id string) bool {
	for _, option := range options {
		if option.ID == id {
			return true
		}
	}
	return false
}

// Unanswered returns the result recorded for a question with no response.
func (e *Engine) Unanswered(spec question.Spec) Result {
	return e.Grade(spec, nil)
}
