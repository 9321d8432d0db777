package session

import (
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"quizdown/internal/grading"
	"quizdown/internal/question"
	"quizdown/internal/score"
)

var (
	// ErrUnknownQuestion reports an id that is not in the gradable set.
	ErrUnknownQuestion = errors.New("unknown question")
	// ErrFinalized reports a response recorded after submission.
	ErrFinalized = errors.New("session already finalized")
	// ErrNotFinalized reports a self-grade before submission.
	ErrNotFinalized = errors.New("session not finalized")
)

// Reason records what triggered finalization.
type Reason string

const (
	ReasonManual  Reason = "manual"
	ReasonTimeout Reason = "timeout"
)

// State is the grading context of one attempt. Operations take a State and
// return a new one; a State is never modified in place.
type State struct {
	Specs        []question.Spec             `json:"-"`
	Responses    map[string]grading.Response `json:"-"`
	Results      []grading.Result            `json:"results"`
	Summary      score.Summary               `json:"summary"`
	Finalized    bool                        `json:"finalized"`
	Reason       Reason                      `json:"reason,omitempty"`
	Scale        float64                     `json:"scale"`
	PassingScore float64                     `json:"passing_score"`
}

// NewState returns an open state over specs.
func NewState(specs []question.Spec, scale, passingScore float64) State {
	return State{
		Specs:        append([]question.Spec(nil), specs...),
		Responses:    map[string]grading.Response{},
		Scale:        scale,
		PassingScore: passingScore,
	}
}

// Index returns the position of question id in the spec list.
func (s State) Index(id string) (int, bool) {
	for i, spec := range s.Specs {
		if spec.Info().ID == id {
			return i, true
		}
	}
	return -1, false
}

// Record stores the latest response for id. A nil response clears it.
func Record(state State, id string, response grading.Response) (State, error) {
	if state.Finalized {
		return state, ErrFinalized
	}
	if _, ok := state.Index(id); !ok {
		return state, fmt.Errorf("%w: %s", ErrUnknownQuestion, id)
	}
	next := state
	next.Responses = make(map[string]grading.Response, len(state.Responses)+1)
	for key, value := range state.Responses {
		next.Responses[key] = value
	}
	if response == nil {
		delete(next.Responses, id)
	} else {
		next.Responses[id] = response
	}
	return next, nil
}

// Finalize grades every question and aggregates the summary. A finalized
// state is returned unchanged.
func Finalize(state State, engine *grading.Engine, reason Reason) State {
	if state.Finalized {
		return state
	}
	if engine == nil {
		engine = grading.NewEngine()
	}
	results := make([]grading.Result, len(state.Specs))
	var group errgroup.Group
	group.SetLimit(runtime.GOMAXPROCS(0))
	for i, spec := range state.Specs {
		i, spec := i, spec
		group.Go(func() error {
			results[i] = engine.Grade(spec, state.Responses[spec.Info().ID])
			return nil
		})
	}
	_ = group.Wait()

	next := state
	next.Results = results
	next.Summary = score.Aggregate(results, state.Scale, state.PassingScore)
	next.Finalized = true
	next.Reason = reason
	return next
}

// SelfGrade applies a coefficient to a pending shortanswer result and
// recomputes the summary from every result.
func SelfGrade(state State, id string, coefficient float64) (State, grading.Result, error) {
	if !state.Finalized {
		return state, grading.Result{}, ErrNotFinalized
	}
	index, ok := state.Index(id)
	if !ok {
		return state, grading.Result{}, fmt.Errorf("%w: %s", ErrUnknownQuestion, id)
	}
	graded, err := grading.ApplySelfGrade(state.Results[index], coefficient)
	if err != nil {
		return state, state.Results[index], err
	}
	next := state
	next.Results = append([]grading.Result(nil), state.Results...)
	next.Results[index] = graded
	next.Summary = score.Aggregate(next.Results, state.Scale, state.PassingScore)
	return next, graded, nil
}
