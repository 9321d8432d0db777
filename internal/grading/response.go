package grading

import "strings"

// Response is a learner answer. Each variant reports whether it carries an
// answer at all.
type Response interface {
	Empty() bool
	response()
}

// Choice is a single selected option id (single and true/false).
type Choice struct {
	ID string `json:"id"`
}

// Choices is a set of selected option ids (multiple).
type Choices struct {
	IDs []string `json:"ids"`
}

// Pairs maps left item ids to right item ids (matching).
type Pairs struct {
	Matches map[string]string `json:"matches"`
}

// Sequence is the submitted item order (ordering). Untouched marks an order
// the learner never rearranged.
type Sequence struct {
	Items     []string `json:"items"`
	Untouched bool     `json:"untouched,omitempty"`
}

// Blanks maps blank ids to typed values (fillblank).
type Blanks struct {
	Values map[string]string `json:"values"`
}

// Text is a free-text answer (shortanswer).
type Text struct {
	Value string `json:"value"`
}

func (r Choice) Empty() bool { return strings.TrimSpace(r.ID) == "" }

func (r Choices) Empty() bool {
	for _, id := range r.IDs {
		if strings.TrimSpace(id) != "" {
			return false
		}
	}
	return true
}

func (r Pairs) Empty() bool {
	for _, value := range r.Matches {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

func (r Sequence) Empty() bool { return r.Untouched || len(r.Items) == 0 }

func (r Blanks) Empty() bool {
	for _, value := range r.Values {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

func (r Text) Empty() bool { return strings.TrimSpace(r.Value) == "" }

func (Choice) response()   {}
func (Choices) response()  {}
func (Pairs) response()    {}
func (Sequence) response() {}
func (Blanks) response()   {}
func (Text) response()     {}
