package question

import (
	"github.com/google/uuid"

	"quizdown/internal/document"
	"quizdown/internal/tags"
)

// Header is the identity and display content shared by every spec.
type Header struct {
	ID          string               `json:"id"`
	Number      int                  `json:"number"`
	Title       string               `json:"title,omitempty"`
	SectionID   string               `json:"section_id"`
	Kind        document.Kind        `json:"kind"`
	Points      float64              `json:"points"`
	Prompt      string               `json:"prompt"`
	Options     []document.Option    `json:"options,omitempty"`
	Helpers     []tags.Block         `json:"helpers,omitempty"`
	CodeBlocks  []document.CodeBlock `json:"code_blocks,omitempty"`
	Fingerprint uuid.UUID            `json:"fingerprint"`
}

// Spec is a gradable question with its canonical answer key. The set of
// implementations is closed: Single, Multiple, TrueFalse, Matching,
// Ordering, FillBlank and ShortAnswer.
type Spec interface {
	Info() Header
	sealed()
}

// Single expects exactly one option id.
type Single struct {
	Header
	Correct string `json:"correct"`
}

// TrueFalse expects the option id of the true statement label.
type TrueFalse struct {
	Header
	Correct string `json:"correct"`
}

// Multiple expects a set of option ids, kept sorted.
type Multiple struct {
	Header
	Correct []string `json:"correct"`
}

// MatchItem is one side entry of a matching question.
type MatchItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Matching maps each left item id to a right item id.
type Matching struct {
	Header
	Left    []MatchItem       `json:"left"`
	Right   []MatchItem       `json:"right"`
	Correct map[string]string `json:"correct"`
}

// OrderItem is one item of an ordering question.
type OrderItem struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Position int    `json:"position"`
}

// Ordering expects Correct, a full permutation of the item ids.
type Ordering struct {
	Header
	Items   []OrderItem `json:"items"`
	Correct []string    `json:"correct"`
}

// Blank is one placeholder with its accepted alternatives.
type Blank struct {
	ID           string   `json:"id"`
	Alternatives []string `json:"alternatives"`
}

// FillBlank expects a value per blank. Template is the text holding the
// placeholders.
type FillBlank struct {
	Header
	Template string  `json:"template"`
	Blanks   []Blank `json:"blanks"`
}

// ShortAnswer has no machine key. Sample is shown for reference only.
type ShortAnswer struct {
	Header
	Sample string `json:"sample,omitempty"`
}

func (s Single) Info() Header      { return s.Header }
func (s TrueFalse) Info() Header   { return s.Header }
func (s Multiple) Info() Header    { return s.Header }
func (s Matching) Info() Header    { return s.Header }
func (s Ordering) Info() Header    { return s.Header }
func (s FillBlank) Info() Header   { return s.Header }
func (s ShortAnswer) Info() Header { return s.Header }

func (Single) sealed()      {}
func (TrueFalse) sealed()   {}
func (Multiple) sealed()    {}
func (Matching) sealed()    {}
func (Ordering) sealed()    {}
func (FillBlank) sealed()   {}
func (ShortAnswer) sealed() {}

// Accepts reports the alternatives for blank id.
func (f FillBlank) Accepts(id string) ([]string, bool) {
	for _, blank := range f.Blanks {
		if blank.ID == id {
			return blank.Alternatives, true
		}
	}
	return nil, false
}

// Find returns the spec with the given id.
func Find(specs []Spec, id string) (Spec, bool) {
	for _, spec := range specs {
		if spec.Info().ID == id {
			return spec, true
		}
	}
	return nil, false
}
