package document

import (
	"slices"

	"quizdown/internal/tags"
)

// Document is the ordered section tree of a quiz body.
type Document struct {
	Sections []Section  `json:"sections"`
	Rejected []Rejected `json:"rejected,omitempty"`
}

// Section groups questions under a top-level heading. The implicit section
// holding questions placed before any heading has an empty title.
type Section struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Line      int        `json:"line"`
	Questions []Question `json:"questions"`
}

// Question is one parsed question before its answer key is derived.
type Question struct {
	ID           string       `json:"id"`
	Number       int          `json:"number"`
	Line         int          `json:"line"`
	Title        string       `json:"title"`
	SectionID    string       `json:"section_id"`
	Kind         Kind         `json:"kind"`
	KindSource   KindSource   `json:"kind_source"`
	Points       float64      `json:"points"`
	Prompt       string       `json:"prompt"`
	Tail         string       `json:"tail,omitempty"`
	Options      []Option     `json:"options,omitempty"`
	Helpers      []tags.Block `json:"helpers,omitempty"`
	Dropped      []string     `json:"dropped_tags,omitempty"`
	CodeBlocks   []CodeBlock  `json:"code_blocks,omitempty"`
	Placeholders []string     `json:"placeholders,omitempty"`
}

// Option is one checkbox answer line.
type Option struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
	Line    int    `json:"line"`
}

// CodeBlock is fenced code kept verbatim.
type CodeBlock struct {
	Language string `json:"language"`
	Code     string `json:"code"`
	Line     int    `json:"line"`
}

// Rejected records a question left out of the gradable set.
type Rejected struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Questions returns every question in document order.
func (d Document) Questions() []Question {
	var out []Question
	for _, section := range d.Sections {
		out = append(out, section.Questions...)
	}
	return out
}

// Helper returns the first helper block with the given tag.
func (q Question) Helper(tag string) (tags.Block, bool) {
	for _, block := range q.Helpers {
		if block.Tag == tag {
			return block, true
		}
	}
	return tags.Block{}, false
}

// Declares reports whether the question carries a block with the given tag,
// including one that was dropped because none of its lines could be used.
func (q Question) Declares(tag string) bool {
	if _, ok := q.Helper(tag); ok {
		return true
	}
	return slices.Contains(q.Dropped, tag)
}

// HelpersByTag groups helper payloads by tag, keeping declaration order.
func (q Question) HelpersByTag() map[string][]tags.Payload {
	out := make(map[string][]tags.Payload, len(q.Helpers))
	for _, block := range q.Helpers {
		out[block.Tag] = append(out[block.Tag], block.Payload)
	}
	return out
}

// CheckedOptions returns the ids of the checked options.
func (q Question) CheckedOptions() []string {
	var ids []string
	for _, option := range q.Options {
		if option.Checked {
			ids = append(ids, option.ID)
		}
	}
	return ids
}
