package quiz

import (
	"fmt"
	"strings"

	"quizdown/internal/question"
	"quizdown/internal/tags"
)

// Converter turns authored prose into final markup. Rendering lives outside
// this module; the converter is the seam to it.
type Converter interface {
	Convert(text string) (string, error)
}

// ConverterFunc adapts a function to Converter.
type ConverterFunc func(text string) (string, error)

// Convert calls f.
func (f ConverterFunc) Convert(text string) (string, error) { return f(text) }

// PlainText returns prose unchanged apart from surrounding whitespace.
type PlainText struct{}

// Convert trims text.
func (PlainText) Convert(text string) (string, error) { return strings.TrimSpace(text), nil }

// RenderedHelper is a converted text helper block.
type RenderedHelper struct {
	Tag  string `json:"tag"`
	Text string `json:"text"`
}

// Rendered is the converted prose of one question.
type Rendered struct {
	QuestionID string           `json:"question_id"`
	Prompt     string           `json:"prompt"`
	Options    []string         `json:"options,omitempty"`
	Helpers    []RenderedHelper `json:"helpers,omitempty"`
}

// RenderPrompts converts the prompt, option texts and text helpers of every
// spec. Non-text payloads are left to the caller.
func RenderPrompts(specs []question.Spec, conv Converter) ([]Rendered, error) {
	if conv == nil {
		conv = PlainText{}
	}
	out := make([]Rendered, 0, len(specs))
	for _, spec := range specs {
		header := spec.Info()
		prompt, err := conv.Convert(header.Prompt)
		if err != nil {
			return nil, fmt.Errorf("question %s: convert prompt: %w", header.ID, err)
		}
		rendered := Rendered{QuestionID: header.ID, Prompt: prompt}
		for _, option := range header.Options {
			text, err := conv.Convert(option.Text)
			if err != nil {
				return nil, fmt.Errorf("question %s: convert option %s: %w", header.ID, option.ID, err)
			}
			rendered.Options = append(rendered.Options, text)
		}
		for _, block := range header.Helpers {
			payload, ok := block.Payload.(tags.Text)
			if !ok {
				continue
			}
			text, err := conv.Convert(payload.Text)
			if err != nil {
				return nil, fmt.Errorf("question %s: convert %s: %w", header.ID, block.Tag, err)
			}
			rendered.Helpers = append(rendered.Helpers, RenderedHelper{Tag: block.Tag, Text: text})
		}
		out = append(out, rendered)
	}
	return out, nil
}
