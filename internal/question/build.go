package question

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"quizdown/internal/diag"
	"quizdown/internal/document"
	"quizdown/internal/tags"
)

var fingerprintNamespace = uuid.MustParse("8d3f2f4e-6a1c-5b7e-9c52-1f0a6e4b2d91")

// Build derives a spec for every question. Questions whose key cannot be
// derived are reported as errors and returned as rejected.
func Build(doc document.Document, sink diag.Sink) ([]Spec, []document.Rejected) {
	var specs []Spec
	var rejected []document.Rejected
	for _, q := range doc.Questions() {
		spec, err := BuildQuestion(q, sink)
		if err != nil {
			loc := diag.Location{Line: q.Line}
			var validationErr *ValidationError
			if errors.As(err, &validationErr) {
				for _, issue := range validationErr.Issues {
					diag.Errorf(sink, loc, "question %s excluded: %s %s", q.ID, issue.Field, issue.Message)
				}
			} else {
				diag.Errorf(sink, loc, "question %s excluded: %v", q.ID, err)
			}
			rejected = append(rejected, document.Rejected{ID: q.ID, Number: q.Number, Line: q.Line, Reason: err.Error()})
			continue
		}
		specs = append(specs, spec)
	}
	return specs, rejected
}

// BuildQuestion derives the typed spec for one question.
func BuildQuestion(q document.Question, sink diag.Sink) (Spec, error) {
	collector := &issueCollector{questionID: q.ID}
	header := Header{
		ID:         q.ID,
		Number:     q.Number,
		Title:      q.Title,
		SectionID:  q.SectionID,
		Kind:       q.Kind,
		Points:     q.Points,
		Prompt:     q.Prompt,
		Options:    q.Options,
		Helpers:    q.Helpers,
		CodeBlocks: q.CodeBlocks,
	}
	if header.Points <= 0 {
		collector.add("points", "must be positive")
	}

	var spec Spec
	switch q.Kind {
	case document.KindSingle:
		spec = Single{Header: header, Correct: singleKey(q, collector)}
	case document.KindTrueFalse:
		if len(q.Options) != 2 {
			collector.addf("options", "true/false needs exactly two options, got %d", len(q.Options))
		}
		spec = TrueFalse{Header: header, Correct: singleKey(q, collector)}
	case document.KindMultiple:
		correct := q.CheckedOptions()
		if len(correct) == 0 {
			collector.add("options", "at least one option must be checked")
		}
		sort.Strings(correct)
		spec = Multiple{Header: header, Correct: correct}
	case document.KindMatching:
		spec = buildMatching(header, q, collector)
	case document.KindOrdering:
		spec = buildOrdering(header, q, collector)
	case document.KindFillBlank:
		spec = buildFillBlank(header, q, collector, sink)
	case document.KindShortAnswer:
		sample := ""
		if block, ok := q.Helper("sample_answer"); ok {
			if text, isText := block.Payload.(tags.Text); isText {
				sample = text.Text
			}
		}
		spec = ShortAnswer{Header: header, Sample: sample}
	default:
		collector.addf("type", "unsupported kind %q", q.Kind)
	}

	if err := collector.result(); err != nil {
		return nil, err
	}
	return withFingerprint(spec), nil
}

func singleKey(q document.Question, collector *issueCollector) string {
	checked := q.CheckedOptions()
	switch {
	case len(q.Options) == 0:
		collector.add("options", "must include at least one entry")
	case len(checked) != 1:
		collector.addf("options", "exactly one option must be checked, got %d", len(checked))
	default:
		return checked[0]
	}
	return ""
}

func buildMatching(header Header, q document.Question, collector *issueCollector) Spec {
	block, ok := q.Helper("matches")
	matches, isMatches := block.Payload.(tags.Matches)
	if !ok || !isMatches {
		collector.add("matches", requiredBlock(q, "matches"))
		return nil
	}

	spec := Matching{Header: header, Correct: map[string]string{}}
	rightIDs := map[string]string{}
	rightID := func(value string) string {
		if id, exists := rightIDs[value]; exists {
			return id
		}
		id := fmt.Sprintf("match%d", len(spec.Right)+1)
		rightIDs[value] = id
		spec.Right = append(spec.Right, MatchItem{ID: id, Text: value})
		return id
	}

	if len(q.Options) == 0 {
		seen := map[string]struct{}{}
		for i, pair := range matches.Pairs {
			key := NormalizeAnswerText(pair.Key)
			if _, dup := seen[key]; dup {
				collector.addf("matches", "duplicate item %q", pair.Key)
				continue
			}
			seen[key] = struct{}{}
			id := fmt.Sprintf("item%d", i+1)
			spec.Left = append(spec.Left, MatchItem{ID: id, Text: pair.Key})
			spec.Correct[id] = rightID(pair.Value)
		}
		return spec
	}

	byKey := map[string]tags.Pair{}
	for _, pair := range matches.Pairs {
		key := NormalizeAnswerText(pair.Key)
		if _, dup := byKey[key]; dup {
			collector.addf("matches", "duplicate item %q", pair.Key)
			continue
		}
		byKey[key] = pair
	}
	used := map[string]struct{}{}
	for _, option := range q.Options {
		key := NormalizeAnswerText(option.Text)
		pair, found := byKey[key]
		if !found {
			collector.addf("matches", "option %s %q has no match", option.ID, option.Text)
			continue
		}
		used[key] = struct{}{}
		spec.Left = append(spec.Left, MatchItem{ID: option.ID, Text: option.Text})
		spec.Correct[option.ID] = rightID(pair.Value)
	}
	for _, pair := range matches.Pairs {
		if _, ok := used[NormalizeAnswerText(pair.Key)]; !ok {
			collector.addf("matches", "item %q does not match any option", pair.Key)
		}
	}
	return spec
}

func buildOrdering(header Header, q document.Question, collector *issueCollector) Spec {
	block, ok := q.Helper("items")
	items, isItems := block.Payload.(tags.Items)
	if !ok || !isItems {
		collector.add("items", requiredBlock(q, "items"))
		return nil
	}

	spec := Ordering{Header: header}
	byPosition := map[int]OrderItem{}
	for _, item := range items.Items {
		if item.Position <= 0 {
			collector.addf("items", "position %d must be positive", item.Position)
			continue
		}
		if _, dup := byPosition[item.Position]; dup {
			collector.addf("items", "duplicate position %d", item.Position)
			continue
		}
		entry := OrderItem{ID: fmt.Sprintf("step%d", item.Position), Text: item.Text, Position: item.Position}
		byPosition[item.Position] = entry
		spec.Items = append(spec.Items, entry)
	}

	if orderBlock, ok := q.Helper("correct_order"); ok {
		if order, isOrder := orderBlock.Payload.(tags.Order); isOrder {
			spec.Correct = resolveOrder(order.Entries, spec.Items, collector)
			return spec
		}
	}
	positions := make([]int, 0, len(byPosition))
	for position := range byPosition {
		positions = append(positions, position)
	}
	sort.Ints(positions)
	for _, position := range positions {
		spec.Correct = append(spec.Correct, byPosition[position].ID)
	}
	return spec
}

// resolveOrder maps correct_order entries, given as ids, positions or item
// texts, onto item ids and checks they form a full permutation.
func resolveOrder(entries []string, items []OrderItem, collector *issueCollector) []string {
	if len(entries) != len(items) {
		collector.addf("correct_order", "lists %d entries for %d items", len(entries), len(items))
		return nil
	}
	used := map[string]struct{}{}
	order := make([]string, 0, len(entries))
	for _, entry := range entries {
		id, ok := resolveOrderEntry(entry, items)
		if !ok {
			collector.addf("correct_order", "unknown item %q", entry)
			continue
		}
		if _, dup := used[id]; dup {
			collector.addf("correct_order", "item %q listed twice", entry)
			continue
		}
		used[id] = struct{}{}
		order = append(order, id)
	}
	return order
}

func resolveOrderEntry(entry string, items []OrderItem) (string, bool) {
	normalized := NormalizeAnswerText(entry)
	for _, item := range items {
		if strings.EqualFold(item.ID, entry) {
			return item.ID, true
		}
	}
	if position, err := strconv.Atoi(entry); err == nil {
		for _, item := range items {
			if item.Position == position {
				return item.ID, true
			}
		}
	}
	for _, item := range items {
		if NormalizeAnswerText(item.Text) == normalized {
			return item.ID, true
		}
	}
	return "", false
}

func buildFillBlank(header Header, q document.Question, collector *issueCollector, sink diag.Sink) Spec {
	block, ok := q.Helper("blanks")
	blanks, isBlanks := block.Payload.(tags.Blanks)
	if !ok || !isBlanks {
		collector.add("blanks", requiredBlock(q, "blanks"))
		return nil
	}

	entries := map[string]tags.Blank{}
	var declared []string
	for _, entry := range blanks.Entries {
		id := NormalizeBlankID(entry.ID)
		if _, dup := entries[id]; dup {
			collector.addf("blanks", "duplicate blank %q", entry.ID)
			continue
		}
		entries[id] = entry
		declared = append(declared, id)
	}

	ids := q.Placeholders
	if len(ids) == 0 {
		diag.Warnf(sink, diag.Location{Line: q.Line}, "question %s has no [___N___] placeholders; using every declared blank", q.ID)
		ids = declared
	}
	spec := FillBlank{Header: header, Template: template(q)}
	for _, id := range ids {
		entry, found := entries[id]
		if !found {
			collector.addf("blanks", "placeholder %s has no accepted answers", id)
			continue
		}
		if len(entry.Alternatives) == 0 {
			collector.addf("blanks", "blank %s has no non-empty alternative", id)
			continue
		}
		spec.Blanks = append(spec.Blanks, Blank{ID: id, Alternatives: append([]string(nil), entry.Alternatives...)})
	}
	placed := map[string]struct{}{}
	for _, id := range ids {
		placed[id] = struct{}{}
	}
	for _, id := range declared {
		if _, ok := placed[id]; !ok {
			diag.Warnf(sink, diag.Location{Line: block.Line}, "question %s: blank %s has no placeholder and is ignored", q.ID, id)
		}
	}
	return spec
}

// template returns the first code block holding a placeholder, else the prompt.
func template(q document.Question) string {
	for _, code := range q.CodeBlocks {
		if strings.Contains(code.Code, "[___") {
			return code.Code
		}
	}
	return q.Prompt
}

func withFingerprint(spec Spec) Spec {
	data, err := json.Marshal(spec)
	if err != nil {
		return spec
	}
	fingerprint := uuid.NewSHA1(fingerprintNamespace, data)
	switch typed := spec.(type) {
	case Single:
		typed.Fingerprint = fingerprint
		return typed
	case TrueFalse:
		typed.Fingerprint = fingerprint
		return typed
	case Multiple:
		typed.Fingerprint = fingerprint
		return typed
	case Matching:
		typed.Fingerprint = fingerprint
		return typed
	case Ordering:
		typed.Fingerprint = fingerprint
		return typed
	case FillBlank:
		typed.Fingerprint = fingerprint
		return typed
	case ShortAnswer:
		typed.Fingerprint = fingerprint
		return typed
	}
	return spec
}

func requiredBlock(q document.Question, tag string) string {
	if q.Declares(tag) {
		return "block has no usable entries"
	}
	return "block is required"
}
