package document

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"quizdown/internal/diag"
	"quizdown/internal/tags"
)

// ErrNoQuestions reports a body without a single question heading.
var ErrNoQuestions = errors.New("document contains no questions")

var (
	sectionHeading  = regexp.MustCompile(`^#\s+(.+)$`)
	questionHeading = regexp.MustCompile(`^##\s+(.+)$`)
	metadataLine    = regexp.MustCompile(`(?i)^(type|points|id)\s*:\s*(\S+)\s*$`)
	optionLine      = regexp.MustCompile(`^[-*]\s*\[([ xX])\]\s*(.*)$`)
	tagOpen         = regexp.MustCompile(`^:::\s*([\w-]+)\s*$`)
	fenceOpen       = regexp.MustCompile("^```\\s*([\\w+#.-]*)\\s*$")
	placeholder     = regexp.MustCompile(`\[___(\d+)___\]`)
	headerHint      = regexp.MustCompile(`\(([^)]+)\)`)
	explicitID      = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
	blankRuns       = regexp.MustCompile(`\n{3,}`)
)

const (
	tagClose   = ":::"
	fenceClose = "```"
)

// Source is a document body handed to the parser. StartLine is the
// document line of the first body line so diagnostics point at the file.
type Source struct {
	Name      string
	Body      string
	StartLine int
}

// Parser splits a body into sections and questions. Registry resolves tag
// blocks; Infer decides kinds for questions without an explicit type.
type Parser struct {
	Registry *tags.Registry
	Infer    InferFunc
}

// NewParser returns a parser over registry, or over the built-in registry
// when registry is nil.
func NewParser(registry *tags.Registry) *Parser {
	if registry == nil {
		registry = tags.NewDefaultRegistry()
	}
	return &Parser{Registry: registry, Infer: InferKind}
}

type sourceLine struct {
	text string
	line int
}

type questionDraft struct {
	header string
	line   int
	body   []sourceLine
}

type sectionDraft struct {
	section Section
	drafts  []questionDraft
}

// Parse builds the document tree. Warnings and structural errors go to sink;
// only a body without questions fails.
func (p *Parser) Parse(src Source, sink diag.Sink) (Document, error) {
	sink = withSource(sink, src.Name)
	registry := p.Registry
	if registry == nil {
		registry = tags.NewDefaultRegistry()
	}
	infer := p.Infer
	if infer == nil {
		infer = InferKind
	}

	drafts := split(src)
	var doc Document
	number := 0
	seen := map[string]int{}
	for _, draft := range drafts {
		section := draft.section
		for _, raw := range draft.drafts {
			number++
			q := parseQuestion(raw, number, registry, infer, sink)
			q.SectionID = section.ID
			if first, dup := seen[q.ID]; dup {
				diag.Errorf(sink, diag.Location{Line: q.Line}, "duplicate question id %q (first used by question %d); question excluded", q.ID, first)
				doc.Rejected = append(doc.Rejected, Rejected{ID: q.ID, Number: q.Number, Line: q.Line, Reason: "duplicate id"})
				continue
			}
			seen[q.ID] = q.Number
			section.Questions = append(section.Questions, q)
		}
		if section.Title == "" && len(section.Questions) == 0 {
			continue
		}
		doc.Sections = append(doc.Sections, section)
	}
	if number == 0 {
		diag.Fatalf(sink, diag.Location{}, "%v", ErrNoQuestions)
		return Document{}, ErrNoQuestions
	}
	return doc, nil
}

// split walks the body once, cutting it at headings that are not inside a
// code fence or tag block.
func split(src Source) []sectionDraft {
	start := src.StartLine
	if start < 1 {
		start = 1
	}
	lines := strings.Split(strings.ReplaceAll(src.Body, "\r\n", "\n"), "\n")
	sections := []sectionDraft{{section: Section{ID: "s0"}}}
	var current *questionDraft
	inFence, inTag := false, false

	flush := func() {
		if current == nil {
			return
		}
		last := &sections[len(sections)-1]
		last.drafts = append(last.drafts, *current)
		current = nil
	}

	for index, text := range lines {
		lineNo := start + index
		trimmed := strings.TrimSpace(text)
		switch {
		case inFence:
			if trimmed == fenceClose {
				inFence = false
			}
		case inTag:
			if trimmed == tagClose {
				inTag = false
			}
		case fenceOpen.MatchString(trimmed):
			inFence = true
		case tagOpen.MatchString(trimmed):
			inTag = true
		default:
			if match := questionHeading.FindStringSubmatch(text); match != nil {
				flush()
				current = &questionDraft{header: strings.TrimSpace(match[1]), line: lineNo}
				continue
			}
			if match := sectionHeading.FindStringSubmatch(text); match != nil {
				flush()
				sections = append(sections, sectionDraft{section: Section{
					ID:    fmt.Sprintf("s%d", len(sections)),
					Title: strings.TrimSpace(match[1]),
					Line:  lineNo,
				}})
				continue
			}
		}
		if current != nil {
			current.body = append(current.body, sourceLine{text: text, line: lineNo})
		}
	}
	flush()
	return sections
}

type questionBuilder struct {
	q            Question
	prompt       []string
	tail         []string
	explicit     Kind
	structural   bool
	lastOption   int
	placeholders map[string]struct{}
}

func parseQuestion(raw questionDraft, number int, registry *tags.Registry, infer InferFunc, sink diag.Sink) Question {
	b := &questionBuilder{
		q:            Question{Number: number, Line: raw.line, Points: 1},
		lastOption:   -1,
		placeholders: map[string]struct{}{},
	}
	b.q.Title, b.explicit = splitHeader(raw.header)

	body := raw.body
	for i := 0; i < len(body); i++ {
		text, lineNo := body[i].text, body[i].line
		trimmed := strings.TrimSpace(text)

		if match := fenceOpen.FindStringSubmatch(trimmed); match != nil {
			content, next, closed := collect(body, i+1, fenceClose)
			if !closed {
				diag.Warnf(sink, diag.Location{Line: lineNo}, "unclosed code fence")
			}
			language := match[1]
			if language == "" {
				language = "text"
			}
			code := strings.Join(content, "\n")
			b.q.CodeBlocks = append(b.q.CodeBlocks, CodeBlock{Language: language, Code: code, Line: lineNo})
			b.notePlaceholders(code)
			b.structural, b.lastOption, i = true, -1, next
			continue
		}
		if match := tagOpen.FindStringSubmatch(trimmed); match != nil {
			content, next, closed := collect(body, i+1, tagClose)
			if !closed {
				diag.Warnf(sink, diag.Location{Line: lineNo}, "unclosed tag block %q", match[1])
			}
			if block, ok := registry.Dispatch(match[1], strings.Join(content, "\n"), diag.Location{Line: lineNo}, sink); ok {
				b.q.Helpers = append(b.q.Helpers, block)
			} else {
				b.q.Dropped = append(b.q.Dropped, strings.ToLower(match[1]))
			}
			b.structural, b.lastOption, i = true, -1, next
			continue
		}
		if match := optionLine.FindStringSubmatch(trimmed); match != nil {
			b.q.Options = append(b.q.Options, Option{
				ID:      optionID(len(b.q.Options)),
				Text:    strings.TrimSpace(match[2]),
				Checked: match[1] != " ",
				Line:    lineNo,
			})
			b.notePlaceholders(match[2])
			b.structural, b.lastOption = true, len(b.q.Options)-1
			continue
		}
		if match := metadataLine.FindStringSubmatch(trimmed); match != nil {
			b.applyMetadata(strings.ToLower(match[1]), match[2], lineNo, sink)
			b.lastOption = -1
			continue
		}
		if trimmed == "" {
			b.lastOption = -1
		} else if b.lastOption >= 0 {
			b.q.Options[b.lastOption].Text += "\n" + trimmed
			b.notePlaceholders(trimmed)
			continue
		}
		b.notePlaceholders(text)
		if b.structural {
			b.tail = append(b.tail, text)
		} else {
			b.prompt = append(b.prompt, text)
		}
	}

	b.q.Prompt = cleanText(b.prompt)
	b.q.Tail = cleanText(b.tail)
	if b.q.ID == "" {
		b.q.ID = fmt.Sprintf("q%d", number)
	}
	if b.q.Prompt == "" && len(b.q.CodeBlocks) == 0 {
		diag.Warnf(sink, diag.Location{Line: raw.line}, "question %s has no prompt", b.q.ID)
	}
	if b.explicit != "" {
		b.q.Kind, b.q.KindSource = b.explicit, KindExplicit
	} else {
		b.q.Kind, b.q.KindSource = infer(b.q, sink)
		diag.Debugf(sink, diag.Location{Line: raw.line}, "question %s inferred as %s", b.q.ID, b.q.Kind)
	}
	return b.q
}

func (b *questionBuilder) applyMetadata(key, value string, lineNo int, sink diag.Sink) {
	loc := diag.Location{Line: lineNo}
	switch key {
	case "type":
		kind, ok := ParseKind(value)
		if !ok {
			diag.Warnf(sink, loc, "unknown question type %q; type will be inferred", value)
			return
		}
		b.explicit = kind
	case "points":
		points, err := strconv.ParseFloat(value, 64)
		if err != nil || points <= 0 || math.IsInf(points, 0) || math.IsNaN(points) {
			diag.Warnf(sink, loc, "invalid points %q; using 1", value)
			return
		}
		b.q.Points = points
	case "id":
		if !explicitID.MatchString(value) {
			diag.Warnf(sink, loc, "invalid question id %q; using the generated id", value)
			return
		}
		b.q.ID = value
	}
}

func (b *questionBuilder) notePlaceholders(text string) {
	for _, match := range placeholder.FindAllStringSubmatch(text, -1) {
		id := strings.TrimLeft(match[1], "0")
		if id == "" {
			id = "0"
		}
		if _, ok := b.placeholders[id]; ok {
			continue
		}
		b.placeholders[id] = struct{}{}
		b.q.Placeholders = append(b.q.Placeholders, id)
	}
}

// collect gathers lines until a line equal to closer. It returns the content,
// the index of the closing line (or the last line) and whether it was closed.
func collect(body []sourceLine, from int, closer string) ([]string, int, bool) {
	var content []string
	for i := from; i < len(body); i++ {
		if strings.TrimSpace(body[i].text) == closer {
			return content, i, true
		}
		content = append(content, body[i].text)
	}
	return content, len(body) - 1, false
}

// splitHeader removes a recognized "(kind)" hint from a question heading.
func splitHeader(header string) (string, Kind) {
	for _, loc := range headerHint.FindAllStringSubmatchIndex(header, -1) {
		if kind, ok := ParseKind(header[loc[2]:loc[3]]); ok {
			title := strings.TrimSpace(header[:loc[0]] + header[loc[1]:])
			return strings.Join(strings.Fields(title), " "), kind
		}
	}
	return header, ""
}

func optionID(index int) string {
	id := ""
	for index >= 0 {
		id = string(rune('A'+index%26)) + id
		index = index/26 - 1
	}
	return id
}

func cleanText(lines []string) string {
	text := strings.TrimSpace(strings.Join(lines, "\n"))
	return blankRuns.ReplaceAllString(text, "\n\n")
}

func withSource(sink diag.Sink, name string) diag.Sink {
	if sink == nil || name == "" {
		return sink
	}
	return diag.SinkFunc(func(entry diag.Entry) {
		if entry.Location.Source == "" {
			entry.Location.Source = name
		}
		sink.Record(entry)
	})
}
