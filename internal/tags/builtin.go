package tags

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// ErrEmptyBlock reports a structural block without any entries.
var ErrEmptyBlock = errors.New("block has no entries")

var (
	itemPattern     = regexp.MustCompile(`^(?:(\d+)\.\s*|-\s*)(.+)$`)
	markdownLink    = regexp.MustCompile(`^\[([^\]]+)\]\(([^)]+)\)$`)
	leadingDigits   = regexp.MustCompile(`^(\d+)`)
	textTags        = []string{"theory", "hint", "explanation", "feedback_positive", "feedback_negative", "sample_answer"}
	imageDefaults   = Media{}
	videoDefaults   = Media{Width: "560", Height: "315"}
	embedDefaults   = Media{Width: "100%", Height: "400"}
	imageFields     = []string{"url", "alt", "caption", "width"}
	frameFields     = []string{"url", "title", "width", "height"}
	bookFields      = []string{"title", "chapter", "section", "pages"}
	errMissingColon = errors.New(`expected "key: value"`)
)

func builtins() map[string]Handler {
	handlers := map[string]Handler{
		"image":         mediaHandler(imageDefaults, imageFields),
		"video":         mediaHandler(videoDefaults, frameFields),
		"embed":         mediaHandler(embedDefaults, frameFields),
		"explore":       HandlerFunc(parseExplore),
		"book":          HandlerFunc(parseBook),
		"matches":       HandlerFunc(parseMatches),
		"items":         HandlerFunc(parseItems),
		"correct_order": HandlerFunc(parseOrder),
		"blanks":        HandlerFunc(parseBlanks),
	}
	for _, name := range textTags {
		handlers[name] = HandlerFunc(parseText)
	}
	return handlers
}

func parseText(raw string) (Payload, error) {
	return Text{Text: strings.TrimSpace(raw)}, nil
}

func mediaHandler(defaults Media, allowed []string) Handler {
	return HandlerFunc(func(raw string) (Payload, error) {
		media := defaults
		for _, field := range keyValues(raw) {
			if !slices.Contains(allowed, field.Key) {
				continue
			}
			switch field.Key {
			case "url":
				media.URL = field.Value
			case "alt":
				media.Alt = field.Value
			case "caption":
				media.Caption = field.Value
			case "title":
				media.Title = field.Value
			case "width":
				media.Width = field.Value
			case "height":
				media.Height = field.Value
			}
		}
		if media.URL == "" {
			return nil, errors.New("url is required")
		}
		return media, nil
	})
}

func parseExplore(raw string) (Payload, error) {
	explore := Explore{Links: []Link{}}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "-") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "-"))
		if match := markdownLink.FindStringSubmatch(line); match != nil {
			explore.Links = append(explore.Links, Link{Text: match[1], URL: match[2]})
			continue
		}
		key, value, found := strings.Cut(line, ":")
		value = strings.TrimSpace(value)
		if found && strings.HasPrefix(value, "http") {
			explore.Links = append(explore.Links, Link{Text: strings.TrimSpace(key), URL: value})
		}
	}
	return explore, nil
}

func parseBook(raw string) (Payload, error) {
	var book Book
	for _, field := range keyValues(raw) {
		switch field.Key {
		case "title":
			book.Title = field.Value
		case "chapter":
			book.Chapter = field.Value
		case "section":
			book.Section = field.Value
		case "pages":
			book.Pages = field.Value
		}
	}
	if match := leadingDigits.FindString(book.Pages); match != "" {
		book.StartPage, _ = strconv.Atoi(match)
	}
	return book, nil
}

func parseMatches(raw string) (Payload, error) {
	matches := Matches{}
	var skipped LineErrors
	for index, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			skipped.add(index, errMissingColon.Error())
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if key == "" || value == "" {
			skipped.add(index, "key and value must be non-empty")
			continue
		}
		matches.Pairs = append(matches.Pairs, Pair{Key: key, Value: value})
	}
	if len(matches.Pairs) == 0 {
		return nil, skipped.fail(ErrEmptyBlock)
	}
	return matches, skipped.err()
}

func parseItems(raw string) (Payload, error) {
	items := Items{}
	var skipped LineErrors
	for index, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		match := itemPattern.FindStringSubmatch(line)
		if match == nil {
			skipped.add(index, `expected "1. text" or "- text"`)
			continue
		}
		position := len(items.Items) + 1
		if match[1] != "" {
			position, _ = strconv.Atoi(match[1])
		}
		items.Items = append(items.Items, Item{Position: position, Text: strings.TrimSpace(match[2])})
	}
	if len(items.Items) == 0 {
		return nil, skipped.fail(ErrEmptyBlock)
	}
	return items, skipped.err()
}

func parseOrder(raw string) (Payload, error) {
	separator := "\n"
	if strings.Contains(raw, ",") {
		separator = ","
	}
	order := Order{}
	for _, entry := range strings.Split(raw, separator) {
		if entry = strings.TrimSpace(entry); entry != "" {
			order.Entries = append(order.Entries, entry)
		}
	}
	if len(order.Entries) == 0 {
		return nil, ErrEmptyBlock
	}
	return order, nil
}

func parseBlanks(raw string) (Payload, error) {
	blanks := Blanks{}
	var skipped LineErrors
	seen := map[string]struct{}{}
	for index, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		id, answers, found := strings.Cut(line, ":")
		if !found {
			skipped.add(index, errMissingColon.Error())
			continue
		}
		id = strings.TrimSpace(id)
		if id == "" {
			skipped.add(index, "blank id is required")
			continue
		}
		if _, dup := seen[id]; dup {
			skipped.add(index, fmt.Sprintf("duplicate blank %q", id))
			continue
		}
		seen[id] = struct{}{}
		blank := Blank{ID: id, Alternatives: []string{}}
		for _, alternative := range strings.Split(answers, "|") {
			if alternative = strings.TrimSpace(alternative); alternative != "" {
				blank.Alternatives = append(blank.Alternatives, alternative)
			}
		}
		blanks.Entries = append(blanks.Entries, blank)
	}
	if len(blanks.Entries) == 0 {
		return nil, skipped.fail(ErrEmptyBlock)
	}
	return blanks, skipped.err()
}

// keyValues reads "key: value" lines with lowercased keys. Other lines are ignored.
func keyValues(raw string) []Pair {
	var fields []Pair
	for _, line := range strings.Split(raw, "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		fields = append(fields, Pair{Key: strings.ToLower(strings.TrimSpace(key)), Value: strings.TrimSpace(value)})
	}
	return fields
}
