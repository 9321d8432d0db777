package config

import "strings"

const frontmatterDelimiter = "---"

// Frontmatter is the configuration header split off a quiz document.
type Frontmatter struct {
	Header    []byte
	Present   bool
	Body      string
	BodyStart int // 1-based line number of the first body line
}

// SplitFrontmatter separates a leading "---" delimited header from the body.
// A document without a closed header is returned unchanged as body.
func SplitFrontmatter(content string) Frontmatter {
	content = strings.TrimPrefix(content, "\ufeff")
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != frontmatterDelimiter {
		return Frontmatter{Body: content, BodyStart: 1}
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != frontmatterDelimiter {
			continue
		}
		return Frontmatter{
			Header:    []byte(strings.Join(lines[1:i], "\n")),
			Present:   true,
			Body:      strings.Join(lines[i+1:], "\n"),
			BodyStart: i + 2,
		}
	}
	return Frontmatter{Body: content, BodyStart: 1}
}
