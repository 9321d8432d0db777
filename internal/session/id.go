package session

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

// idSuffixLen keeps the random part short enough to read in a terminal.
const idSuffixLen = 12

// NewID returns a sortable session id such as 20260314T090000Z-a1b2c3d4e5f6.
// The suffix comes from a random UUID.
func NewID(now time.Time) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return formatID(now, id), nil
}

// NewIDFromReader is NewID with the UUID drawn from r, for reproducible ids.
func NewIDFromReader(now time.Time, r io.Reader) (string, error) {
	if r == nil {
		return "", fmt.Errorf("random reader is nil")
	}
	id, err := uuid.NewRandomFromReader(r)
	if err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return formatID(now, id), nil
}

func formatID(now time.Time, id uuid.UUID) string {
	suffix := strings.ReplaceAll(id.String(), "-", "")[:idSuffixLen]
	return now.UTC().Format("20060102T150405Z") + "-" + suffix
}
