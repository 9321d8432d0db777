package tags

import (
	"fmt"
	"strings"
)

// LineError is one content line a handler skipped. Offset counts from 1 at
// the first line after the opening tag.
type LineError struct {
	Offset int
	Reason string
}

// LineErrors is returned by handlers that skipped some lines. Alongside a
// payload it means the block is usable; with a nil payload Err says why the
// block was dropped.
type LineErrors struct {
	Lines []LineError
	Err   error
}

func (e *LineErrors) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	reasons := make([]string, 0, len(e.Lines))
	for _, line := range e.Lines {
		reasons = append(reasons, fmt.Sprintf("line %d: %s", line.Offset, line.Reason))
	}
	return strings.Join(reasons, "; ")
}

func (e *LineErrors) Unwrap() error { return e.Err }

func (e *LineErrors) add(index int, reason string) {
	e.Lines = append(e.Lines, LineError{Offset: index + 1, Reason: reason})
}

// err returns nil when nothing was skipped.
func (e *LineErrors) err() error {
	if len(e.Lines) == 0 {
		return nil
	}
	return e
}

func (e *LineErrors) fail(cause error) error {
	e.Err = cause
	return e
}
