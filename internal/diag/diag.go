package diag

import (
	"fmt"
	"sync"
)

// Severity ranks a diagnostic entry.
type Severity int

const (
	// SeverityDebug marks trace output useful only while debugging a document.
	SeverityDebug Severity = iota
	// SeverityInfo marks informational notes such as an inferred question type.
	SeverityInfo
	// SeverityWarning marks a recoverable problem handled with a default.
	SeverityWarning
	// SeverityError marks a structural problem that excludes a question.
	SeverityError
	// SeverityFatal marks a problem that aborts the parse.
	SeverityFatal
)

// String returns the lowercase severity label.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// MarshalText renders the severity label for JSON and YAML output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Location points at the origin of a diagnostic inside the source document.
type Location struct {
	Source string `json:"source,omitempty"`
	Line   int    `json:"line,omitempty"`
}

// String renders the location as "source:line".
func (l Location) String() string {
	switch {
	case l.Source != "" && l.Line > 0:
		return fmt.Sprintf("%s:%d", l.Source, l.Line)
	case l.Source != "":
		return l.Source
	case l.Line > 0:
		return fmt.Sprintf("line %d", l.Line)
	default:
		return ""
	}
}

// Entry is a single (severity, location, message) record.
type Entry struct {
	Severity Severity `json:"severity"`
	Location Location `json:"location"`
	Message  string   `json:"message"`
}

// String renders the entry as a single log line.
func (e Entry) String() string {
	loc := e.Location.String()
	if loc == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Severity, loc, e.Message)
}

// Sink receives diagnostics raised while loading and parsing a quiz.
type Sink interface {
	Record(entry Entry)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(entry Entry)

// Record calls f(entry).
func (f SinkFunc) Record(entry Entry) { f(entry) }

// Discard drops every entry.
var Discard Sink = SinkFunc(func(Entry) {})

// Warnf records a warning on sink.
func Warnf(sink Sink, loc Location, format string, args ...any) {
	emit(sink, SeverityWarning, loc, format, args...)
}

// Errorf records a structural error on sink.
func Errorf(sink Sink, loc Location, format string, args ...any) {
	emit(sink, SeverityError, loc, format, args...)
}

// Infof records an informational note on sink.
func Infof(sink Sink, loc Location, format string, args ...any) {
	emit(sink, SeverityInfo, loc, format, args...)
}

// Debugf records a debug note on sink.
func Debugf(sink Sink, loc Location, format string, args ...any) {
	emit(sink, SeverityDebug, loc, format, args...)
}

// Fatalf records a fatal entry on sink.
func Fatalf(sink Sink, loc Location, format string, args ...any) {
	emit(sink, SeverityFatal, loc, format, args...)
}

func emit(sink Sink, severity Severity, loc Location, format string, args ...any) {
	if sink == nil {
		return
	}
	sink.Record(Entry{Severity: severity, Location: loc, Message: fmt.Sprintf(format, args...)})
}

// Collector accumulates entries and is safe for concurrent use.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Record appends an entry.
func (c *Collector) Record(entry Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, entry)
}

// Entries returns a copy of all recorded entries in arrival order.
func (c *Collector) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// AtLeast returns entries whose severity is >= min.
func (c *Collector) AtLeast(min Severity) []Entry {
	var out []Entry
	for _, entry := range c.Entries() {
		if entry.Severity >= min {
			out = append(out, entry)
		}
	}
	return out
}

// Warnings returns warning entries only.
func (c *Collector) Warnings() []Entry {
	var out []Entry
	for _, entry := range c.Entries() {
		if entry.Severity == SeverityWarning {
			out = append(out, entry)
		}
	}
	return out
}

// Errors returns error and fatal entries.
func (c *Collector) Errors() []Entry {
	return c.AtLeast(SeverityError)
}

// HasErrors reports whether any error or fatal entry was recorded.
func (c *Collector) HasErrors() bool {
	return len(c.Errors()) > 0
}

// Tee fans entries out to every non-nil sink.
func Tee(sinks ...Sink) Sink {
	targets := make([]Sink, 0, len(sinks))
	for _, sink := range sinks {
		if sink != nil {
			targets = append(targets, sink)
		}
	}
	return SinkFunc(func(entry Entry) {
		for _, sink := range targets {
			sink.Record(entry)
		}
	})
}

// MinSeverity forwards only entries at or above min.
func MinSeverity(sink Sink, min Severity) Sink {
	return SinkFunc(func(entry Entry) {
		if sink != nil && entry.Severity >= min {
			sink.Record(entry)
		}
	})
}
