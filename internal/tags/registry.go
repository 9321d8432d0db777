package tags

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"quizdown/internal/diag"
)

// RawTag is the block tag used for unrecognized content.
const RawTag = "raw"

// Handler turns the raw content of a tag block into a payload.
type Handler interface {
	Parse(raw string) (Payload, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(raw string) (Payload, error)

// Parse calls f(raw).
func (f HandlerFunc) Parse(raw string) (Payload, error) {
	return f(raw)
}

// Registry maps tag names to handlers. Names are case-insensitive and a later
// registration replaces an earlier one.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: map[string]Handler{}}
}

// NewDefaultRegistry returns a registry holding every built-in handler.
func NewDefaultRegistry() *Registry {
	registry := NewRegistry()
	for name, handler := range builtins() {
		registry.Register(name, handler)
	}
	return registry
}

// Register installs handler under name, replacing any previous handler.
func (r *Registry) Register(name string, handler Handler) {
	key := normalizeName(name)
	if key == "" || handler == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[key] = handler
}

// Lookup returns the handler registered under name.
func (r *Registry) Lookup(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, ok := r.handlers[normalizeName(name)]
	return handler, ok
}

// Names lists registered tag names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy so callers can extend it safely.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := NewRegistry()
	for name, handler := range r.handlers {
		clone.handlers[name] = handler
	}
	return clone
}

// Dispatch parses one block. An unknown tag is passed through as Raw with a
// warning. Lines a handler skipped are warned about one by one and the block
// is kept. A failing or panicking handler is reported as a warning for that
// block only and ok is false.
func (r *Registry) Dispatch(name, raw string, loc diag.Location, sink diag.Sink) (block Block, ok bool) {
	tag := normalizeName(name)
	handler, found := r.Lookup(tag)
	if !found {
		diag.Warnf(sink, loc, "unknown tag %q kept as raw content", tag)
		return Block{Tag: RawTag, Payload: Raw{Tag: tag, Text: strings.TrimSpace(raw)}, Line: loc.Line}, true
	}
	payload, err := safeParse(handler, raw)
	var lineErrs *LineErrors
	if errors.As(err, &lineErrs) {
		for _, line := range lineErrs.Lines {
			lineLoc := loc
			if loc.Line > 0 {
				lineLoc.Line = loc.Line + line.Offset
			}
			diag.Warnf(sink, lineLoc, "tag %q: line skipped: %s", tag, line.Reason)
		}
		if payload != nil {
			err = nil
		}
	}
	if err != nil {
		diag.Warnf(sink, loc, "tag %q skipped: %v", tag, err)
		return Block{}, false
	}
	if payload == nil {
		diag.Warnf(sink, loc, "tag %q skipped: handler returned no payload", tag)
		return Block{}, false
	}
	return Block{Tag: tag, Payload: payload, Line: loc.Line}, true
}

func safeParse(handler Handler, raw string) (payload Payload, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			payload = nil
			err = fmt.Errorf("handler panic: %v", recovered)
		}
	}()
	return handler.Parse(raw)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
