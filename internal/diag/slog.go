package diag

import (
	"context"
	"log/slog"
)

// slogSink forwards entries to a structured logger.
type slogSink struct {
	logger *slog.Logger
}

// NewSlogSink returns a sink that logs each entry through logger.
func NewSlogSink(logger *slog.Logger) Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &slogSink{logger: logger}
}

// Record logs the entry with source and line attributes.
func (s *slogSink) Record(entry Entry) {
	attrs := make([]slog.Attr, 0, 2)
	if entry.Location.Source != "" {
		attrs = append(attrs, slog.String("source", entry.Location.Source))
	}
	if entry.Location.Line > 0 {
		attrs = append(attrs, slog.Int("line", entry.Location.Line))
	}
	s.logger.LogAttrs(context.Background(), slogLevel(entry.Severity), entry.Message, attrs...)
}

func slogLevel(severity Severity) slog.Level {
	switch severity {
	case SeverityDebug:
		return slog.LevelDebug
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
