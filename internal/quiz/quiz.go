package quiz

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"quizdown/internal/config"
	"quizdown/internal/diag"
	"quizdown/internal/document"
	"quizdown/internal/question"
	"quizdown/internal/spec"
	"quizdown/internal/tags"
)

var (
	// ErrUnreadable reports a quiz file that could not be read.
	ErrUnreadable = errors.New("quiz file is unreadable")
	// ErrNoQuestions reports a quiz without a single gradable question.
	ErrNoQuestions = document.ErrNoQuestions
)

var fingerprintNamespace = uuid.MustParse("5b0f4c8e-3a57-4d6b-9a5f-8e1c2d3b4a60")

// Options controls how a quiz document is loaded.
type Options struct {
	// Name labels diagnostics; Load defaults it to the file's base name.
	Name string
	// ConfigPath points at an optional external YAML config file.
	ConfigPath string
	// EnvFile points at an optional dotenv file of config overrides.
	EnvFile string
	// Overrides take precedence over every other config source.
	Overrides map[string]any
	// Registry selects tag handlers; nil uses the built-in set.
	Registry *tags.Registry
	// Infer replaces question type inference when set.
	Infer document.InferFunc
	// Sink also receives every diagnostic.
	Sink diag.Sink
	Now  func() time.Time
}

// Quiz is a parsed quiz: effective config, document model, gradable specs
// and everything reported along the way.
type Quiz struct {
	Config      spec.Config         `json:"config"`
	Document    document.Document   `json:"document"`
	Specs       []question.Spec     `json:"specs"`
	Excluded    []document.Rejected `json:"excluded,omitempty"`
	Diagnostics []diag.Entry        `json:"diagnostics,omitempty"`
	Fingerprint uuid.UUID           `json:"fingerprint"`
}

// Load reads and parses the quiz at path.
func Load(path string, opts Options) (Quiz, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Quiz{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if opts.Name == "" {
		opts.Name = filepath.Base(path)
	}
	return Parse(data, opts)
}

// Parse builds a quiz from document bytes. Recoverable problems end up in
// Diagnostics; the error is non-nil only when no question survives.
func Parse(data []byte, opts Options) (Quiz, error) {
	collector := diag.NewCollector()
	var sink diag.Sink = collector
	if opts.Sink != nil {
		sink = diag.Tee(collector, opts.Sink)
	}

	front := config.SplitFrontmatter(string(data))
	sources := config.Sources{
		Header:    front.Header,
		HasHeader: front.Present,
		Overrides: opts.Overrides,
		Now:       opts.Now,
	}
	if opts.EnvFile != "" {
		values, err := config.ReadEnvFile(opts.EnvFile)
		if err != nil {
			diag.Warnf(sink, diag.Location{Source: opts.EnvFile}, "env file skipped: %v", err)
		} else {
			sources.EnvOverrides = values
		}
	}
	if opts.ConfigPath != "" {
		external, name, err := config.ReadExternal(opts.ConfigPath)
		if err != nil {
			diag.Warnf(sink, diag.Location{Source: opts.ConfigPath}, "external config skipped: %v", err)
		} else {
			sources.External = external
			sources.ExternalName = name
		}
	}

	q := Quiz{
		Config:      config.Merge(sources, sink),
		Fingerprint: uuid.NewSHA1(fingerprintNamespace, data),
	}

	parser := document.NewParser(opts.Registry)
	if opts.Infer != nil {
		parser.Infer = opts.Infer
	}
	bodySink := located(sink, opts.Name)
	doc, err := parser.Parse(document.Source{Name: opts.Name, Body: front.Body, StartLine: front.BodyStart}, bodySink)
	if err != nil {
		q.Diagnostics = collector.Entries()
		return q, err
	}
	q.Document = doc
	specs, rejected := question.Build(doc, bodySink)
	q.Specs = specs
	q.Excluded = append(append([]document.Rejected(nil), doc.Rejected...), rejected...)
	if len(q.Specs) == 0 {
		diag.Fatalf(sink, diag.Location{Source: opts.Name}, "every question was excluded")
		q.Diagnostics = collector.Entries()
		return q, ErrNoQuestions
	}
	q.Diagnostics = collector.Entries()
	return q, nil
}

// located stamps name on line-addressed entries that carry no source.
func located(sink diag.Sink, name string) diag.Sink {
	if name == "" {
		return sink
	}
	return diag.SinkFunc(func(entry diag.Entry) {
		if entry.Location.Source == "" && entry.Location.Line > 0 {
			entry.Location.Source = name
		}
		sink.Record(entry)
	})
}

// QuestionIDs lists spec ids in document order.
func (q Quiz) QuestionIDs() []string {
	ids := make([]string, 0, len(q.Specs))
	for _, spec := range q.Specs {
		ids = append(ids, spec.Info().ID)
	}
	return ids
}

// TimeLimit returns the configured limit; zero means unlimited.
func (q Quiz) TimeLimit() time.Duration {
	return time.Duration(q.Config.Quiz.TimeLimit) * time.Minute
}
