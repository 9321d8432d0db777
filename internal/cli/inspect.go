package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/google/uuid"

	"quizdown/internal/diag"
	"quizdown/internal/document"
	"quizdown/internal/question"
	"quizdown/internal/quiz"
	"quizdown/internal/spec"
)

// inspection is the JSON document printed by inspect.
type inspection struct {
	Fingerprint uuid.UUID           `json:"fingerprint"`
	Config      spec.Config         `json:"config"`
	Questions   []question.Spec     `json:"questions"`
	Excluded    []document.Rejected `json:"excluded,omitempty"`
	Diagnostics []diag.Entry        `json:"diagnostics,omitempty"`
}

// runInspect builds the handler for the inspect command.
func runInspect(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		sources := addSourceFlags(flags)
		quizPath, err := quizArg(flags, args)
		if err != nil {
			fmt.Fprintf(stderr, "invalid arguments: %v\n", err)
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		opts, err := sources.options(quizPath)
		if err != nil {
			fmt.Fprintf(stderr, "Inspect failed: %v\n", err)
			return ExitError
		}
		loaded, err := quiz.Load(quizPath, opts)
		if err != nil {
			fmt.Fprintf(stderr, "Inspect failed: %v\n", err)
			return ExitError
		}

		encoder := json.NewEncoder(stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(inspection{
			Fingerprint: loaded.Fingerprint,
			Config:      loaded.Config,
			Questions:   loaded.Specs,
			Excluded:    loaded.Excluded,
			Diagnostics: loaded.Diagnostics,
		}); err != nil {
			fmt.Fprintf(stderr, "Inspect failed: %v\n", err)
			return ExitError
		}
		return ExitOK
	}
}
