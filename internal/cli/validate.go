package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"quizdown/internal/diag"
	"quizdown/internal/quiz"
	"quizdown/internal/report"
)

// runValidate builds the handler for the validate command.
func runValidate(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		sources := addSourceFlags(flags)
		noColor := flags.Bool("no-color", false, "Disable coloured diagnostics")
		quizPath, err := quizArg(flags, args)
		if err != nil {
			fmt.Fprintf(stderr, "invalid arguments: %v\n", err)
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		opts, err := sources.options(quizPath)
		if err != nil {
			fmt.Fprintf(stderr, "Validation failed:\n%v\n", err)
			return ExitError
		}
		loaded, err := quiz.Load(quizPath, opts)
		report.RenderDiagnostics(stderr, loaded.Diagnostics, *noColor)
		if err != nil {
			if !errors.Is(err, quiz.ErrNoQuestions) {
				fmt.Fprintf(stderr, "Validation failed:\n%v\n", err)
			}
			return ExitError
		}
		if hasErrors(loaded.Diagnostics) {
			fmt.Fprintf(stderr, "Validation failed: %d question(s) excluded\n", len(loaded.Excluded))
			return ExitError
		}

		fmt.Fprintf(stdout, "Quiz OK: %d questions in %d sections\n", len(loaded.Specs), len(loaded.Document.Sections))
		return ExitOK
	}
}

func hasErrors(entries []diag.Entry) bool {
	for _, entry := range entries {
		if entry.Severity >= diag.SeverityError {
			return true
		}
	}
	return false
}
