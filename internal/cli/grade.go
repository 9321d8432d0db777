package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"quizdown/internal/diag"
	"quizdown/internal/quiz"
	"quizdown/internal/report"
	"quizdown/internal/responses"
	"quizdown/internal/session"
	"quizdown/internal/ui/live"
)

// startLiveUI is replaced in tests.
var startLiveUI = live.Start

// runGrade builds the handler for the grade command.
func runGrade(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		sources := addSourceFlags(flags)
		responsesPath := flags.String("responses", "", "Path to a YAML or JSON responses file")
		uiMode := flags.String("ui", "auto", "Output mode: auto|live|plain")
		jsonOut := flags.Bool("json", false, "Print the graded attempt as JSON")
		noColor := flags.Bool("no-color", false, "Disable coloured output")
		showAnswers := flags.Bool("show-answers", false, "Print the correct answer for missed questions")
		quizPath, err := quizArg(flags, args)
		if err != nil {
			fmt.Fprintf(stderr, "invalid arguments: %v\n", err)
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		if *responsesPath == "" {
			fmt.Fprintln(stderr, "Missing --responses")
			return ExitUsage
		}
		decision, err := resolveUIMode(*uiMode, *jsonOut, stdout)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return ExitUsage
		}
		if decision.warning != "" {
			fmt.Fprintln(stderr, decision.warning)
		}

		opts, err := sources.options(quizPath)
		if err != nil {
			fmt.Fprintf(stderr, "Grade failed: %v\n", err)
			return ExitError
		}
		loaded, err := quiz.Load(quizPath, opts)
		report.RenderDiagnostics(stderr, warningsAndAbove(loaded.Diagnostics), *noColor)
		if err != nil {
			fmt.Fprintf(stderr, "Grade failed: %v\n", err)
			return ExitError
		}

		collector := diag.NewCollector()
		answers, err := responses.Load(*responsesPath, loaded.Specs, collector)
		report.RenderDiagnostics(stderr, collector.Entries(), *noColor)
		if err != nil {
			fmt.Fprintf(stderr, "Grade failed: %v\n", err)
			return ExitError
		}

		var controller *live.Controller
		var observer session.Observer
		if decision.useLive {
			controller = startLiveUI(stdout, live.Options{NoColor: *noColor})
			observer = controller
		}
		attempt, err := gradeAttempt(loaded, answers, observer, stderr)
		controller.Close()
		controller.Wait()
		if err != nil {
			fmt.Fprintf(stderr, "Grade failed: %v\n", err)
			return ExitError
		}

		if *jsonOut {
			err = report.RenderJSON(stdout, attempt)
		} else {
			err = report.RenderText(stdout, attempt, report.Options{NoColor: *noColor, ShowKey: *showAnswers})
		}
		if err != nil {
			fmt.Fprintf(stderr, "Grade failed: %v\n", err)
			return ExitError
		}
		return ExitOK
	}
}

// gradeAttempt records every response, submits once and applies self-grades.
// The time limit is armed for the duration of the attempt.
func gradeAttempt(loaded quiz.Quiz, answers responses.Set, observer session.Observer, stderr io.Writer) (report.Attempt, error) {
	cfg := loaded.Config
	s, err := session.New(loaded.Specs, session.Options{
		Title:        cfg.Quiz.Title,
		Scale:        cfg.Grading.Scale,
		PassingScore: cfg.Behavior.PassingScore,
		TimeLimit:    loaded.TimeLimit(),
		Observer:     observer,
	})
	if err != nil {
		return report.Attempt{}, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	timer := s.StartTimer(ctx)
	defer timer.Stop()

	for _, id := range loaded.QuestionIDs() {
		response, ok := answers.Responses[id]
		if !ok {
			continue
		}
		if err := s.Record(id, response); err != nil {
			fmt.Fprintf(stderr, "warning: %s: %v\n", id, err)
		}
	}
	outcome := s.Finalize(session.ReasonManual)
	for _, grade := range answers.SelfGrades {
		if _, err := s.SelfGrade(grade.QuestionID, grade.Coefficient); err != nil {
			fmt.Fprintf(stderr, "warning: self grade %s: %v\n", grade.QuestionID, err)
		}
	}
	if latest, ok := s.Outcome(); ok {
		outcome = latest
	}
	return report.Build(cfg.Quiz.Title, loaded.Specs, outcome, loaded.Excluded), nil
}

func warningsAndAbove(entries []diag.Entry) []diag.Entry {
	var out []diag.Entry
	for _, entry := range entries {
		if entry.Severity >= diag.SeverityWarning {
			out = append(out, entry)
		}
	}
	return out
}
