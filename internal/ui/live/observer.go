package live

import (
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"quizdown/internal/session"
)

// Controller runs the live UI and implements session.Observer.
type Controller struct {
	events    chan Event
	program   *tea.Program
	done      chan struct{}
	closeOnce sync.Once
}

// Start launches a live UI controller that writes to stdout.
func Start(stdout io.Writer, opts Options) *Controller {
	if stdout == nil {
		stdout = os.Stdout
	}
	events := make(chan Event, 256)
	model := NewModel(events, opts)
	programOpts := []tea.ProgramOption{tea.WithOutput(stdout), tea.WithInput(nil)}
	if opts.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	program := tea.NewProgram(model, programOpts...)
	controller := &Controller{
		events:  events,
		program: program,
		done:    make(chan struct{}),
	}
	go func() {
		_, _ = program.Run()
		close(controller.done)
	}()
	return controller
}

// Close signals the UI to stop once pending events are drawn.
func (c *Controller) Close() {
	if c == nil {
		return
	}
	c.closeOnce.Do(func() {
		close(c.events)
	})
}

// Wait blocks until the UI has exited.
func (c *Controller) Wait() {
	if c == nil || c.done == nil {
		return
	}
	<-c.done
}

// OnSessionStart forwards session start events to the UI.
func (c *Controller) OnSessionStart(info session.Info) {
	c.send(Event{Kind: EventSessionStart, Session: info})
}

// OnQuestionEvent forwards question updates to the UI.
func (c *Controller) OnQuestionEvent(event session.QuestionEvent) {
	c.send(Event{Kind: EventQuestion, Question: event})
}

// OnFinalize forwards the submission outcome. The UI stays open so
// self-grades applied afterwards are still shown; callers Close it.
func (c *Controller) OnFinalize(outcome session.Outcome) {
	c.send(Event{Kind: EventFinalize, Outcome: outcome})
}

// send enqueues an event without blocking the caller. Session observers run
// under the session lock, so a full buffer drops the event.
func (c *Controller) send(event Event) {
	if c == nil {
		return
	}
	select {
	case c.events <- event:
	default:
	}
}
