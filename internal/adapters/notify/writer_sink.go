// Package notify contains the writer-backed notification sink. It doubles as
// the human-visible progress log: the CLI hands it stdout and installation
// events render line by line as they happen.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/example/depot/internal/ports/secondary"
)

// WriterSink implements secondary.NotificationSink by rendering events to an
// io.Writer. Emission is best-effort: write errors are swallowed, matching
// the port contract that a missed event never fails an installation.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink creates a sink that renders events to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// EmitProgress reports a step transition.
func (s *WriterSink) EmitProgress(event secondary.InstallEvent) {
	s.emit(event, color.New(color.FgCyan).Sprint(event.Status))
}

// EmitComplete reports a successful installation.
func (s *WriterSink) EmitComplete(event secondary.InstallEvent) {
	s.emit(event, color.New(color.FgGreen).Sprint(event.Status))
}

// EmitError reports a failed installation.
func (s *WriterSink) EmitError(event secondary.InstallEvent) {
	s.emit(event, color.New(color.FgRed).Sprint(event.Status))
}

// EmitCancelled reports a cancelled installation.
func (s *WriterSink) EmitCancelled(event secondary.InstallEvent) {
	s.emit(event, color.New(color.FgYellow).Sprint(event.Status))
}

// EmitRollback reports a rollback.
func (s *WriterSink) EmitRollback(event secondary.InstallEvent) {
	s.emit(event, color.New(color.FgYellow).Sprint(event.Status))
}

// emit writes one line per event. The mutex keeps events ordered per
// attempt when emissions interleave.
func (s *WriterSink) emit(event secondary.InstallEvent, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line := fmt.Sprintf("[%s] %3d%% %-22s %s", event.InstallationID, event.Progress, event.Step, status)
	if event.Message != "" {
		line += " - " + event.Message
	}
	fmt.Fprintln(s.w, line)
}

// NopSink implements secondary.NotificationSink by discarding every event.
// Used where progress output is unwanted (tests, scripted invocations).
type NopSink struct{}

func (NopSink) EmitProgress(secondary.InstallEvent)  {}
func (NopSink) EmitComplete(secondary.InstallEvent)  {}
func (NopSink) EmitError(secondary.InstallEvent)     {}
func (NopSink) EmitCancelled(secondary.InstallEvent) {}
func (NopSink) EmitRollback(secondary.InstallEvent)  {}

// Ensure the sinks implement the interface
var (
	_ secondary.NotificationSink = (*WriterSink)(nil)
	_ secondary.NotificationSink = NopSink{}
)
