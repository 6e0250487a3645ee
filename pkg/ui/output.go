package ui

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// OutputSink abstracts where user-visible messages go (stdout vs a collector).
type OutputSink interface {
	Print(text string)
	Printf(format string, args ...any)
}

// StdoutSink writes directly to standard output.
type StdoutSink struct{}

func (StdoutSink) Print(text string)                 { fmt.Print(text) }
func (StdoutSink) Printf(format string, args ...any) { fmt.Printf(format, args...) }

var defaultSink OutputSink = StdoutSink{}

// SetDefaultSink sets the global default OutputSink.
func SetDefaultSink(s OutputSink) { defaultSink = s }

// Out returns the current default output sink.
func Out() OutputSink { return defaultSink }

// UseStdoutSink switches default output back to stdout.
func UseStdoutSink() { defaultSink = StdoutSink{} }

// IsTerminal reports whether stdout is attached to a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
