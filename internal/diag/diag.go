// Package diag is this module's logging sink: a thin wrapper over
// stdout/stderr gated by --verbose/--silent, and the "[subsystem] kind:
// message" error formatting used throughout extraction. It deliberately
// does not pull in a structured-logging library — the teacher's own cmd/
// package logs the same way, with fmt.Println/fmt.Printf and wrapped
// fmt.Errorf errors.
package diag

import (
	"fmt"
	"io"
)

// Sink writes progress and diagnostic output, honoring verbosity settings.
type Sink struct {
	out     io.Writer
	err     io.Writer
	verbose bool
	silent  bool
}

// New builds a Sink writing to out/err. silent suppresses everything but
// Error output; verbose additionally enables Detail output. silent wins if
// both are set.
func New(out, err io.Writer, verbose, silent bool) *Sink {
	return &Sink{out: out, err: err, verbose: verbose, silent: silent}
}

// Info prints a normal-priority progress line, suppressed by --silent.
func (s *Sink) Info(format string, args ...any) {
	if s.silent {
		return
	}
	fmt.Fprintf(s.out, format+"\n", args...)
}

// Detail prints a line only shown with --verbose.
func (s *Sink) Detail(format string, args ...any) {
	if s.silent || !s.verbose {
		return
	}
	fmt.Fprintf(s.out, format+"\n", args...)
}

// Warn prints a warning line to stderr, suppressed by --silent.
func (s *Sink) Warn(format string, args ...any) {
	if s.silent {
		return
	}
	fmt.Fprintf(s.err, "warning: "+format+"\n", args...)
}

// Error prints an error line to stderr. Never suppressed.
func (s *Sink) Error(format string, args ...any) {
	fmt.Fprintf(s.err, "error: "+format+"\n", args...)
}

// Kind identifies the broad category of a reported error, matching the
// error-handling design's taxonomy.
type Kind string

const (
	KindConfig   Kind = "config"
	KindIO       Kind = "io"
	KindParse    Kind = "parse"
	KindConflict Kind = "conflict"
	KindUnsupported Kind = "unsupported"
)

// Error wraps an underlying error with a subsystem name and a Kind,
// formatting as "[subsystem] kind: message".
type Error struct {
	Subsystem string
	Kind      Kind
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Subsystem, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap builds an *Error tagging err with subsystem and kind.
func Wrap(subsystem string, kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Subsystem: subsystem, Kind: kind, Err: err}
}
