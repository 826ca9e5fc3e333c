// Package telemetry wraps a zerolog.Logger for the three fatal-error
// classes of spec.md §7 and coarse init/load milestones. Ordinary
// HalfStep/Relax calls never log (spec.md: "ordinary operation never
// errors").
package telemetry

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is the package's thin wrapper. Its zero value is not usable;
// construct one with New.
type Logger struct {
	zl zerolog.Logger
}

// New builds a Logger writing human-readable console output to w (pass
// os.Stderr in cmd/gatesim). A nil w defaults to os.Stderr.
func New(w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	return &Logger{zl: zerolog.New(cw).With().Timestamp().Logger()}
}

// BuildFailed logs a fatal network-build error (spec.md §7's
// build-time fatal class) and terminates the process.
func (l *Logger) BuildFailed(err error) {
	l.zl.Fatal().Err(err).Msg("network build failed")
}

// ROMLoadFailed logs a fatal ROM-load error (spec.md §7's ROM-load
// fatal class) and terminates the process.
func (l *Logger) ROMLoadFailed(path string, err error) {
	l.zl.Fatal().Str("rom", path).Err(err).Msg("rom load failed")
}

// InvariantViolation logs a fatal relaxation-engine invariant
// violation (spec.md §7's invariant-violation fatal class), recovered
// from a panic, and terminates the process.
func (l *Logger) InvariantViolation(recovered any) {
	l.zl.Fatal().Interface("panic", recovered).Msg("engine invariant violation")
}

// Milestone logs a coarse, non-fatal progress event (network built,
// ROM loaded, power-on complete).
func (l *Logger) Milestone(msg string, fields map[string]any) {
	ev := l.zl.Info()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}
