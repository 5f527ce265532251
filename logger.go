package proptree

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip attribute formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called while a paint pass on another goroutine logs.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for proptree and all its sub-packages.
// By default, proptree produces no log output.
//
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by proptree:
//   - [slog.LevelDebug]: node creation and removal, mapper cache resets,
//     failed geometry queries
//   - [slog.LevelInfo]: completed builder passes
//   - [slog.LevelWarn]: ignored input (unsupported CSS, malformed documents)
//
// Example:
//
//	proptree.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by proptree.
// Sub-packages (builder/, document/) call this to share the same
// logger configuration without introducing import cycles.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
