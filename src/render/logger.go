package render

import (
	"context"
	"log/slog"
	"sync/atomic"
)

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger used by render and its backends. Logging
// is disabled by default, passing nil disables it again.
//
// Levels used:
//   - Debug: skipped frames, command buffer allocation
//   - Info: swapchain creation
//   - Warn: swapchain rebuilds caused by resize or a suboptimal swapchain
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the logger shared by render and its backends.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

func logger() *slog.Logger {
	return loggerPtr.Load()
}
