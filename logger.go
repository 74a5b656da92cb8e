package offscreen

import (
	"log/slog"

	"github.com/gogpu/offscreen/internal/logging"
)

// SetLogger configures the logger for offscreen and all of its packages.
// By default, offscreen produces no log output. Pass nil to restore the
// silent default.
//
// SetLogger is safe for concurrent use: paint callbacks on runtime
// goroutines may log while the logger is being replaced.
//
// Log levels used by offscreen:
//   - [slog.LevelDebug]: per-frame and per-tick diagnostics
//   - [slog.LevelInfo]: lifecycle events (engine start, surface activation)
//   - [slog.LevelWarn]: rejected paints, upload failures, load errors
//
// Example:
//
//	offscreen.SetLogger(slog.Default())
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Logger returns the current logger used by offscreen.
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return logging.Logger()
}
