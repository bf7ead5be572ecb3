package tokenlayer

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var loggerPtr atomic.Pointer[zap.Logger]

func init() {
	loggerPtr.Store(zap.NewNop())
}

// SetLogger configures the logger used by tokenlayer.
// By default the package produces no log output. Pass nil to restore the
// silent default.
//
// Levels used:
//   - Debug: mask classification, traced point counts, skipped operations
//   - Warn: stale or unresolvable mask handles during redraw and compositing
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	loggerPtr.Store(l)
}

// Logger returns the current package logger.
func Logger() *zap.Logger {
	return loggerPtr.Load()
}
