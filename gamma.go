// Package gamma enumerates display outputs and reads or writes their gamma
// correction ramps across display server backends.
//
// Resources form a three level hierarchy. A [Site] is a connection to a
// backend (an adjustment [Method]), a [Partition] is a subdivision of a site,
// usually a screen or graphics card, and a [CRTC] is one output within a
// partition. Each level is opened from its parent by index and closed
// explicitly; close children before their parents.
//
// Gamma ramps are held in a [GammaRamps] set of any [Sample] type. The set is
// converted to and from the backend's native ramp format as needed.
package gamma

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
)

func init() {
	if os.Getenv("GAMMA_DEBUG") != "" {
		SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}
}

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

// SetLogger configures the logger used by the package. By default nothing is
// logged, unless GAMMA_DEBUG is set in the environment, in which case debug
// output goes to stderr. Pass nil to silence logging again.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	if l := loggerPtr.Load(); l != nil {
		return l
	}
	return slog.New(nopHandler{})
}
