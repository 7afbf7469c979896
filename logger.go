package care

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/care/internal/glyph"
	gpuimpl "github.com/gogpu/care/internal/gpu"
)

// nopHandler discards every record. Enabled returns false so callers skip
// formatting.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger for care and its sub-packages. By
// default care produces no log output. Pass nil to restore the silent
// default.
//
// Log levels used by care:
//   - [slog.LevelDebug]: per-frame statistics (draw calls, vertices, buffer growth)
//   - [slog.LevelInfo]: lifecycle events (adapter selected, renderer created)
//   - [slog.LevelWarn]: dropped glyphs, failed releases
//
// Example:
//
//	care.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
	gpuimpl.SetLogger(l)
	glyph.SetLogger(l)
}

// Logger returns the logger set by SetLogger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
