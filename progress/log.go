package progress

import (
	"context"
	"log/slog"
)

// LogHandler wraps an slog.Handler so log lines and the live progress
// region share the terminal cleanly: the region is erased before each
// record is emitted and repainted after, so records scroll above it.
type LogHandler struct {
	inner   slog.Handler
	display *Display
}

// NewLogHandler wraps inner. A nil display binds to the default display.
func NewLogHandler(inner slog.Handler, d *Display) *LogHandler {
	return &LogHandler{inner: inner, display: d}
}

func (h *LogHandler) target() *Display {
	if h.display != nil {
		return h.display
	}
	return Default()
}

func (h *LogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *LogHandler) Handle(ctx context.Context, rec slog.Record) error {
	var err error
	h.target().WithTerminalLock(func() {
		err = h.inner.Handle(ctx, rec)
	})
	return err
}

func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LogHandler{inner: h.inner.WithAttrs(attrs), display: h.display}
}

func (h *LogHandler) WithGroup(name string) slog.Handler {
	return &LogHandler{inner: h.inner.WithGroup(name), display: h.display}
}
