package logger

import (
	"context"
	"log/slog"
	"time"

	wrap "github.com/Temutjin2k/pivot-location/pkg/logger/wrapper"
)

// contextHandler adds the request-scoped fields of wrap.LogCtx to each record.
type contextHandler struct {
	next slog.Handler
}

func (h *contextHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.next.Enabled(ctx, lvl)
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	lc := wrap.FromContext(ctx)
	for _, f := range [...]struct{ key, value string }{
		{"action", lc.Action},
		{"user_id", lc.UserID},
		{"request_id", lc.RequestID},
	} {
		if f.value != "" {
			r.AddAttrs(slog.String(f.key, f.value))
		}
	}

	return h.next.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{next: h.next.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{next: h.next.WithGroup(name)}
}

// replaceAttr renames msg to message and writes the time as UTC RFC 3339.
func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}

	switch a.Key {
	case slog.MessageKey:
		a.Key = "message"
	case slog.TimeKey:
		if t, ok := a.Value.Any().(time.Time); ok {
			return slog.String("timestamp", t.UTC().Format(time.RFC3339Nano))
		}
	}
	return a
}
