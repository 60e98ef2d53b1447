package wrap

import (
	"context"
)

// LogCtx is the set of request-scoped fields every log line carries.
type LogCtx struct {
	Action    string
	UserID    string
	RequestID string
}

type logCtxKeyStruct struct{}

// LogCtxKey is the context key LogCtx is stored under.
var LogCtxKey = &logCtxKeyStruct{}

// FromContext returns the LogCtx of ctx, zero when there is none.
func FromContext(ctx context.Context) LogCtx {
	lc, _ := ctx.Value(LogCtxKey).(LogCtx)
	return lc
}

// merge fills empty fields of lc from base.
func (lc LogCtx) merge(base LogCtx) LogCtx {
	if lc.Action == "" {
		lc.Action = base.Action
	}
	if lc.UserID == "" {
		lc.UserID = base.UserID
	}
	if lc.RequestID == "" {
		lc.RequestID = base.RequestID
	}
	return lc
}

// WithLogCtx stores newLc in ctx. Empty fields keep the values already present.
func WithLogCtx(ctx context.Context, newLc LogCtx) context.Context {
	return context.WithValue(ctx, LogCtxKey, newLc.merge(FromContext(ctx)))
}

func update(ctx context.Context, set func(lc *LogCtx)) context.Context {
	lc := FromContext(ctx)
	set(&lc)
	return context.WithValue(ctx, LogCtxKey, lc)
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return update(ctx, func(lc *LogCtx) { lc.UserID = userID })
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return update(ctx, func(lc *LogCtx) { lc.RequestID = requestID })
}

func WithAction(ctx context.Context, action string) context.Context {
	return update(ctx, func(lc *LogCtx) { lc.Action = action })
}
