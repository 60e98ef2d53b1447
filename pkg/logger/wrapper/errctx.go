package wrap

import (
	"context"
	"errors"
)

// errorWithLogCtx carries the log context captured where the error was wrapped.
type errorWithLogCtx struct {
	err    error
	logCtx LogCtx
}

func (e *errorWithLogCtx) Error() string {
	return e.err.Error()
}

func (e *errorWithLogCtx) Unwrap() error {
	return e.err
}

// LogCtxFromError returns the outermost log context attached by Error.
func LogCtxFromError(err error) (LogCtx, bool) {
	var e *errorWithLogCtx
	if errors.As(err, &e) && e != nil {
		return e.logCtx, true
	}
	return LogCtx{}, false
}

// ErrorCtx merges the log context of err into ctx. Fields set on err win,
// empty ones keep the values already in ctx (request id of the handler, for instance).
func ErrorCtx(ctx context.Context, err error) context.Context {
	lc, ok := LogCtxFromError(err)
	if !ok {
		return ctx
	}
	return WithLogCtx(ctx, lc)
}
