package wrap

import (
	"context"
)

// Error attaches the LogCtx of ctx to err so it survives the trip up the call stack.
// When ctx has none, the context of an already wrapped err is carried over.
func Error(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	lc, ok := ctx.Value(LogCtxKey).(LogCtx)
	if !ok {
		lc, _ = LogCtxFromError(err)
	}

	return &errorWithLogCtx{err: err, logCtx: lc}
}
