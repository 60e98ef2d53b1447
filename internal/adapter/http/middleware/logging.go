package middleware

import (
	"net/http"
	"time"
)

// quietPaths are logged at debug level only.
var quietPaths = map[string]bool{
	"/health":     true,
	"/api/health": true,
	"/metrics":    true,
}

// Logging writes one line per finished request.
func (m *Middleware) Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := record(w)

		next.ServeHTTP(rec, r)

		ctx := r.Context()
		args := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.Status(),
			"bytes", rec.bytes,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote_addr", r.RemoteAddr,
		}

		switch {
		case rec.Status() >= http.StatusInternalServerError:
			m.log.Warn(ctx, "request failed", args...)
		case quietPaths[r.URL.Path]:
			m.log.Debug(ctx, "request completed", args...)
		default:
			m.log.Info(ctx, "request completed", args...)
		}
	})
}
