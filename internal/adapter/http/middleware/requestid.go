package middleware

import (
	"net/http"

	"github.com/Temutjin2k/pivot-location/internal/domain/types"
	wrap "github.com/Temutjin2k/pivot-location/pkg/logger/wrapper"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestID reuses the caller's X-Request-ID or generates one, and puts it into the context and response.
func (m *Middleware) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}

		ctx := types.WithRequestIDContext(r.Context(), id)
		ctx = wrap.WithRequestID(ctx, id)

		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
