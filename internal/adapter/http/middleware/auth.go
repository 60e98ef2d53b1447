package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Temutjin2k/pivot-location/internal/domain/models"
	"github.com/Temutjin2k/pivot-location/internal/domain/types"
	wrap "github.com/Temutjin2k/pivot-location/pkg/logger/wrapper"
	"github.com/gorilla/websocket"
)

// --- base auth middleware ---

// Auth validates JWT, loads user and injects it into context.
// An invalid token gets 401, a failing user store 500. Requests without a header continue as anonymous.
func (m *Middleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		header := r.Header.Get("Authorization")
		// browsers cannot set headers on websocket handshakes
		if header == "" && websocket.IsWebSocketUpgrade(r) {
			if token := r.URL.Query().Get("token"); token != "" {
				header = "Bearer " + token
			}
		}
		// anonymous user can access only public endpoints
		// protected endpoints return 401 in RequireAuth
		if header == "" {
			r = r.WithContext(models.WithUser(ctx, models.AnonymousUser()))
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(header)
		if err != nil {
			errorResponse(w, http.StatusUnauthorized, err.Error())
			return
		}

		user, err := m.auth.Authenticate(ctx, token)
		if err != nil && !errors.Is(err, types.ErrUnauthorized) {
			// user store unavailable, the token itself may be fine
			m.log.Error(wrap.ErrorCtx(ctx, err), "failed to authenticate user", err)
			errorResponse(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if err != nil || user == nil {
			m.log.Warn(wrap.ErrorCtx(ctx, err), "failed to authenticate user", "error", errString(err))
			errorResponse(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		ctx = wrap.WithUserID(ctx, user.ID.String())
		next.ServeHTTP(w, r.WithContext(models.WithUser(ctx, user)))
	})
}

// RequireAuth rejects anonymous callers with 401.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := models.UserFromContext(r.Context())
		if user.IsAnonymous() {
			errorResponse(w, http.StatusUnauthorized, "authorization required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// --- header parser ---
func extractBearerToken(header string) (string, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", fmt.Errorf("invalid Authorization header format")
	}
	return parts[1], nil
}

func errString(err error) string {
	if err == nil {
		return "user not found"
	}
	return err.Error()
}
