package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Temutjin2k/pivot-location/internal/domain/models"
	"github.com/Temutjin2k/pivot-location/internal/domain/types"
	"github.com/Temutjin2k/pivot-location/pkg/logger"
	"github.com/google/uuid"
)

type fakeAuth struct {
	user *models.User
}

func (f fakeAuth) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "store-down" {
		return nil, errors.New("connection refused")
	}
	if token != "good" {
		return nil, types.ErrUnauthorized
	}
	return f.user, nil
}

func newTestMiddleware() (*Middleware, *models.User) {
	user := &models.User{ID: uuid.New(), Username: "dave"}
	return NewMiddleware(fakeAuth{user: user}, logger.New(io.Discard, "test", logger.LevelError)), user
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "error" || body["message"] == "" {
		t.Fatalf("body = %v, want error shape", body)
	}
	return body
}

func TestAuthAndRequireAuth(t *testing.T) {
	m, user := newTestMiddleware()

	var seen *models.User
	protected := m.Auth(m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		seen = models.UserFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"malformed header", "Token abc", http.StatusUnauthorized},
		{"invalid token", "Bearer bad", http.StatusUnauthorized},
		{"valid token", "Bearer good", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/location/history", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			protected.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusUnauthorized {
				decodeError(t, rec)
				return
			}
			if seen == nil || seen.ID != user.ID {
				t.Fatalf("user in context = %+v, want %+v", seen, user)
			}
		})
	}
}

func TestAuthAllowsAnonymousOnPublicRoutes(t *testing.T) {
	m, _ := newTestMiddleware()

	var anonymous bool
	h := m.Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		anonymous = models.UserFromContext(r.Context()).IsAnonymous()
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	if !anonymous {
		t.Fatalf("expected anonymous user")
	}
}

func TestRequestID(t *testing.T) {
	m, _ := newTestMiddleware()

	var got string
	h := m.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = types.RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if got == "" || rec.Header().Get(RequestIDHeader) != got {
		t.Fatalf("generated id = %q, header = %q", got, rec.Header().Get(RequestIDHeader))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != "abc-123" {
		t.Fatalf("request id = %q, want caller id", got)
	}
}

func TestRecover(t *testing.T) {
	m, _ := newTestMiddleware()

	h := m.Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(errors.New("boom"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	body := decodeError(t, rec)
	if body["message"] == "boom" {
		t.Fatalf("panic value leaked to client")
	}
}

func TestStatusRecorder(t *testing.T) {
	rec := record(httptest.NewRecorder())
	if rec.Status() != http.StatusOK {
		t.Fatalf("default status = %d", rec.Status())
	}

	rec.WriteHeader(http.StatusTeapot)
	rec.WriteHeader(http.StatusOK)
	n, _ := rec.Write([]byte("short"))

	if rec.Status() != http.StatusTeapot || rec.bytes != n {
		t.Fatalf("status = %d bytes = %d", rec.Status(), rec.bytes)
	}
	if record(rec) != rec {
		t.Fatalf("record must not double wrap")
	}
}

func TestPathLabel(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /location/verify", func(http.ResponseWriter, *http.Request) {})

	if got := pathLabel(mux, httptest.NewRequest(http.MethodPost, "/location/verify", nil)); got != "/location/verify" {
		t.Fatalf("routed label = %q", got)
	}
	if got := pathLabel(mux, httptest.NewRequest(http.MethodGet, "/wp-admin/setup.php", nil)); got != unmatchedPath {
		t.Fatalf("unrouted label = %q", got)
	}
}

func TestLoggingKeepsStatus(t *testing.T) {
	m, _ := newTestMiddleware()

	h := m.Logging(m.Metrics("test", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		errorResponse(w, http.StatusNotFound, "Address not found")
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/location/verify", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decodeError(t, rec); body["message"] != "Address not found" {
		t.Fatalf("body = %v", body)
	}
}

func TestAuthStoreFailureIs500(t *testing.T) {
	m, _ := newTestMiddleware()
	h := m.Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/location/history", nil)
	req.Header.Set("Authorization", "Bearer store-down")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	decodeError(t, rec)
}
