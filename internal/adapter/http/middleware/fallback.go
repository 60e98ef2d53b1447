package middleware

import "net/http"

// Fallback serves mux and replaces its plain text 404 and 405 replies with the JSON error body.
func (m *Middleware) Fallback(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, pattern := mux.Handler(r)
		if pattern != "" {
			mux.ServeHTTP(w, r)
			return
		}

		// no route: h is the mux's not found or method not allowed handler
		reply := &headerOnly{header: make(http.Header)}
		h.ServeHTTP(reply, r)

		if reply.status == http.StatusMethodNotAllowed {
			if allow := reply.header.Get("Allow"); allow != "" {
				w.Header().Set("Allow", allow)
			}
			errorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		errorResponse(w, http.StatusNotFound, "Endpoint not found")
	})
}

// headerOnly keeps the status and headers of a reply and drops its body.
type headerOnly struct {
	header http.Header
	status int
}

func (h *headerOnly) Header() http.Header { return h.header }

func (h *headerOnly) Write(b []byte) (int, error) {
	if h.status == 0 {
		h.status = http.StatusOK
	}
	return len(b), nil
}

func (h *headerOnly) WriteHeader(code int) {
	if h.status == 0 {
		h.status = code
	}
}
