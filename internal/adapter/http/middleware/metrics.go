package middleware

import (
	"net/http"
	"time"

	"github.com/Temutjin2k/pivot-location/pkg/metrics"
)

// unmatchedPath is the path label of requests no route served.
const unmatchedPath = "unmatched"

// Metrics records request count, latency and in-flight gauge per service.
// Requests mux has no route for share one path label.
func (m *Middleware) Metrics(serviceName string, mux *http.ServeMux) func(http.Handler) http.Handler {
	inFlight := metrics.HttpRequestsInFlight.WithLabelValues(serviceName)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			inFlight.Inc()
			defer inFlight.Dec()

			path := pathLabel(mux, r)
			rec := record(w)
			next.ServeHTTP(rec, r)

			metrics.RecordHTTPMetrics(serviceName, r.Method, path, rec.Status(), time.Since(start))
		})
	}
}

// pathLabel collapses unrouted paths so scanners cannot blow up label cardinality.
func pathLabel(mux *http.ServeMux, r *http.Request) string {
	if mux == nil {
		return r.URL.Path
	}
	if _, pattern := mux.Handler(r); pattern == "" {
		return unmatchedPath
	}
	return r.URL.Path
}
