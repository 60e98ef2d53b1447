package server

import (
	"net/http"

	"github.com/Temutjin2k/pivot-location/internal/adapter/http/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Temutjin2k/pivot-location/docs"
)

// legacyPrefix is the path prefix older clients use.
const legacyPrefix = "/api"

// setupRoutes - setups http routes
func setupRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	// System Health
	mux.HandleFunc("GET /health", routes.health.HealthCheck)
	mux.HandleFunc("GET "+legacyPrefix+"/health", routes.health.HealthCheck)

	setupSwaggerRoutes(mux)
	setupMetricsRoute(mux)

	for _, prefix := range []string{"", legacyPrefix} {
		setupLocationRoutes(mux, prefix, routes, m)
	}

	if routes.feed != nil {
		mux.Handle("GET /ws/location", m.RequireAuth(routes.feed.HandleWS)) // Live verification feed
	}
}

// setupLocationRoutes setups routes for location service
func setupLocationRoutes(mux *http.ServeMux, prefix string, routes *handlers, m *middleware.Middleware) {
	mux.Handle("POST "+prefix+"/location/verify", m.RequireAuth(routes.location.Verify))  // Verify reported position against an address
	mux.Handle("GET "+prefix+"/location/history", m.RequireAuth(routes.location.History)) // Last verified location of the caller
}

// setupSwaggerRoutes configures Swagger UI endpoints
func setupSwaggerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/swagger/", httpSwagger.Handler(httpSwagger.InstanceName("location")))
}

// setupMetricsRoute configures the Prometheus metrics endpoint
func setupMetricsRoute(mux *http.ServeMux) {
	mux.Handle("/metrics", promhttp.Handler())
}
