package handler

import (
	"context"
	"net/http"

	"github.com/Temutjin2k/pivot-location/pkg/logger"
	wrap "github.com/Temutjin2k/pivot-location/pkg/logger/wrapper"
)

// Pinger reports whether a dependency is reachable.
type Pinger func(ctx context.Context) error

type Health struct {
	serviceName   string
	storageDriver string
	checks        map[string]Pinger
	log           logger.Logger
}

func NewHealth(serviceName, storageDriver string, checks map[string]Pinger, log logger.Logger) *Health {
	return &Health{
		serviceName:   serviceName,
		storageDriver: storageDriver,
		checks:        checks,
		log:           log,
	}
}

// HealthCheck godoc
// @Summary      Health Check
// @Description  Returns the health status of the service and its storage
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      503  {object}  map[string]any
// @Router       /health [get]
func (a *Health) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "health_check")

	status := http.StatusOK
	deps := make(map[string]string, len(a.checks))
	for name, ping := range a.checks {
		if err := ping(ctx); err != nil {
			a.log.Warn(ctx, "health check failed", "dependency", name, "error", err.Error())
			deps[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "available"
	}

	response := envelope{
		"status":   "available",
		"database": a.storageDriver,
		"system_info": map[string]string{
			"service-name": a.serviceName,
		},
		"dependencies": deps,
	}
	if status != http.StatusOK {
		response["status"] = "degraded"
	}

	if err := writeJSON(w, status, response, nil); err != nil {
		a.log.Error(ctx, "healthcheck", err)
		return
	}
}
