package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Temutjin2k/pivot-location/internal/adapter/http/handler"
	"github.com/Temutjin2k/pivot-location/internal/adapter/http/middleware"
	"github.com/Temutjin2k/pivot-location/internal/domain/types"
	"github.com/Temutjin2k/pivot-location/pkg/logger"
	wrap "github.com/Temutjin2k/pivot-location/pkg/logger/wrapper"
)

const serverIPAddress = "%s:%d"

type Config struct {
	Port              int
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

type API struct {
	mode   types.ServiceMode
	mux    *http.ServeMux
	server *http.Server
	routes *handlers // routes/handlers
	m      *middleware.Middleware

	addr            string
	shutdownTimeout time.Duration
	log             logger.Logger
}

type handlers struct {
	health   *handler.Health
	location *handler.Location
	feed     *handler.LocationFeed
}

func New(
	cfg Config,
	mode types.ServiceMode,
	health *handler.Health,
	location *handler.Location,
	feed *handler.LocationFeed,
	authService middleware.AuthService,
	logger logger.Logger,
) (*API, error) {
	if authService == nil {
		return nil, errors.New("auth service is required")
	}
	if location == nil || health == nil {
		return nil, errors.New("location and health handlers are required")
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	if cfg.ReadHeaderTimeout <= 0 {
		cfg.ReadHeaderTimeout = 10 * time.Second
	}

	api := &API{
		mode: mode,
		mux:  http.NewServeMux(),
		routes: &handlers{
			health:   health,
			location: location,
			feed:     feed,
		},
		m:               middleware.NewMiddleware(authService, logger),
		addr:            fmt.Sprintf(serverIPAddress, "0.0.0.0", cfg.Port),
		shutdownTimeout: cfg.ShutdownTimeout,
		log:             logger,
	}

	setupRoutes(api.mux, api.routes, api.m)

	api.server = &http.Server{
		Addr:              api.addr,
		Handler:           api.withMiddleware(),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	return api, nil
}

// Handler returns the fully wrapped http handler.
func (a *API) Handler() http.Handler {
	return a.server.Handler
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.shutdownTimeout)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

// withMiddleware applies middlewares to the mux
func (a *API) withMiddleware() http.Handler {
	return a.m.Recover(
		a.m.RequestID(
			a.m.Logging(
				a.m.Metrics(string(a.mode), a.mux)(
					a.m.Auth(a.m.Fallback(a.mux)),
				),
			),
		),
	)
}
