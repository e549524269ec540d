package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Temutjin2k/smartrash/config"
	"github.com/Temutjin2k/smartrash/internal/adapter/http/handler"
	"github.com/Temutjin2k/smartrash/internal/adapter/http/middleware"
	wshandler "github.com/Temutjin2k/smartrash/internal/adapter/http/ws"
	"github.com/Temutjin2k/smartrash/internal/domain/types"
	"github.com/Temutjin2k/smartrash/pkg/logger"
	wrap "github.com/Temutjin2k/smartrash/pkg/logger/wrapper"
)

const serverIPAddress = "%s:%s"

type API struct {
	mode   types.ServiceMode
	mux    *http.ServeMux
	server *http.Server
	routes *handlers
	m      *middleware.Middleware

	addr string
	log  logger.Logger
}

type handlers struct {
	health  *handler.Health
	mapAPI  *handler.Map
	markers *wshandler.MarkerHub
	page    http.Handler
	archive *handler.Archive
}

// Deps are the services a mode serves. Map mode needs MapService, Markers and Page,
// archive mode needs ArchiveService. Auth may be nil.
type Deps struct {
	MapService     handler.MapService
	Markers        *wshandler.MarkerHub
	Page           http.Handler
	ArchiveService handler.ArchiveService
	Auth           middleware.AuthService
	HealthChecks   map[string]handler.HealthCheck
}

func New(cfg config.Config, deps Deps, log logger.Logger) (*API, error) {
	var addr string
	routes := &handlers{
		health: handler.NewHealth(cfg.Mode.String(), deps.HealthChecks, log),
	}

	switch cfg.Mode {
	case types.MapService:
		if deps.MapService == nil || deps.Markers == nil || deps.Page == nil {
			return nil, errors.New("map service, marker hub and page are required")
		}
		addr = fmt.Sprintf(serverIPAddress, "0.0.0.0", cfg.Services.MapService)
		routes.mapAPI = handler.NewMap(deps.MapService, log)
		routes.markers = deps.Markers
		routes.page = deps.Page
	case types.ArchiveService:
		if deps.ArchiveService == nil {
			return nil, errors.New("archive service is required")
		}
		addr = fmt.Sprintf(serverIPAddress, "0.0.0.0", cfg.Services.ArchiveService)
		routes.archive = handler.NewArchive(deps.ArchiveService, log)
	default:
		return nil, fmt.Errorf("invalid mode: %s", cfg.Mode)
	}

	api := &API{
		mode:   cfg.Mode,
		mux:    http.NewServeMux(),
		routes: routes,
		m:      middleware.NewMiddleware(deps.Auth, log),
		addr:   addr,
		log:    log,
	}

	setupRoutes(api.mux, api.routes, api.m, api.mode)

	api.server = &http.Server{
		Addr:              api.addr,
		Handler:           api.withMiddleware(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return api, nil
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
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

// Handler returns the routed mux wrapped in middleware.
func (a *API) Handler() http.Handler {
	return a.server.Handler
}

// withMiddleware applies middlewares to the mux
func (a *API) withMiddleware() http.Handler {
	return a.m.Recover(a.m.RequestID(a.m.Metrics(a.mode.String())(a.m.Logging(a.m.Auth(a.mux)))))
}
