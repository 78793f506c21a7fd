package api

import (
	"frietkot_server/api/admin"
	"frietkot_server/api/health"
	"frietkot_server/api/menu"
	"frietkot_server/api/middleware"
	"frietkot_server/api/orders"
	"frietkot_server/config"
	"frietkot_server/services"
	"frietkot_server/structs"
	"frietkot_server/views"
	"net/http"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	chiware "github.com/go-chi/chi/v5/middleware"
)

// App wires middleware and routes. localImages is served under its public prefix
// when images are stored on local disk; pass nil otherwise.
func App(cfg *structs.Config, logger *gecho.Logger, sm *services.ServiceManager, renderer *views.Renderer, localImages *services.LocalImageStorage) chi.Router {
	r := chi.NewRouter()

	// Request logging without caller info
	mwLogger := gecho.NewLogger(gecho.NewConfig(gecho.WithShowCaller(false), gecho.WithLogLevel(gecho.ParseLogLevel(config.GetLogLevel()))))

	// A nil service would be a typed nil inside the interface.
	var limiter middleware.RateLimiter
	if sm.RateLimitService != nil {
		limiter = sm.RateLimitService
	}
	mw := middleware.NewMiddleware(cfg, mwLogger, limiter)

	// Core infra
	r.Use(chiware.RequestID)
	r.Use(chiware.RealIP)
	r.Use(chiware.Recoverer)

	// Limits & security
	r.Use(mw.BodyLimit())
	r.Use(mw.SecurityHeaders())

	// Observability
	r.Use(mw.SetupLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware)

	NewRouterManager(
		menu.NewMenuRoutesManager(logger, sm.MenuService, renderer, mw),
		health.NewHealthRoutesManager(sm.HealthService),
		admin.NewAdminRoutesManager(logger, sm.MenuService, sm.OrderService, sm.ImageService, renderer, mw),
		orders.NewOrderRoutesManager(logger, sm.OrderService, mw),
	).RegisterRoutes(r)

	if localImages != nil {
		prefix := localImages.PublicPrefix()
		fileServer := http.StripPrefix(prefix, http.FileServer(http.Dir(localImages.Root())))
		r.Get(prefix+"/*", fileServer.ServeHTTP)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			gecho.NotFound(w, gecho.Send())
			return
		}
		renderer.Error(w, http.StatusNotFound, "This page does not exist.")
	})

	return r
}
