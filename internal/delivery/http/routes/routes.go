package routes

import (
	"capability-sync/internal/delivery/http/handler"
	v1 "capability-sync/internal/delivery/http/routes/v1"
	"capability-sync/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	health  *handler.HealthHandler
	metrics *prometheus.Registry
	ws      *ws.Handler
	auth    fiber.Handler
	v1      v1.Handlers
}

type Deps struct {
	Health *handler.HealthHandler
	// Metrics is served on /metrics when set.
	Metrics *prometheus.Registry
	WS      *ws.Handler
	// Auth guards every /api/v1 route.
	Auth fiber.Handler
	V1   v1.Handlers
}

func NewRegistry(d Deps) *Registry {
	return &Registry{
		health:  d.Health,
		metrics: d.Metrics,
		ws:      d.WS,
		auth:    d.Auth,
		v1:      d.V1,
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerMetrics(app)
	r.registerWS(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.health != nil {
		r.health.RegisterRoutes(app)
	}
}

func (r *Registry) registerMetrics(app *fiber.App) {
	if r.metrics == nil {
		return
	}
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(r.metrics, promhttp.HandlerOpts{})))
}

func (r *Registry) registerWS(app *fiber.App) {
	if r.ws != nil {
		app.Get("/ws/capabilities", r.ws.HandleCapabilitiesWS)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	var protected fiber.Router
	if r.auth != nil {
		protected = api.Group("/v1", r.auth)
	} else {
		protected = api.Group("/v1")
	}
	v1.Register(protected, r.v1)
}
