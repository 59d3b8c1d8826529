package app

import (
	"fmt"
	"strings"

	"capability-sync/internal/config"
	"capability-sync/internal/delivery/http/handler"
	"capability-sync/internal/delivery/http/middleware"
	"capability-sync/internal/delivery/http/routes"
	v1 "capability-sync/internal/delivery/http/routes/v1"
	"capability-sync/internal/domain/matching"
	"capability-sync/internal/usecase"
	"capability-sync/internal/ws"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c.Logger)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

func Bootstrap(cfg config.Config, logger *zap.Logger) (*App, func() error, error) {
	c, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return New(c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, logger *zap.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
}

func thresholds(cfg config.MatchingConfig) matching.Thresholds {
	th := matching.DefaultThresholds()
	if cfg.PersonRoleMin > 0 {
		th.PersonRoleMin = cfg.PersonRoleMin
	}
	th.RolePeopleMin = cfg.RolePeopleMin
	return th
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil || c == nil {
		return
	}

	r := c.Repos
	capUC := usecase.NewCapabilityUsecase(r.Capabilities, r.Skills, c.Cache, c.Logger)
	validationUC := usecase.NewValidationUsecase(usecase.ValidationDeps{
		Validations:  r.Validations,
		Capabilities: r.Capabilities,
		Cache:        c.Cache,
		Notifier:     ws.NewNotifier(c.Hub),
		Metrics:      c.Metrics,
		Logger:       c.Logger,
	})
	reqUC := usecase.NewRequirementUsecase(r.Requirements, r.Skills, r.Roles, c.Cache, c.Logger)
	matchUC := usecase.NewMatchingUsecase(usecase.MatchingDeps{
		Capabilities: r.Capabilities,
		Requirements: r.Requirements,
		Roles:        r.Roles,
		Persons:      r.Persons,
		Pool:         c.Pool,
		Thresholds:   thresholds(c.Config.Matching),
		Cache:        c.Cache,
		Metrics:      c.Metrics,
		Logger:       c.Logger,
	})

	checks := map[string]handler.Pinger{}
	if c.DB != nil {
		checks["postgres"] = c.DB
	}
	if c.Config.Redis.Enabled {
		checks["redis"] = c.Cache
	}

	routes.NewRegistry(routes.Deps{
		Health:  handler.NewHealthHandler(checks),
		Metrics: c.Metrics.Registry(),
		WS:      ws.NewHandler(c.Hub, c.Logger),
		Auth:    middleware.NewAuthMiddleware(c.JWT).Middleware(),
		V1: v1.Handlers{
			Skills:       handler.NewSkillHandler(usecase.NewSkillUsecase(r.Skills)),
			Capabilities: handler.NewCapabilityHandler(capUC),
			Validations:  handler.NewValidationHandler(validationUC),
			Requirements: handler.NewRequirementHandler(reqUC),
			Matches:      handler.NewMatchHandler(matchUC),
		},
	}).Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
