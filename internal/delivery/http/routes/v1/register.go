package v1

import (
	"capability-sync/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Skills       *handler.SkillHandler
	Capabilities *handler.CapabilityHandler
	Validations  *handler.ValidationHandler
	Requirements *handler.RequirementHandler
	Matches      *handler.MatchHandler
}

func Register(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	if h.Skills != nil {
		h.Skills.RegisterRoutes(r)
	}
	if h.Capabilities != nil {
		h.Capabilities.RegisterRoutes(r)
	}
	if h.Validations != nil {
		h.Validations.RegisterRoutes(r)
	}
	if h.Requirements != nil {
		h.Requirements.RegisterRoutes(r)
	}
	if h.Matches != nil {
		h.Matches.RegisterRoutes(r)
	}
}
