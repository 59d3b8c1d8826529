package handler

import (
	"strings"

	"capability-sync/internal/delivery/http/dto"
	"capability-sync/internal/domain/skill"
	"capability-sync/internal/pkg/response"
	"capability-sync/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type SkillHandler struct {
	uc usecase.SkillUsecase
}

func NewSkillHandler(uc usecase.SkillUsecase) *SkillHandler {
	return &SkillHandler{uc: uc}
}

func (h *SkillHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/skills")
	grp.Get("/", h.List)
	grp.Get("/:id", h.Get)
}

// List returns the catalog, optionally narrowed by ?domain=.
func (h *SkillHandler) List(c fiber.Ctx) error {
	var (
		items []skill.Skill
		err   error
	)
	if d := strings.TrimSpace(c.Query("domain")); d != "" {
		items, err = h.uc.ListByDomain(c.Context(), skill.Domain(d))
	} else {
		items, err = h.uc.List(c.Context())
	}
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewSkillResponses(items))
}

func (h *SkillHandler) Get(c fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	sk, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewSkillResponse(sk))
}
