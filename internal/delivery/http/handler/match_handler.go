package handler

import (
	"capability-sync/internal/delivery/http/dto"
	"capability-sync/internal/pkg/response"
	"capability-sync/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type MatchHandler struct {
	uc usecase.MatchingUsecase
}

func NewMatchHandler(uc usecase.MatchingUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/people/:id/matching-roles", h.RolesForPerson)
	r.Get("/roles/:id/matching-people", h.PeopleForRole)
}

func (h *MatchHandler) RolesForPerson(c fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	res, err := h.uc.RolesMatchingPerson(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewRoleMatchResponses(res))
}

func (h *MatchHandler) PeopleForRole(c fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	res, err := h.uc.PeopleMatchingRole(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewPersonMatchResponses(res))
}
