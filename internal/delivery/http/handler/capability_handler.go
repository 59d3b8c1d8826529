package handler

import (
	"strings"

	"capability-sync/internal/delivery/http/dto"
	"capability-sync/internal/delivery/http/middleware"
	"capability-sync/internal/domain/capability"
	"capability-sync/internal/domain/skill"
	"capability-sync/internal/pkg/response"
	"capability-sync/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type CapabilityHandler struct {
	uc usecase.CapabilityUsecase
}

func NewCapabilityHandler(uc usecase.CapabilityUsecase) *CapabilityHandler {
	return &CapabilityHandler{uc: uc}
}

func (h *CapabilityHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/capabilities")
	grp.Post("/", h.Create)
	grp.Put("/", h.Ensure)
	grp.Post("/batch", h.BatchCreate)
	grp.Get("/search", h.Search)
	grp.Get("/counts", h.Counts)
	grp.Get("/domains/:domain", h.ListByDomain)
	grp.Get("/:id", h.Get)
	grp.Patch("/:id", h.Update)

	r.Get("/people/:id/capabilities", h.ListByPerson)
	r.Get("/skills/:id/capabilities", h.ListBySkill)
}

func (h *CapabilityHandler) input(c fiber.Ctx, req dto.CreateCapabilityRequest) (usecase.CreateCapabilityInput, error) {
	personID, err := middleware.PersonID(c)
	if err != nil {
		return usecase.CreateCapabilityInput{}, err
	}
	return usecase.CreateCapabilityInput{
		PersonID:            personID,
		SkillID:             req.SkillID,
		OrganizationID:      req.OrganizationID,
		SelfIdentifiedLevel: req.SelfIdentifiedLevel,
	}, nil
}

func (h *CapabilityHandler) Create(c fiber.Ctx) error {
	var req dto.CreateCapabilityRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	in, err := h.input(c, req)
	if err != nil {
		return err
	}

	created, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, dto.NewCapabilityResponse(created))
}

// Ensure creates the capability or returns the caller's existing one for the
// same skill.
func (h *CapabilityHandler) Ensure(c fiber.Ctx) error {
	var req dto.CreateCapabilityRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	in, err := h.input(c, req)
	if err != nil {
		return err
	}

	got, created, err := h.uc.CreateOrGet(c.Context(), in)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Upserted(c, created, dto.NewCapabilityResponse(got))
}

func (h *CapabilityHandler) BatchCreate(c fiber.Ctx) error {
	var req dto.BatchCreateCapabilitiesRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	items := make([]usecase.CreateCapabilityInput, 0, len(req.Items))
	for _, it := range req.Items {
		in, err := h.input(c, it)
		if err != nil {
			return err
		}
		items = append(items, in)
	}

	created, err := h.uc.BatchCreate(c.Context(), items)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, dto.NewCapabilityResponses(created))
}

func (h *CapabilityHandler) Get(c fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	got, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewCapabilityResponse(got))
}

func (h *CapabilityHandler) Update(c fiber.Ctx) error {
	ownerID, err := middleware.PersonID(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateCapabilityRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	updated, err := h.uc.Update(c.Context(), ownerID, id, req.Changes())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewCapabilityResponse(updated))
}

func (h *CapabilityHandler) ListByPerson(c fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	items, err := h.uc.ListByPerson(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewCapabilityResponses(items))
}

func (h *CapabilityHandler) ListBySkill(c fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	minLevel, err := levelQuery(c, "min_level")
	if err != nil {
		return err
	}
	items, err := h.uc.ListBySkill(c.Context(), id, minLevel)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewCapabilityResponses(items))
}

func (h *CapabilityHandler) ListByDomain(c fiber.Ctx) error {
	minLevel, err := levelQuery(c, "min_level")
	if err != nil {
		return err
	}
	items, err := h.uc.ListByDomain(c.Context(), skill.Domain(c.Params("domain")), minLevel)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewCapabilityResponses(items))
}

func (h *CapabilityHandler) Search(c fiber.Ctx) error {
	items, err := h.uc.SearchByName(c.Context(), c.Query("q"))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewCapabilityResponses(items))
}

// Counts groups capabilities by level for ?skill=<name> or ?domain=<domain>.
func (h *CapabilityHandler) Counts(c fiber.Ctx) error {
	name := strings.TrimSpace(c.Query("skill"))
	domain := strings.TrimSpace(c.Query("domain"))
	if (name == "") == (domain == "") {
		return badRequest("Exactly one of skill or domain is required", nil)
	}

	var (
		res []capability.LevelCount
		err error
	)
	if name != "" {
		res, err = h.uc.CountLevelsBySkillName(c.Context(), name)
	} else {
		res, err = h.uc.CountLevelsByDomain(c.Context(), skill.Domain(domain))
	}
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewCapabilityLevelCounts(res))
}
