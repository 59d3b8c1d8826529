package handler

import (
	"strings"

	"capability-sync/internal/delivery/http/dto"
	"capability-sync/internal/domain/requirement"
	"capability-sync/internal/domain/skill"
	"capability-sync/internal/pkg/response"
	"capability-sync/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type RequirementHandler struct {
	uc usecase.RequirementUsecase
}

func NewRequirementHandler(uc usecase.RequirementUsecase) *RequirementHandler {
	return &RequirementHandler{uc: uc}
}

func (h *RequirementHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/requirements")
	grp.Post("/", h.Create)
	grp.Put("/", h.Ensure)
	grp.Post("/batch", h.BatchCreate)
	grp.Get("/search", h.Search)
	grp.Get("/counts", h.Counts)
	grp.Get("/domains/:domain", h.ListByDomain)
	grp.Get("/:id", h.Get)
	grp.Patch("/:id", h.Update)

	r.Get("/roles/:id/requirements", h.ListByRole)
	r.Get("/skills/:id/requirements", h.ListBySkill)
}

func requirementInput(req dto.CreateRequirementRequest) usecase.CreateRequirementInput {
	return usecase.CreateRequirementInput{RoleID: req.RoleID, SkillID: req.SkillID, RequiredLevel: req.RequiredLevel}
}

func (h *RequirementHandler) Create(c fiber.Ctx) error {
	var req dto.CreateRequirementRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	created, err := h.uc.Create(c.Context(), requirementInput(req))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, dto.NewRequirementResponse(created))
}

func (h *RequirementHandler) Ensure(c fiber.Ctx) error {
	var req dto.CreateRequirementRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	got, created, err := h.uc.CreateOrGet(c.Context(), requirementInput(req))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Upserted(c, created, dto.NewRequirementResponse(got))
}

func (h *RequirementHandler) BatchCreate(c fiber.Ctx) error {
	var req dto.BatchCreateRequirementsRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	items := make([]usecase.CreateRequirementInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, requirementInput(it))
	}
	created, err := h.uc.BatchCreate(c.Context(), items)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, dto.NewRequirementResponses(created))
}

func (h *RequirementHandler) Get(c fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	got, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewRequirementResponse(got))
}

func (h *RequirementHandler) Update(c fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateRequirementRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	updated, err := h.uc.Update(c.Context(), id, req.Changes())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewRequirementResponse(updated))
}

func (h *RequirementHandler) ListByRole(c fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	items, err := h.uc.ListByRole(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewRequirementResponses(items))
}

// ListBySkill returns requirements on the skill that max_level satisfies.
func (h *RequirementHandler) ListBySkill(c fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	maxLevel, err := levelQuery(c, "max_level")
	if err != nil {
		return err
	}
	if maxLevel == nil {
		return badRequest("max_level is required", nil)
	}
	items, err := h.uc.ListBySkillAndMaxLevel(c.Context(), id, *maxLevel)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewRequirementResponses(items))
}

func (h *RequirementHandler) ListByDomain(c fiber.Ctx) error {
	maxLevel, err := levelQuery(c, "max_level")
	if err != nil {
		return err
	}
	items, err := h.uc.ListByDomain(c.Context(), skill.Domain(c.Params("domain")), maxLevel)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewRequirementResponses(items))
}

func (h *RequirementHandler) Search(c fiber.Ctx) error {
	items, err := h.uc.SearchByName(c.Context(), c.Query("q"))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewRequirementResponses(items))
}

func (h *RequirementHandler) Counts(c fiber.Ctx) error {
	name := strings.TrimSpace(c.Query("skill"))
	domain := strings.TrimSpace(c.Query("domain"))
	if (name == "") == (domain == "") {
		return badRequest("Exactly one of skill or domain is required", nil)
	}

	var (
		res []requirement.LevelCount
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
	return response.OK(c, dto.NewRequirementLevelCounts(res))
}
