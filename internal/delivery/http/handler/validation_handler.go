package handler

import (
	"capability-sync/internal/delivery/http/dto"
	"capability-sync/internal/delivery/http/middleware"
	"capability-sync/internal/pkg/response"
	"capability-sync/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ValidationHandler struct {
	uc usecase.ValidationUsecase
}

func NewValidationHandler(uc usecase.ValidationUsecase) *ValidationHandler {
	return &ValidationHandler{uc: uc}
}

func (h *ValidationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/validations")
	grp.Post("/", h.Create)
	grp.Post("/batch", h.BatchCreate)
	grp.Get("/:id", h.Get)
	grp.Patch("/:id", h.Update)

	r.Get("/capabilities/:id/validations", h.ListByCapability)
	r.Get("/people/:id/validations", h.ListByValidator)
}

func (h *ValidationHandler) Create(c fiber.Ctx) error {
	validatorID, err := middleware.PersonID(c)
	if err != nil {
		return err
	}
	var req dto.CreateValidationRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	res, err := h.uc.Create(c.Context(), usecase.CreateValidationInput{
		ValidatorID:    validatorID,
		CapabilityID:   req.CapabilityID,
		ValidatedLevel: req.ValidatedLevel,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, dto.ValidationResultResponse{
		Validation: dto.NewValidationResponse(res.Validation),
		Capability: dto.NewCapabilityResponse(res.Capability),
	})
}

func (h *ValidationHandler) BatchCreate(c fiber.Ctx) error {
	validatorID, err := middleware.PersonID(c)
	if err != nil {
		return err
	}
	var req dto.BatchCreateValidationsRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	items := make([]usecase.CreateValidationInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, usecase.CreateValidationInput{
			ValidatorID:    validatorID,
			CapabilityID:   it.CapabilityID,
			ValidatedLevel: it.ValidatedLevel,
		})
	}

	saved, caps, err := h.uc.BatchCreate(c.Context(), items)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, dto.BatchValidationResponse{
		Validations:  dto.NewValidationResponses(saved),
		Capabilities: dto.NewCapabilityResponses(caps),
	})
}

func (h *ValidationHandler) Get(c fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	v, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewValidationResponse(v))
}

func (h *ValidationHandler) Update(c fiber.Ctx) error {
	validatorID, err := middleware.PersonID(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateValidationRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	res, err := h.uc.Update(c.Context(), validatorID, id, req.ValidatedLevel)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.ValidationResultResponse{
		Validation: dto.NewValidationResponse(res.Validation),
		Capability: dto.NewCapabilityResponse(res.Capability),
	})
}

func (h *ValidationHandler) ListByCapability(c fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	items, err := h.uc.ListByCapability(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewValidationResponses(items))
}

func (h *ValidationHandler) ListByValidator(c fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	items, err := h.uc.ListByValidator(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewValidationResponses(items))
}
