package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fieldsuite/admin-service/internal/api/dto"
	"github.com/fieldsuite/admin-service/internal/service"
	apperrors "github.com/fieldsuite/admin-service/pkg/util"
)

// PlansHandler exposes plan catalog endpoints.
type PlansHandler struct {
	plans *service.PlanService
}

// NewPlansHandler constructs handler.
func NewPlansHandler(plans *service.PlanService) *PlansHandler {
	return &PlansHandler{plans: plans}
}

// List handles GET /api/plans.
func (h *PlansHandler) List(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	page := parsePagination(c)
	plans, total, err := h.plans.List(c.Context(), actor, service.PlanListInput{
		Search: queryPtr(c, "search"),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPlanList(plans, dto.NewPageMeta(total, page.Page, page.Limit)))
}

// Get handles GET /api/plans/:id.
func (h *PlansHandler) Get(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	plan, err := h.plans.Get(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.DataResponse[dto.PlanResponse]{Data: dto.NewPlanResponse(plan)})
}

// Create handles POST /api/plans.
func (h *PlansHandler) Create(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.CreatePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := checkPayload(req); err != nil {
		return err
	}
	plan, err := h.plans.Create(c.Context(), actor, service.PlanCreateInput{
		Name:          req.Name,
		PriceCents:    req.PriceCents,
		Currency:      req.Currency,
		StripePriceID: req.StripePriceID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.DataResponse[dto.PlanResponse]{Data: dto.NewPlanResponse(plan)})
}

// Update handles PATCH /api/plans/:id.
func (h *PlansHandler) Update(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.UpdatePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := checkPayload(req); err != nil {
		return err
	}
	plan, err := h.plans.Update(c.Context(), actor, c.Params("id"), service.PlanUpdateInput{
		Name:          req.Name,
		PriceCents:    req.PriceCents,
		StripePriceID: req.StripePriceID,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.DataResponse[dto.PlanResponse]{Data: dto.NewPlanResponse(plan)})
}

// Delete handles DELETE /api/plans/:id.
func (h *PlansHandler) Delete(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	if err := h.plans.Delete(c.Context(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
