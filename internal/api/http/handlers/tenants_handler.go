package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fieldsuite/admin-service/internal/api/dto"
	"github.com/fieldsuite/admin-service/internal/service"
	apperrors "github.com/fieldsuite/admin-service/pkg/util"
)

// TenantsHandler exposes tenant endpoints.
type TenantsHandler struct {
	tenants *service.TenantService
	billing *service.BillingService
}

// NewTenantsHandler constructs handler.
func NewTenantsHandler(tenants *service.TenantService, billing *service.BillingService) *TenantsHandler {
	return &TenantsHandler{tenants: tenants, billing: billing}
}

// List handles GET /api/tenants.
func (h *TenantsHandler) List(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	page := parsePagination(c)
	tenants, total, err := h.tenants.List(c.Context(), actor, service.TenantListInput{
		Search: queryPtr(c, "search"),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTenantList(tenants, dto.NewPageMeta(total, page.Page, page.Limit)))
}

// Get handles GET /api/tenants/:id.
func (h *TenantsHandler) Get(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	tenant, err := h.tenants.Get(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.DataResponse[dto.TenantResponse]{Data: dto.NewTenantResponse(tenant)})
}

// Create handles POST /api/tenants.
func (h *TenantsHandler) Create(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.CreateTenantRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := checkPayload(req); err != nil {
		return err
	}
	tenant, err := h.tenants.Create(c.Context(), actor, service.TenantCreateInput{
		Name:    req.Name,
		AdminID: req.AdminID,
		PlanID:  req.PlanID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.DataResponse[dto.TenantResponse]{Data: dto.NewTenantResponse(tenant)})
}

// Update handles PATCH /api/tenants/:id.
func (h *TenantsHandler) Update(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTenantRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := checkPayload(req); err != nil {
		return err
	}
	tenant, err := h.tenants.Update(c.Context(), actor, c.Params("id"), service.TenantUpdateInput{
		Name:    req.Name,
		AdminID: req.AdminID,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.DataResponse[dto.TenantResponse]{Data: dto.NewTenantResponse(tenant)})
}

// Delete handles DELETE /api/tenants/:id.
func (h *TenantsHandler) Delete(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	if err := h.tenants.Delete(c.Context(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ChangePlan handles POST /api/tenants/:id/plan.
func (h *TenantsHandler) ChangePlan(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.ChangePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := checkPayload(req); err != nil {
		return err
	}
	tenant, err := h.billing.ChangePlan(c.Context(), actor, c.Params("id"), req.PlanID)
	if err != nil {
		return err
	}
	return c.JSON(dto.DataResponse[dto.TenantResponse]{Data: dto.NewTenantResponse(tenant)})
}
