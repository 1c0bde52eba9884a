package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fieldsuite/admin-service/internal/api/dto"
	"github.com/fieldsuite/admin-service/internal/service"
	apperrors "github.com/fieldsuite/admin-service/pkg/util"
)

// BranchesHandler exposes branch endpoints.
type BranchesHandler struct {
	branches *service.BranchService
}

// NewBranchesHandler constructs handler.
func NewBranchesHandler(branches *service.BranchService) *BranchesHandler {
	return &BranchesHandler{branches: branches}
}

// List handles GET /api/branches.
func (h *BranchesHandler) List(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	page := parsePagination(c)
	branches, total, err := h.branches.List(c.Context(), actor, service.BranchListInput{
		TenantID: queryPtr(c, "tenant_id", "tenantId"),
		ClientID: queryPtr(c, "client_id", "clientId"),
		Search:   queryPtr(c, "search"),
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewBranchList(branches, dto.NewPageMeta(total, page.Page, page.Limit)))
}

// Get handles GET /api/branches/:id.
func (h *BranchesHandler) Get(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	branch, err := h.branches.Get(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.DataResponse[dto.BranchResponse]{Data: dto.NewBranchResponse(branch)})
}

// Create handles POST /api/branches.
func (h *BranchesHandler) Create(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.CreateBranchRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := checkPayload(req); err != nil {
		return err
	}
	branch, err := h.branches.Create(c.Context(), actor, service.BranchCreateInput{
		ClientID:     req.ClientID,
		Name:         req.Name,
		Address:      req.Address,
		SupervisorID: req.SupervisorID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.DataResponse[dto.BranchResponse]{Data: dto.NewBranchResponse(branch)})
}

// Update handles PATCH /api/branches/:id.
func (h *BranchesHandler) Update(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.UpdateBranchRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := checkPayload(req); err != nil {
		return err
	}
	branch, err := h.branches.Update(c.Context(), actor, c.Params("id"), service.BranchUpdateInput{
		Name:         req.Name,
		Address:      req.Address,
		SupervisorID: req.SupervisorID,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.DataResponse[dto.BranchResponse]{Data: dto.NewBranchResponse(branch)})
}

// Delete handles DELETE /api/branches/:id.
func (h *BranchesHandler) Delete(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	if err := h.branches.Delete(c.Context(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
