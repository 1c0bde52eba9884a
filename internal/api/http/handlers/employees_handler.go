package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fieldsuite/admin-service/internal/api/dto"
	"github.com/fieldsuite/admin-service/internal/service"
	apperrors "github.com/fieldsuite/admin-service/pkg/util"
)

// EmployeesHandler exposes employee membership endpoints.
type EmployeesHandler struct {
	employees *service.EmployeeService
}

// NewEmployeesHandler constructs handler.
func NewEmployeesHandler(employees *service.EmployeeService) *EmployeesHandler {
	return &EmployeesHandler{employees: employees}
}

// List handles GET /api/employees.
func (h *EmployeesHandler) List(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	page := parsePagination(c)
	memberships, total, err := h.employees.List(c.Context(), actor, service.EmployeeListInput{
		TenantID: queryPtr(c, "tenant_id", "tenantId"),
		BranchID: queryPtr(c, "branch_id", "branchId"),
		Search:   queryPtr(c, "search"),
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewEmployeeList(memberships, dto.NewPageMeta(total, page.Page, page.Limit)))
}

// Get handles GET /api/employees/:id.
func (h *EmployeesHandler) Get(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	membership, err := h.employees.Get(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.DataResponse[dto.EmployeeResponse]{Data: dto.NewEmployeeResponse(membership)})
}

// Create handles POST /api/employees.
func (h *EmployeesHandler) Create(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.CreateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := checkPayload(req); err != nil {
		return err
	}
	membership, err := h.employees.Create(c.Context(), actor, service.EmployeeCreateInput{
		TenantID: req.TenantID,
		UserID:   req.UserID,
		BranchID: req.BranchID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.DataResponse[dto.EmployeeResponse]{Data: dto.NewEmployeeResponse(membership)})
}

// Update handles PATCH /api/employees/:id.
func (h *EmployeesHandler) Update(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.UpdateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := checkPayload(req); err != nil {
		return err
	}
	membership, err := h.employees.Update(c.Context(), actor, c.Params("id"), service.EmployeeUpdateInput{
		BranchID: req.BranchID,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.DataResponse[dto.EmployeeResponse]{Data: dto.NewEmployeeResponse(membership)})
}

// Delete handles DELETE /api/employees/:id.
func (h *EmployeesHandler) Delete(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	if err := h.employees.Delete(c.Context(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
