package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fieldsuite/admin-service/internal/api/dto"
	"github.com/fieldsuite/admin-service/internal/domain"
	"github.com/fieldsuite/admin-service/internal/service"
	apperrors "github.com/fieldsuite/admin-service/pkg/util"
)

// ContractsHandler exposes contract endpoints.
type ContractsHandler struct {
	contracts *service.ContractService
}

// NewContractsHandler constructs handler.
func NewContractsHandler(contracts *service.ContractService) *ContractsHandler {
	return &ContractsHandler{contracts: contracts}
}

// List handles GET /api/contracts.
func (h *ContractsHandler) List(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	page := parsePagination(c)
	var statuses []domain.ContractStatus
	for _, raw := range splitQuery(c, "status") {
		statuses = append(statuses, domain.ContractStatus(raw))
	}
	contracts, total, err := h.contracts.List(c.Context(), actor, service.ContractListInput{
		TenantID: queryPtr(c, "tenant_id", "tenantId"),
		ClientID: queryPtr(c, "client_id", "clientId"),
		Statuses: statuses,
		Search:   queryPtr(c, "search"),
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewContractList(contracts, dto.NewPageMeta(total, page.Page, page.Limit)))
}

// Get handles GET /api/contracts/:id.
func (h *ContractsHandler) Get(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	contract, err := h.contracts.Get(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.DataResponse[dto.ContractResponse]{Data: dto.NewContractResponse(contract)})
}

// Create handles POST /api/contracts.
func (h *ContractsHandler) Create(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.CreateContractRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := checkPayload(req); err != nil {
		return err
	}
	contract, err := h.contracts.Create(c.Context(), actor, service.ContractCreateInput{
		ClientID:  req.ClientID,
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.DataResponse[dto.ContractResponse]{Data: dto.NewContractResponse(contract)})
}

// Update handles PATCH /api/contracts/:id.
func (h *ContractsHandler) Update(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.UpdateContractRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := checkPayload(req); err != nil {
		return err
	}
	contract, err := h.contracts.Update(c.Context(), actor, c.Params("id"), service.ContractUpdateInput{
		Name:    req.Name,
		Status:  req.Status,
		EndDate: req.EndDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.DataResponse[dto.ContractResponse]{Data: dto.NewContractResponse(contract)})
}

// Delete handles DELETE /api/contracts/:id.
func (h *ContractsHandler) Delete(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	if err := h.contracts.Delete(c.Context(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
