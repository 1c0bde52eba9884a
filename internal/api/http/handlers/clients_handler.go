package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fieldsuite/admin-service/internal/api/dto"
	"github.com/fieldsuite/admin-service/internal/service"
	apperrors "github.com/fieldsuite/admin-service/pkg/util"
)

// ClientsHandler exposes client endpoints.
type ClientsHandler struct {
	clients *service.ClientService
}

// NewClientsHandler constructs handler.
func NewClientsHandler(clients *service.ClientService) *ClientsHandler {
	return &ClientsHandler{clients: clients}
}

// List handles GET /api/clients.
func (h *ClientsHandler) List(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	page := parsePagination(c)
	clients, total, err := h.clients.List(c.Context(), actor, service.ClientListInput{
		TenantID: queryPtr(c, "tenant_id", "tenantId"),
		Search:   queryPtr(c, "search"),
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewClientList(clients, dto.NewPageMeta(total, page.Page, page.Limit)))
}

// Get handles GET /api/clients/:id.
func (h *ClientsHandler) Get(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	client, err := h.clients.Get(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.DataResponse[dto.ClientResponse]{Data: dto.NewClientResponse(client)})
}

// Create handles POST /api/clients. The response carries the client together
// with its initial contract.
func (h *ClientsHandler) Create(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.CreateClientRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := checkPayload(req); err != nil {
		return err
	}
	client, contract, err := h.clients.Create(c.Context(), actor, service.ClientCreateInput{
		TenantID:          req.TenantID,
		Name:              req.Name,
		Email:             req.Email,
		Phone:             req.Phone,
		AdminID:           req.AdminID,
		ContractName:      req.ContractName,
		ContractStartDate: req.ContractStartDate,
		ContractEndDate:   req.ContractEndDate,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.DataResponse[dto.ClientWithContractResponse]{
		Data: dto.ClientWithContractResponse{
			Client:   dto.NewClientResponse(client),
			Contract: dto.NewContractResponse(contract),
		},
	})
}

// Update handles PATCH /api/clients/:id.
func (h *ClientsHandler) Update(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.UpdateClientRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := checkPayload(req); err != nil {
		return err
	}
	client, err := h.clients.Update(c.Context(), actor, c.Params("id"), service.ClientUpdateInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		AdminID: req.AdminID,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.DataResponse[dto.ClientResponse]{Data: dto.NewClientResponse(client)})
}

// Delete handles DELETE /api/clients/:id.
func (h *ClientsHandler) Delete(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	if err := h.clients.Delete(c.Context(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
