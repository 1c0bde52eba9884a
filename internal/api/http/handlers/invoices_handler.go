package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fieldsuite/admin-service/internal/api/dto"
	"github.com/fieldsuite/admin-service/internal/domain"
	"github.com/fieldsuite/admin-service/internal/service"
	apperrors "github.com/fieldsuite/admin-service/pkg/util"
)

// InvoicesHandler exposes invoice endpoints.
type InvoicesHandler struct {
	invoices *service.InvoiceService
}

// NewInvoicesHandler constructs handler.
func NewInvoicesHandler(invoices *service.InvoiceService) *InvoicesHandler {
	return &InvoicesHandler{invoices: invoices}
}

// List handles GET /api/invoices.
func (h *InvoicesHandler) List(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	page := parsePagination(c)
	var statuses []domain.InvoiceStatus
	for _, raw := range splitQuery(c, "status") {
		statuses = append(statuses, domain.InvoiceStatus(raw))
	}
	invoices, total, err := h.invoices.List(c.Context(), actor, service.InvoiceListInput{
		TenantID:   queryPtr(c, "tenant_id", "tenantId"),
		ClientID:   queryPtr(c, "client_id", "clientId"),
		ContractID: queryPtr(c, "contract_id", "contractId"),
		Statuses:   statuses,
		Search:     queryPtr(c, "search"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewInvoiceList(invoices, dto.NewPageMeta(total, page.Page, page.Limit)))
}

// Get handles GET /api/invoices/:id.
func (h *InvoicesHandler) Get(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	invoice, err := h.invoices.Get(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.DataResponse[dto.InvoiceResponse]{Data: dto.NewInvoiceResponse(invoice)})
}

// Create handles POST /api/invoices.
func (h *InvoicesHandler) Create(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.CreateInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := checkPayload(req); err != nil {
		return err
	}
	invoice, err := h.invoices.Create(c.Context(), actor, service.InvoiceCreateInput{
		ContractID:  req.ContractID,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.DataResponse[dto.InvoiceResponse]{Data: dto.NewInvoiceResponse(invoice)})
}

// Update handles PATCH /api/invoices/:id.
func (h *InvoicesHandler) Update(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.UpdateInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := checkPayload(req); err != nil {
		return err
	}
	invoice, err := h.invoices.Update(c.Context(), actor, c.Params("id"), service.InvoiceUpdateInput{
		Status:  req.Status,
		DueDate: req.DueDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.DataResponse[dto.InvoiceResponse]{Data: dto.NewInvoiceResponse(invoice)})
}

// Delete handles DELETE /api/invoices/:id. Only draft invoices are deletable.
func (h *InvoicesHandler) Delete(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	if err := h.invoices.Delete(c.Context(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
