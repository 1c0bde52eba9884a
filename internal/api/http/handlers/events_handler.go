package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fieldsuite/admin-service/internal/api/dto"
	"github.com/fieldsuite/admin-service/internal/domain"
	"github.com/fieldsuite/admin-service/internal/service"
	apperrors "github.com/fieldsuite/admin-service/pkg/util"
)

// EventsHandler exposes scheduled event endpoints.
type EventsHandler struct {
	events *service.EventService
}

// NewEventsHandler constructs handler.
func NewEventsHandler(events *service.EventService) *EventsHandler {
	return &EventsHandler{events: events}
}

// List handles GET /api/events.
func (h *EventsHandler) List(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	page := parsePagination(c)
	startFrom, err := queryTimePtr(c, "start_from", "startFrom")
	if err != nil {
		return err
	}
	startTo, err := queryTimePtr(c, "start_to", "startTo")
	if err != nil {
		return err
	}
	var statuses []domain.EventStatus
	for _, raw := range splitQuery(c, "status") {
		statuses = append(statuses, domain.EventStatus(raw))
	}
	eventRows, total, err := h.events.List(c.Context(), actor, service.EventListInput{
		TenantID:  queryPtr(c, "tenant_id", "tenantId"),
		ClientID:  queryPtr(c, "client_id", "clientId"),
		BranchID:  queryPtr(c, "branch_id", "branchId"),
		Statuses:  statuses,
		StartFrom: startFrom,
		StartTo:   startTo,
		Search:    queryPtr(c, "search"),
		Limit:     page.Limit,
		Offset:    page.Offset,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewEventList(eventRows, dto.NewPageMeta(total, page.Page, page.Limit)))
}

// Get handles GET /api/events/:id.
func (h *EventsHandler) Get(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	event, err := h.events.Get(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.DataResponse[dto.EventResponse]{Data: dto.NewEventResponse(event)})
}

// Create handles POST /api/events.
func (h *EventsHandler) Create(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := checkPayload(req); err != nil {
		return err
	}
	event, err := h.events.Create(c.Context(), actor, service.EventCreateInput{
		BranchID:  req.BranchID,
		Name:      req.Name,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.DataResponse[dto.EventResponse]{Data: dto.NewEventResponse(event)})
}

// Update handles PATCH /api/events/:id.
func (h *EventsHandler) Update(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.UpdateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := checkPayload(req); err != nil {
		return err
	}
	event, err := h.events.Update(c.Context(), actor, c.Params("id"), service.EventUpdateInput{
		Name:      req.Name,
		Status:    req.Status,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.DataResponse[dto.EventResponse]{Data: dto.NewEventResponse(event)})
}

// Delete handles DELETE /api/events/:id.
func (h *EventsHandler) Delete(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	if err := h.events.Delete(c.Context(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
