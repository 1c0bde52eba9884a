package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fieldsuite/admin-service/internal/api/dto"
	"github.com/fieldsuite/admin-service/internal/domain"
	"github.com/fieldsuite/admin-service/internal/service"
	apperrors "github.com/fieldsuite/admin-service/pkg/util"
)

// AssignmentsHandler exposes assignment endpoints.
type AssignmentsHandler struct {
	assignments *service.AssignmentService
}

// NewAssignmentsHandler constructs handler.
func NewAssignmentsHandler(assignments *service.AssignmentService) *AssignmentsHandler {
	return &AssignmentsHandler{assignments: assignments}
}

// List handles GET /api/assignments.
func (h *AssignmentsHandler) List(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	page := parsePagination(c)
	var statuses []domain.AssignmentStatus
	for _, raw := range splitQuery(c, "status") {
		statuses = append(statuses, domain.AssignmentStatus(raw))
	}
	assignments, total, err := h.assignments.List(c.Context(), actor, service.AssignmentListInput{
		TenantID: queryPtr(c, "tenant_id", "tenantId"),
		EventID:  queryPtr(c, "event_id", "eventId"),
		Statuses: statuses,
		Search:   queryPtr(c, "search"),
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAssignmentList(assignments, dto.NewPageMeta(total, page.Page, page.Limit)))
}

// Get handles GET /api/assignments/:id.
func (h *AssignmentsHandler) Get(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	assignment, err := h.assignments.Get(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.DataResponse[dto.AssignmentResponse]{Data: dto.NewAssignmentResponse(assignment)})
}

// Create handles POST /api/assignments.
func (h *AssignmentsHandler) Create(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.CreateAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := checkPayload(req); err != nil {
		return err
	}
	assignment, err := h.assignments.Create(c.Context(), actor, service.AssignmentCreateInput{
		EventID:    req.EventID,
		EmployeeID: req.EmployeeID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.DataResponse[dto.AssignmentResponse]{Data: dto.NewAssignmentResponse(assignment)})
}

// Update handles PATCH /api/assignments/:id for date changes.
func (h *AssignmentsHandler) Update(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.UpdateAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := checkPayload(req); err != nil {
		return err
	}
	assignment, err := h.assignments.Update(c.Context(), actor, c.Params("id"), service.AssignmentUpdateInput{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.DataResponse[dto.AssignmentResponse]{Data: dto.NewAssignmentResponse(assignment)})
}

// UpdateStatus handles PATCH /api/assignments/:id/status.
func (h *AssignmentsHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.UpdateAssignmentStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := checkPayload(req); err != nil {
		return err
	}
	assignment, err := h.assignments.UpdateStatus(c.Context(), actor, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(dto.DataResponse[dto.AssignmentResponse]{Data: dto.NewAssignmentResponse(assignment)})
}

// Delete handles DELETE /api/assignments/:id.
func (h *AssignmentsHandler) Delete(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	if err := h.assignments.Delete(c.Context(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
