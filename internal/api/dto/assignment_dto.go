package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/fieldsuite/admin-service/internal/domain"
)

// CreateAssignmentRequest payload.
type CreateAssignmentRequest struct {
	EventID    string     `json:"event_id"`
	EmployeeID string     `json:"employee_id"`
	StartDate  *time.Time `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
}

func (r CreateAssignmentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.EventID, validation.Required),
		validation.Field(&r.EmployeeID, validation.Required),
	)
}

// UpdateAssignmentRequest payload for date changes.
type UpdateAssignmentRequest struct {
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

func (r UpdateAssignmentRequest) Validate() error {
	return validation.ValidateStruct(&r)
}

// UpdateAssignmentStatusRequest payload.
type UpdateAssignmentStatusRequest struct {
	Status domain.AssignmentStatus `json:"status"`
}

func (r UpdateAssignmentStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required, validation.In(
			domain.AssignmentStatusAccepted,
			domain.AssignmentStatusRejected,
			domain.AssignmentStatusCompleted,
		)),
	)
}

// AssignmentResponse describes an assignment.
type AssignmentResponse struct {
	ID           string                  `json:"id"`
	TenantID     string                  `json:"tenant_id"`
	EventID      string                  `json:"event_id"`
	EventName    string                  `json:"event_name,omitempty"`
	EmployeeID   string                  `json:"employee_id"`
	EmployeeName string                  `json:"employee_name,omitempty"`
	Status       domain.AssignmentStatus `json:"status"`
	StartDate    *time.Time              `json:"start_date"`
	EndDate      *time.Time              `json:"end_date"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
}

// NewAssignmentResponse maps an assignment.
func NewAssignmentResponse(assignment *domain.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:           assignment.ID,
		TenantID:     assignment.TenantID,
		EventID:      assignment.EventID,
		EventName:    assignment.EventName,
		EmployeeID:   assignment.EmployeeID,
		EmployeeName: assignment.EmployeeName,
		Status:       assignment.Status,
		StartDate:    assignment.StartDate,
		EndDate:      assignment.EndDate,
		CreatedAt:    assignment.CreatedAt,
		UpdatedAt:    assignment.UpdatedAt,
	}
}

// NewAssignmentList maps a page of assignments.
func NewAssignmentList(assignments []domain.Assignment, meta PageMeta) ListResponse[AssignmentResponse] {
	out := make([]AssignmentResponse, 0, len(assignments))
	for i := range assignments {
		out = append(out, NewAssignmentResponse(&assignments[i]))
	}
	return ListResponse[AssignmentResponse]{Data: out, Meta: meta}
}
