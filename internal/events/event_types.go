package events

import (
	"time"

	"github.com/fieldsuite/admin-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventClientCreated           EventType = "client_created"
	EventAssignmentCreated       EventType = "assignment_created"
	EventAssignmentStatusChanged EventType = "assignment_status_changed"
	EventEventStatusChanged      EventType = "event_status_changed"
	EventPlanChanged             EventType = "plan_changed"
	EventInvoiceStatusChanged    EventType = "invoice_status_changed"
	EventPasswordResetRequested  EventType = "password_reset_requested"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TenantID  string      `json:"tenant_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ClientCreatedPayload payload.
type ClientCreatedPayload struct {
	ClientID   string `json:"client_id"`
	ClientName string `json:"client_name"`
	ContractID string `json:"contract_id"`
}

// AssignmentCreatedPayload payload.
type AssignmentCreatedPayload struct {
	AssignmentID  string `json:"assignment_id"`
	EventID       string `json:"event_id"`
	EventName     string `json:"event_name"`
	EmployeeID    string `json:"employee_id"`
	EmployeeEmail string `json:"employee_email,omitempty"`
}

// AssignmentStatusChangedPayload payload.
type AssignmentStatusChangedPayload struct {
	AssignmentID string                  `json:"assignment_id"`
	EventID      string                  `json:"event_id"`
	EmployeeID   string                  `json:"employee_id"`
	OldStatus    domain.AssignmentStatus `json:"old_status"`
	NewStatus    domain.AssignmentStatus `json:"new_status"`
}

// EventStatusChangedPayload payload.
type EventStatusChangedPayload struct {
	EventID   string             `json:"event_id"`
	EventName string             `json:"event_name"`
	OldStatus domain.EventStatus `json:"old_status"`
	NewStatus domain.EventStatus `json:"new_status"`
}

// PlanChangedPayload payload.
type PlanChangedPayload struct {
	OldPlanID *string `json:"old_plan_id,omitempty"`
	NewPlanID string  `json:"new_plan_id"`
	PlanName  string  `json:"plan_name"`
}

// InvoiceStatusChangedPayload payload.
type InvoiceStatusChangedPayload struct {
	InvoiceID string               `json:"invoice_id"`
	Number    string               `json:"number"`
	OldStatus domain.InvoiceStatus `json:"old_status"`
	NewStatus domain.InvoiceStatus `json:"new_status"`
}

// PasswordResetRequestedPayload payload.
type PasswordResetRequestedPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}
