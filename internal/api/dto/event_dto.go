package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/fieldsuite/admin-service/internal/domain"
)

// CreateEventRequest payload.
type CreateEventRequest struct {
	BranchID  string    `json:"branch_id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

func (r CreateEventRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BranchID, validation.Required),
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.StartTime, validation.Required),
		validation.Field(&r.EndTime, validation.Required),
	)
}

// UpdateEventRequest payload.
type UpdateEventRequest struct {
	Name      *string             `json:"name"`
	Status    *domain.EventStatus `json:"status"`
	StartTime *time.Time          `json:"start_time"`
	EndTime   *time.Time          `json:"end_time"`
}

func (r UpdateEventRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Status, validation.In(
			domain.EventStatusScheduled,
			domain.EventStatusOngoing,
			domain.EventStatusCompleted,
			domain.EventStatusCancelled,
		)),
	)
}

// EventResponse describes a scheduled event.
type EventResponse struct {
	ID         string             `json:"id"`
	TenantID   string             `json:"tenant_id"`
	ClientID   string             `json:"client_id"`
	ClientName string             `json:"client_name,omitempty"`
	BranchID   string             `json:"branch_id"`
	BranchName string             `json:"branch_name,omitempty"`
	Name       string             `json:"name"`
	Status     domain.EventStatus `json:"status"`
	StartTime  time.Time          `json:"start_time"`
	EndTime    time.Time          `json:"end_time"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// NewEventResponse maps an event.
func NewEventResponse(event *domain.Event) EventResponse {
	return EventResponse{
		ID:         event.ID,
		TenantID:   event.TenantID,
		ClientID:   event.ClientID,
		ClientName: event.ClientName,
		BranchID:   event.BranchID,
		BranchName: event.BranchName,
		Name:       event.Name,
		Status:     event.Status,
		StartTime:  event.StartTime,
		EndTime:    event.EndTime,
		CreatedAt:  event.CreatedAt,
		UpdatedAt:  event.UpdatedAt,
	}
}

// NewEventList maps a page of events.
func NewEventList(eventRows []domain.Event, meta PageMeta) ListResponse[EventResponse] {
	out := make([]EventResponse, 0, len(eventRows))
	for i := range eventRows {
		out = append(out, NewEventResponse(&eventRows[i]))
	}
	return ListResponse[EventResponse]{Data: out, Meta: meta}
}
