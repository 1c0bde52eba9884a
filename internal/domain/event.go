package domain

import "time"

// EventStatus enumerates the event lifecycle.
type EventStatus string

const (
	EventStatusScheduled EventStatus = "scheduled"
	EventStatusOngoing   EventStatus = "ongoing"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

// Event is a scheduled engagement at a branch. StartTime < EndTime is a
// required invariant enforced at creation and update.
type Event struct {
	ID        string
	TenantID  string
	ClientID  string
	BranchID  string
	Name      string
	Status    EventStatus
	StartTime time.Time
	EndTime   time.Time
	CreatedAt time.Time
	UpdatedAt time.Time

	// joined display fields
	ClientName string
	BranchName string
}

// Scope returns the event's scope keys.
func (e *Event) Scope() ResourceScope {
	return ResourceScope{TenantID: &e.TenantID, ClientID: &e.ClientID}
}
