package domain

import "time"

// AssignmentStatus enumerates the assignment lifecycle. rejected and
// completed are terminal.
type AssignmentStatus string

const (
	AssignmentStatusPending   AssignmentStatus = "pending"
	AssignmentStatusAccepted  AssignmentStatus = "accepted"
	AssignmentStatusRejected  AssignmentStatus = "rejected"
	AssignmentStatusCompleted AssignmentStatus = "completed"
)

// Terminal reports whether no further transition is allowed from the status.
func (s AssignmentStatus) Terminal() bool {
	return s == AssignmentStatusRejected || s == AssignmentStatusCompleted
}

// Assignment links one employee to one event, and derivatively to the
// event's branch, client and tenant.
type Assignment struct {
	ID         string
	TenantID   string
	EventID    string
	EmployeeID string
	Status     AssignmentStatus
	StartDate  *time.Time
	EndDate    *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// joined display fields
	EventName    string
	EmployeeName string
}

// Scope returns the assignment's scope keys. EmployeeID lets the assigned
// employee act on its own assignment.
func (a *Assignment) Scope() ResourceScope {
	return ResourceScope{TenantID: &a.TenantID, EmployeeID: &a.EmployeeID}
}
