package domain

import "time"

// Membership links an employee user to a tenant, optionally pinned to a
// branch. One active tenant per employee in practice.
type Membership struct {
	ID        string
	UserID    string
	TenantID  string
	BranchID  *string
	CreatedAt time.Time
	UpdatedAt time.Time

	// joined display fields
	UserName   string
	UserEmail  string
	BranchName *string
}

// Scope returns the membership's scope keys. The employee key is the member
// user itself so employees can read their own record.
func (m *Membership) Scope() ResourceScope {
	return ResourceScope{TenantID: &m.TenantID, EmployeeID: &m.UserID}
}
