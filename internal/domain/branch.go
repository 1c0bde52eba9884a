package domain

import "time"

// Branch belongs to exactly one client and transitively to that client's
// tenant. TenantID is derived through the client join when fetched.
type Branch struct {
	ID           string
	ClientID     string
	TenantID     string
	Name         string
	Address      *string
	SupervisorID *string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// joined display fields
	ClientName     string
	SupervisorName *string
}

// Scope returns the branch's scope keys, including the derived tenant.
func (b *Branch) Scope() ResourceScope {
	return ResourceScope{TenantID: &b.TenantID, ClientID: &b.ClientID}
}
