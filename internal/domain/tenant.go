package domain

import "time"

// Tenant is the top-level isolation boundary. Clients, branches, employees,
// events, assignments and contracts all hang off a tenant.
type Tenant struct {
	ID                   string
	Name                 string
	AdminID              *string
	PlanID               *string
	StripeCustomerID     *string
	StripeSubscriptionID *string
	CreatedAt            time.Time
	UpdatedAt            time.Time

	PlanName *string
}

// Scope returns the tenant's own scope keys.
func (t *Tenant) Scope() ResourceScope {
	return ResourceScope{TenantID: &t.ID}
}
