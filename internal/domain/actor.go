package domain

// Role enumerates the actor roles recognized by the platform.
type Role string

const (
	RoleSuperAdmin  Role = "super_admin"
	RoleTenantAdmin Role = "tenant_admin"
	RoleClientAdmin Role = "client_admin"
	RoleEmployee    Role = "employee"
)

// Valid reports whether the role is one of the recognized values.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleTenantAdmin, RoleClientAdmin, RoleEmployee:
		return true
	}
	return false
}

// SessionUser is the resolved identity of a request actor. Exactly the role
// determines which scope ids are meaningful: a super_admin carries neither,
// a tenant_admin needs TenantID, a client_admin needs ClientID, and an
// employee is scoped to resources referencing its own id.
type SessionUser struct {
	ID       string
	Role     Role
	TenantID *string
	ClientID *string
}

// ResourceKind tags the entity types the authorization matrix ranges over.
type ResourceKind string

const (
	KindTenant     ResourceKind = "tenant"
	KindClient     ResourceKind = "client"
	KindBranch     ResourceKind = "branch"
	KindEmployee   ResourceKind = "employee"
	KindEvent      ResourceKind = "event"
	KindAssignment ResourceKind = "assignment"
	KindContract   ResourceKind = "contract"
	KindInvoice    ResourceKind = "invoice"
	KindPlan       ResourceKind = "plan"
)

// ResourceScope carries the scope keys of a fetched resource. Entities that
// only hold a foreign key one level removed (a branch's tenant, an invoice's
// client) have the missing key derived by join at fetch time.
type ResourceScope struct {
	TenantID   *string
	ClientID   *string
	EmployeeID *string
}
