// Package authz centralizes the role/scope authorization matrix that the
// route handlers consult before touching storage. Predicates here are pure:
// they never mutate state and never read storage beyond what the caller
// already resolved.
package authz

import (
	"github.com/fieldsuite/admin-service/internal/domain"
)

// Operation enumerates write operations the capability table ranges over.
type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

type capKey struct {
	role domain.Role
	kind domain.ResourceKind
	op   Operation
}

// tenantAdminKinds are the resource kinds a tenant_admin fully manages
// within its own tenant.
var tenantAdminKinds = []domain.ResourceKind{
	domain.KindClient,
	domain.KindBranch,
	domain.KindEmployee,
	domain.KindEvent,
	domain.KindAssignment,
	domain.KindContract,
	domain.KindInvoice,
}

var allKinds = []domain.ResourceKind{
	domain.KindTenant,
	domain.KindClient,
	domain.KindBranch,
	domain.KindEmployee,
	domain.KindEvent,
	domain.KindAssignment,
	domain.KindContract,
	domain.KindInvoice,
	domain.KindPlan,
}

var allOps = []Operation{OpCreate, OpUpdate, OpDelete}

// capabilityTable is the declarative (role, kind, operation) matrix. Scope
// comparison is a separate concern (scope.go); an entry here only says the
// role may ever perform the operation on the kind.
var capabilityTable = buildCapabilityTable()

func buildCapabilityTable() map[capKey]struct{} {
	table := make(map[capKey]struct{})
	grant := func(role domain.Role, kind domain.ResourceKind, ops ...Operation) {
		for _, op := range ops {
			table[capKey{role: role, kind: kind, op: op}] = struct{}{}
		}
	}

	for _, kind := range allKinds {
		grant(domain.RoleSuperAdmin, kind, allOps...)
	}

	for _, kind := range tenantAdminKinds {
		grant(domain.RoleTenantAdmin, kind, allOps...)
	}
	// plan changes on its own tenant
	grant(domain.RoleTenantAdmin, domain.KindTenant, OpUpdate)

	// branches for its own client only; supervisor assignment is excluded
	// separately via CanSetBranchSupervisor
	grant(domain.RoleClientAdmin, domain.KindBranch, OpCreate, OpUpdate)

	// employees may only touch their own assignment status and profile,
	// which services allow as field-level exceptions; no table entries
	return table
}

// Can reports whether the role may ever perform op on kind. Scope matching
// is checked separately.
func Can(actor *domain.SessionUser, kind domain.ResourceKind, op Operation) bool {
	if actor == nil {
		return false
	}
	_, ok := capabilityTable[capKey{role: actor.Role, kind: kind, op: op}]
	return ok
}

// CanCreate reports create capability for the resource kind.
func CanCreate(actor *domain.SessionUser, kind domain.ResourceKind) bool {
	return Can(actor, kind, OpCreate)
}

// CanUpdate reports update capability for the resource kind.
func CanUpdate(actor *domain.SessionUser, kind domain.ResourceKind) bool {
	return Can(actor, kind, OpUpdate)
}

// CanDelete reports delete capability for the resource kind.
func CanDelete(actor *domain.SessionUser, kind domain.ResourceKind) bool {
	return Can(actor, kind, OpDelete)
}

// CanSetBranchSupervisor reports whether the actor may set or change a
// branch supervisor. A client_admin may manage its branches but never the
// supervisor link, regardless of ownership.
func CanSetBranchSupervisor(actor *domain.SessionUser) bool {
	if actor == nil {
		return false
	}
	return actor.Role == domain.RoleSuperAdmin || actor.Role == domain.RoleTenantAdmin
}
