package authz

import (
	"github.com/fieldsuite/admin-service/internal/domain"
	apperrors "github.com/fieldsuite/admin-service/pkg/util"
)

// ListScope is the forced filter a list query must AND with whatever the
// caller supplied. A nil field means no restriction on that axis. For the
// client kind, ClientID restricts the row id itself rather than a foreign key.
type ListScope struct {
	TenantID   *string
	ClientID   *string
	EmployeeID *string
}

// axes describes which scope axes a resource kind exposes to list filtering.
type axes struct {
	tenant   bool
	client   bool
	employee bool
}

var kindAxes = map[domain.ResourceKind]axes{
	domain.KindClient:     {tenant: true, client: true},
	domain.KindBranch:     {tenant: true, client: true},
	domain.KindContract:   {tenant: true, client: true},
	domain.KindInvoice:    {tenant: true, client: true},
	domain.KindEvent:      {tenant: true, client: true, employee: true},
	domain.KindEmployee:   {tenant: true, employee: true},
	domain.KindAssignment: {tenant: true, employee: true},
}

// ResolveListScope computes the scope an actor's list of kind must be
// constrained to. requestedTenantID is the tenantId query param; it is only
// honored for super_admin, which has no implicit tenant and must name one
// for tenant-scoped kinds. All other roles have their scope forced from the
// session, never from the request.
func ResolveListScope(actor *domain.SessionUser, kind domain.ResourceKind, requestedTenantID *string) (ListScope, error) {
	if actor == nil {
		return ListScope{}, apperrors.NewUnauthorized("missing actor")
	}

	switch kind {
	case domain.KindPlan:
		// plan catalog is global and readable by any authenticated actor
		return ListScope{}, nil
	case domain.KindTenant:
		switch actor.Role {
		case domain.RoleSuperAdmin:
			return ListScope{TenantID: requestedTenantID}, nil
		case domain.RoleTenantAdmin:
			if actor.TenantID == nil {
				return ListScope{}, apperrors.NewNoTenantAccess()
			}
			return ListScope{TenantID: actor.TenantID}, nil
		default:
			return ListScope{}, apperrors.NewForbidden("insufficient role")
		}
	}

	kindScope, ok := kindAxes[kind]
	if !ok {
		return ListScope{}, apperrors.NewForbidden("unknown resource kind")
	}

	switch actor.Role {
	case domain.RoleSuperAdmin:
		if requestedTenantID == nil || *requestedTenantID == "" {
			return ListScope{}, apperrors.NewTenantIDRequired()
		}
		return ListScope{TenantID: requestedTenantID}, nil
	case domain.RoleTenantAdmin:
		if actor.TenantID == nil {
			return ListScope{}, apperrors.NewNoTenantAccess()
		}
		return ListScope{TenantID: actor.TenantID}, nil
	case domain.RoleClientAdmin:
		if !kindScope.client {
			return ListScope{}, apperrors.NewForbidden("insufficient role")
		}
		if actor.ClientID == nil {
			return ListScope{}, apperrors.NewNoClientAccess()
		}
		return ListScope{ClientID: actor.ClientID}, nil
	case domain.RoleEmployee:
		if !kindScope.employee {
			return ListScope{}, apperrors.NewForbidden("insufficient role")
		}
		employeeID := actor.ID
		return ListScope{EmployeeID: &employeeID}, nil
	}
	return ListScope{}, apperrors.NewForbidden("insufficient role")
}

// CanAccessResource reports whether the actor's scope covers a fetched
// resource's scope keys. Callers fetch first and map a miss to not found, so
// a denial here never leaks resource existence across tenants.
func CanAccessResource(actor *domain.SessionUser, scope domain.ResourceScope) bool {
	if actor == nil {
		return false
	}
	switch actor.Role {
	case domain.RoleSuperAdmin:
		return true
	case domain.RoleTenantAdmin:
		return actor.TenantID != nil && scope.TenantID != nil && *actor.TenantID == *scope.TenantID
	case domain.RoleClientAdmin:
		return actor.ClientID != nil && scope.ClientID != nil && *actor.ClientID == *scope.ClientID
	case domain.RoleEmployee:
		return scope.EmployeeID != nil && *scope.EmployeeID == actor.ID
	}
	return false
}
