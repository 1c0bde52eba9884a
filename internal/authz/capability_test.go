package authz

import (
	"testing"

	"github.com/fieldsuite/admin-service/internal/domain"
)

func actorWithRole(role domain.Role) *domain.SessionUser {
	return &domain.SessionUser{ID: "usr_1", Role: role}
}

func TestSuperAdminHasEveryCapability(t *testing.T) {
	actor := actorWithRole(domain.RoleSuperAdmin)
	for _, kind := range allKinds {
		for _, op := range allOps {
			if !Can(actor, kind, op) {
				t.Errorf("expected super_admin to %s %s", op, kind)
			}
		}
	}
}

func TestTenantAdminCapabilities(t *testing.T) {
	actor := actorWithRole(domain.RoleTenantAdmin)

	for _, kind := range tenantAdminKinds {
		for _, op := range allOps {
			if !Can(actor, kind, op) {
				t.Errorf("expected tenant_admin to %s %s", op, kind)
			}
		}
	}
	if !CanUpdate(actor, domain.KindTenant) {
		t.Errorf("expected tenant_admin to update its tenant")
	}
	if CanCreate(actor, domain.KindTenant) {
		t.Errorf("tenant_admin must not create tenants")
	}
	if CanDelete(actor, domain.KindTenant) {
		t.Errorf("tenant_admin must not delete tenants")
	}
	if Can(actor, domain.KindPlan, OpCreate) {
		t.Errorf("tenant_admin must not manage the plan catalog")
	}
}

func TestClientAdminCapabilities(t *testing.T) {
	actor := actorWithRole(domain.RoleClientAdmin)

	if !CanCreate(actor, domain.KindBranch) || !CanUpdate(actor, domain.KindBranch) {
		t.Fatalf("expected client_admin to create and update branches")
	}
	if CanDelete(actor, domain.KindBranch) {
		t.Errorf("client_admin must not delete branches")
	}
	for _, kind := range []domain.ResourceKind{
		domain.KindTenant, domain.KindClient, domain.KindEmployee,
		domain.KindEvent, domain.KindAssignment, domain.KindContract,
		domain.KindInvoice, domain.KindPlan,
	} {
		for _, op := range allOps {
			if Can(actor, kind, op) {
				t.Errorf("client_admin must not %s %s", op, kind)
			}
		}
	}
}

func TestEmployeeHasNoWriteCapabilities(t *testing.T) {
	actor := actorWithRole(domain.RoleEmployee)
	for _, kind := range allKinds {
		for _, op := range allOps {
			if Can(actor, kind, op) {
				t.Errorf("employee must not %s %s", op, kind)
			}
		}
	}
}

func TestCanSetBranchSupervisor(t *testing.T) {
	cases := []struct {
		role domain.Role
		want bool
	}{
		{domain.RoleSuperAdmin, true},
		{domain.RoleTenantAdmin, true},
		{domain.RoleClientAdmin, false},
		{domain.RoleEmployee, false},
	}
	for _, tc := range cases {
		if got := CanSetBranchSupervisor(actorWithRole(tc.role)); got != tc.want {
			t.Errorf("role %s: got %v, want %v", tc.role, got, tc.want)
		}
	}
	if CanSetBranchSupervisor(nil) {
		t.Errorf("nil actor must not set supervisors")
	}
}
