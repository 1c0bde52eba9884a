package service

import (
	"context"
	"testing"

	"github.com/fieldsuite/admin-service/internal/domain"
)

func newBranchFixture() (*BranchService, *fakeBranchRepo, *fakeClientRepo, *fakeMembershipRepo) {
	branches := newFakeBranchRepo()
	clients := newFakeClientRepo()
	memberships := newFakeMembershipRepo()
	_ = clients.Create(context.Background(), &domain.Client{ID: "cli_1", TenantID: "ten_1", Name: "North Depot"})
	_ = clients.Create(context.Background(), &domain.Client{ID: "cli_2", TenantID: "ten_2", Name: "South Depot"})
	svc := NewBranchService(branches, clients, memberships)
	return svc, branches, clients, memberships
}

func TestBranchCreateRejectsDuplicateNameInClient(t *testing.T) {
	svc, branches, _, _ := newBranchFixture()
	_ = branches.Create(context.Background(), &domain.Branch{ID: "brn_1", ClientID: "cli_1", TenantID: "ten_1", Name: "Main"})
	admin := &domain.SessionUser{ID: "usr_ta", Role: domain.RoleTenantAdmin, TenantID: strPtr("ten_1")}

	_, err := svc.Create(context.Background(), admin, BranchCreateInput{ClientID: "cli_1", Name: "main"})
	if code := domainErrCode(t, err); code != "DUPLICATE_BRANCH_NAME" {
		t.Fatalf("expected DUPLICATE_BRANCH_NAME, got %s", code)
	}
}

func TestBranchCreateUnderForeignClientLooksAbsent(t *testing.T) {
	svc, _, _, _ := newBranchFixture()
	admin := &domain.SessionUser{ID: "usr_ta", Role: domain.RoleTenantAdmin, TenantID: strPtr("ten_1")}

	_, err := svc.Create(context.Background(), admin, BranchCreateInput{ClientID: "cli_2", Name: "Main"})
	if code := domainErrCode(t, err); code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND for foreign client, got %s", code)
	}
}

func TestBranchSupervisorRequiresTenantRole(t *testing.T) {
	svc, _, _, memberships := newBranchFixture()
	_ = memberships.Create(context.Background(), &domain.Membership{ID: "emp_1", UserID: "usr_emp", TenantID: "ten_1"})
	clientAdmin := &domain.SessionUser{ID: "usr_ca", Role: domain.RoleClientAdmin, TenantID: strPtr("ten_1"), ClientID: strPtr("cli_1")}

	_, err := svc.Create(context.Background(), clientAdmin, BranchCreateInput{
		ClientID:     "cli_1",
		Name:         "Main",
		SupervisorID: strPtr("usr_emp"),
	})
	if code := domainErrCode(t, err); code != "FORBIDDEN" {
		t.Fatalf("expected FORBIDDEN for client_admin supervisor assignment, got %s", code)
	}

	// Without a supervisor the same actor may create the branch.
	if _, err := svc.Create(context.Background(), clientAdmin, BranchCreateInput{ClientID: "cli_1", Name: "Main"}); err != nil {
		t.Fatalf("plain create failed: %v", err)
	}
}

func TestBranchSupervisorMustBeTenantEmployee(t *testing.T) {
	svc, _, _, memberships := newBranchFixture()
	_ = memberships.Create(context.Background(), &domain.Membership{ID: "emp_1", UserID: "usr_emp", TenantID: "ten_1"})
	admin := &domain.SessionUser{ID: "usr_ta", Role: domain.RoleTenantAdmin, TenantID: strPtr("ten_1")}

	_, err := svc.Create(context.Background(), admin, BranchCreateInput{
		ClientID:     "cli_1",
		Name:         "Main",
		SupervisorID: strPtr("usr_outsider"),
	})
	if code := domainErrCode(t, err); code != "VALIDATION_ERROR" {
		t.Fatalf("expected VALIDATION_ERROR for non-member supervisor, got %s", code)
	}

	branch, err := svc.Create(context.Background(), admin, BranchCreateInput{
		ClientID:     "cli_1",
		Name:         "Main",
		SupervisorID: strPtr("usr_emp"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if branch.SupervisorID == nil || *branch.SupervisorID != "usr_emp" {
		t.Fatalf("supervisor not applied: %+v", branch.SupervisorID)
	}
	if branch.TenantID != "ten_1" {
		t.Fatalf("expected tenant derived from client, got %s", branch.TenantID)
	}
}
