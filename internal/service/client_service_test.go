package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fieldsuite/admin-service/internal/domain"
)

func newClientFixture() (*ClientService, *fakeClientRepo, *fakeContractRepo, *fakeTenantRepo) {
	clients := newFakeClientRepo()
	contracts := newFakeContractRepo()
	tenants := newFakeTenantRepo()
	_ = tenants.Create(context.Background(), &domain.Tenant{ID: "ten_1", Name: "Acme"})
	_ = tenants.Create(context.Background(), &domain.Tenant{ID: "ten_2", Name: "Globex"})
	svc := NewClientService(ClientDependencies{
		ClientRepo:   clients,
		ContractRepo: contracts,
		TenantRepo:   tenants,
		TxRunner:     &fakeTxRunner{repos: []snapshotter{clients, contracts}},
	})
	return svc, clients, contracts, tenants
}

func TestClientCreateAlsoCreatesContract(t *testing.T) {
	svc, clients, contracts, _ := newClientFixture()
	admin := &domain.SessionUser{ID: "usr_ta", Role: domain.RoleTenantAdmin, TenantID: strPtr("ten_1")}

	client, contract, err := svc.Create(context.Background(), admin, ClientCreateInput{
		Name:              "North Depot",
		ContractName:      "Initial Agreement",
		ContractStartDate: time.Now(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.TenantID != "ten_1" {
		t.Fatalf("expected tenant forced from session, got %s", client.TenantID)
	}
	if contract.ClientID != client.ID || contract.Status != domain.ContractStatusActive {
		t.Fatalf("unexpected contract: %+v", contract)
	}
	if len(clients.rows) != 1 || len(contracts.rows) != 1 {
		t.Fatalf("expected one client and one contract persisted")
	}
}

func TestClientCreateRollsBackOnContractFailure(t *testing.T) {
	svc, clients, contracts, _ := newClientFixture()
	contracts.failCreate = errors.New("contract insert failed")
	admin := &domain.SessionUser{ID: "usr_ta", Role: domain.RoleTenantAdmin, TenantID: strPtr("ten_1")}

	_, _, err := svc.Create(context.Background(), admin, ClientCreateInput{
		Name:              "North Depot",
		ContractName:      "Initial Agreement",
		ContractStartDate: time.Now(),
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(clients.rows) != 0 {
		t.Fatalf("expected client rollback, found %d rows", len(clients.rows))
	}
	if len(contracts.rows) != 0 {
		t.Fatalf("expected no contract rows, found %d", len(contracts.rows))
	}
}

func TestClientCreateRejectsDuplicateNameInTenant(t *testing.T) {
	svc, clients, _, _ := newClientFixture()
	_ = clients.Create(context.Background(), &domain.Client{ID: "cli_1", TenantID: "ten_1", Name: "North Depot"})
	admin := &domain.SessionUser{ID: "usr_ta", Role: domain.RoleTenantAdmin, TenantID: strPtr("ten_1")}

	_, _, err := svc.Create(context.Background(), admin, ClientCreateInput{
		Name:              "north depot",
		ContractName:      "Initial Agreement",
		ContractStartDate: time.Now(),
	})
	if code := domainErrCode(t, err); code != "DUPLICATE_CLIENT_NAME" {
		t.Fatalf("expected DUPLICATE_CLIENT_NAME, got %s", code)
	}
}

func TestClientCreateAllowsSameNameAcrossTenants(t *testing.T) {
	svc, clients, _, _ := newClientFixture()
	_ = clients.Create(context.Background(), &domain.Client{ID: "cli_1", TenantID: "ten_2", Name: "North Depot"})
	admin := &domain.SessionUser{ID: "usr_ta", Role: domain.RoleTenantAdmin, TenantID: strPtr("ten_1")}

	if _, _, err := svc.Create(context.Background(), admin, ClientCreateInput{
		Name:              "North Depot",
		ContractName:      "Initial Agreement",
		ContractStartDate: time.Now(),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClientGetForeignTenantLooksAbsent(t *testing.T) {
	svc, clients, _, _ := newClientFixture()
	_ = clients.Create(context.Background(), &domain.Client{ID: "cli_1", TenantID: "ten_2", Name: "North Depot"})
	admin := &domain.SessionUser{ID: "usr_ta", Role: domain.RoleTenantAdmin, TenantID: strPtr("ten_1")}

	_, err := svc.Get(context.Background(), admin, "cli_1")
	if code := domainErrCode(t, err); code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND, got %s", code)
	}
}

func TestClientListSearchStaysInTenant(t *testing.T) {
	svc, clients, _, _ := newClientFixture()
	_ = clients.Create(context.Background(), &domain.Client{ID: "cli_1", TenantID: "ten_1", Name: "Acme Logistics", TenantName: "Acme"})
	_ = clients.Create(context.Background(), &domain.Client{ID: "cli_2", TenantID: "ten_1", Name: "Globex Partners", TenantName: "Acme"})
	_ = clients.Create(context.Background(), &domain.Client{ID: "cli_3", TenantID: "ten_2", Name: "Acme Shipping", TenantName: "Globex"})
	admin := &domain.SessionUser{ID: "usr_ta", Role: domain.RoleTenantAdmin, TenantID: strPtr("ten_1")}

	list, total, err := svc.List(context.Background(), admin, ClientListInput{Search: strPtr("ACME")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].ID != "cli_1" {
		t.Fatalf("expected the single own-tenant match, got %d rows (total %d)", len(list), total)
	}
	if list[0].TenantName != "Acme" {
		t.Fatalf("expected tenant name annotation, got %q", list[0].TenantName)
	}
}

func TestClientListSuperAdminRequiresTenantFilter(t *testing.T) {
	svc, _, _, _ := newClientFixture()
	super := &domain.SessionUser{ID: "usr_sa", Role: domain.RoleSuperAdmin}

	_, _, err := svc.List(context.Background(), super, ClientListInput{})
	if code := domainErrCode(t, err); code != "TENANT_ID_REQUIRED" {
		t.Fatalf("expected TENANT_ID_REQUIRED, got %s", code)
	}
}

func TestClientListClientAdminSeesOwnRowOnly(t *testing.T) {
	svc, clients, _, _ := newClientFixture()
	_ = clients.Create(context.Background(), &domain.Client{ID: "cli_1", TenantID: "ten_1", Name: "North Depot"})
	_ = clients.Create(context.Background(), &domain.Client{ID: "cli_2", TenantID: "ten_1", Name: "South Depot"})
	clientAdmin := &domain.SessionUser{ID: "usr_ca", Role: domain.RoleClientAdmin, ClientID: strPtr("cli_1")}

	list, total, err := svc.List(context.Background(), clientAdmin, ClientListInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].ID != "cli_1" {
		t.Fatalf("expected only own client row, got %d rows (total %d)", len(list), total)
	}
}
