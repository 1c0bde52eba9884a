package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/fieldsuite/admin-service/internal/api/http/handlers"
	"github.com/fieldsuite/admin-service/internal/auth"
	"github.com/fieldsuite/admin-service/internal/domain"
	"github.com/fieldsuite/admin-service/internal/events"
	"github.com/fieldsuite/admin-service/internal/repository"
	"github.com/fieldsuite/admin-service/internal/service"
)

type memUserRepo struct {
	users map[string]domain.User
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) error {
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type memTenantRepo struct {
	tenants map[string]domain.Tenant
}

func (r *memTenantRepo) Create(_ context.Context, tenant *domain.Tenant) error {
	r.tenants[tenant.ID] = *tenant
	return nil
}

func (r *memTenantRepo) Update(_ context.Context, tenant *domain.Tenant) error {
	r.tenants[tenant.ID] = *tenant
	return nil
}

func (r *memTenantRepo) Delete(_ context.Context, id string) error {
	delete(r.tenants, id)
	return nil
}

func (r *memTenantRepo) GetByID(_ context.Context, id string) (*domain.Tenant, error) {
	tenant, ok := r.tenants[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &tenant, nil
}

func (r *memTenantRepo) GetByAdminID(_ context.Context, adminID string) (*domain.Tenant, error) {
	for _, tenant := range r.tenants {
		if tenant.AdminID != nil && *tenant.AdminID == adminID {
			t := tenant
			return &t, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memTenantRepo) GetByName(_ context.Context, name string) (*domain.Tenant, error) {
	for _, tenant := range r.tenants {
		if strings.EqualFold(tenant.Name, name) {
			t := tenant
			return &t, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memTenantRepo) List(_ context.Context, _ repository.TenantFilter) ([]domain.Tenant, error) {
	out := make([]domain.Tenant, 0, len(r.tenants))
	for _, tenant := range r.tenants {
		out = append(out, tenant)
	}
	return out, nil
}

func (r *memTenantRepo) Count(_ context.Context, _ repository.TenantFilter) (int, error) {
	return len(r.tenants), nil
}

type memClientRepo struct {
	clients map[string]domain.Client
}

func (r *memClientRepo) WithTx(_ pgx.Tx) repository.ClientRepository { return r }

func (r *memClientRepo) Create(_ context.Context, client *domain.Client) error {
	r.clients[client.ID] = *client
	return nil
}

func (r *memClientRepo) Update(_ context.Context, client *domain.Client) error {
	r.clients[client.ID] = *client
	return nil
}

func (r *memClientRepo) Delete(_ context.Context, id string) error {
	delete(r.clients, id)
	return nil
}

func (r *memClientRepo) GetByID(_ context.Context, id string) (*domain.Client, error) {
	client, ok := r.clients[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &client, nil
}

func (r *memClientRepo) GetByAdminID(_ context.Context, adminID string) (*domain.Client, error) {
	for _, client := range r.clients {
		if client.AdminID != nil && *client.AdminID == adminID {
			c := client
			return &c, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memClientRepo) GetByNameInTenant(_ context.Context, tenantID, name string) (*domain.Client, error) {
	for _, client := range r.clients {
		if client.TenantID == tenantID && strings.EqualFold(client.Name, name) {
			c := client
			return &c, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memClientRepo) matches(client domain.Client, filter repository.ClientFilter) bool {
	if filter.ID != nil && client.ID != *filter.ID {
		return false
	}
	if filter.TenantID != nil && client.TenantID != *filter.TenantID {
		return false
	}
	return true
}

func (r *memClientRepo) List(_ context.Context, filter repository.ClientFilter) ([]domain.Client, error) {
	out := make([]domain.Client, 0)
	for _, client := range r.clients {
		if r.matches(client, filter) {
			out = append(out, client)
		}
	}
	return out, nil
}

func (r *memClientRepo) Count(_ context.Context, filter repository.ClientFilter) (int, error) {
	list, _ := r.List(context.Background(), filter)
	return len(list), nil
}

type memContractRepo struct {
	contracts map[string]domain.Contract
}

func (r *memContractRepo) WithTx(_ pgx.Tx) repository.ContractRepository { return r }

func (r *memContractRepo) Create(_ context.Context, contract *domain.Contract) error {
	r.contracts[contract.ID] = *contract
	return nil
}

func (r *memContractRepo) Update(_ context.Context, contract *domain.Contract) error {
	r.contracts[contract.ID] = *contract
	return nil
}

func (r *memContractRepo) Delete(_ context.Context, id string) error {
	delete(r.contracts, id)
	return nil
}

func (r *memContractRepo) GetByID(_ context.Context, id string) (*domain.Contract, error) {
	contract, ok := r.contracts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &contract, nil
}

func (r *memContractRepo) List(_ context.Context, _ repository.ContractFilter) ([]domain.Contract, error) {
	out := make([]domain.Contract, 0, len(r.contracts))
	for _, contract := range r.contracts {
		out = append(out, contract)
	}
	return out, nil
}

func (r *memContractRepo) Count(_ context.Context, _ repository.ContractFilter) (int, error) {
	return len(r.contracts), nil
}

type memMembershipRepo struct {
	memberships map[string]domain.Membership
}

func (r *memMembershipRepo) Create(_ context.Context, m *domain.Membership) error {
	r.memberships[m.ID] = *m
	return nil
}

func (r *memMembershipRepo) Update(_ context.Context, m *domain.Membership) error {
	r.memberships[m.ID] = *m
	return nil
}

func (r *memMembershipRepo) Delete(_ context.Context, id string) error {
	delete(r.memberships, id)
	return nil
}

func (r *memMembershipRepo) GetByID(_ context.Context, id string) (*domain.Membership, error) {
	m, ok := r.memberships[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &m, nil
}

func (r *memMembershipRepo) GetByUserID(_ context.Context, userID string) (*domain.Membership, error) {
	for _, m := range r.memberships {
		if m.UserID == userID {
			found := m
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memMembershipRepo) GetByUserInTenant(_ context.Context, userID, tenantID string) (*domain.Membership, error) {
	for _, m := range r.memberships {
		if m.UserID == userID && m.TenantID == tenantID {
			found := m
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memMembershipRepo) List(_ context.Context, _ repository.MembershipFilter) ([]domain.Membership, error) {
	out := make([]domain.Membership, 0, len(r.memberships))
	for _, m := range r.memberships {
		out = append(out, m)
	}
	return out, nil
}

func (r *memMembershipRepo) Count(_ context.Context, _ repository.MembershipFilter) (int, error) {
	return len(r.memberships), nil
}

type passTxRunner struct{}

func (passTxRunner) ExecTx(_ context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

func strRef(s string) *string { return &s }

// newTestApp wires a fiber app with in-memory storage. The super admin is
// usr_super, usr_tadmin administers ten_1 which owns cli_1, and ten_2 owns
// cli_2.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	users := &memUserRepo{users: map[string]domain.User{
		"usr_super":  {ID: "usr_super", Name: "Root", Email: "root@example.com", Role: domain.RoleSuperAdmin, Status: domain.UserStatusActive},
		"usr_tadmin": {ID: "usr_tadmin", Name: "Tenant Admin", Email: "tadmin@example.com", Role: domain.RoleTenantAdmin, Status: domain.UserStatusActive},
	}}
	tenants := &memTenantRepo{tenants: map[string]domain.Tenant{
		"ten_1": {ID: "ten_1", Name: "Acme", AdminID: strRef("usr_tadmin")},
		"ten_2": {ID: "ten_2", Name: "Globex"},
	}}
	clients := &memClientRepo{clients: map[string]domain.Client{
		"cli_1": {ID: "cli_1", TenantID: "ten_1", Name: "North"},
		"cli_2": {ID: "cli_2", TenantID: "ten_2", Name: "South"},
	}}
	contracts := &memContractRepo{contracts: map[string]domain.Contract{}}
	memberships := &memMembershipRepo{memberships: map[string]domain.Membership{}}

	clientService := service.NewClientService(service.ClientDependencies{
		ClientRepo:   clients,
		ContractRepo: contracts,
		TenantRepo:   tenants,
		TxRunner:     passTxRunner{},
		Dispatcher:   events.NewInMemoryDispatcher(),
	})

	sessions := auth.NewSessionResolver(auth.SessionResolverDeps{
		Tokens:      auth.NewTokenManager("test-secret", time.Hour),
		CookieName:  "admin_session",
		Users:       users,
		Tenants:     tenants,
		Clients:     clients,
		Memberships: memberships,
	})

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), nil, 5*time.Second)

	clientsHandler := handlers.NewClientsHandler(clientService)
	api := app.Group("/api", sessions.Handle)
	api.Get("/clients", clientsHandler.List)
	api.Post("/clients", clientsHandler.Create)
	api.Get("/clients/:id", clientsHandler.Get)

	return app
}

func decodeBody(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return payload
}

func errorCode(t *testing.T, payload map[string]any) string {
	t.Helper()
	errObj, ok := payload["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error envelope, got %v", payload)
	}
	code, _ := errObj["code"].(string)
	return code
}

func TestRoutesRequireCredentials(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest("GET", "/api/clients", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if code := errorCode(t, decodeBody(t, resp.Body)); code != "UNAUTHORIZED" {
		t.Fatalf("expected UNAUTHORIZED, got %s", code)
	}
}

func TestSuperAdminListNeedsTenantFilter(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest("GET", "/api/clients", nil)
	req.Header.Set("Authorization", "Bearer usr_super")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if code := errorCode(t, decodeBody(t, resp.Body)); code != "TENANT_ID_REQUIRED" {
		t.Fatalf("expected TENANT_ID_REQUIRED, got %s", code)
	}
}

func TestTenantFilterAcceptsCamelCase(t *testing.T) {
	app := newTestApp(t)

	for _, target := range []string{"/api/clients?tenantId=ten_1", "/api/clients?tenant_id=ten_1"} {
		req := httptest.NewRequest("GET", target, nil)
		req.Header.Set("Authorization", "Bearer usr_super")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s: request failed: %v", target, err)
		}
		if resp.StatusCode != 200 {
			t.Fatalf("%s: expected 200, got %d", target, resp.StatusCode)
		}
		payload := decodeBody(t, resp.Body)
		data, ok := payload["data"].([]any)
		if !ok || len(data) != 1 {
			t.Fatalf("%s: expected a single client, got %v", target, payload)
		}
		if row := data[0].(map[string]any); row["id"] != "cli_1" {
			t.Fatalf("%s: expected cli_1, got %v", target, row["id"])
		}
	}
}

func TestTenantAdminListsOwnTenantOnly(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest("GET", "/api/clients", nil)
	req.Header.Set("Authorization", "Bearer usr_tadmin")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	payload := decodeBody(t, resp.Body)
	data, ok := payload["data"].([]any)
	if !ok {
		t.Fatalf("expected data array, got %v", payload)
	}
	if len(data) != 1 {
		t.Fatalf("expected a single client, got %d", len(data))
	}
	row := data[0].(map[string]any)
	if row["id"] != "cli_1" {
		t.Fatalf("expected cli_1, got %v", row["id"])
	}
	meta, ok := payload["meta"].(map[string]any)
	if !ok {
		t.Fatalf("expected meta, got %v", payload)
	}
	if meta["total"] != float64(1) {
		t.Fatalf("expected total 1, got %v", meta["total"])
	}
}

func TestCreateClientReturnsContract(t *testing.T) {
	app := newTestApp(t)

	body := strings.NewReader(`{
		"name": "East",
		"contract_name": "East initial",
		"contract_start_date": "2026-01-01T00:00:00Z"
	}`)
	req := httptest.NewRequest("POST", "/api/clients", body)
	req.Header.Set("Authorization", "Bearer usr_tadmin")
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	payload := decodeBody(t, resp.Body)
	data, ok := payload["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", payload)
	}
	client, ok := data["client"].(map[string]any)
	if !ok {
		t.Fatalf("expected client in payload, got %v", data)
	}
	if client["tenant_id"] != "ten_1" {
		t.Fatalf("expected tenant ten_1, got %v", client["tenant_id"])
	}
	contract, ok := data["contract"].(map[string]any)
	if !ok {
		t.Fatalf("expected contract in payload, got %v", data)
	}
	if contract["status"] != "active" {
		t.Fatalf("expected active contract, got %v", contract["status"])
	}
}
