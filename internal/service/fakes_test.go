package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/fieldsuite/admin-service/internal/domain"
	"github.com/fieldsuite/admin-service/internal/repository"
)

// In-memory repository fakes. Each fake keeps rows in a map and mirrors the
// not-found semantics of the real repositories by returning pgx.ErrNoRows.

type snapshotter interface {
	snapshot()
	restore()
}

// fakeTxRunner simulates transactional grouping for fakes: state is
// snapshotted before the callback and restored when it fails.
type fakeTxRunner struct {
	repos []snapshotter
}

func (r *fakeTxRunner) ExecTx(_ context.Context, fn func(tx pgx.Tx) error) error {
	for _, repo := range r.repos {
		repo.snapshot()
	}
	if err := fn(nil); err != nil {
		for _, repo := range r.repos {
			repo.restore()
		}
		return err
	}
	return nil
}

type fakeTenantRepo struct {
	rows       map[string]domain.Tenant
	failUpdate error
}

func newFakeTenantRepo() *fakeTenantRepo {
	return &fakeTenantRepo{rows: make(map[string]domain.Tenant)}
}

func (f *fakeTenantRepo) Create(_ context.Context, tenant *domain.Tenant) error {
	f.rows[tenant.ID] = *tenant
	return nil
}

func (f *fakeTenantRepo) Update(_ context.Context, tenant *domain.Tenant) error {
	if f.failUpdate != nil {
		return f.failUpdate
	}
	if _, ok := f.rows[tenant.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.rows[tenant.ID] = *tenant
	return nil
}

func (f *fakeTenantRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeTenantRepo) GetByID(_ context.Context, id string) (*domain.Tenant, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &row, nil
}

func (f *fakeTenantRepo) GetByAdminID(_ context.Context, adminID string) (*domain.Tenant, error) {
	for _, row := range f.rows {
		if row.AdminID != nil && *row.AdminID == adminID {
			r := row
			return &r, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTenantRepo) GetByName(_ context.Context, name string) (*domain.Tenant, error) {
	for _, row := range f.rows {
		if strings.EqualFold(row.Name, name) {
			r := row
			return &r, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTenantRepo) List(_ context.Context, _ repository.TenantFilter) ([]domain.Tenant, error) {
	out := make([]domain.Tenant, 0, len(f.rows))
	for _, row := range f.rows {
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeTenantRepo) Count(_ context.Context, _ repository.TenantFilter) (int, error) {
	return len(f.rows), nil
}

type fakeClientRepo struct {
	rows  map[string]domain.Client
	saved map[string]domain.Client
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{rows: make(map[string]domain.Client)}
}

func (f *fakeClientRepo) snapshot() {
	f.saved = make(map[string]domain.Client, len(f.rows))
	for k, v := range f.rows {
		f.saved[k] = v
	}
}

func (f *fakeClientRepo) restore() {
	f.rows = f.saved
}

func (f *fakeClientRepo) WithTx(_ pgx.Tx) repository.ClientRepository { return f }

func (f *fakeClientRepo) Create(_ context.Context, client *domain.Client) error {
	f.rows[client.ID] = *client
	return nil
}

func (f *fakeClientRepo) Update(_ context.Context, client *domain.Client) error {
	if _, ok := f.rows[client.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.rows[client.ID] = *client
	return nil
}

func (f *fakeClientRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeClientRepo) GetByID(_ context.Context, id string) (*domain.Client, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &row, nil
}

func (f *fakeClientRepo) GetByAdminID(_ context.Context, adminID string) (*domain.Client, error) {
	for _, row := range f.rows {
		if row.AdminID != nil && *row.AdminID == adminID {
			r := row
			return &r, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeClientRepo) GetByNameInTenant(_ context.Context, tenantID, name string) (*domain.Client, error) {
	for _, row := range f.rows {
		if row.TenantID == tenantID && strings.EqualFold(row.Name, name) {
			r := row
			return &r, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeClientRepo) matches(row domain.Client, filter repository.ClientFilter) bool {
	if filter.ID != nil && row.ID != *filter.ID {
		return false
	}
	if filter.TenantID != nil && row.TenantID != *filter.TenantID {
		return false
	}
	if filter.AdminID != nil && (row.AdminID == nil || *row.AdminID != *filter.AdminID) {
		return false
	}
	if filter.Search != nil && !strings.Contains(strings.ToLower(row.Name), strings.ToLower(*filter.Search)) {
		return false
	}
	return true
}

func (f *fakeClientRepo) List(_ context.Context, filter repository.ClientFilter) ([]domain.Client, error) {
	out := []domain.Client{}
	for _, row := range f.rows {
		if f.matches(row, filter) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeClientRepo) Count(_ context.Context, filter repository.ClientFilter) (int, error) {
	list, _ := f.List(context.Background(), filter)
	return len(list), nil
}

type fakeContractRepo struct {
	rows       map[string]domain.Contract
	saved      map[string]domain.Contract
	failCreate error
}

func newFakeContractRepo() *fakeContractRepo {
	return &fakeContractRepo{rows: make(map[string]domain.Contract)}
}

func (f *fakeContractRepo) snapshot() {
	f.saved = make(map[string]domain.Contract, len(f.rows))
	for k, v := range f.rows {
		f.saved[k] = v
	}
}

func (f *fakeContractRepo) restore() {
	f.rows = f.saved
}

func (f *fakeContractRepo) WithTx(_ pgx.Tx) repository.ContractRepository { return f }

func (f *fakeContractRepo) Create(_ context.Context, contract *domain.Contract) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	f.rows[contract.ID] = *contract
	return nil
}

func (f *fakeContractRepo) Update(_ context.Context, contract *domain.Contract) error {
	if _, ok := f.rows[contract.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.rows[contract.ID] = *contract
	return nil
}

func (f *fakeContractRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeContractRepo) GetByID(_ context.Context, id string) (*domain.Contract, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &row, nil
}

func (f *fakeContractRepo) List(_ context.Context, filter repository.ContractFilter) ([]domain.Contract, error) {
	out := []domain.Contract{}
	for _, row := range f.rows {
		if filter.TenantID != nil && row.TenantID != *filter.TenantID {
			continue
		}
		if filter.ClientID != nil && row.ClientID != *filter.ClientID {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeContractRepo) Count(_ context.Context, filter repository.ContractFilter) (int, error) {
	list, _ := f.List(context.Background(), filter)
	return len(list), nil
}

type fakePlanRepo struct {
	rows map[string]domain.Plan
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{rows: make(map[string]domain.Plan)}
}

func (f *fakePlanRepo) Create(_ context.Context, plan *domain.Plan) error {
	f.rows[plan.ID] = *plan
	return nil
}

func (f *fakePlanRepo) Update(_ context.Context, plan *domain.Plan) error {
	if _, ok := f.rows[plan.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.rows[plan.ID] = *plan
	return nil
}

func (f *fakePlanRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.rows, id)
	return nil
}

func (f *fakePlanRepo) GetByID(_ context.Context, id string) (*domain.Plan, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &row, nil
}

func (f *fakePlanRepo) GetByName(_ context.Context, name string) (*domain.Plan, error) {
	for _, row := range f.rows {
		if strings.EqualFold(row.Name, name) {
			r := row
			return &r, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakePlanRepo) List(_ context.Context, _ repository.PlanFilter) ([]domain.Plan, error) {
	out := make([]domain.Plan, 0, len(f.rows))
	for _, row := range f.rows {
		out = append(out, row)
	}
	return out, nil
}

func (f *fakePlanRepo) Count(_ context.Context, _ repository.PlanFilter) (int, error) {
	return len(f.rows), nil
}

type fakeUserRepo struct {
	rows map[string]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{rows: make(map[string]domain.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.rows[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := f.rows[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.rows[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &row, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, row := range f.rows {
		if strings.EqualFold(row.Email, email) {
			r := row
			return &r, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeMembershipRepo struct {
	rows map[string]domain.Membership
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{rows: make(map[string]domain.Membership)}
}

func (f *fakeMembershipRepo) Create(_ context.Context, membership *domain.Membership) error {
	f.rows[membership.ID] = *membership
	return nil
}

func (f *fakeMembershipRepo) Update(_ context.Context, membership *domain.Membership) error {
	if _, ok := f.rows[membership.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.rows[membership.ID] = *membership
	return nil
}

func (f *fakeMembershipRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeMembershipRepo) GetByID(_ context.Context, id string) (*domain.Membership, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &row, nil
}

func (f *fakeMembershipRepo) GetByUserID(_ context.Context, userID string) (*domain.Membership, error) {
	for _, row := range f.rows {
		if row.UserID == userID {
			r := row
			return &r, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeMembershipRepo) GetByUserInTenant(_ context.Context, userID, tenantID string) (*domain.Membership, error) {
	for _, row := range f.rows {
		if row.UserID == userID && row.TenantID == tenantID {
			r := row
			return &r, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeMembershipRepo) List(_ context.Context, filter repository.MembershipFilter) ([]domain.Membership, error) {
	out := []domain.Membership{}
	for _, row := range f.rows {
		if filter.TenantID != nil && row.TenantID != *filter.TenantID {
			continue
		}
		if filter.EmployeeID != nil && row.UserID != *filter.EmployeeID {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeMembershipRepo) Count(_ context.Context, filter repository.MembershipFilter) (int, error) {
	list, _ := f.List(context.Background(), filter)
	return len(list), nil
}

type fakeBranchRepo struct {
	rows map[string]domain.Branch
}

func newFakeBranchRepo() *fakeBranchRepo {
	return &fakeBranchRepo{rows: make(map[string]domain.Branch)}
}

func (f *fakeBranchRepo) Create(_ context.Context, branch *domain.Branch) error {
	f.rows[branch.ID] = *branch
	return nil
}

func (f *fakeBranchRepo) Update(_ context.Context, branch *domain.Branch) error {
	if _, ok := f.rows[branch.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.rows[branch.ID] = *branch
	return nil
}

func (f *fakeBranchRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeBranchRepo) GetByID(_ context.Context, id string) (*domain.Branch, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &row, nil
}

func (f *fakeBranchRepo) GetByNameInClient(_ context.Context, clientID, name string) (*domain.Branch, error) {
	for _, row := range f.rows {
		if row.ClientID == clientID && strings.EqualFold(row.Name, name) {
			r := row
			return &r, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeBranchRepo) List(_ context.Context, filter repository.BranchFilter) ([]domain.Branch, error) {
	out := []domain.Branch{}
	for _, row := range f.rows {
		if filter.TenantID != nil && row.TenantID != *filter.TenantID {
			continue
		}
		if filter.ClientID != nil && row.ClientID != *filter.ClientID {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeBranchRepo) Count(_ context.Context, filter repository.BranchFilter) (int, error) {
	list, _ := f.List(context.Background(), filter)
	return len(list), nil
}

type fakeEventRepo struct {
	rows map[string]domain.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{rows: make(map[string]domain.Event)}
}

func (f *fakeEventRepo) Create(_ context.Context, event *domain.Event) error {
	f.rows[event.ID] = *event
	return nil
}

func (f *fakeEventRepo) Update(_ context.Context, event *domain.Event) error {
	if _, ok := f.rows[event.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.rows[event.ID] = *event
	return nil
}

func (f *fakeEventRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &row, nil
}

func (f *fakeEventRepo) GetByNameInClient(_ context.Context, clientID, name string) (*domain.Event, error) {
	for _, row := range f.rows {
		if row.ClientID == clientID && strings.EqualFold(row.Name, name) {
			r := row
			return &r, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeEventRepo) List(_ context.Context, filter repository.EventFilter) ([]domain.Event, error) {
	out := []domain.Event{}
	for _, row := range f.rows {
		if filter.TenantID != nil && row.TenantID != *filter.TenantID {
			continue
		}
		if filter.ClientID != nil && row.ClientID != *filter.ClientID {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeEventRepo) Count(_ context.Context, filter repository.EventFilter) (int, error) {
	list, _ := f.List(context.Background(), filter)
	return len(list), nil
}

type fakeAssignmentRepo struct {
	rows map[string]domain.Assignment
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{rows: make(map[string]domain.Assignment)}
}

func (f *fakeAssignmentRepo) Create(_ context.Context, assignment *domain.Assignment) error {
	f.rows[assignment.ID] = *assignment
	return nil
}

func (f *fakeAssignmentRepo) Update(_ context.Context, assignment *domain.Assignment) error {
	if _, ok := f.rows[assignment.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.rows[assignment.ID] = *assignment
	return nil
}

func (f *fakeAssignmentRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeAssignmentRepo) GetByID(_ context.Context, id string) (*domain.Assignment, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &row, nil
}

func (f *fakeAssignmentRepo) GetByEmployeeEvent(_ context.Context, employeeID, eventID string) (*domain.Assignment, error) {
	for _, row := range f.rows {
		if row.EmployeeID == employeeID && row.EventID == eventID {
			r := row
			return &r, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAssignmentRepo) List(_ context.Context, filter repository.AssignmentFilter) ([]domain.Assignment, error) {
	out := []domain.Assignment{}
	for _, row := range f.rows {
		if filter.TenantID != nil && row.TenantID != *filter.TenantID {
			continue
		}
		if filter.EmployeeID != nil && row.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.EventID != nil && row.EventID != *filter.EventID {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeAssignmentRepo) Count(_ context.Context, filter repository.AssignmentFilter) (int, error) {
	list, _ := f.List(context.Background(), filter)
	return len(list), nil
}

// fakeBillingProvider records provider calls for assertion.
type fakeBillingProvider struct {
	customers       int
	subscriptions   []string
	cancelled       []string
	failCreateSub   error
	nextCustomerID  string
	nextSubsequence int
}

func (f *fakeBillingProvider) EnsureCustomer(_ context.Context, customerID *string, _, _ string) (string, error) {
	if customerID != nil && *customerID != "" {
		return *customerID, nil
	}
	f.customers++
	if f.nextCustomerID == "" {
		f.nextCustomerID = "cus_test"
	}
	return f.nextCustomerID, nil
}

func (f *fakeBillingProvider) CreateSubscription(_ context.Context, _, priceID string) (string, error) {
	if f.failCreateSub != nil {
		return "", f.failCreateSub
	}
	f.nextSubsequence++
	id := "sub_" + priceID
	f.subscriptions = append(f.subscriptions, id)
	return id, nil
}

func (f *fakeBillingProvider) CancelSubscription(_ context.Context, subscriptionID string) error {
	f.cancelled = append(f.cancelled, subscriptionID)
	return nil
}
