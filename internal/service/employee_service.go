package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/fieldsuite/admin-service/internal/authz"
	"github.com/fieldsuite/admin-service/internal/domain"
	"github.com/fieldsuite/admin-service/internal/ids"
	"github.com/fieldsuite/admin-service/internal/repository"
	apperrors "github.com/fieldsuite/admin-service/pkg/util"
)

// EmployeeService manages employee memberships within a tenant.
type EmployeeService struct {
	memberships repository.MembershipRepository
	users       repository.UserRepository
	branches    repository.BranchRepository
	tenants     repository.TenantRepository
}

// EmployeeDependencies bundles requirements for the employee service.
type EmployeeDependencies struct {
	MembershipRepo repository.MembershipRepository
	UserRepo       repository.UserRepository
	BranchRepo     repository.BranchRepository
	TenantRepo     repository.TenantRepository
}

// NewEmployeeService constructs the service.
func NewEmployeeService(deps EmployeeDependencies) *EmployeeService {
	return &EmployeeService{
		memberships: deps.MembershipRepo,
		users:       deps.UserRepo,
		branches:    deps.BranchRepo,
		tenants:     deps.TenantRepo,
	}
}

// EmployeeCreateInput describes membership creation payload.
type EmployeeCreateInput struct {
	TenantID string
	UserID   string
	BranchID *string
}

// EmployeeUpdateInput describes membership update payload. A BranchID
// pointing at an empty string detaches the employee from its branch.
type EmployeeUpdateInput struct {
	BranchID *string
}

// EmployeeListInput describes membership listing parameters.
type EmployeeListInput struct {
	TenantID *string
	BranchID *string
	Search   *string
	Limit    int
	Offset   int
}

// List returns memberships within the actor's scope plus the total match
// count. Employees only ever see their own membership row.
func (s *EmployeeService) List(ctx context.Context, actor *domain.SessionUser, input EmployeeListInput) ([]domain.Membership, int, error) {
	scope, err := authz.ResolveListScope(actor, domain.KindEmployee, input.TenantID)
	if err != nil {
		return nil, 0, err
	}

	filter := repository.MembershipFilter{
		TenantID:   scope.TenantID,
		EmployeeID: scope.EmployeeID,
		BranchID:   input.BranchID,
		Search:     input.Search,
		Limit:      input.Limit,
		Offset:     input.Offset,
	}
	memberships, err := s.memberships.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	total, err := s.memberships.Count(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	return memberships, total, nil
}

// Get fetches a membership, mapping a scope miss to not found.
func (s *EmployeeService) Get(ctx context.Context, actor *domain.SessionUser, id string) (*domain.Membership, error) {
	membership, err := s.memberships.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !authz.CanAccessResource(actor, membership.Scope()) {
		return nil, apperrors.NewNotFound("employee", nil)
	}
	return membership, nil
}

// Create enrolls a user as an employee of a tenant. The user must hold the
// employee role and must not already belong to the tenant.
func (s *EmployeeService) Create(ctx context.Context, actor *domain.SessionUser, input EmployeeCreateInput) (*domain.Membership, error) {
	if !authz.CanCreate(actor, domain.KindEmployee) {
		return nil, apperrors.NewForbidden("insufficient role")
	}

	tenantID := input.TenantID
	if actor.Role == domain.RoleTenantAdmin {
		if actor.TenantID == nil {
			return nil, apperrors.NewNoTenantAccess()
		}
		tenantID = *actor.TenantID
	}
	if tenantID == "" {
		return nil, apperrors.NewTenantIDRequired()
	}
	if _, err := s.tenants.GetByID(ctx, tenantID); err != nil {
		return nil, apperrors.MapError(err)
	}

	user, err := s.users.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if user.Role != domain.RoleEmployee {
		return nil, apperrors.NewValidationError("user is not an employee account", nil)
	}
	if _, err := s.memberships.GetByUserInTenant(ctx, user.ID, tenantID); err == nil {
		return nil, apperrors.NewConflict("user already belongs to the tenant", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	if input.BranchID != nil {
		if err := s.checkBranchInTenant(ctx, tenantID, *input.BranchID); err != nil {
			return nil, err
		}
	}

	membership := &domain.Membership{
		ID:       ids.New("emp"),
		UserID:   user.ID,
		TenantID: tenantID,
		BranchID: input.BranchID,
	}
	if err := s.memberships.Create(ctx, membership); err != nil {
		return nil, apperrors.MapError(err)
	}
	return membership, nil
}

// Update moves an employee between branches of its tenant.
func (s *EmployeeService) Update(ctx context.Context, actor *domain.SessionUser, id string, input EmployeeUpdateInput) (*domain.Membership, error) {
	membership, err := s.memberships.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !authz.CanAccessResource(actor, membership.Scope()) {
		return nil, apperrors.NewNotFound("employee", nil)
	}
	if !authz.CanUpdate(actor, domain.KindEmployee) {
		return nil, apperrors.NewForbidden("insufficient role")
	}

	if input.BranchID != nil {
		if *input.BranchID == "" {
			membership.BranchID = nil
		} else {
			if err := s.checkBranchInTenant(ctx, membership.TenantID, *input.BranchID); err != nil {
				return nil, err
			}
			membership.BranchID = input.BranchID
		}
	}

	if err := s.memberships.Update(ctx, membership); err != nil {
		return nil, apperrors.MapError(err)
	}
	return membership, nil
}

// Delete removes an employee membership in the actor's scope.
func (s *EmployeeService) Delete(ctx context.Context, actor *domain.SessionUser, id string) error {
	membership, err := s.memberships.GetByID(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !authz.CanAccessResource(actor, membership.Scope()) {
		return apperrors.NewNotFound("employee", nil)
	}
	if !authz.CanDelete(actor, domain.KindEmployee) {
		return apperrors.NewForbidden("insufficient role")
	}
	if err := s.memberships.Delete(ctx, membership.ID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *EmployeeService) checkBranchInTenant(ctx context.Context, tenantID, branchID string) error {
	branch, err := s.branches.GetByID(ctx, branchID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if branch.TenantID != tenantID {
		return apperrors.NewValidationError("branch belongs to a different tenant", nil)
	}
	return nil
}
