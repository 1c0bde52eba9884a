package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/fieldsuite/admin-service/internal/authz"
	"github.com/fieldsuite/admin-service/internal/domain"
	"github.com/fieldsuite/admin-service/internal/ids"
	"github.com/fieldsuite/admin-service/internal/repository"
	apperrors "github.com/fieldsuite/admin-service/pkg/util"
)

// BranchService coordinates branch workflows.
type BranchService struct {
	branches    repository.BranchRepository
	clients     repository.ClientRepository
	memberships repository.MembershipRepository
}

// NewBranchService constructs the service.
func NewBranchService(branches repository.BranchRepository, clients repository.ClientRepository, memberships repository.MembershipRepository) *BranchService {
	return &BranchService{branches: branches, clients: clients, memberships: memberships}
}

// BranchCreateInput describes branch creation payload.
type BranchCreateInput struct {
	ClientID     string
	Name         string
	Address      *string
	SupervisorID *string
}

// BranchUpdateInput describes branch update payload.
type BranchUpdateInput struct {
	Name         *string
	Address      *string
	SupervisorID *string
}

// BranchListInput describes branch listing parameters.
type BranchListInput struct {
	TenantID *string
	ClientID *string
	Search   *string
	Limit    int
	Offset   int
}

// List returns branches within the actor's scope plus the total match count.
// A caller-supplied client filter is ANDed with the forced scope, never
// substituted for it.
func (s *BranchService) List(ctx context.Context, actor *domain.SessionUser, input BranchListInput) ([]domain.Branch, int, error) {
	scope, err := authz.ResolveListScope(actor, domain.KindBranch, input.TenantID)
	if err != nil {
		return nil, 0, err
	}

	filter := repository.BranchFilter{
		TenantID: scope.TenantID,
		ClientID: scope.ClientID,
		Search:   input.Search,
		Limit:    input.Limit,
		Offset:   input.Offset,
	}
	if filter.ClientID == nil {
		filter.ClientID = input.ClientID
	}
	branches, err := s.branches.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	total, err := s.branches.Count(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	return branches, total, nil
}

// Get fetches a branch, mapping a scope miss to not found.
func (s *BranchService) Get(ctx context.Context, actor *domain.SessionUser, id string) (*domain.Branch, error) {
	branch, err := s.branches.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !authz.CanAccessResource(actor, branch.Scope()) {
		return nil, apperrors.NewNotFound("branch", nil)
	}
	return branch, nil
}

// Create registers a branch under a client the actor controls. Supervisor
// assignment is restricted to tenant-level roles.
func (s *BranchService) Create(ctx context.Context, actor *domain.SessionUser, input BranchCreateInput) (*domain.Branch, error) {
	if !authz.CanCreate(actor, domain.KindBranch) {
		return nil, apperrors.NewForbidden("insufficient role")
	}

	client, err := s.clients.GetByID(ctx, input.ClientID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !authz.CanAccessResource(actor, client.Scope()) {
		return nil, apperrors.NewNotFound("client", nil)
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	if _, err := s.branches.GetByNameInClient(ctx, client.ID, name); err == nil {
		return nil, apperrors.NewDuplicateName("BRANCH", map[string]any{"name": name})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	if input.SupervisorID != nil {
		if err := s.checkSupervisor(ctx, actor, client.TenantID, *input.SupervisorID); err != nil {
			return nil, err
		}
	}

	branch := &domain.Branch{
		ID:           ids.New("brn"),
		ClientID:     client.ID,
		TenantID:     client.TenantID,
		Name:         name,
		Address:      input.Address,
		SupervisorID: input.SupervisorID,
	}
	if err := s.branches.Create(ctx, branch); err != nil {
		return nil, apperrors.MapError(err)
	}
	return branch, nil
}

// Update applies changes to a branch in the actor's scope.
func (s *BranchService) Update(ctx context.Context, actor *domain.SessionUser, id string, input BranchUpdateInput) (*domain.Branch, error) {
	branch, err := s.branches.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !authz.CanAccessResource(actor, branch.Scope()) {
		return nil, apperrors.NewNotFound("branch", nil)
	}
	if !authz.CanUpdate(actor, domain.KindBranch) {
		return nil, apperrors.NewForbidden("insufficient role")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name is required", nil)
		}
		if existing, err := s.branches.GetByNameInClient(ctx, branch.ClientID, name); err == nil && existing.ID != branch.ID {
			return nil, apperrors.NewDuplicateName("BRANCH", map[string]any{"name": name})
		} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
		branch.Name = name
	}
	if input.Address != nil {
		branch.Address = input.Address
	}
	if input.SupervisorID != nil {
		if err := s.checkSupervisor(ctx, actor, branch.TenantID, *input.SupervisorID); err != nil {
			return nil, err
		}
		branch.SupervisorID = input.SupervisorID
	}

	if err := s.branches.Update(ctx, branch); err != nil {
		return nil, apperrors.MapError(err)
	}
	return branch, nil
}

// Delete removes a branch in the actor's scope.
func (s *BranchService) Delete(ctx context.Context, actor *domain.SessionUser, id string) error {
	branch, err := s.branches.GetByID(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !authz.CanAccessResource(actor, branch.Scope()) {
		return apperrors.NewNotFound("branch", nil)
	}
	if !authz.CanDelete(actor, domain.KindBranch) {
		return apperrors.NewForbidden("insufficient role")
	}
	if err := s.branches.Delete(ctx, branch.ID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// checkSupervisor validates a supervisor assignment: the actor must hold a
// tenant-level role and the supervisor must be an employee of the tenant.
func (s *BranchService) checkSupervisor(ctx context.Context, actor *domain.SessionUser, tenantID, supervisorID string) error {
	if !authz.CanSetBranchSupervisor(actor) {
		return apperrors.NewForbidden("supervisor assignment requires a tenant role")
	}
	if _, err := s.memberships.GetByUserInTenant(ctx, supervisorID, tenantID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError("supervisor is not an employee of the tenant", nil)
		}
		return apperrors.MapError(err)
	}
	return nil
}
