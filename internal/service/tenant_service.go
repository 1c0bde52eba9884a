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

// TenantService coordinates tenant administration.
type TenantService struct {
	tenants repository.TenantRepository
	plans   repository.PlanRepository
}

// NewTenantService constructs the service.
func NewTenantService(tenants repository.TenantRepository, plans repository.PlanRepository) *TenantService {
	return &TenantService{tenants: tenants, plans: plans}
}

// TenantCreateInput describes tenant creation payload.
type TenantCreateInput struct {
	Name    string
	AdminID *string
	PlanID  *string
}

// TenantUpdateInput describes tenant update payload. Nil fields are left
// untouched.
type TenantUpdateInput struct {
	Name    *string
	AdminID *string
}

// TenantListInput describes tenant listing parameters.
type TenantListInput struct {
	Search *string
	Limit  int
	Offset int
}

// List returns tenants visible to the actor with the total match count.
// A super_admin sees the whole catalog; a tenant_admin sees only its own row.
func (s *TenantService) List(ctx context.Context, actor *domain.SessionUser, input TenantListInput) ([]domain.Tenant, int, error) {
	scope, err := authz.ResolveListScope(actor, domain.KindTenant, nil)
	if err != nil {
		return nil, 0, err
	}
	if scope.TenantID != nil {
		tenant, err := s.tenants.GetByID(ctx, *scope.TenantID)
		if err != nil {
			return nil, 0, apperrors.MapError(err)
		}
		return []domain.Tenant{*tenant}, 1, nil
	}

	filter := repository.TenantFilter{
		Search: input.Search,
		Limit:  input.Limit,
		Offset: input.Offset,
	}
	tenants, err := s.tenants.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	total, err := s.tenants.Count(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	return tenants, total, nil
}

// Get fetches a tenant, mapping a scope miss to not found so foreign tenant
// ids are indistinguishable from absent ones.
func (s *TenantService) Get(ctx context.Context, actor *domain.SessionUser, id string) (*domain.Tenant, error) {
	tenant, err := s.tenants.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !authz.CanAccessResource(actor, tenant.Scope()) {
		return nil, apperrors.NewNotFound("tenant", nil)
	}
	return tenant, nil
}

// Create registers a tenant. Only a super_admin provisions tenants.
func (s *TenantService) Create(ctx context.Context, actor *domain.SessionUser, input TenantCreateInput) (*domain.Tenant, error) {
	if !authz.CanCreate(actor, domain.KindTenant) {
		return nil, apperrors.NewForbidden("insufficient role")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	if _, err := s.tenants.GetByName(ctx, name); err == nil {
		return nil, apperrors.NewDuplicateName("TENANT", map[string]any{"name": name})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}
	if input.PlanID != nil {
		if _, err := s.plans.GetByID(ctx, *input.PlanID); err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	tenant := &domain.Tenant{
		ID:      ids.New("ten"),
		Name:    name,
		AdminID: input.AdminID,
		PlanID:  input.PlanID,
	}
	if err := s.tenants.Create(ctx, tenant); err != nil {
		return nil, apperrors.MapError(err)
	}
	return tenant, nil
}

// Update applies changes to a tenant the actor administers.
func (s *TenantService) Update(ctx context.Context, actor *domain.SessionUser, id string, input TenantUpdateInput) (*domain.Tenant, error) {
	tenant, err := s.tenants.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !authz.CanAccessResource(actor, tenant.Scope()) {
		return nil, apperrors.NewNotFound("tenant", nil)
	}
	if !authz.CanUpdate(actor, domain.KindTenant) {
		return nil, apperrors.NewForbidden("insufficient role")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name is required", nil)
		}
		if existing, err := s.tenants.GetByName(ctx, name); err == nil && existing.ID != tenant.ID {
			return nil, apperrors.NewDuplicateName("TENANT", map[string]any{"name": name})
		} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
		tenant.Name = name
	}
	if input.AdminID != nil {
		// only the platform operator reassigns tenant admins
		if actor.Role != domain.RoleSuperAdmin {
			return nil, apperrors.NewForbidden("insufficient role")
		}
		tenant.AdminID = input.AdminID
	}

	if err := s.tenants.Update(ctx, tenant); err != nil {
		return nil, apperrors.MapError(err)
	}
	return tenant, nil
}

// Delete removes a tenant. Only a super_admin may delete tenants.
func (s *TenantService) Delete(ctx context.Context, actor *domain.SessionUser, id string) error {
	tenant, err := s.tenants.GetByID(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !authz.CanAccessResource(actor, tenant.Scope()) {
		return apperrors.NewNotFound("tenant", nil)
	}
	if !authz.CanDelete(actor, domain.KindTenant) {
		return apperrors.NewForbidden("insufficient role")
	}
	if err := s.tenants.Delete(ctx, tenant.ID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}
