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

// PlanService manages the global plan catalog. Reads are open to any
// authenticated actor; writes are a platform-operator concern.
type PlanService struct {
	plans repository.PlanRepository
}

// NewPlanService constructs the service.
func NewPlanService(plans repository.PlanRepository) *PlanService {
	return &PlanService{plans: plans}
}

// PlanCreateInput describes plan creation payload.
type PlanCreateInput struct {
	Name          string
	PriceCents    int64
	Currency      string
	StripePriceID *string
}

// PlanUpdateInput describes plan update payload.
type PlanUpdateInput struct {
	Name          *string
	PriceCents    *int64
	StripePriceID *string
}

// PlanListInput describes plan listing parameters.
type PlanListInput struct {
	Search *string
	Limit  int
	Offset int
}

// List returns catalog plans with the total match count.
func (s *PlanService) List(ctx context.Context, actor *domain.SessionUser, input PlanListInput) ([]domain.Plan, int, error) {
	if _, err := authz.ResolveListScope(actor, domain.KindPlan, nil); err != nil {
		return nil, 0, err
	}
	filter := repository.PlanFilter{
		Search: input.Search,
		Limit:  input.Limit,
		Offset: input.Offset,
	}
	plans, err := s.plans.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	total, err := s.plans.Count(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	return plans, total, nil
}

// Get fetches a catalog plan.
func (s *PlanService) Get(ctx context.Context, _ *domain.SessionUser, id string) (*domain.Plan, error) {
	plan, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return plan, nil
}

// Create adds a catalog plan.
func (s *PlanService) Create(ctx context.Context, actor *domain.SessionUser, input PlanCreateInput) (*domain.Plan, error) {
	if !authz.CanCreate(actor, domain.KindPlan) {
		return nil, apperrors.NewForbidden("insufficient role")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	if input.PriceCents < 0 {
		return nil, apperrors.NewValidationError("price must not be negative", nil)
	}
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if len(currency) != 3 {
		return nil, apperrors.NewValidationError("currency must be a 3-letter code", nil)
	}
	if _, err := s.plans.GetByName(ctx, name); err == nil {
		return nil, apperrors.NewDuplicateName("PLAN", map[string]any{"name": name})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	plan := &domain.Plan{
		ID:            ids.New("pln"),
		Name:          name,
		PriceCents:    input.PriceCents,
		Currency:      currency,
		StripePriceID: input.StripePriceID,
	}
	if err := s.plans.Create(ctx, plan); err != nil {
		return nil, apperrors.MapError(err)
	}
	return plan, nil
}

// Update applies changes to a catalog plan.
func (s *PlanService) Update(ctx context.Context, actor *domain.SessionUser, id string, input PlanUpdateInput) (*domain.Plan, error) {
	plan, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !authz.CanUpdate(actor, domain.KindPlan) {
		return nil, apperrors.NewForbidden("insufficient role")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name is required", nil)
		}
		if existing, err := s.plans.GetByName(ctx, name); err == nil && existing.ID != plan.ID {
			return nil, apperrors.NewDuplicateName("PLAN", map[string]any{"name": name})
		} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
		plan.Name = name
	}
	if input.PriceCents != nil {
		if *input.PriceCents < 0 {
			return nil, apperrors.NewValidationError("price must not be negative", nil)
		}
		plan.PriceCents = *input.PriceCents
	}
	if input.StripePriceID != nil {
		plan.StripePriceID = input.StripePriceID
	}

	if err := s.plans.Update(ctx, plan); err != nil {
		return nil, apperrors.MapError(err)
	}
	return plan, nil
}

// Delete removes a catalog plan.
func (s *PlanService) Delete(ctx context.Context, actor *domain.SessionUser, id string) error {
	plan, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !authz.CanDelete(actor, domain.KindPlan) {
		return apperrors.NewForbidden("insufficient role")
	}
	if err := s.plans.Delete(ctx, plan.ID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}
