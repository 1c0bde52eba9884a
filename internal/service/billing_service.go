package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/fieldsuite/admin-service/internal/authz"
	"github.com/fieldsuite/admin-service/internal/billing"
	"github.com/fieldsuite/admin-service/internal/domain"
	"github.com/fieldsuite/admin-service/internal/events"
	"github.com/fieldsuite/admin-service/internal/repository"
	apperrors "github.com/fieldsuite/admin-service/pkg/util"
)

// BillingService orchestrates tenant plan changes against the payment
// provider. A provider subscription is created at most once per change; a
// storage failure after creation cancels the fresh subscription so provider
// and database never drift apart.
type BillingService struct {
	tenants    repository.TenantRepository
	plans      repository.PlanRepository
	users      repository.UserRepository
	provider   billing.Provider
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// BillingDependencies bundles requirements for the billing service.
type BillingDependencies struct {
	TenantRepo repository.TenantRepository
	PlanRepo   repository.PlanRepository
	UserRepo   repository.UserRepository
	Provider   billing.Provider
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewBillingService constructs the service.
func NewBillingService(deps BillingDependencies) *BillingService {
	return &BillingService{
		tenants:    deps.TenantRepo,
		plans:      deps.PlanRepo,
		users:      deps.UserRepo,
		provider:   deps.Provider,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// ChangePlan switches the tenant to a new plan. Paid plans provision a
// provider subscription before the tenant row is updated; free plans only
// cancel the outgoing subscription.
func (s *BillingService) ChangePlan(ctx context.Context, actor *domain.SessionUser, tenantID, planID string) (*domain.Tenant, error) {
	tenant, err := s.tenants.GetByID(ctx, tenantID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !authz.CanAccessResource(actor, tenant.Scope()) {
		return nil, apperrors.NewNotFound("tenant", nil)
	}
	if !authz.CanUpdate(actor, domain.KindTenant) {
		return nil, apperrors.NewForbidden("insufficient role")
	}

	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if tenant.PlanID != nil && *tenant.PlanID == plan.ID {
		return nil, apperrors.NewConflict("tenant already on the plan", nil)
	}

	oldPlanID := tenant.PlanID
	oldSubscriptionID := tenant.StripeSubscriptionID

	var newSubscriptionID *string
	if plan.StripePriceID != nil && *plan.StripePriceID != "" {
		customerEmail := s.billingEmail(ctx, tenant)
		customerID, err := s.provider.EnsureCustomer(ctx, tenant.StripeCustomerID, tenant.Name, customerEmail)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		tenant.StripeCustomerID = &customerID

		subID, err := s.provider.CreateSubscription(ctx, customerID, *plan.StripePriceID)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		newSubscriptionID = &subID
	}

	tenant.PlanID = &plan.ID
	tenant.StripeSubscriptionID = newSubscriptionID
	if err := s.tenants.Update(ctx, tenant); err != nil {
		// roll the fresh subscription back so the provider does not bill
		// for a plan the database never recorded
		if newSubscriptionID != nil {
			if cancelErr := s.provider.CancelSubscription(ctx, *newSubscriptionID); cancelErr != nil && s.logger != nil {
				s.logger.Error("subscription rollback failed",
					zap.String("tenant_id", tenant.ID),
					zap.String("subscription_id", *newSubscriptionID),
					zap.Error(cancelErr))
			}
		}
		return nil, apperrors.MapError(err)
	}

	// the outgoing subscription is cancelled only after the new state is
	// durable; a cancel failure is logged, not surfaced
	if oldSubscriptionID != nil && *oldSubscriptionID != "" {
		if err := s.provider.CancelSubscription(ctx, *oldSubscriptionID); err != nil && s.logger != nil {
			s.logger.Warn("old subscription cancel failed",
				zap.String("tenant_id", tenant.ID),
				zap.String("subscription_id", *oldSubscriptionID),
				zap.Error(err))
		}
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:     events.EventPlanChanged,
		TenantID: tenant.ID,
		Actor:    eventActor(actor),
		Payload: events.PlanChangedPayload{
			OldPlanID: oldPlanID,
			NewPlanID: plan.ID,
			PlanName:  plan.Name,
		},
	})
	return tenant, nil
}

// billingEmail resolves the tenant admin's email for the provider customer
// record; a tenant without an admin gets an empty contact email.
func (s *BillingService) billingEmail(ctx context.Context, tenant *domain.Tenant) string {
	if tenant.AdminID == nil || s.users == nil {
		return ""
	}
	admin, err := s.users.GetByID(ctx, *tenant.AdminID)
	if err != nil {
		return ""
	}
	return admin.Email
}
