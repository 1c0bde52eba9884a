package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/fieldsuite/admin-service/internal/domain"
)

func newBillingFixture() (*BillingService, *fakeTenantRepo, *fakePlanRepo, *fakeBillingProvider) {
	tenants := newFakeTenantRepo()
	plans := newFakePlanRepo()
	provider := &fakeBillingProvider{}
	_ = tenants.Create(context.Background(), &domain.Tenant{ID: "ten_1", Name: "Acme"})
	_ = plans.Create(context.Background(), &domain.Plan{ID: "pln_free", Name: "Free", Currency: "USD"})
	_ = plans.Create(context.Background(), &domain.Plan{
		ID: "pln_pro", Name: "Pro", PriceCents: 4900, Currency: "USD", StripePriceID: strPtr("price_pro"),
	})
	svc := NewBillingService(BillingDependencies{
		TenantRepo: tenants,
		PlanRepo:   plans,
		UserRepo:   newFakeUserRepo(),
		Provider:   provider,
		Logger:     zap.NewNop(),
	})
	return svc, tenants, plans, provider
}

func TestChangePlanToPaidCreatesOneSubscription(t *testing.T) {
	svc, tenants, _, provider := newBillingFixture()
	admin := &domain.SessionUser{ID: "usr_ta", Role: domain.RoleTenantAdmin, TenantID: strPtr("ten_1")}

	tenant, err := svc.ChangePlan(context.Background(), admin, "ten_1", "pln_pro")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(provider.subscriptions) != 1 {
		t.Fatalf("expected exactly one subscription create, got %d", len(provider.subscriptions))
	}
	if tenant.PlanID == nil || *tenant.PlanID != "pln_pro" {
		t.Fatalf("expected plan recorded, got %+v", tenant.PlanID)
	}
	if tenant.StripeSubscriptionID == nil {
		t.Fatalf("expected subscription id recorded")
	}
	stored, _ := tenants.GetByID(context.Background(), "ten_1")
	if stored.PlanID == nil || *stored.PlanID != "pln_pro" {
		t.Fatalf("expected plan persisted")
	}
}

func TestChangePlanRollsBackSubscriptionOnStorageFailure(t *testing.T) {
	svc, tenants, _, provider := newBillingFixture()
	tenants.failUpdate = errors.New("write failed")
	admin := &domain.SessionUser{ID: "usr_ta", Role: domain.RoleTenantAdmin, TenantID: strPtr("ten_1")}

	_, err := svc.ChangePlan(context.Background(), admin, "ten_1", "pln_pro")
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(provider.subscriptions) != 1 {
		t.Fatalf("expected the subscription attempt, got %d", len(provider.subscriptions))
	}
	if len(provider.cancelled) != 1 || provider.cancelled[0] != provider.subscriptions[0] {
		t.Fatalf("expected fresh subscription cancelled, got %v", provider.cancelled)
	}
}

func TestChangePlanCancelsOutgoingSubscription(t *testing.T) {
	svc, tenants, _, provider := newBillingFixture()
	tenant, _ := tenants.GetByID(context.Background(), "ten_1")
	tenant.PlanID = strPtr("pln_old")
	tenant.StripeSubscriptionID = strPtr("sub_old")
	_ = tenants.Update(context.Background(), tenant)
	admin := &domain.SessionUser{ID: "usr_ta", Role: domain.RoleTenantAdmin, TenantID: strPtr("ten_1")}

	if _, err := svc.ChangePlan(context.Background(), admin, "ten_1", "pln_free"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(provider.subscriptions) != 0 {
		t.Fatalf("free plan must not create a subscription")
	}
	if len(provider.cancelled) != 1 || provider.cancelled[0] != "sub_old" {
		t.Fatalf("expected old subscription cancelled, got %v", provider.cancelled)
	}
}

func TestChangePlanSamePlanConflicts(t *testing.T) {
	svc, tenants, _, _ := newBillingFixture()
	tenant, _ := tenants.GetByID(context.Background(), "ten_1")
	tenant.PlanID = strPtr("pln_pro")
	_ = tenants.Update(context.Background(), tenant)
	admin := &domain.SessionUser{ID: "usr_ta", Role: domain.RoleTenantAdmin, TenantID: strPtr("ten_1")}

	_, err := svc.ChangePlan(context.Background(), admin, "ten_1", "pln_pro")
	if code := domainErrCode(t, err); code != "CONFLICT" {
		t.Fatalf("expected CONFLICT, got %s", code)
	}
}

func TestChangePlanForeignTenantLooksAbsent(t *testing.T) {
	svc, _, _, _ := newBillingFixture()
	admin := &domain.SessionUser{ID: "usr_ta", Role: domain.RoleTenantAdmin, TenantID: strPtr("ten_other")}

	_, err := svc.ChangePlan(context.Background(), admin, "ten_1", "pln_pro")
	if code := domainErrCode(t, err); code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND, got %s", code)
	}
}
