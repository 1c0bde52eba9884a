// Package billing wraps the payment provider behind a small interface so
// plan-change orchestration stays testable without network calls.
package billing

import (
	"context"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// Provider is the payment-provider surface the plan-change flow needs.
type Provider interface {
	EnsureCustomer(ctx context.Context, customerID *string, name, email string) (string, error)
	CreateSubscription(ctx context.Context, customerID, priceID string) (string, error)
	CancelSubscription(ctx context.Context, subscriptionID string) error
}

// StripeProvider implements Provider against the Stripe API.
type StripeProvider struct {
	api *client.API
}

// NewStripeProvider builds a provider from a secret key.
func NewStripeProvider(secretKey string) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{api: api}
}

// EnsureCustomer returns the existing customer id or creates a customer for
// the tenant when none is recorded yet.
func (p *StripeProvider) EnsureCustomer(ctx context.Context, customerID *string, name, email string) (string, error) {
	if customerID != nil && *customerID != "" {
		return *customerID, nil
	}
	params := &stripe.CustomerParams{
		Params: stripe.Params{Context: ctx},
		Name:   stripe.String(name),
		Email:  stripe.String(email),
	}
	customer, err := p.api.Customers.New(params)
	if err != nil {
		return "", err
	}
	return customer.ID, nil
}

// CreateSubscription subscribes the customer to the given price.
func (p *StripeProvider) CreateSubscription(ctx context.Context, customerID, priceID string) (string, error) {
	params := &stripe.SubscriptionParams{
		Params:   stripe.Params{Context: ctx},
		Customer: stripe.String(customerID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(priceID)},
		},
	}
	sub, err := p.api.Subscriptions.New(params)
	if err != nil {
		return "", err
	}
	return sub.ID, nil
}

// CancelSubscription cancels the subscription immediately.
func (p *StripeProvider) CancelSubscription(ctx context.Context, subscriptionID string) error {
	params := &stripe.SubscriptionCancelParams{
		Params: stripe.Params{Context: ctx},
	}
	_, err := p.api.Subscriptions.Cancel(subscriptionID, params)
	return err
}
