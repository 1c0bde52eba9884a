package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/fieldsuite/admin-service/internal/domain"
)

// CreatePlanRequest payload.
type CreatePlanRequest struct {
	Name          string  `json:"name"`
	PriceCents    int64   `json:"price_cents"`
	Currency      string  `json:"currency"`
	StripePriceID *string `json:"stripe_price_id"`
}

func (r CreatePlanRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.PriceCents, validation.Min(0)),
		validation.Field(&r.Currency, validation.Required, validation.Length(3, 3)),
	)
}

// UpdatePlanRequest payload.
type UpdatePlanRequest struct {
	Name          *string `json:"name"`
	PriceCents    *int64  `json:"price_cents"`
	StripePriceID *string `json:"stripe_price_id"`
}

func (r UpdatePlanRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 100)),
	)
}

// PlanResponse describes a catalog plan.
type PlanResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	PriceCents    int64     `json:"price_cents"`
	Currency      string    `json:"currency"`
	StripePriceID *string   `json:"stripe_price_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewPlanResponse maps a plan.
func NewPlanResponse(plan *domain.Plan) PlanResponse {
	return PlanResponse{
		ID:            plan.ID,
		Name:          plan.Name,
		PriceCents:    plan.PriceCents,
		Currency:      plan.Currency,
		StripePriceID: plan.StripePriceID,
		CreatedAt:     plan.CreatedAt,
		UpdatedAt:     plan.UpdatedAt,
	}
}

// NewPlanList maps a page of plans.
func NewPlanList(plans []domain.Plan, meta PageMeta) ListResponse[PlanResponse] {
	out := make([]PlanResponse, 0, len(plans))
	for i := range plans {
		out = append(out, NewPlanResponse(&plans[i]))
	}
	return ListResponse[PlanResponse]{Data: out, Meta: meta}
}
