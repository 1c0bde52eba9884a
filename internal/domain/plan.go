package domain

import "time"

// Plan is a subscription tier. Plans are a global catalog, not scoped to any
// tenant; StripePriceID is empty for free tiers.
type Plan struct {
	ID            string
	Name          string
	PriceCents    int64
	Currency      string
	StripePriceID *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
