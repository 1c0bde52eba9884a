package domain

import "time"

// InvoiceStatus enumerates invoice states.
type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "draft"
	InvoiceStatusSent  InvoiceStatus = "sent"
	InvoiceStatusPaid  InvoiceStatus = "paid"
	InvoiceStatusVoid  InvoiceStatus = "void"
)

// Invoice bills a client under a contract. TenantID and ClientID are derived
// through the contract join when fetched.
type Invoice struct {
	ID          string
	ContractID  string
	TenantID    string
	ClientID    string
	Number      string
	AmountCents int64
	Currency    string
	Status      InvoiceStatus
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// joined display fields
	ContractName string
	ClientName   string
}

// Scope returns the invoice's scope keys, derived through its contract.
func (i *Invoice) Scope() ResourceScope {
	return ResourceScope{TenantID: &i.TenantID, ClientID: &i.ClientID}
}
