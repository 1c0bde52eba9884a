package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/fieldsuite/admin-service/internal/domain"
)

// CreateInvoiceRequest payload.
type CreateInvoiceRequest struct {
	ContractID  string     `json:"contract_id"`
	AmountCents int64      `json:"amount_cents"`
	Currency    string     `json:"currency"`
	DueDate     *time.Time `json:"due_date"`
}

func (r CreateInvoiceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ContractID, validation.Required),
		validation.Field(&r.AmountCents, validation.Required, validation.Min(1)),
		validation.Field(&r.Currency, validation.Required, validation.Length(3, 3)),
	)
}

// UpdateInvoiceRequest payload.
type UpdateInvoiceRequest struct {
	Status  *domain.InvoiceStatus `json:"status"`
	DueDate *time.Time            `json:"due_date"`
}

func (r UpdateInvoiceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.In(
			domain.InvoiceStatusDraft,
			domain.InvoiceStatusSent,
			domain.InvoiceStatusPaid,
			domain.InvoiceStatusVoid,
		)),
	)
}

// InvoiceResponse describes an invoice.
type InvoiceResponse struct {
	ID           string               `json:"id"`
	ContractID   string               `json:"contract_id"`
	ContractName string               `json:"contract_name,omitempty"`
	TenantID     string               `json:"tenant_id"`
	ClientID     string               `json:"client_id"`
	ClientName   string               `json:"client_name,omitempty"`
	Number       string               `json:"number"`
	AmountCents  int64                `json:"amount_cents"`
	Currency     string               `json:"currency"`
	Status       domain.InvoiceStatus `json:"status"`
	DueDate      *time.Time           `json:"due_date"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// NewInvoiceResponse maps an invoice.
func NewInvoiceResponse(invoice *domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:           invoice.ID,
		ContractID:   invoice.ContractID,
		ContractName: invoice.ContractName,
		TenantID:     invoice.TenantID,
		ClientID:     invoice.ClientID,
		ClientName:   invoice.ClientName,
		Number:       invoice.Number,
		AmountCents:  invoice.AmountCents,
		Currency:     invoice.Currency,
		Status:       invoice.Status,
		DueDate:      invoice.DueDate,
		CreatedAt:    invoice.CreatedAt,
		UpdatedAt:    invoice.UpdatedAt,
	}
}

// NewInvoiceList maps a page of invoices.
func NewInvoiceList(invoices []domain.Invoice, meta PageMeta) ListResponse[InvoiceResponse] {
	out := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		out = append(out, NewInvoiceResponse(&invoices[i]))
	}
	return ListResponse[InvoiceResponse]{Data: out, Meta: meta}
}
