package service

import (
	"context"
	"strings"
	"time"

	"github.com/fieldsuite/admin-service/internal/authz"
	"github.com/fieldsuite/admin-service/internal/domain"
	"github.com/fieldsuite/admin-service/internal/events"
	"github.com/fieldsuite/admin-service/internal/ids"
	"github.com/fieldsuite/admin-service/internal/repository"
	apperrors "github.com/fieldsuite/admin-service/pkg/util"
)

// InvoiceService coordinates invoice workflows. Invoices always hang off a
// contract; tenant and client scope derive through it.
type InvoiceService struct {
	invoices   repository.InvoiceRepository
	contracts  repository.ContractRepository
	dispatcher events.Dispatcher
}

// NewInvoiceService constructs the service.
func NewInvoiceService(invoices repository.InvoiceRepository, contracts repository.ContractRepository, dispatcher events.Dispatcher) *InvoiceService {
	return &InvoiceService{invoices: invoices, contracts: contracts, dispatcher: dispatcher}
}

// InvoiceCreateInput describes invoice creation payload.
type InvoiceCreateInput struct {
	ContractID  string
	AmountCents int64
	Currency    string
	DueDate     *time.Time
}

// InvoiceUpdateInput describes invoice update payload.
type InvoiceUpdateInput struct {
	Status  *domain.InvoiceStatus
	DueDate *time.Time
}

// InvoiceListInput describes invoice listing parameters.
type InvoiceListInput struct {
	TenantID   *string
	ClientID   *string
	ContractID *string
	Statuses   []domain.InvoiceStatus
	Search     *string
	Limit      int
	Offset     int
}

var invoiceTransitions = map[domain.InvoiceStatus][]domain.InvoiceStatus{
	domain.InvoiceStatusDraft: {domain.InvoiceStatusSent, domain.InvoiceStatusVoid},
	domain.InvoiceStatusSent:  {domain.InvoiceStatusPaid, domain.InvoiceStatusVoid},
	domain.InvoiceStatusPaid:  {},
	domain.InvoiceStatusVoid:  {},
}

func invoiceTransitionAllowed(current, next domain.InvoiceStatus) bool {
	for _, candidate := range invoiceTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// List returns invoices within the actor's scope plus the total match count.
func (s *InvoiceService) List(ctx context.Context, actor *domain.SessionUser, input InvoiceListInput) ([]domain.Invoice, int, error) {
	scope, err := authz.ResolveListScope(actor, domain.KindInvoice, input.TenantID)
	if err != nil {
		return nil, 0, err
	}

	filter := repository.InvoiceFilter{
		TenantID:   scope.TenantID,
		ClientID:   scope.ClientID,
		ContractID: input.ContractID,
		Statuses:   input.Statuses,
		Search:     input.Search,
		Limit:      input.Limit,
		Offset:     input.Offset,
	}
	if filter.ClientID == nil {
		filter.ClientID = input.ClientID
	}
	list, err := s.invoices.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	total, err := s.invoices.Count(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	return list, total, nil
}

// Get fetches an invoice, mapping a scope miss to not found.
func (s *InvoiceService) Get(ctx context.Context, actor *domain.SessionUser, id string) (*domain.Invoice, error) {
	invoice, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !authz.CanAccessResource(actor, invoice.Scope()) {
		return nil, apperrors.NewNotFound("invoice", nil)
	}
	return invoice, nil
}

// Create drafts an invoice under an active contract in the actor's scope.
func (s *InvoiceService) Create(ctx context.Context, actor *domain.SessionUser, input InvoiceCreateInput) (*domain.Invoice, error) {
	if !authz.CanCreate(actor, domain.KindInvoice) {
		return nil, apperrors.NewForbidden("insufficient role")
	}

	contract, err := s.contracts.GetByID(ctx, input.ContractID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !authz.CanAccessResource(actor, contract.Scope()) {
		return nil, apperrors.NewNotFound("contract", nil)
	}
	if contract.Status != domain.ContractStatusActive {
		return nil, apperrors.NewInvalidStatus("contract is not active", nil)
	}
	if input.AmountCents <= 0 {
		return nil, apperrors.NewValidationError("amount must be positive", nil)
	}
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if len(currency) != 3 {
		return nil, apperrors.NewValidationError("currency must be a 3-letter code", nil)
	}

	invoice := &domain.Invoice{
		ID:          ids.New("inv"),
		ContractID:  contract.ID,
		TenantID:    contract.TenantID,
		ClientID:    contract.ClientID,
		Number:      strings.ToUpper(ids.New("INV")),
		AmountCents: input.AmountCents,
		Currency:    currency,
		Status:      domain.InvoiceStatusDraft,
		DueDate:     input.DueDate,
	}
	if err := s.invoices.Create(ctx, invoice); err != nil {
		return nil, apperrors.MapError(err)
	}
	return invoice, nil
}

// Update moves an invoice through its lifecycle and adjusts the due date.
func (s *InvoiceService) Update(ctx context.Context, actor *domain.SessionUser, id string, input InvoiceUpdateInput) (*domain.Invoice, error) {
	invoice, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !authz.CanAccessResource(actor, invoice.Scope()) {
		return nil, apperrors.NewNotFound("invoice", nil)
	}
	if !authz.CanUpdate(actor, domain.KindInvoice) {
		return nil, apperrors.NewForbidden("insufficient role")
	}

	if input.DueDate != nil {
		if invoice.Status != domain.InvoiceStatusDraft {
			return nil, apperrors.NewInvalidStatus("due date only changes on drafts", nil)
		}
		invoice.DueDate = input.DueDate
	}

	oldStatus := invoice.Status
	if input.Status != nil && *input.Status != invoice.Status {
		if !invoiceTransitionAllowed(invoice.Status, *input.Status) {
			return nil, apperrors.NewInvalidStatus("illegal invoice status transition", map[string]any{
				"from": oldStatus,
				"to":   *input.Status,
			})
		}
		invoice.Status = *input.Status
	}

	if err := s.invoices.Update(ctx, invoice); err != nil {
		return nil, apperrors.MapError(err)
	}

	if invoice.Status != oldStatus {
		publish(ctx, s.dispatcher, events.Event{
			Type:     events.EventInvoiceStatusChanged,
			TenantID: invoice.TenantID,
			Actor:    eventActor(actor),
			Payload: events.InvoiceStatusChangedPayload{
				InvoiceID: invoice.ID,
				Number:    invoice.Number,
				OldStatus: oldStatus,
				NewStatus: invoice.Status,
			},
		})
	}
	return invoice, nil
}

// Delete removes a draft invoice in the actor's scope. Issued invoices are
// voided, never deleted.
func (s *InvoiceService) Delete(ctx context.Context, actor *domain.SessionUser, id string) error {
	invoice, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !authz.CanAccessResource(actor, invoice.Scope()) {
		return apperrors.NewNotFound("invoice", nil)
	}
	if !authz.CanDelete(actor, domain.KindInvoice) {
		return apperrors.NewForbidden("insufficient role")
	}
	if invoice.Status != domain.InvoiceStatusDraft {
		return apperrors.NewInvalidStatus("only draft invoices can be deleted", nil)
	}
	if err := s.invoices.Delete(ctx, invoice.ID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}
