package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fieldsuite/admin-service/internal/authz"
	"github.com/fieldsuite/admin-service/internal/domain"
	"github.com/fieldsuite/admin-service/internal/events"
	"github.com/fieldsuite/admin-service/internal/ids"
	"github.com/fieldsuite/admin-service/internal/repository"
	apperrors "github.com/fieldsuite/admin-service/pkg/util"
)

// ClientService coordinates client workflows, including the paired creation
// of a client and its initial contract.
type ClientService struct {
	clients    repository.ClientRepository
	contracts  repository.ContractRepository
	tenants    repository.TenantRepository
	txRunner   repository.TxRunner
	dispatcher events.Dispatcher
}

// ClientDependencies bundles requirements for the client service.
type ClientDependencies struct {
	ClientRepo   repository.ClientRepository
	ContractRepo repository.ContractRepository
	TenantRepo   repository.TenantRepository
	TxRunner     repository.TxRunner
	Dispatcher   events.Dispatcher
}

// NewClientService constructs the service.
func NewClientService(deps ClientDependencies) *ClientService {
	return &ClientService{
		clients:    deps.ClientRepo,
		contracts:  deps.ContractRepo,
		tenants:    deps.TenantRepo,
		txRunner:   deps.TxRunner,
		dispatcher: deps.Dispatcher,
	}
}

// ClientCreateInput describes client creation payload. The initial contract
// is created in the same transaction as the client row.
type ClientCreateInput struct {
	TenantID          string
	Name              string
	Email             *string
	Phone             *string
	AdminID           *string
	ContractName      string
	ContractStartDate time.Time
	ContractEndDate   *time.Time
}

// ClientUpdateInput describes client update payload.
type ClientUpdateInput struct {
	Name    *string
	Email   *string
	Phone   *string
	AdminID *string
}

// ClientListInput describes client listing parameters.
type ClientListInput struct {
	TenantID *string
	Search   *string
	Limit    int
	Offset   int
}

// List returns clients within the actor's scope plus the total match count.
func (s *ClientService) List(ctx context.Context, actor *domain.SessionUser, input ClientListInput) ([]domain.Client, int, error) {
	scope, err := authz.ResolveListScope(actor, domain.KindClient, input.TenantID)
	if err != nil {
		return nil, 0, err
	}

	filter := repository.ClientFilter{
		ID:       scope.ClientID,
		TenantID: scope.TenantID,
		Search:   input.Search,
		Limit:    input.Limit,
		Offset:   input.Offset,
	}
	clients, err := s.clients.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	total, err := s.clients.Count(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	return clients, total, nil
}

// Get fetches a client, mapping a scope miss to not found.
func (s *ClientService) Get(ctx context.Context, actor *domain.SessionUser, id string) (*domain.Client, error) {
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !authz.CanAccessResource(actor, client.Scope()) {
		return nil, apperrors.NewNotFound("client", nil)
	}
	return client, nil
}

// Create registers a client together with its initial contract. Both rows
// commit atomically; a contract failure rolls the client back.
func (s *ClientService) Create(ctx context.Context, actor *domain.SessionUser, input ClientCreateInput) (*domain.Client, *domain.Contract, error) {
	if !authz.CanCreate(actor, domain.KindClient) {
		return nil, nil, apperrors.NewForbidden("insufficient role")
	}

	tenantID := input.TenantID
	if actor.Role == domain.RoleTenantAdmin {
		if actor.TenantID == nil {
			return nil, nil, apperrors.NewNoTenantAccess()
		}
		tenantID = *actor.TenantID
	}
	if tenantID == "" {
		return nil, nil, apperrors.NewTenantIDRequired()
	}
	if _, err := s.tenants.GetByID(ctx, tenantID); err != nil {
		return nil, nil, apperrors.MapError(err)
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, nil, apperrors.NewValidationError("name is required", nil)
	}
	contractName := strings.TrimSpace(input.ContractName)
	if contractName == "" {
		return nil, nil, apperrors.NewValidationError("contract name is required", nil)
	}
	if input.ContractEndDate != nil && !input.ContractEndDate.After(input.ContractStartDate) {
		return nil, nil, apperrors.NewValidationError("contract end date must be after start date", nil)
	}
	if _, err := s.clients.GetByNameInTenant(ctx, tenantID, name); err == nil {
		return nil, nil, apperrors.NewDuplicateName("CLIENT", map[string]any{"name": name})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, apperrors.MapError(err)
	}

	client := &domain.Client{
		ID:       ids.New("cli"),
		TenantID: tenantID,
		AdminID:  input.AdminID,
		Name:     name,
		Email:    input.Email,
		Phone:    input.Phone,
	}
	contract := &domain.Contract{
		ID:        ids.New("con"),
		TenantID:  tenantID,
		ClientID:  client.ID,
		Name:      contractName,
		Status:    domain.ContractStatusActive,
		StartDate: input.ContractStartDate,
		EndDate:   input.ContractEndDate,
	}

	err := s.txRunner.ExecTx(ctx, func(tx pgx.Tx) error {
		if err := s.clients.WithTx(tx).Create(ctx, client); err != nil {
			return err
		}
		return s.contracts.WithTx(tx).Create(ctx, contract)
	})
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:     events.EventClientCreated,
		TenantID: tenantID,
		Actor:    eventActor(actor),
		Payload: events.ClientCreatedPayload{
			ClientID:   client.ID,
			ClientName: client.Name,
			ContractID: contract.ID,
		},
	})
	return client, contract, nil
}

// Update applies changes to a client in the actor's scope.
func (s *ClientService) Update(ctx context.Context, actor *domain.SessionUser, id string, input ClientUpdateInput) (*domain.Client, error) {
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !authz.CanAccessResource(actor, client.Scope()) {
		return nil, apperrors.NewNotFound("client", nil)
	}
	if !authz.CanUpdate(actor, domain.KindClient) {
		return nil, apperrors.NewForbidden("insufficient role")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name is required", nil)
		}
		if existing, err := s.clients.GetByNameInTenant(ctx, client.TenantID, name); err == nil && existing.ID != client.ID {
			return nil, apperrors.NewDuplicateName("CLIENT", map[string]any{"name": name})
		} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
		client.Name = name
	}
	if input.Email != nil {
		client.Email = input.Email
	}
	if input.Phone != nil {
		client.Phone = input.Phone
	}
	if input.AdminID != nil {
		client.AdminID = input.AdminID
	}

	if err := s.clients.Update(ctx, client); err != nil {
		return nil, apperrors.MapError(err)
	}
	return client, nil
}

// Delete removes a client in the actor's scope.
func (s *ClientService) Delete(ctx context.Context, actor *domain.SessionUser, id string) error {
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !authz.CanAccessResource(actor, client.Scope()) {
		return apperrors.NewNotFound("client", nil)
	}
	if !authz.CanDelete(actor, domain.KindClient) {
		return apperrors.NewForbidden("insufficient role")
	}
	if err := s.clients.Delete(ctx, client.ID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}
