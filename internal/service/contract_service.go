package service

import (
	"context"
	"strings"
	"time"

	"github.com/fieldsuite/admin-service/internal/authz"
	"github.com/fieldsuite/admin-service/internal/domain"
	"github.com/fieldsuite/admin-service/internal/ids"
	"github.com/fieldsuite/admin-service/internal/repository"
	apperrors "github.com/fieldsuite/admin-service/pkg/util"
)

// ContractService coordinates contract workflows.
type ContractService struct {
	contracts repository.ContractRepository
	clients   repository.ClientRepository
}

// NewContractService constructs the service.
func NewContractService(contracts repository.ContractRepository, clients repository.ClientRepository) *ContractService {
	return &ContractService{contracts: contracts, clients: clients}
}

// ContractCreateInput describes contract creation payload.
type ContractCreateInput struct {
	ClientID  string
	Name      string
	StartDate time.Time
	EndDate   *time.Time
}

// ContractUpdateInput describes contract update payload.
type ContractUpdateInput struct {
	Name    *string
	Status  *domain.ContractStatus
	EndDate *time.Time
}

// ContractListInput describes contract listing parameters.
type ContractListInput struct {
	TenantID *string
	ClientID *string
	Statuses []domain.ContractStatus
	Search   *string
	Limit    int
	Offset   int
}

// List returns contracts within the actor's scope plus the total match count.
func (s *ContractService) List(ctx context.Context, actor *domain.SessionUser, input ContractListInput) ([]domain.Contract, int, error) {
	scope, err := authz.ResolveListScope(actor, domain.KindContract, input.TenantID)
	if err != nil {
		return nil, 0, err
	}

	filter := repository.ContractFilter{
		TenantID: scope.TenantID,
		ClientID: scope.ClientID,
		Statuses: input.Statuses,
		Search:   input.Search,
		Limit:    input.Limit,
		Offset:   input.Offset,
	}
	if filter.ClientID == nil {
		filter.ClientID = input.ClientID
	}
	list, err := s.contracts.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	total, err := s.contracts.Count(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	return list, total, nil
}

// Get fetches a contract, mapping a scope miss to not found.
func (s *ContractService) Get(ctx context.Context, actor *domain.SessionUser, id string) (*domain.Contract, error) {
	contract, err := s.contracts.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !authz.CanAccessResource(actor, contract.Scope()) {
		return nil, apperrors.NewNotFound("contract", nil)
	}
	return contract, nil
}

// Create adds a contract for a client the actor controls.
func (s *ContractService) Create(ctx context.Context, actor *domain.SessionUser, input ContractCreateInput) (*domain.Contract, error) {
	if !authz.CanCreate(actor, domain.KindContract) {
		return nil, apperrors.NewForbidden("insufficient role")
	}

	client, err := s.clients.GetByID(ctx, input.ClientID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !authz.CanAccessResource(actor, client.Scope()) {
		return nil, apperrors.NewNotFound("client", nil)
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	if input.EndDate != nil && !input.EndDate.After(input.StartDate) {
		return nil, apperrors.NewValidationError("end date must be after start date", nil)
	}

	contract := &domain.Contract{
		ID:        ids.New("con"),
		TenantID:  client.TenantID,
		ClientID:  client.ID,
		Name:      name,
		Status:    domain.ContractStatusActive,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
	}
	if err := s.contracts.Create(ctx, contract); err != nil {
		return nil, apperrors.MapError(err)
	}
	return contract, nil
}

// Update applies changes to a contract. Termination is one way; a
// terminated contract never reactivates.
func (s *ContractService) Update(ctx context.Context, actor *domain.SessionUser, id string, input ContractUpdateInput) (*domain.Contract, error) {
	contract, err := s.contracts.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !authz.CanAccessResource(actor, contract.Scope()) {
		return nil, apperrors.NewNotFound("contract", nil)
	}
	if !authz.CanUpdate(actor, domain.KindContract) {
		return nil, apperrors.NewForbidden("insufficient role")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name is required", nil)
		}
		contract.Name = name
	}
	if input.EndDate != nil {
		if !input.EndDate.After(contract.StartDate) {
			return nil, apperrors.NewValidationError("end date must be after start date", nil)
		}
		contract.EndDate = input.EndDate
	}
	if input.Status != nil && *input.Status != contract.Status {
		if contract.Status == domain.ContractStatusTerminated {
			return nil, apperrors.NewInvalidStatus("contract already terminated", nil)
		}
		if *input.Status != domain.ContractStatusTerminated {
			return nil, apperrors.NewInvalidStatus("illegal contract status transition", map[string]any{
				"from": contract.Status,
				"to":   *input.Status,
			})
		}
		contract.Status = domain.ContractStatusTerminated
	}

	if err := s.contracts.Update(ctx, contract); err != nil {
		return nil, apperrors.MapError(err)
	}
	return contract, nil
}

// Delete removes a contract in the actor's scope.
func (s *ContractService) Delete(ctx context.Context, actor *domain.SessionUser, id string) error {
	contract, err := s.contracts.GetByID(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !authz.CanAccessResource(actor, contract.Scope()) {
		return apperrors.NewNotFound("contract", nil)
	}
	if !authz.CanDelete(actor, domain.KindContract) {
		return apperrors.NewForbidden("insufficient role")
	}
	if err := s.contracts.Delete(ctx, contract.ID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}
