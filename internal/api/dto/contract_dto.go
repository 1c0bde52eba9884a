package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/fieldsuite/admin-service/internal/domain"
)

// CreateContractRequest payload.
type CreateContractRequest struct {
	ClientID  string     `json:"client_id"`
	Name      string     `json:"name"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

func (r CreateContractRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ClientID, validation.Required),
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.StartDate, validation.Required),
	)
}

// UpdateContractRequest payload.
type UpdateContractRequest struct {
	Name    *string                `json:"name"`
	Status  *domain.ContractStatus `json:"status"`
	EndDate *time.Time             `json:"end_date"`
}

func (r UpdateContractRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Status, validation.In(
			domain.ContractStatusActive,
			domain.ContractStatusTerminated,
		)),
	)
}

// ContractResponse describes a contract.
type ContractResponse struct {
	ID         string                `json:"id"`
	TenantID   string                `json:"tenant_id"`
	ClientID   string                `json:"client_id"`
	ClientName string                `json:"client_name,omitempty"`
	Name       string                `json:"name"`
	Status     domain.ContractStatus `json:"status"`
	StartDate  time.Time             `json:"start_date"`
	EndDate    *time.Time            `json:"end_date"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

// NewContractResponse maps a contract.
func NewContractResponse(contract *domain.Contract) ContractResponse {
	return ContractResponse{
		ID:         contract.ID,
		TenantID:   contract.TenantID,
		ClientID:   contract.ClientID,
		ClientName: contract.ClientName,
		Name:       contract.Name,
		Status:     contract.Status,
		StartDate:  contract.StartDate,
		EndDate:    contract.EndDate,
		CreatedAt:  contract.CreatedAt,
		UpdatedAt:  contract.UpdatedAt,
	}
}

// NewContractList maps a page of contracts.
func NewContractList(contracts []domain.Contract, meta PageMeta) ListResponse[ContractResponse] {
	out := make([]ContractResponse, 0, len(contracts))
	for i := range contracts {
		out = append(out, NewContractResponse(&contracts[i]))
	}
	return ListResponse[ContractResponse]{Data: out, Meta: meta}
}
