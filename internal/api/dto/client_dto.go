package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/fieldsuite/admin-service/internal/domain"
)

// CreateClientRequest payload. The initial contract fields are required;
// clients are never created without one.
type CreateClientRequest struct {
	TenantID          string     `json:"tenant_id"`
	Name              string     `json:"name"`
	Email             *string    `json:"email"`
	Phone             *string    `json:"phone"`
	AdminID           *string    `json:"admin_id"`
	ContractName      string     `json:"contract_name"`
	ContractStartDate time.Time  `json:"contract_start_date"`
	ContractEndDate   *time.Time `json:"contract_end_date"`
}

func (r CreateClientRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.NilOrNotEmpty, is.Email),
		validation.Field(&r.ContractName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.ContractStartDate, validation.Required),
	)
}

// UpdateClientRequest payload.
type UpdateClientRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	AdminID *string `json:"admin_id"`
}

func (r UpdateClientRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.NilOrNotEmpty, is.Email),
	)
}

// ClientResponse describes a client.
type ClientResponse struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"tenant_id"`
	TenantName string    `json:"tenant_name,omitempty"`
	AdminID    *string   `json:"admin_id"`
	AdminName  *string   `json:"admin_name,omitempty"`
	Name       string    `json:"name"`
	Email      *string   `json:"email"`
	Phone      *string   `json:"phone"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewClientResponse maps a client.
func NewClientResponse(client *domain.Client) ClientResponse {
	return ClientResponse{
		ID:         client.ID,
		TenantID:   client.TenantID,
		TenantName: client.TenantName,
		AdminID:    client.AdminID,
		AdminName:  client.AdminName,
		Name:       client.Name,
		Email:      client.Email,
		Phone:      client.Phone,
		CreatedAt:  client.CreatedAt,
		UpdatedAt:  client.UpdatedAt,
	}
}

// ClientWithContractResponse is returned on creation, carrying the initial
// contract alongside the client.
type ClientWithContractResponse struct {
	Client   ClientResponse   `json:"client"`
	Contract ContractResponse `json:"contract"`
}

// NewClientList maps a page of clients.
func NewClientList(clients []domain.Client, meta PageMeta) ListResponse[ClientResponse] {
	out := make([]ClientResponse, 0, len(clients))
	for i := range clients {
		out = append(out, NewClientResponse(&clients[i]))
	}
	return ListResponse[ClientResponse]{Data: out, Meta: meta}
}
