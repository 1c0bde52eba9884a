package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/fieldsuite/admin-service/internal/domain"
)

// CreateBranchRequest payload.
type CreateBranchRequest struct {
	ClientID     string  `json:"client_id"`
	Name         string  `json:"name"`
	Address      *string `json:"address"`
	SupervisorID *string `json:"supervisor_id"`
}

func (r CreateBranchRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ClientID, validation.Required),
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
	)
}

// UpdateBranchRequest payload.
type UpdateBranchRequest struct {
	Name         *string `json:"name"`
	Address      *string `json:"address"`
	SupervisorID *string `json:"supervisor_id"`
}

func (r UpdateBranchRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 200)),
	)
}

// BranchResponse describes a branch.
type BranchResponse struct {
	ID             string    `json:"id"`
	ClientID       string    `json:"client_id"`
	ClientName     string    `json:"client_name,omitempty"`
	TenantID       string    `json:"tenant_id"`
	Name           string    `json:"name"`
	Address        *string   `json:"address"`
	SupervisorID   *string   `json:"supervisor_id"`
	SupervisorName *string   `json:"supervisor_name,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewBranchResponse maps a branch.
func NewBranchResponse(branch *domain.Branch) BranchResponse {
	return BranchResponse{
		ID:             branch.ID,
		ClientID:       branch.ClientID,
		ClientName:     branch.ClientName,
		TenantID:       branch.TenantID,
		Name:           branch.Name,
		Address:        branch.Address,
		SupervisorID:   branch.SupervisorID,
		SupervisorName: branch.SupervisorName,
		CreatedAt:      branch.CreatedAt,
		UpdatedAt:      branch.UpdatedAt,
	}
}

// NewBranchList maps a page of branches.
func NewBranchList(branches []domain.Branch, meta PageMeta) ListResponse[BranchResponse] {
	out := make([]BranchResponse, 0, len(branches))
	for i := range branches {
		out = append(out, NewBranchResponse(&branches[i]))
	}
	return ListResponse[BranchResponse]{Data: out, Meta: meta}
}
