package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/fieldsuite/admin-service/internal/domain"
)

// CreateEmployeeRequest payload.
type CreateEmployeeRequest struct {
	TenantID string  `json:"tenant_id"`
	UserID   string  `json:"user_id"`
	BranchID *string `json:"branch_id"`
}

func (r CreateEmployeeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.Required),
	)
}

// UpdateEmployeeRequest payload. An empty branch id detaches the employee
// from its branch.
type UpdateEmployeeRequest struct {
	BranchID *string `json:"branch_id"`
}

func (r UpdateEmployeeRequest) Validate() error {
	return validation.ValidateStruct(&r)
}

// EmployeeResponse describes an employee membership.
type EmployeeResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	UserName   string    `json:"user_name,omitempty"`
	UserEmail  string    `json:"user_email,omitempty"`
	TenantID   string    `json:"tenant_id"`
	BranchID   *string   `json:"branch_id"`
	BranchName *string   `json:"branch_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewEmployeeResponse maps a membership.
func NewEmployeeResponse(membership *domain.Membership) EmployeeResponse {
	return EmployeeResponse{
		ID:         membership.ID,
		UserID:     membership.UserID,
		UserName:   membership.UserName,
		UserEmail:  membership.UserEmail,
		TenantID:   membership.TenantID,
		BranchID:   membership.BranchID,
		BranchName: membership.BranchName,
		CreatedAt:  membership.CreatedAt,
		UpdatedAt:  membership.UpdatedAt,
	}
}

// NewEmployeeList maps a page of memberships.
func NewEmployeeList(memberships []domain.Membership, meta PageMeta) ListResponse[EmployeeResponse] {
	out := make([]EmployeeResponse, 0, len(memberships))
	for i := range memberships {
		out = append(out, NewEmployeeResponse(&memberships[i]))
	}
	return ListResponse[EmployeeResponse]{Data: out, Meta: meta}
}
