package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/fieldsuite/admin-service/internal/domain"
)

// CreateTenantRequest payload.
type CreateTenantRequest struct {
	Name    string  `json:"name"`
	AdminID *string `json:"admin_id"`
	PlanID  *string `json:"plan_id"`
}

func (r CreateTenantRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
	)
}

// UpdateTenantRequest payload. Absent fields are left untouched.
type UpdateTenantRequest struct {
	Name    *string `json:"name"`
	AdminID *string `json:"admin_id"`
}

func (r UpdateTenantRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 200)),
	)
}

// ChangePlanRequest payload.
type ChangePlanRequest struct {
	PlanID string `json:"plan_id"`
}

func (r ChangePlanRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PlanID, validation.Required),
	)
}

// TenantResponse describes a tenant.
type TenantResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	AdminID   *string   `json:"admin_id"`
	PlanID    *string   `json:"plan_id"`
	PlanName  *string   `json:"plan_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTenantResponse maps a tenant.
func NewTenantResponse(tenant *domain.Tenant) TenantResponse {
	return TenantResponse{
		ID:        tenant.ID,
		Name:      tenant.Name,
		AdminID:   tenant.AdminID,
		PlanID:    tenant.PlanID,
		PlanName:  tenant.PlanName,
		CreatedAt: tenant.CreatedAt,
		UpdatedAt: tenant.UpdatedAt,
	}
}

// NewTenantList maps a page of tenants.
func NewTenantList(tenants []domain.Tenant, meta PageMeta) ListResponse[TenantResponse] {
	out := make([]TenantResponse, 0, len(tenants))
	for i := range tenants {
		out = append(out, NewTenantResponse(&tenants[i]))
	}
	return ListResponse[TenantResponse]{Data: out, Meta: meta}
}
