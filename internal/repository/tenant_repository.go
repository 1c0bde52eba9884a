package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/fieldsuite/admin-service/internal/domain"
)

// TenantFilter defines query params for tenant listing.
type TenantFilter struct {
	Search *string
	Limit  int
	Offset int
}

// TenantRepository handles persistence for tenants.
type TenantRepository interface {
	Create(ctx context.Context, tenant *domain.Tenant) error
	Update(ctx context.Context, tenant *domain.Tenant) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Tenant, error)
	GetByAdminID(ctx context.Context, adminID string) (*domain.Tenant, error)
	GetByName(ctx context.Context, name string) (*domain.Tenant, error)
	List(ctx context.Context, filter TenantFilter) ([]domain.Tenant, error)
	Count(ctx context.Context, filter TenantFilter) (int, error)
}

type tenantRepository struct {
	q Querier
}

// NewTenantRepository instantiates the repository.
func NewTenantRepository(q Querier) TenantRepository {
	return &tenantRepository{q: q}
}

const tenantColumns = `t.id, t.name, t.admin_id, t.plan_id, t.stripe_customer_id, t.stripe_subscription_id,
       t.created_at, t.updated_at, p.name`

const tenantBase = `
        SELECT ` + tenantColumns + `
        FROM tenants t
        LEFT JOIN plans p ON p.id = t.plan_id`

func (r *tenantRepository) Create(ctx context.Context, tenant *domain.Tenant) error {
	const query = `
        INSERT INTO tenants (id, name, admin_id, plan_id)
        VALUES ($1,$2,$3,$4)
        RETURNING created_at, updated_at`
	return r.q.QueryRow(ctx, query,
		tenant.ID,
		tenant.Name,
		tenant.AdminID,
		tenant.PlanID,
	).Scan(&tenant.CreatedAt, &tenant.UpdatedAt)
}

func (r *tenantRepository) Update(ctx context.Context, tenant *domain.Tenant) error {
	const query = `
        UPDATE tenants
        SET name=$1, admin_id=$2, plan_id=$3, stripe_customer_id=$4, stripe_subscription_id=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.q.Exec(ctx, query,
		tenant.Name,
		tenant.AdminID,
		tenant.PlanID,
		tenant.StripeCustomerID,
		tenant.StripeSubscriptionID,
		tenant.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *tenantRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM tenants WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *tenantRepository) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	return r.fetchSingle(ctx, tenantBase+` WHERE t.id=$1`, id)
}

func (r *tenantRepository) GetByAdminID(ctx context.Context, adminID string) (*domain.Tenant, error) {
	// Single-row admin-of lookup: one tenant per admin record.
	return r.fetchSingle(ctx, tenantBase+` WHERE t.admin_id=$1 ORDER BY t.created_at LIMIT 1`, adminID)
}

func (r *tenantRepository) GetByName(ctx context.Context, name string) (*domain.Tenant, error) {
	return r.fetchSingle(ctx, tenantBase+` WHERE LOWER(t.name)=LOWER($1)`, name)
}

func (r *tenantRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Tenant, error) {
	var tenant domain.Tenant
	if err := r.q.QueryRow(ctx, query, arg).Scan(
		&tenant.ID,
		&tenant.Name,
		&tenant.AdminID,
		&tenant.PlanID,
		&tenant.StripeCustomerID,
		&tenant.StripeSubscriptionID,
		&tenant.CreatedAt,
		&tenant.UpdatedAt,
		&tenant.PlanName,
	); err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *tenantRepository) List(ctx context.Context, filter TenantFilter) ([]domain.Tenant, error) {
	clauses, args := tenantClauses(filter)
	query := tenantBase
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY t.created_at DESC LIMIT %d OFFSET %d", normalizeLimit(filter.Limit), normalizeOffset(filter.Offset))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Tenant
	for rows.Next() {
		var tenant domain.Tenant
		if err := rows.Scan(
			&tenant.ID,
			&tenant.Name,
			&tenant.AdminID,
			&tenant.PlanID,
			&tenant.StripeCustomerID,
			&tenant.StripeSubscriptionID,
			&tenant.CreatedAt,
			&tenant.UpdatedAt,
			&tenant.PlanName,
		); err != nil {
			return nil, err
		}
		result = append(result, tenant)
	}
	return result, rows.Err()
}

func (r *tenantRepository) Count(ctx context.Context, filter TenantFilter) (int, error) {
	clauses, args := tenantClauses(filter)
	query := `SELECT COUNT(*) FROM tenants t`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	var total int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func tenantClauses(filter TenantFilter) ([]string, []any) {
	clauses := []string{}
	args := []any{}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*filter.Search))+"%")
		clauses = append(clauses, fmt.Sprintf("LOWER(t.name) LIKE $%d", len(args)))
	}
	return clauses, args
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
