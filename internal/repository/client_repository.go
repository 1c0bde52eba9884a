package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/fieldsuite/admin-service/internal/domain"
)

// ClientFilter defines query params for client listing. TenantID is the
// forced scope injected by the authorization layer, never by the caller.
type ClientFilter struct {
	ID       *string
	TenantID *string
	AdminID  *string
	Search   *string
	Limit    int
	Offset   int
}

// ClientRepository handles persistence for clients.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	Update(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	GetByAdminID(ctx context.Context, adminID string) (*domain.Client, error)
	GetByNameInTenant(ctx context.Context, tenantID, name string) (*domain.Client, error)
	List(ctx context.Context, filter ClientFilter) ([]domain.Client, error)
	Count(ctx context.Context, filter ClientFilter) (int, error)
	WithTx(tx pgx.Tx) ClientRepository
}

type clientRepository struct {
	q Querier
}

// NewClientRepository instantiates the repository.
func NewClientRepository(q Querier) ClientRepository {
	return &clientRepository{q: q}
}

func (r *clientRepository) WithTx(tx pgx.Tx) ClientRepository {
	return &clientRepository{q: tx}
}

const clientBase = `
        SELECT c.id, c.tenant_id, c.admin_id, c.name, c.email, c.phone, c.created_at, c.updated_at,
               t.name, u.name
        FROM clients c
        JOIN tenants t ON t.id = c.tenant_id
        LEFT JOIN users u ON u.id = c.admin_id`

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	const query = `
        INSERT INTO clients (id, tenant_id, admin_id, name, email, phone)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING created_at, updated_at`
	return r.q.QueryRow(ctx, query,
		client.ID,
		client.TenantID,
		client.AdminID,
		client.Name,
		client.Email,
		client.Phone,
	).Scan(&client.CreatedAt, &client.UpdatedAt)
}

func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	const query = `
        UPDATE clients SET admin_id=$1, name=$2, email=$3, phone=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.q.Exec(ctx, query,
		client.AdminID,
		client.Name,
		client.Email,
		client.Phone,
		client.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *clientRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM clients WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *clientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	return r.fetchSingle(ctx, clientBase+` WHERE c.id=$1`, id)
}

func (r *clientRepository) GetByAdminID(ctx context.Context, adminID string) (*domain.Client, error) {
	// Single-row admin-of lookup: one client per admin record.
	return r.fetchSingle(ctx, clientBase+` WHERE c.admin_id=$1 ORDER BY c.created_at LIMIT 1`, adminID)
}

func (r *clientRepository) GetByNameInTenant(ctx context.Context, tenantID, name string) (*domain.Client, error) {
	const query = clientBase + ` WHERE c.tenant_id=$1 AND LOWER(c.name)=LOWER($2)`
	var client domain.Client
	if err := r.q.QueryRow(ctx, query, tenantID, name).Scan(
		&client.ID,
		&client.TenantID,
		&client.AdminID,
		&client.Name,
		&client.Email,
		&client.Phone,
		&client.CreatedAt,
		&client.UpdatedAt,
		&client.TenantName,
		&client.AdminName,
	); err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Client, error) {
	var client domain.Client
	if err := r.q.QueryRow(ctx, query, arg).Scan(
		&client.ID,
		&client.TenantID,
		&client.AdminID,
		&client.Name,
		&client.Email,
		&client.Phone,
		&client.CreatedAt,
		&client.UpdatedAt,
		&client.TenantName,
		&client.AdminName,
	); err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) List(ctx context.Context, filter ClientFilter) ([]domain.Client, error) {
	clauses, args := clientClauses(filter)
	query := clientBase
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY c.created_at DESC LIMIT %d OFFSET %d", normalizeLimit(filter.Limit), normalizeOffset(filter.Offset))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Client
	for rows.Next() {
		var client domain.Client
		if err := rows.Scan(
			&client.ID,
			&client.TenantID,
			&client.AdminID,
			&client.Name,
			&client.Email,
			&client.Phone,
			&client.CreatedAt,
			&client.UpdatedAt,
			&client.TenantName,
			&client.AdminName,
		); err != nil {
			return nil, err
		}
		result = append(result, client)
	}
	return result, rows.Err()
}

func (r *clientRepository) Count(ctx context.Context, filter ClientFilter) (int, error) {
	clauses, args := clientClauses(filter)
	query := `SELECT COUNT(*) FROM clients c`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	var total int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func clientClauses(filter ClientFilter) ([]string, []any) {
	clauses := []string{}
	args := []any{}
	if filter.ID != nil {
		args = append(args, *filter.ID)
		clauses = append(clauses, fmt.Sprintf("c.id=$%d", len(args)))
	}
	if filter.TenantID != nil {
		args = append(args, *filter.TenantID)
		clauses = append(clauses, fmt.Sprintf("c.tenant_id=$%d", len(args)))
	}
	if filter.AdminID != nil {
		args = append(args, *filter.AdminID)
		clauses = append(clauses, fmt.Sprintf("c.admin_id=$%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*filter.Search))+"%")
		clauses = append(clauses, fmt.Sprintf("LOWER(c.name) LIKE $%d", len(args)))
	}
	return clauses, args
}
