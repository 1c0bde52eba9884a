package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/fieldsuite/admin-service/internal/domain"
)

// BranchFilter defines query params for branch listing.
type BranchFilter struct {
	TenantID     *string
	ClientID     *string
	SupervisorID *string
	Search       *string
	Limit        int
	Offset       int
}

// BranchRepository handles persistence for branches.
type BranchRepository interface {
	Create(ctx context.Context, branch *domain.Branch) error
	Update(ctx context.Context, branch *domain.Branch) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Branch, error)
	GetByNameInClient(ctx context.Context, clientID, name string) (*domain.Branch, error)
	List(ctx context.Context, filter BranchFilter) ([]domain.Branch, error)
	Count(ctx context.Context, filter BranchFilter) (int, error)
}

type branchRepository struct {
	q Querier
}

// NewBranchRepository instantiates the repository.
func NewBranchRepository(q Querier) BranchRepository {
	return &branchRepository{q: q}
}

// The tenant id is derived through the client join; branches only carry the
// client foreign key.
const branchBase = `
        SELECT b.id, b.client_id, c.tenant_id, b.name, b.address, b.supervisor_id, b.created_at, b.updated_at,
               c.name, u.name
        FROM branches b
        JOIN clients c ON c.id = b.client_id
        LEFT JOIN users u ON u.id = b.supervisor_id`

func (r *branchRepository) Create(ctx context.Context, branch *domain.Branch) error {
	const query = `
        INSERT INTO branches (id, client_id, name, address, supervisor_id)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING created_at, updated_at`
	return r.q.QueryRow(ctx, query,
		branch.ID,
		branch.ClientID,
		branch.Name,
		branch.Address,
		branch.SupervisorID,
	).Scan(&branch.CreatedAt, &branch.UpdatedAt)
}

func (r *branchRepository) Update(ctx context.Context, branch *domain.Branch) error {
	const query = `
        UPDATE branches SET name=$1, address=$2, supervisor_id=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.q.Exec(ctx, query,
		branch.Name,
		branch.Address,
		branch.SupervisorID,
		branch.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *branchRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM branches WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *branchRepository) GetByID(ctx context.Context, id string) (*domain.Branch, error) {
	return r.fetchSingle(ctx, branchBase+` WHERE b.id=$1`, id)
}

func (r *branchRepository) GetByNameInClient(ctx context.Context, clientID, name string) (*domain.Branch, error) {
	const query = branchBase + ` WHERE b.client_id=$1 AND LOWER(b.name)=LOWER($2)`
	var branch domain.Branch
	if err := r.q.QueryRow(ctx, query, clientID, name).Scan(
		&branch.ID,
		&branch.ClientID,
		&branch.TenantID,
		&branch.Name,
		&branch.Address,
		&branch.SupervisorID,
		&branch.CreatedAt,
		&branch.UpdatedAt,
		&branch.ClientName,
		&branch.SupervisorName,
	); err != nil {
		return nil, err
	}
	return &branch, nil
}

func (r *branchRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Branch, error) {
	var branch domain.Branch
	if err := r.q.QueryRow(ctx, query, arg).Scan(
		&branch.ID,
		&branch.ClientID,
		&branch.TenantID,
		&branch.Name,
		&branch.Address,
		&branch.SupervisorID,
		&branch.CreatedAt,
		&branch.UpdatedAt,
		&branch.ClientName,
		&branch.SupervisorName,
	); err != nil {
		return nil, err
	}
	return &branch, nil
}

func (r *branchRepository) List(ctx context.Context, filter BranchFilter) ([]domain.Branch, error) {
	clauses, args := branchClauses(filter)
	query := branchBase
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY b.created_at DESC LIMIT %d OFFSET %d", normalizeLimit(filter.Limit), normalizeOffset(filter.Offset))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Branch
	for rows.Next() {
		var branch domain.Branch
		if err := rows.Scan(
			&branch.ID,
			&branch.ClientID,
			&branch.TenantID,
			&branch.Name,
			&branch.Address,
			&branch.SupervisorID,
			&branch.CreatedAt,
			&branch.UpdatedAt,
			&branch.ClientName,
			&branch.SupervisorName,
		); err != nil {
			return nil, err
		}
		result = append(result, branch)
	}
	return result, rows.Err()
}

func (r *branchRepository) Count(ctx context.Context, filter BranchFilter) (int, error) {
	clauses, args := branchClauses(filter)
	query := `SELECT COUNT(*) FROM branches b JOIN clients c ON c.id = b.client_id`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	var total int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func branchClauses(filter BranchFilter) ([]string, []any) {
	clauses := []string{}
	args := []any{}
	if filter.TenantID != nil {
		args = append(args, *filter.TenantID)
		clauses = append(clauses, fmt.Sprintf("c.tenant_id=$%d", len(args)))
	}
	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		clauses = append(clauses, fmt.Sprintf("b.client_id=$%d", len(args)))
	}
	if filter.SupervisorID != nil {
		args = append(args, *filter.SupervisorID)
		clauses = append(clauses, fmt.Sprintf("b.supervisor_id=$%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*filter.Search))+"%")
		clauses = append(clauses, fmt.Sprintf("LOWER(b.name) LIKE $%d", len(args)))
	}
	return clauses, args
}
