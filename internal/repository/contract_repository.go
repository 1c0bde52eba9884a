package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/fieldsuite/admin-service/internal/domain"
)

// ContractFilter defines query params for contract listing.
type ContractFilter struct {
	TenantID *string
	ClientID *string
	Statuses []domain.ContractStatus
	Search   *string
	Limit    int
	Offset   int
}

// ContractRepository handles persistence for contracts.
type ContractRepository interface {
	Create(ctx context.Context, contract *domain.Contract) error
	Update(ctx context.Context, contract *domain.Contract) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Contract, error)
	List(ctx context.Context, filter ContractFilter) ([]domain.Contract, error)
	Count(ctx context.Context, filter ContractFilter) (int, error)
	WithTx(tx pgx.Tx) ContractRepository
}

type contractRepository struct {
	q Querier
}

// NewContractRepository instantiates the repository.
func NewContractRepository(q Querier) ContractRepository {
	return &contractRepository{q: q}
}

func (r *contractRepository) WithTx(tx pgx.Tx) ContractRepository {
	return &contractRepository{q: tx}
}

const contractBase = `
        SELECT ct.id, ct.tenant_id, ct.client_id, ct.name, ct.status, ct.start_date, ct.end_date,
               ct.created_at, ct.updated_at, c.name
        FROM contracts ct
        JOIN clients c ON c.id = ct.client_id`

func (r *contractRepository) Create(ctx context.Context, contract *domain.Contract) error {
	const query = `
        INSERT INTO contracts (id, tenant_id, client_id, name, status, start_date, end_date)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING created_at, updated_at`
	return r.q.QueryRow(ctx, query,
		contract.ID,
		contract.TenantID,
		contract.ClientID,
		contract.Name,
		contract.Status,
		contract.StartDate,
		contract.EndDate,
	).Scan(&contract.CreatedAt, &contract.UpdatedAt)
}

func (r *contractRepository) Update(ctx context.Context, contract *domain.Contract) error {
	const query = `
        UPDATE contracts SET name=$1, status=$2, start_date=$3, end_date=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.q.Exec(ctx, query,
		contract.Name,
		contract.Status,
		contract.StartDate,
		contract.EndDate,
		contract.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *contractRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM contracts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *contractRepository) GetByID(ctx context.Context, id string) (*domain.Contract, error) {
	var contract domain.Contract
	if err := r.q.QueryRow(ctx, contractBase+` WHERE ct.id=$1`, id).Scan(
		&contract.ID,
		&contract.TenantID,
		&contract.ClientID,
		&contract.Name,
		&contract.Status,
		&contract.StartDate,
		&contract.EndDate,
		&contract.CreatedAt,
		&contract.UpdatedAt,
		&contract.ClientName,
	); err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) List(ctx context.Context, filter ContractFilter) ([]domain.Contract, error) {
	clauses, args := contractClauses(filter)
	query := contractBase
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY ct.created_at DESC LIMIT %d OFFSET %d", normalizeLimit(filter.Limit), normalizeOffset(filter.Offset))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Contract
	for rows.Next() {
		var contract domain.Contract
		if err := rows.Scan(
			&contract.ID,
			&contract.TenantID,
			&contract.ClientID,
			&contract.Name,
			&contract.Status,
			&contract.StartDate,
			&contract.EndDate,
			&contract.CreatedAt,
			&contract.UpdatedAt,
			&contract.ClientName,
		); err != nil {
			return nil, err
		}
		result = append(result, contract)
	}
	return result, rows.Err()
}

func (r *contractRepository) Count(ctx context.Context, filter ContractFilter) (int, error) {
	clauses, args := contractClauses(filter)
	query := `SELECT COUNT(*) FROM contracts ct`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	var total int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func contractClauses(filter ContractFilter) ([]string, []any) {
	clauses := []string{}
	args := []any{}
	if filter.TenantID != nil {
		args = append(args, *filter.TenantID)
		clauses = append(clauses, fmt.Sprintf("ct.tenant_id=$%d", len(args)))
	}
	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		clauses = append(clauses, fmt.Sprintf("ct.client_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("ct.status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*filter.Search))+"%")
		clauses = append(clauses, fmt.Sprintf("LOWER(ct.name) LIKE $%d", len(args)))
	}
	return clauses, args
}
