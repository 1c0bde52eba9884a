package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/fieldsuite/admin-service/internal/domain"
)

// InvoiceFilter defines query params for invoice listing.
type InvoiceFilter struct {
	TenantID   *string
	ClientID   *string
	ContractID *string
	Statuses   []domain.InvoiceStatus
	Search     *string
	Limit      int
	Offset     int
}

// InvoiceRepository handles persistence for invoices. Tenant and client keys
// are derived through the parent contract.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *domain.Invoice) error
	Update(ctx context.Context, invoice *domain.Invoice) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Invoice, error)
	List(ctx context.Context, filter InvoiceFilter) ([]domain.Invoice, error)
	Count(ctx context.Context, filter InvoiceFilter) (int, error)
}

type invoiceRepository struct {
	q Querier
}

// NewInvoiceRepository instantiates the repository.
func NewInvoiceRepository(q Querier) InvoiceRepository {
	return &invoiceRepository{q: q}
}

const invoiceBase = `
        SELECT i.id, i.contract_id, ct.tenant_id, ct.client_id, i.number, i.amount_cents, i.currency,
               i.status, i.due_date, i.created_at, i.updated_at, ct.name, c.name
        FROM invoices i
        JOIN contracts ct ON ct.id = i.contract_id
        JOIN clients c ON c.id = ct.client_id`

func (r *invoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	const query = `
        INSERT INTO invoices (id, contract_id, number, amount_cents, currency, status, due_date)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING created_at, updated_at`
	return r.q.QueryRow(ctx, query,
		invoice.ID,
		invoice.ContractID,
		invoice.Number,
		invoice.AmountCents,
		invoice.Currency,
		invoice.Status,
		invoice.DueDate,
	).Scan(&invoice.CreatedAt, &invoice.UpdatedAt)
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *domain.Invoice) error {
	const query = `
        UPDATE invoices SET number=$1, amount_cents=$2, currency=$3, status=$4, due_date=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.q.Exec(ctx, query,
		invoice.Number,
		invoice.AmountCents,
		invoice.Currency,
		invoice.Status,
		invoice.DueDate,
		invoice.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *invoiceRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *invoiceRepository) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	var invoice domain.Invoice
	if err := r.q.QueryRow(ctx, invoiceBase+` WHERE i.id=$1`, id).Scan(
		&invoice.ID,
		&invoice.ContractID,
		&invoice.TenantID,
		&invoice.ClientID,
		&invoice.Number,
		&invoice.AmountCents,
		&invoice.Currency,
		&invoice.Status,
		&invoice.DueDate,
		&invoice.CreatedAt,
		&invoice.UpdatedAt,
		&invoice.ContractName,
		&invoice.ClientName,
	); err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) List(ctx context.Context, filter InvoiceFilter) ([]domain.Invoice, error) {
	clauses, args := invoiceClauses(filter)
	query := invoiceBase
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY i.created_at DESC LIMIT %d OFFSET %d", normalizeLimit(filter.Limit), normalizeOffset(filter.Offset))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Invoice
	for rows.Next() {
		var invoice domain.Invoice
		if err := rows.Scan(
			&invoice.ID,
			&invoice.ContractID,
			&invoice.TenantID,
			&invoice.ClientID,
			&invoice.Number,
			&invoice.AmountCents,
			&invoice.Currency,
			&invoice.Status,
			&invoice.DueDate,
			&invoice.CreatedAt,
			&invoice.UpdatedAt,
			&invoice.ContractName,
			&invoice.ClientName,
		); err != nil {
			return nil, err
		}
		result = append(result, invoice)
	}
	return result, rows.Err()
}

func (r *invoiceRepository) Count(ctx context.Context, filter InvoiceFilter) (int, error) {
	clauses, args := invoiceClauses(filter)
	query := `SELECT COUNT(*) FROM invoices i JOIN contracts ct ON ct.id = i.contract_id`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	var total int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func invoiceClauses(filter InvoiceFilter) ([]string, []any) {
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
	if filter.ContractID != nil {
		args = append(args, *filter.ContractID)
		clauses = append(clauses, fmt.Sprintf("i.contract_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("i.status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*filter.Search))+"%")
		clauses = append(clauses, fmt.Sprintf("LOWER(i.number) LIKE $%d", len(args)))
	}
	return clauses, args
}
