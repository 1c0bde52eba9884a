package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/fieldsuite/admin-service/internal/domain"
)

// PlanFilter defines query params for plan listing. Plans are a global
// catalog; no tenant scope applies.
type PlanFilter struct {
	Search *string
	Limit  int
	Offset int
}

// PlanRepository handles persistence for subscription plans.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.Plan) error
	Update(ctx context.Context, plan *domain.Plan) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Plan, error)
	GetByName(ctx context.Context, name string) (*domain.Plan, error)
	List(ctx context.Context, filter PlanFilter) ([]domain.Plan, error)
	Count(ctx context.Context, filter PlanFilter) (int, error)
}

type planRepository struct {
	q Querier
}

// NewPlanRepository instantiates the repository.
func NewPlanRepository(q Querier) PlanRepository {
	return &planRepository{q: q}
}

const planColumns = `id, name, price_cents, currency, stripe_price_id, created_at, updated_at`

func (r *planRepository) Create(ctx context.Context, plan *domain.Plan) error {
	const query = `
        INSERT INTO plans (id, name, price_cents, currency, stripe_price_id)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING created_at, updated_at`
	return r.q.QueryRow(ctx, query,
		plan.ID,
		plan.Name,
		plan.PriceCents,
		plan.Currency,
		plan.StripePriceID,
	).Scan(&plan.CreatedAt, &plan.UpdatedAt)
}

func (r *planRepository) Update(ctx context.Context, plan *domain.Plan) error {
	const query = `
        UPDATE plans SET name=$1, price_cents=$2, currency=$3, stripe_price_id=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.q.Exec(ctx, query,
		plan.Name,
		plan.PriceCents,
		plan.Currency,
		plan.StripePriceID,
		plan.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *planRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM plans WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *planRepository) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	return r.fetchSingle(ctx, `SELECT `+planColumns+` FROM plans WHERE id=$1`, id)
}

func (r *planRepository) GetByName(ctx context.Context, name string) (*domain.Plan, error) {
	return r.fetchSingle(ctx, `SELECT `+planColumns+` FROM plans WHERE LOWER(name)=LOWER($1)`, name)
}

func (r *planRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Plan, error) {
	var plan domain.Plan
	if err := r.q.QueryRow(ctx, query, arg).Scan(
		&plan.ID,
		&plan.Name,
		&plan.PriceCents,
		&plan.Currency,
		&plan.StripePriceID,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepository) List(ctx context.Context, filter PlanFilter) ([]domain.Plan, error) {
	clauses, args := planClauses(filter)
	query := `SELECT ` + planColumns + ` FROM plans`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY price_cents ASC LIMIT %d OFFSET %d", normalizeLimit(filter.Limit), normalizeOffset(filter.Offset))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Plan
	for rows.Next() {
		var plan domain.Plan
		if err := rows.Scan(
			&plan.ID,
			&plan.Name,
			&plan.PriceCents,
			&plan.Currency,
			&plan.StripePriceID,
			&plan.CreatedAt,
			&plan.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, plan)
	}
	return result, rows.Err()
}

func (r *planRepository) Count(ctx context.Context, filter PlanFilter) (int, error) {
	clauses, args := planClauses(filter)
	query := `SELECT COUNT(*) FROM plans`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	var total int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func planClauses(filter PlanFilter) ([]string, []any) {
	clauses := []string{}
	args := []any{}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*filter.Search))+"%")
		clauses = append(clauses, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)))
	}
	return clauses, args
}
