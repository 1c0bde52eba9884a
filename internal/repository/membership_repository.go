package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/fieldsuite/admin-service/internal/domain"
)

// MembershipFilter defines query params for employee membership listing.
type MembershipFilter struct {
	TenantID   *string
	BranchID   *string
	EmployeeID *string
	Search     *string
	Limit      int
	Offset     int
}

// MembershipRepository handles persistence for employee memberships.
type MembershipRepository interface {
	Create(ctx context.Context, membership *domain.Membership) error
	Update(ctx context.Context, membership *domain.Membership) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Membership, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Membership, error)
	GetByUserInTenant(ctx context.Context, userID, tenantID string) (*domain.Membership, error)
	List(ctx context.Context, filter MembershipFilter) ([]domain.Membership, error)
	Count(ctx context.Context, filter MembershipFilter) (int, error)
}

type membershipRepository struct {
	q Querier
}

// NewMembershipRepository instantiates the repository.
func NewMembershipRepository(q Querier) MembershipRepository {
	return &membershipRepository{q: q}
}

const membershipBase = `
        SELECT m.id, m.user_id, m.tenant_id, m.branch_id, m.created_at, m.updated_at,
               u.name, u.email, b.name
        FROM memberships m
        JOIN users u ON u.id = m.user_id
        LEFT JOIN branches b ON b.id = m.branch_id`

func (r *membershipRepository) Create(ctx context.Context, membership *domain.Membership) error {
	const query = `
        INSERT INTO memberships (id, user_id, tenant_id, branch_id)
        VALUES ($1,$2,$3,$4)
        RETURNING created_at, updated_at`
	return r.q.QueryRow(ctx, query,
		membership.ID,
		membership.UserID,
		membership.TenantID,
		membership.BranchID,
	).Scan(&membership.CreatedAt, &membership.UpdatedAt)
}

func (r *membershipRepository) Update(ctx context.Context, membership *domain.Membership) error {
	const query = `
        UPDATE memberships SET branch_id=$1, updated_at=NOW()
        WHERE id=$2`
	cmd, err := r.q.Exec(ctx, query, membership.BranchID, membership.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *membershipRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM memberships WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *membershipRepository) GetByID(ctx context.Context, id string) (*domain.Membership, error) {
	return r.fetchSingle(ctx, membershipBase+` WHERE m.id=$1`, id)
}

func (r *membershipRepository) GetByUserID(ctx context.Context, userID string) (*domain.Membership, error) {
	// One active tenant per employee in practice; oldest row wins.
	return r.fetchSingle(ctx, membershipBase+` WHERE m.user_id=$1 ORDER BY m.created_at LIMIT 1`, userID)
}

func (r *membershipRepository) GetByUserInTenant(ctx context.Context, userID, tenantID string) (*domain.Membership, error) {
	const query = membershipBase + ` WHERE m.user_id=$1 AND m.tenant_id=$2`
	var membership domain.Membership
	if err := r.q.QueryRow(ctx, query, userID, tenantID).Scan(
		&membership.ID,
		&membership.UserID,
		&membership.TenantID,
		&membership.BranchID,
		&membership.CreatedAt,
		&membership.UpdatedAt,
		&membership.UserName,
		&membership.UserEmail,
		&membership.BranchName,
	); err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *membershipRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Membership, error) {
	var membership domain.Membership
	if err := r.q.QueryRow(ctx, query, arg).Scan(
		&membership.ID,
		&membership.UserID,
		&membership.TenantID,
		&membership.BranchID,
		&membership.CreatedAt,
		&membership.UpdatedAt,
		&membership.UserName,
		&membership.UserEmail,
		&membership.BranchName,
	); err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *membershipRepository) List(ctx context.Context, filter MembershipFilter) ([]domain.Membership, error) {
	clauses, args := membershipClauses(filter)
	query := membershipBase
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY m.created_at DESC LIMIT %d OFFSET %d", normalizeLimit(filter.Limit), normalizeOffset(filter.Offset))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Membership
	for rows.Next() {
		var membership domain.Membership
		if err := rows.Scan(
			&membership.ID,
			&membership.UserID,
			&membership.TenantID,
			&membership.BranchID,
			&membership.CreatedAt,
			&membership.UpdatedAt,
			&membership.UserName,
			&membership.UserEmail,
			&membership.BranchName,
		); err != nil {
			return nil, err
		}
		result = append(result, membership)
	}
	return result, rows.Err()
}

func (r *membershipRepository) Count(ctx context.Context, filter MembershipFilter) (int, error) {
	clauses, args := membershipClauses(filter)
	query := `SELECT COUNT(*) FROM memberships m JOIN users u ON u.id = m.user_id`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	var total int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func membershipClauses(filter MembershipFilter) ([]string, []any) {
	clauses := []string{}
	args := []any{}
	if filter.TenantID != nil {
		args = append(args, *filter.TenantID)
		clauses = append(clauses, fmt.Sprintf("m.tenant_id=$%d", len(args)))
	}
	if filter.BranchID != nil {
		args = append(args, *filter.BranchID)
		clauses = append(clauses, fmt.Sprintf("m.branch_id=$%d", len(args)))
	}
	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		clauses = append(clauses, fmt.Sprintf("m.user_id=$%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*filter.Search))+"%")
		clauses = append(clauses, fmt.Sprintf("LOWER(u.name) LIKE $%d", len(args)))
	}
	return clauses, args
}
