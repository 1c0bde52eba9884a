package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/fieldsuite/admin-service/internal/domain"
)

// AssignmentFilter defines query params for assignment listing.
type AssignmentFilter struct {
	TenantID   *string
	EventID    *string
	EmployeeID *string
	Statuses   []domain.AssignmentStatus
	Search     *string
	Limit      int
	Offset     int
}

// AssignmentRepository handles persistence for assignments.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.Assignment) error
	Update(ctx context.Context, assignment *domain.Assignment) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Assignment, error)
	GetByEmployeeEvent(ctx context.Context, employeeID, eventID string) (*domain.Assignment, error)
	List(ctx context.Context, filter AssignmentFilter) ([]domain.Assignment, error)
	Count(ctx context.Context, filter AssignmentFilter) (int, error)
}

type assignmentRepository struct {
	q Querier
}

// NewAssignmentRepository instantiates the repository.
func NewAssignmentRepository(q Querier) AssignmentRepository {
	return &assignmentRepository{q: q}
}

const assignmentBase = `
        SELECT a.id, a.tenant_id, a.event_id, a.employee_id, a.status, a.start_date, a.end_date,
               a.created_at, a.updated_at, e.name, u.name
        FROM assignments a
        JOIN events e ON e.id = a.event_id
        JOIN users u ON u.id = a.employee_id`

func (r *assignmentRepository) Create(ctx context.Context, assignment *domain.Assignment) error {
	const query = `
        INSERT INTO assignments (id, tenant_id, event_id, employee_id, status, start_date, end_date)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING created_at, updated_at`
	return r.q.QueryRow(ctx, query,
		assignment.ID,
		assignment.TenantID,
		assignment.EventID,
		assignment.EmployeeID,
		assignment.Status,
		assignment.StartDate,
		assignment.EndDate,
	).Scan(&assignment.CreatedAt, &assignment.UpdatedAt)
}

func (r *assignmentRepository) Update(ctx context.Context, assignment *domain.Assignment) error {
	const query = `
        UPDATE assignments SET status=$1, start_date=$2, end_date=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.q.Exec(ctx, query,
		assignment.Status,
		assignment.StartDate,
		assignment.EndDate,
		assignment.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *assignmentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM assignments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *assignmentRepository) GetByID(ctx context.Context, id string) (*domain.Assignment, error) {
	return r.fetchSingle(ctx, assignmentBase+` WHERE a.id=$1`, id)
}

func (r *assignmentRepository) GetByEmployeeEvent(ctx context.Context, employeeID, eventID string) (*domain.Assignment, error) {
	const query = assignmentBase + ` WHERE a.employee_id=$1 AND a.event_id=$2`
	var assignment domain.Assignment
	if err := r.q.QueryRow(ctx, query, employeeID, eventID).Scan(
		&assignment.ID,
		&assignment.TenantID,
		&assignment.EventID,
		&assignment.EmployeeID,
		&assignment.Status,
		&assignment.StartDate,
		&assignment.EndDate,
		&assignment.CreatedAt,
		&assignment.UpdatedAt,
		&assignment.EventName,
		&assignment.EmployeeName,
	); err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Assignment, error) {
	var assignment domain.Assignment
	if err := r.q.QueryRow(ctx, query, arg).Scan(
		&assignment.ID,
		&assignment.TenantID,
		&assignment.EventID,
		&assignment.EmployeeID,
		&assignment.Status,
		&assignment.StartDate,
		&assignment.EndDate,
		&assignment.CreatedAt,
		&assignment.UpdatedAt,
		&assignment.EventName,
		&assignment.EmployeeName,
	); err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepository) List(ctx context.Context, filter AssignmentFilter) ([]domain.Assignment, error) {
	clauses, args := assignmentClauses(filter)
	query := assignmentBase
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY a.created_at DESC LIMIT %d OFFSET %d", normalizeLimit(filter.Limit), normalizeOffset(filter.Offset))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Assignment
	for rows.Next() {
		var assignment domain.Assignment
		if err := rows.Scan(
			&assignment.ID,
			&assignment.TenantID,
			&assignment.EventID,
			&assignment.EmployeeID,
			&assignment.Status,
			&assignment.StartDate,
			&assignment.EndDate,
			&assignment.CreatedAt,
			&assignment.UpdatedAt,
			&assignment.EventName,
			&assignment.EmployeeName,
		); err != nil {
			return nil, err
		}
		result = append(result, assignment)
	}
	return result, rows.Err()
}

func (r *assignmentRepository) Count(ctx context.Context, filter AssignmentFilter) (int, error) {
	clauses, args := assignmentClauses(filter)
	query := `SELECT COUNT(*) FROM assignments a JOIN events e ON e.id = a.event_id`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	var total int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func assignmentClauses(filter AssignmentFilter) ([]string, []any) {
	clauses := []string{}
	args := []any{}
	if filter.TenantID != nil {
		args = append(args, *filter.TenantID)
		clauses = append(clauses, fmt.Sprintf("a.tenant_id=$%d", len(args)))
	}
	if filter.EventID != nil {
		args = append(args, *filter.EventID)
		clauses = append(clauses, fmt.Sprintf("a.event_id=$%d", len(args)))
	}
	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		clauses = append(clauses, fmt.Sprintf("a.employee_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("a.status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*filter.Search))+"%")
		clauses = append(clauses, fmt.Sprintf("LOWER(e.name) LIKE $%d", len(args)))
	}
	return clauses, args
}
