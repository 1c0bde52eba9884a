package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fieldsuite/admin-service/internal/domain"
)

// EventFilter defines query params for event listing. EmployeeID restricts
// results to events the employee is assigned to.
type EventFilter struct {
	TenantID   *string
	ClientID   *string
	BranchID   *string
	EmployeeID *string
	Statuses   []domain.EventStatus
	StartFrom  *time.Time
	StartTo    *time.Time
	Search     *string
	Limit      int
	Offset     int
}

// EventRepository handles persistence for events.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	Update(ctx context.Context, event *domain.Event) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	GetByNameInClient(ctx context.Context, clientID, name string) (*domain.Event, error)
	List(ctx context.Context, filter EventFilter) ([]domain.Event, error)
	Count(ctx context.Context, filter EventFilter) (int, error)
}

type eventRepository struct {
	q Querier
}

// NewEventRepository instantiates the repository.
func NewEventRepository(q Querier) EventRepository {
	return &eventRepository{q: q}
}

const eventBase = `
        SELECT e.id, e.tenant_id, e.client_id, e.branch_id, e.name, e.status, e.start_time, e.end_time,
               e.created_at, e.updated_at, c.name, b.name
        FROM events e
        JOIN clients c ON c.id = e.client_id
        JOIN branches b ON b.id = e.branch_id`

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	const query = `
        INSERT INTO events (id, tenant_id, client_id, branch_id, name, status, start_time, end_time)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING created_at, updated_at`
	return r.q.QueryRow(ctx, query,
		event.ID,
		event.TenantID,
		event.ClientID,
		event.BranchID,
		event.Name,
		event.Status,
		event.StartTime,
		event.EndTime,
	).Scan(&event.CreatedAt, &event.UpdatedAt)
}

func (r *eventRepository) Update(ctx context.Context, event *domain.Event) error {
	const query = `
        UPDATE events SET name=$1, status=$2, start_time=$3, end_time=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.q.Exec(ctx, query,
		event.Name,
		event.Status,
		event.StartTime,
		event.EndTime,
		event.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM events WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	return r.fetchSingle(ctx, eventBase+` WHERE e.id=$1`, id)
}

func (r *eventRepository) GetByNameInClient(ctx context.Context, clientID, name string) (*domain.Event, error) {
	const query = eventBase + ` WHERE e.client_id=$1 AND LOWER(e.name)=LOWER($2)`
	var event domain.Event
	if err := r.q.QueryRow(ctx, query, clientID, name).Scan(
		&event.ID,
		&event.TenantID,
		&event.ClientID,
		&event.BranchID,
		&event.Name,
		&event.Status,
		&event.StartTime,
		&event.EndTime,
		&event.CreatedAt,
		&event.UpdatedAt,
		&event.ClientName,
		&event.BranchName,
	); err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Event, error) {
	var event domain.Event
	if err := r.q.QueryRow(ctx, query, arg).Scan(
		&event.ID,
		&event.TenantID,
		&event.ClientID,
		&event.BranchID,
		&event.Name,
		&event.Status,
		&event.StartTime,
		&event.EndTime,
		&event.CreatedAt,
		&event.UpdatedAt,
		&event.ClientName,
		&event.BranchName,
	); err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) List(ctx context.Context, filter EventFilter) ([]domain.Event, error) {
	clauses, args := eventClauses(filter)
	query := eventBase
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY e.start_time DESC LIMIT %d OFFSET %d", normalizeLimit(filter.Limit), normalizeOffset(filter.Offset))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Event
	for rows.Next() {
		var event domain.Event
		if err := rows.Scan(
			&event.ID,
			&event.TenantID,
			&event.ClientID,
			&event.BranchID,
			&event.Name,
			&event.Status,
			&event.StartTime,
			&event.EndTime,
			&event.CreatedAt,
			&event.UpdatedAt,
			&event.ClientName,
			&event.BranchName,
		); err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	return result, rows.Err()
}

func (r *eventRepository) Count(ctx context.Context, filter EventFilter) (int, error) {
	clauses, args := eventClauses(filter)
	query := `SELECT COUNT(*) FROM events e`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	var total int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func eventClauses(filter EventFilter) ([]string, []any) {
	clauses := []string{}
	args := []any{}
	if filter.TenantID != nil {
		args = append(args, *filter.TenantID)
		clauses = append(clauses, fmt.Sprintf("e.tenant_id=$%d", len(args)))
	}
	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		clauses = append(clauses, fmt.Sprintf("e.client_id=$%d", len(args)))
	}
	if filter.BranchID != nil {
		args = append(args, *filter.BranchID)
		clauses = append(clauses, fmt.Sprintf("e.branch_id=$%d", len(args)))
	}
	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		clauses = append(clauses, fmt.Sprintf("EXISTS (SELECT 1 FROM assignments a WHERE a.event_id = e.id AND a.employee_id=$%d)", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("e.status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.StartFrom != nil {
		args = append(args, *filter.StartFrom)
		clauses = append(clauses, fmt.Sprintf("e.start_time >= $%d", len(args)))
	}
	if filter.StartTo != nil {
		args = append(args, *filter.StartTo)
		clauses = append(clauses, fmt.Sprintf("e.start_time <= $%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*filter.Search))+"%")
		clauses = append(clauses, fmt.Sprintf("LOWER(e.name) LIKE $%d", len(args)))
	}
	return clauses, args
}
