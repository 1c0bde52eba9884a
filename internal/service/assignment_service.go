package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fieldsuite/admin-service/internal/authz"
	"github.com/fieldsuite/admin-service/internal/domain"
	"github.com/fieldsuite/admin-service/internal/events"
	"github.com/fieldsuite/admin-service/internal/ids"
	"github.com/fieldsuite/admin-service/internal/repository"
	apperrors "github.com/fieldsuite/admin-service/pkg/util"
)

// AssignmentService coordinates employee-to-event assignments and their
// acceptance lifecycle.
type AssignmentService struct {
	assignments repository.AssignmentRepository
	eventsRepo  repository.EventRepository
	memberships repository.MembershipRepository
	users       repository.UserRepository
	dispatcher  events.Dispatcher
}

// AssignmentDependencies bundles requirements for the assignment service.
type AssignmentDependencies struct {
	AssignmentRepo repository.AssignmentRepository
	EventRepo      repository.EventRepository
	MembershipRepo repository.MembershipRepository
	UserRepo       repository.UserRepository
	Dispatcher     events.Dispatcher
}

// NewAssignmentService constructs the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		assignments: deps.AssignmentRepo,
		eventsRepo:  deps.EventRepo,
		memberships: deps.MembershipRepo,
		users:       deps.UserRepo,
		dispatcher:  deps.Dispatcher,
	}
}

// AssignmentCreateInput describes assignment creation payload.
type AssignmentCreateInput struct {
	EventID    string
	EmployeeID string
	StartDate  *time.Time
	EndDate    *time.Time
}

// AssignmentUpdateInput describes assignment date changes.
type AssignmentUpdateInput struct {
	StartDate *time.Time
	EndDate   *time.Time
}

// AssignmentListInput describes assignment listing parameters.
type AssignmentListInput struct {
	TenantID *string
	EventID  *string
	Statuses []domain.AssignmentStatus
	Search   *string
	Limit    int
	Offset   int
}

// List returns assignments within the actor's scope plus the total match
// count. Employees see only their own assignments.
func (s *AssignmentService) List(ctx context.Context, actor *domain.SessionUser, input AssignmentListInput) ([]domain.Assignment, int, error) {
	scope, err := authz.ResolveListScope(actor, domain.KindAssignment, input.TenantID)
	if err != nil {
		return nil, 0, err
	}

	filter := repository.AssignmentFilter{
		TenantID:   scope.TenantID,
		EmployeeID: scope.EmployeeID,
		EventID:    input.EventID,
		Statuses:   input.Statuses,
		Search:     input.Search,
		Limit:      input.Limit,
		Offset:     input.Offset,
	}
	list, err := s.assignments.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	total, err := s.assignments.Count(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	return list, total, nil
}

// Get fetches an assignment, mapping a scope miss to not found.
func (s *AssignmentService) Get(ctx context.Context, actor *domain.SessionUser, id string) (*domain.Assignment, error) {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !authz.CanAccessResource(actor, assignment.Scope()) {
		return nil, apperrors.NewNotFound("assignment", nil)
	}
	return assignment, nil
}

// Create assigns an employee to an event. The employee must belong to the
// event's tenant and must not already be assigned to the event. New
// assignments always start pending.
func (s *AssignmentService) Create(ctx context.Context, actor *domain.SessionUser, input AssignmentCreateInput) (*domain.Assignment, error) {
	if !authz.CanCreate(actor, domain.KindAssignment) {
		return nil, apperrors.NewForbidden("insufficient role")
	}

	event, err := s.eventsRepo.GetByID(ctx, input.EventID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !authz.CanAccessResource(actor, event.Scope()) {
		return nil, apperrors.NewNotFound("event", nil)
	}

	if _, err := s.memberships.GetByUserInTenant(ctx, input.EmployeeID, event.TenantID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("employee does not belong to the tenant", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if _, err := s.assignments.GetByEmployeeEvent(ctx, input.EmployeeID, event.ID); err == nil {
		return nil, apperrors.NewConflict("employee already assigned to the event", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}
	// the notification worker needs the employee's address
	employeeEmail := ""
	if s.users != nil {
		user, err := s.users.GetByID(ctx, input.EmployeeID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
		if err == nil {
			employeeEmail = user.Email
		}
	}
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return nil, apperrors.NewValidationError("end date must not precede start date", nil)
	}

	assignment := &domain.Assignment{
		ID:         ids.New("asg"),
		TenantID:   event.TenantID,
		EventID:    event.ID,
		EmployeeID: input.EmployeeID,
		Status:     domain.AssignmentStatusPending,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, apperrors.MapError(err)
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:     events.EventAssignmentCreated,
		TenantID: assignment.TenantID,
		Actor:    eventActor(actor),
		Payload: events.AssignmentCreatedPayload{
			AssignmentID:  assignment.ID,
			EventID:       event.ID,
			EventName:     event.Name,
			EmployeeID:    assignment.EmployeeID,
			EmployeeEmail: employeeEmail,
		},
	})
	return assignment, nil
}

// UpdateStatus drives the assignment lifecycle. Only the assigned employee
// answers a pending assignment; only a tenant admin of the same tenant (or
// super_admin) completes an accepted one. Terminal states never move.
func (s *AssignmentService) UpdateStatus(ctx context.Context, actor *domain.SessionUser, id string, newStatus domain.AssignmentStatus) (*domain.Assignment, error) {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !authz.CanAccessResource(actor, assignment.Scope()) {
		// An employee may address assignments inside its own tenant; the
		// transition rules below reject the attempt as FORBIDDEN. Anything
		// outside the actor's tenant stays invisible.
		if actor.Role != domain.RoleEmployee || actor.TenantID == nil || *actor.TenantID != assignment.TenantID {
			return nil, apperrors.NewNotFound("assignment", nil)
		}
	}

	if assignment.Status.Terminal() {
		return nil, apperrors.NewInvalidStatus("assignment is in a terminal state", map[string]any{
			"status": assignment.Status,
		})
	}

	oldStatus := assignment.Status
	switch {
	case oldStatus == domain.AssignmentStatusPending &&
		(newStatus == domain.AssignmentStatusAccepted || newStatus == domain.AssignmentStatusRejected):
		if actor.Role != domain.RoleEmployee || actor.ID != assignment.EmployeeID {
			return nil, apperrors.NewForbidden("only the assigned employee answers a pending assignment")
		}
	case oldStatus == domain.AssignmentStatusAccepted && newStatus == domain.AssignmentStatusCompleted:
		if actor.Role != domain.RoleSuperAdmin && actor.Role != domain.RoleTenantAdmin {
			return nil, apperrors.NewForbidden("only a tenant admin completes an assignment")
		}
	default:
		return nil, apperrors.NewInvalidStatus("illegal assignment status transition", map[string]any{
			"from": oldStatus,
			"to":   newStatus,
		})
	}

	assignment.Status = newStatus
	if err := s.assignments.Update(ctx, assignment); err != nil {
		return nil, apperrors.MapError(err)
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:     events.EventAssignmentStatusChanged,
		TenantID: assignment.TenantID,
		Actor:    eventActor(actor),
		Payload: events.AssignmentStatusChangedPayload{
			AssignmentID: assignment.ID,
			EventID:      assignment.EventID,
			EmployeeID:   assignment.EmployeeID,
			OldStatus:    oldStatus,
			NewStatus:    newStatus,
		},
	})
	return assignment, nil
}

// Update changes the assignment window. Fields other than status are
// reserved for tenant-level admins.
func (s *AssignmentService) Update(ctx context.Context, actor *domain.SessionUser, id string, input AssignmentUpdateInput) (*domain.Assignment, error) {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !authz.CanAccessResource(actor, assignment.Scope()) {
		return nil, apperrors.NewNotFound("assignment", nil)
	}
	if !authz.CanUpdate(actor, domain.KindAssignment) {
		return nil, apperrors.NewForbidden("insufficient role")
	}

	if input.StartDate != nil {
		assignment.StartDate = input.StartDate
	}
	if input.EndDate != nil {
		assignment.EndDate = input.EndDate
	}
	if assignment.StartDate != nil && assignment.EndDate != nil && assignment.EndDate.Before(*assignment.StartDate) {
		return nil, apperrors.NewValidationError("end date must not precede start date", nil)
	}

	if err := s.assignments.Update(ctx, assignment); err != nil {
		return nil, apperrors.MapError(err)
	}
	return assignment, nil
}

// Delete removes an assignment in the actor's scope.
func (s *AssignmentService) Delete(ctx context.Context, actor *domain.SessionUser, id string) error {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !authz.CanAccessResource(actor, assignment.Scope()) {
		return apperrors.NewNotFound("assignment", nil)
	}
	if !authz.CanDelete(actor, domain.KindAssignment) {
		return apperrors.NewForbidden("insufficient role")
	}
	if err := s.assignments.Delete(ctx, assignment.ID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}
