package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fieldsuite/admin-service/internal/authz"
	"github.com/fieldsuite/admin-service/internal/domain"
	"github.com/fieldsuite/admin-service/internal/events"
	"github.com/fieldsuite/admin-service/internal/ids"
	"github.com/fieldsuite/admin-service/internal/repository"
	apperrors "github.com/fieldsuite/admin-service/pkg/util"
)

// EventService coordinates scheduled event workflows.
type EventService struct {
	events     repository.EventRepository
	branches   repository.BranchRepository
	dispatcher events.Dispatcher
}

// NewEventService constructs the service.
func NewEventService(eventRepo repository.EventRepository, branchRepo repository.BranchRepository, dispatcher events.Dispatcher) *EventService {
	return &EventService{events: eventRepo, branches: branchRepo, dispatcher: dispatcher}
}

// EventCreateInput describes event creation payload.
type EventCreateInput struct {
	BranchID  string
	Name      string
	StartTime time.Time
	EndTime   time.Time
}

// EventUpdateInput describes event update payload.
type EventUpdateInput struct {
	Name      *string
	Status    *domain.EventStatus
	StartTime *time.Time
	EndTime   *time.Time
}

// EventListInput describes event listing parameters.
type EventListInput struct {
	TenantID  *string
	ClientID  *string
	BranchID  *string
	Statuses  []domain.EventStatus
	StartFrom *time.Time
	StartTo   *time.Time
	Search    *string
	Limit     int
	Offset    int
}

var eventTransitions = map[domain.EventStatus][]domain.EventStatus{
	domain.EventStatusScheduled: {domain.EventStatusOngoing, domain.EventStatusCancelled},
	domain.EventStatusOngoing:   {domain.EventStatusCompleted, domain.EventStatusCancelled},
	domain.EventStatusCompleted: {},
	domain.EventStatusCancelled: {},
}

func eventTransitionAllowed(current, next domain.EventStatus) bool {
	for _, candidate := range eventTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// List returns events within the actor's scope plus the total match count.
// Employees see only events they are assigned to.
func (s *EventService) List(ctx context.Context, actor *domain.SessionUser, input EventListInput) ([]domain.Event, int, error) {
	scope, err := authz.ResolveListScope(actor, domain.KindEvent, input.TenantID)
	if err != nil {
		return nil, 0, err
	}

	filter := repository.EventFilter{
		TenantID:   scope.TenantID,
		ClientID:   scope.ClientID,
		EmployeeID: scope.EmployeeID,
		BranchID:   input.BranchID,
		Statuses:   input.Statuses,
		StartFrom:  input.StartFrom,
		StartTo:    input.StartTo,
		Search:     input.Search,
		Limit:      input.Limit,
		Offset:     input.Offset,
	}
	if filter.ClientID == nil {
		filter.ClientID = input.ClientID
	}
	list, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	total, err := s.events.Count(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	return list, total, nil
}

// Get fetches an event, mapping a scope miss to not found.
func (s *EventService) Get(ctx context.Context, actor *domain.SessionUser, id string) (*domain.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !authz.CanAccessResource(actor, event.Scope()) {
		return nil, apperrors.NewNotFound("event", nil)
	}
	return event, nil
}

// Create schedules an event at a branch the actor controls.
func (s *EventService) Create(ctx context.Context, actor *domain.SessionUser, input EventCreateInput) (*domain.Event, error) {
	if !authz.CanCreate(actor, domain.KindEvent) {
		return nil, apperrors.NewForbidden("insufficient role")
	}

	branch, err := s.branches.GetByID(ctx, input.BranchID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !authz.CanAccessResource(actor, branch.Scope()) {
		return nil, apperrors.NewNotFound("branch", nil)
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	if !input.StartTime.Before(input.EndTime) {
		return nil, apperrors.NewValidationError("start time must be before end time", nil)
	}
	if _, err := s.events.GetByNameInClient(ctx, branch.ClientID, name); err == nil {
		return nil, apperrors.NewDuplicateName("EVENT", map[string]any{"name": name})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	event := &domain.Event{
		ID:        ids.New("evt"),
		TenantID:  branch.TenantID,
		ClientID:  branch.ClientID,
		BranchID:  branch.ID,
		Name:      name,
		Status:    domain.EventStatusScheduled,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, apperrors.MapError(err)
	}
	return event, nil
}

// Update applies changes to an event, enforcing the status lifecycle and
// the start-before-end invariant.
func (s *EventService) Update(ctx context.Context, actor *domain.SessionUser, id string, input EventUpdateInput) (*domain.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !authz.CanAccessResource(actor, event.Scope()) {
		return nil, apperrors.NewNotFound("event", nil)
	}
	if !authz.CanUpdate(actor, domain.KindEvent) {
		return nil, apperrors.NewForbidden("insufficient role")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name is required", nil)
		}
		if existing, err := s.events.GetByNameInClient(ctx, event.ClientID, name); err == nil && existing.ID != event.ID {
			return nil, apperrors.NewDuplicateName("EVENT", map[string]any{"name": name})
		} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
		event.Name = name
	}

	start := event.StartTime
	end := event.EndTime
	if input.StartTime != nil {
		start = *input.StartTime
	}
	if input.EndTime != nil {
		end = *input.EndTime
	}
	if !start.Before(end) {
		return nil, apperrors.NewValidationError("start time must be before end time", nil)
	}
	event.StartTime = start
	event.EndTime = end

	oldStatus := event.Status
	if input.Status != nil && *input.Status != event.Status {
		if !eventTransitionAllowed(event.Status, *input.Status) {
			return nil, apperrors.NewInvalidStatus("illegal event status transition", map[string]any{
				"from": oldStatus,
				"to":   *input.Status,
			})
		}
		event.Status = *input.Status
	}

	if err := s.events.Update(ctx, event); err != nil {
		return nil, apperrors.MapError(err)
	}

	if event.Status != oldStatus {
		publish(ctx, s.dispatcher, events.Event{
			Type:     events.EventEventStatusChanged,
			TenantID: event.TenantID,
			Actor:    eventActor(actor),
			Payload: events.EventStatusChangedPayload{
				EventID:   event.ID,
				EventName: event.Name,
				OldStatus: oldStatus,
				NewStatus: event.Status,
			},
		})
	}
	return event, nil
}

// Delete removes an event in the actor's scope.
func (s *EventService) Delete(ctx context.Context, actor *domain.SessionUser, id string) error {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !authz.CanAccessResource(actor, event.Scope()) {
		return apperrors.NewNotFound("event", nil)
	}
	if !authz.CanDelete(actor, domain.KindEvent) {
		return apperrors.NewForbidden("insufficient role")
	}
	if err := s.events.Delete(ctx, event.ID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}
