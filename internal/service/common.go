package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fieldsuite/admin-service/internal/domain"
	"github.com/fieldsuite/admin-service/internal/events"
)

// publish stamps and dispatches an event, swallowing dispatcher absence.
func publish(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = dispatcher.Publish(ctx, event)
}

func eventActor(actor *domain.SessionUser) events.Actor {
	if actor == nil {
		return events.Actor{}
	}
	return events.Actor{UserID: actor.ID, Role: actor.Role}
}
