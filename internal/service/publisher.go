package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/grocery-service/internal/domain"
	"github.com/spec-kit/grocery-service/internal/events"
)

// eventPublisher fills event metadata and publishes after the write has committed.
// Subscriber failures are logged, never returned to the caller.
type eventPublisher struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

func newEventPublisher(dispatcher events.Dispatcher, logger *zap.Logger) eventPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return eventPublisher{dispatcher: dispatcher, logger: logger, now: time.Now}
}

func (p eventPublisher) publish(ctx context.Context, event events.Event) {
	if p.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}
	if err := p.dispatcher.Publish(ctx, event); err != nil {
		p.logger.Warn("event subscribers failed",
			zap.String("event_type", string(event.Type)),
			zap.String("order_id", event.OrderID),
			zap.Error(err))
	}
}

func eventActor(actor *domain.Actor) events.Actor {
	if actor == nil {
		return events.Actor{}
	}
	id := actor.ID
	return events.Actor{ID: &id, Role: actor.Role}
}

func ptrBool(v bool) *bool {
	return &v
}

func ptrString(v string) *string {
	return &v
}
