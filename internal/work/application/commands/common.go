// Package commands holds the write-side handlers of the work context. Each
// handler runs in one unit of work and writes the aggregate's domain events
// to the outbox in the same transaction.
package commands

import (
	"context"
	"time"

	sharedApplication "github.com/felixgeelhaar/atelier/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/atelier/internal/shared/domain"
	"github.com/felixgeelhaar/atelier/internal/shared/infrastructure/outbox"
	vo "github.com/felixgeelhaar/atelier/internal/work/domain/value_objects"
)

// DefaultActor is recorded on events when a command names no actor.
const DefaultActor = "atelier"

// Calendar resolves "now" and "today" for handlers.
type Calendar struct {
	Clock    sharedDomain.Clock
	Location *time.Location
}

// SystemCalendar reads the wall clock in loc. A nil loc means time.Local.
func SystemCalendar(loc *time.Location) Calendar {
	return Calendar{Clock: sharedDomain.SystemClock{}, Location: loc}
}

func (c Calendar) clock() sharedDomain.Clock {
	if c.Clock == nil {
		return sharedDomain.SystemClock{}
	}
	return c.Clock
}

func (c Calendar) Now() time.Time { return c.clock().Now() }

// Today is the current date in the calendar's location.
func (c Calendar) Today() vo.Date { return vo.Today(c.clock(), c.Location) }

// dateOrToday returns d, or today when d is zero.
func (c Calendar) dateOrToday(d vo.Date) vo.Date {
	if d.IsZero() {
		return c.Today()
	}
	return d
}

func actorOrDefault(actor string) string {
	if actor == "" {
		return DefaultActor
	}
	return actor
}

// saveEvents stamps events with command metadata and writes them to the
// outbox inside the caller's transaction.
func saveEvents(ctx context.Context, repo outbox.Repository, actor string, events []sharedDomain.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(ctx, actorOrDefault(actor)))

	msgs, err := outbox.NewMessages(events)
	if err != nil {
		return err
	}
	return repo.SaveBatch(ctx, msgs)
}
