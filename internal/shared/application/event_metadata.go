package application

import (
	"context"

	"github.com/felixgeelhaar/atelier/internal/shared/domain"
	"github.com/felixgeelhaar/atelier/pkg/observability"
	"github.com/google/uuid"
)

// NewEventMetadata creates command-scoped metadata for domain events.
// The correlation id is taken from the context when one is present.
func NewEventMetadata(ctx context.Context, actor string) domain.EventMetadata {
	correlationID := observability.CorrelationIDFromContext(ctx)
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	return domain.EventMetadata{
		CorrelationID: correlationID,
		CausationID:   uuid.NewString(),
		Actor:         actor,
	}
}

// ApplyEventMetadata sets metadata on all events.
func ApplyEventMetadata(events []domain.DomainEvent, metadata domain.EventMetadata) {
	for _, event := range events {
		event.SetMetadata(metadata)
	}
}
