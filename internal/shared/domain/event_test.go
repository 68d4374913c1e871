package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/felixgeelhaar/atelier/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payloadEvent struct {
	domain.BaseEvent
	Title string `json:"title"`
}

func TestNewBaseEvent(t *testing.T) {
	aggregateID := uuid.New()
	occurred := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

	event := domain.NewBaseEvent(aggregateID, "Task", "work.task.created", occurred)

	assert.NotEqual(t, uuid.Nil, event.EventID())
	assert.Equal(t, aggregateID, event.AggregateID())
	assert.Equal(t, "Task", event.AggregateType())
	assert.Equal(t, "work.task.created", event.RoutingKey())
	assert.Equal(t, occurred, event.OccurredAt())
}

func TestMarshalEnvelope(t *testing.T) {
	event := &payloadEvent{
		BaseEvent: domain.NewBaseEvent(uuid.New(), "Task", "work.task.created", time.Now()),
		Title:     "Glaze test tiles",
	}
	event.SetMetadata(domain.EventMetadata{CorrelationID: "corr-1", Actor: "cli"})

	raw, err := domain.MarshalEnvelope(event)
	require.NoError(t, err)

	var env domain.Envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.Equal(t, event.EventID(), env.EventID)
	assert.Equal(t, "work.task.created", env.RoutingKey)
	assert.Equal(t, "corr-1", env.Metadata.CorrelationID)
	assert.JSONEq(t, `{"title":"Glaze test tiles"}`, string(env.Data))
}
