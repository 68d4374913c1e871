package workers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/atelier/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/atelier/internal/work/domain/task"
	"github.com/felixgeelhaar/atelier/pkg/observability"
)

// EventMetricsConsumer counts every work event it receives by routing key
// and sums tracked time. It runs behind the in-process bus when no broker
// is configured.
type EventMetricsConsumer struct {
	metrics observability.Metrics
	logger  *slog.Logger
}

// NewEventMetricsConsumer creates a new EventMetricsConsumer.
func NewEventMetricsConsumer(metrics observability.Metrics, logger *slog.Logger) *EventMetricsConsumer {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EventMetricsConsumer{metrics: metrics, logger: logger}
}

// EventTypes implements eventbus.EventConsumer.
func (c *EventMetricsConsumer) EventTypes() []string {
	return []string{"work.#"}
}

// Handle implements eventbus.EventConsumer.
func (c *EventMetricsConsumer) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	c.metrics.Counter(observability.MetricEventsConsumed, 1,
		observability.T("routing_key", event.RoutingKey),
	)

	if event.RoutingKey != task.RoutingKeyTimeTracked {
		return nil
	}
	var tracked task.TaskTimeTracked
	if err := event.DecodeData(&tracked); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", event.RoutingKey, err)
	}
	c.metrics.Counter(observability.MetricTrackedSeconds, tracked.AddedSeconds)
	c.logger.DebugContext(ctx, "time tracked",
		"task_id", tracked.TaskID,
		"added_seconds", tracked.AddedSeconds,
	)
	return nil
}
