package eventbus

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"
)

type registration struct {
	id       int
	pattern  string
	consumer EventConsumer
}

// ConsumerRegistry manages event consumers and dispatches events to them.
// Patterns follow AMQP topic rules: "*" matches one word, "#" zero or more.
type ConsumerRegistry struct {
	registrations []registration
	nextID        int
	mu            sync.RWMutex
	logger        *slog.Logger
}

// NewConsumerRegistry creates a new consumer registry.
func NewConsumerRegistry(logger *slog.Logger) *ConsumerRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsumerRegistry{logger: logger}
}

// Register adds a consumer for its declared event types.
func (r *ConsumerRegistry) Register(consumer EventConsumer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	for _, pattern := range consumer.EventTypes() {
		r.registrations = append(r.registrations, registration{id: r.nextID, pattern: pattern, consumer: consumer})
		r.logger.Debug("registered consumer for event type",
			"event_type", pattern,
		)
	}
}

// GetConsumers returns every consumer with a pattern matching routingKey,
// once each, in registration order.
func (r *ConsumerRegistry) GetConsumers(routingKey string) []EventConsumer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		consumers []EventConsumer
		seen      []int
	)
	for _, reg := range r.registrations {
		if slices.Contains(seen, reg.id) || !MatchRoutingKey(reg.pattern, routingKey) {
			continue
		}
		seen = append(seen, reg.id)
		consumers = append(consumers, reg.consumer)
	}
	return consumers
}

// GetAllEventTypes returns all registered patterns, sorted and unique.
func (r *ConsumerRegistry) GetAllEventTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.registrations))
	for _, reg := range r.registrations {
		types = append(types, reg.pattern)
	}
	slices.Sort(types)
	return slices.Compact(types)
}

// Dispatch sends an event to all registered consumers for its routing key.
// Every consumer runs even when an earlier one fails; the failures are joined.
func (r *ConsumerRegistry) Dispatch(ctx context.Context, event *ConsumedEvent) error {
	consumers := r.GetConsumers(event.RoutingKey)

	if len(consumers) == 0 {
		r.logger.Debug("no consumers for event type",
			"routing_key", event.RoutingKey,
		)
		return nil
	}

	var errs []error
	for _, consumer := range consumers {
		if err := consumer.Handle(ctx, event); err != nil {
			r.logger.Error("consumer failed to handle event",
				"routing_key", event.RoutingKey,
				"event_id", event.EventID,
				"error", err,
			)
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// ConsumerCount returns the number of registered consumer instances.
func (r *ConsumerRegistry) ConsumerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nextID
}

// MatchRoutingKey reports whether key matches an AMQP topic pattern.
func MatchRoutingKey(pattern, key string) bool {
	return matchWords(strings.Split(pattern, "."), strings.Split(key, "."))
}

func matchWords(pattern, key []string) bool {
	if len(pattern) == 0 {
		return len(key) == 0
	}
	switch pattern[0] {
	case "#":
		for i := 0; i <= len(key); i++ {
			if matchWords(pattern[1:], key[i:]) {
				return true
			}
		}
		return false
	case "*":
		return len(key) > 0 && matchWords(pattern[1:], key[1:])
	default:
		return len(key) > 0 && pattern[0] == key[0] && matchWords(pattern[1:], key[1:])
	}
}
