package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// EventHandler is a function that handles a domain event
type EventHandler func(ctx context.Context, event DomainEvent) error

// Publisher is the narrow interface services depend on
type Publisher interface {
	Dispatch(ctx context.Context, event DomainEvent) error
}

// Dispatcher dispatches domain events to registered handlers
type Dispatcher struct {
	handlers map[string][]EventHandler
	mu       sync.RWMutex
}

// NewDispatcher creates a new event dispatcher
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string][]EventHandler),
	}
}

// Register registers an event handler for one or more event types
func (d *Dispatcher) Register(handler EventHandler, eventTypes ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, eventType := range eventTypes {
		d.handlers[eventType] = append(d.handlers[eventType], handler)
	}
}

// Dispatch dispatches an event to all registered handlers and waits for them
func (d *Dispatcher) Dispatch(ctx context.Context, event DomainEvent) error {
	d.mu.RLock()
	handlers := d.handlers[event.EventType()]
	d.mu.RUnlock()

	if len(handlers) == 0 {
		return nil
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for _, handler := range handlers {
		wg.Add(1)
		go func(h EventHandler) {
			defer wg.Done()
			if err := h(ctx, event); err != nil {
				log.Error().Err(err).
					Str("event_type", event.EventType()).
					Str("event_id", event.EventID()).
					Msg("Error handling event")
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(handler)
	}

	wg.Wait()

	if len(errs) > 0 {
		return fmt.Errorf("errors occurred while dispatching event %s: %w", event.EventType(), errors.Join(errs...))
	}

	return nil
}

// LogHandler writes every event it receives to the global logger
func LogHandler(_ context.Context, event DomainEvent) error {
	entry := log.Info().
		Str("event_type", event.EventType()).
		Str("event_id", event.EventID()).
		Str("aggregate_id", event.AggregateID()).
		Time("occurred_at", event.OccurredAt())
	for k, v := range event.Fields() {
		entry = entry.Str(k, v)
	}
	entry.Msg("Domain event")
	return nil
}
