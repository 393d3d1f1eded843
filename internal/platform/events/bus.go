// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package events is a synchronous, in-process domain event bus.

A write path publishes an event after its transaction commits; subscribers run
in registration order on the publisher's goroutine and their errors are joined
and returned to the publisher, which decides whether they are fatal.

Usage:

	bus := events.NewBus(logger)
	events.Subscribe(bus, func(ctx context.Context, e chapter.Created) error { ... })
	err := bus.Publish(ctx, chapter.Created{...})
*/
package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Event is anything with a stable name.
type Event interface {
	EventName() string
}

// Handler consumes one event.
type Handler func(ctx context.Context, event Event) error

// Bus dispatches events to subscribers by name.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *slog.Logger
}

// NewBus returns an empty bus.
func NewBus(logger *slog.Logger) *Bus {
	return &Bus{handlers: make(map[string][]Handler), logger: logger}
}

// On registers handler for events with the given name.
func (bus *Bus) On(name string, handler Handler) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.handlers[name] = append(bus.handlers[name], handler)
}

// Subscribe registers a typed handler. The event name is taken from T's zero value.
func Subscribe[T Event](bus *Bus, handler func(ctx context.Context, event T) error) {
	var zero T
	bus.On(zero.EventName(), func(ctx context.Context, event Event) error {
		typed, ok := event.(T)
		if !ok {
			return fmt.Errorf("events: %s delivered as %T", zero.EventName(), event)
		}
		return handler(ctx, typed)
	})
}

// Publish runs every handler subscribed to the event's name. All handlers run
// even if an earlier one fails; the failures are joined.
func (bus *Bus) Publish(ctx context.Context, event Event) error {
	bus.mu.RLock()
	handlers := append([]Handler(nil), bus.handlers[event.EventName()]...)
	bus.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		bus.logger.WarnContext(ctx, "event_handlers_failed",
			slog.String("event", event.EventName()),
			slog.Int("failures", len(errs)),
		)
	}
	return errors.Join(errs...)
}
