package ddd

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
}

type EventHandlerFunc func(ctx context.Context, event DomainEvent) error

func (f EventHandlerFunc) Handle(ctx context.Context, event DomainEvent) error {
	return f(ctx, event)
}

// Mediator routes domain events to the handlers subscribed to their names.
// Handlers run synchronously in subscription order; a failing handler does not
// stop the others and all failures are returned joined.
type Mediator struct {
	mu       sync.RWMutex
	handlers map[string][]EventHandler
}

func NewMediator() *Mediator {
	return &Mediator{handlers: make(map[string][]EventHandler)}
}

func (m *Mediator) Subscribe(handler EventHandler, eventNames ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, name := range eventNames {
		m.handlers[name] = append(m.handlers[name], handler)
	}
}

func (m *Mediator) Publish(ctx context.Context, events ...DomainEvent) error {
	var errs []error
	for _, event := range events {
		m.mu.RLock()
		handlers := append([]EventHandler(nil), m.handlers[event.EventName()]...)
		m.mu.RUnlock()

		for _, h := range handlers {
			if err := h.Handle(ctx, event); err != nil {
				errs = append(errs, fmt.Errorf("handle %s: %w", event.EventName(), err))
			}
		}
	}
	return errors.Join(errs...)
}
