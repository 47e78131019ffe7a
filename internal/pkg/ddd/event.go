// Package ddd provides the small building blocks shared by aggregates: domain events,
// an embeddable event recorder and an in-process mediator that dispatches events to
// subscribers after a unit of work commits.
package ddd

import (
	"time"

	"github.com/google/uuid"
)

type DomainEvent interface {
	EventID() uuid.UUID
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent carries the metadata every domain event has. Concrete events embed it.
type BaseEvent struct {
	id         uuid.UUID
	name       string
	occurredAt time.Time
}

func NewBaseEvent(name string) BaseEvent {
	return BaseEvent{id: uuid.New(), name: name, occurredAt: time.Now().UTC()}
}

func (e BaseEvent) EventID() uuid.UUID {
	return e.id
}

func (e BaseEvent) EventName() string {
	return e.name
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.occurredAt
}
