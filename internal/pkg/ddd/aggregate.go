package ddd

// EventSource is implemented by aggregates that record domain events.
type EventSource interface {
	DomainEvents() []DomainEvent
	ClearDomainEvents()
}

// AggregateRoot records events raised by an aggregate until they are collected.
type AggregateRoot struct {
	events []DomainEvent
}

func (a *AggregateRoot) RaiseDomainEvent(event DomainEvent) {
	a.events = append(a.events, event)
}

func (a *AggregateRoot) DomainEvents() []DomainEvent {
	out := make([]DomainEvent, len(a.events))
	copy(out, a.events)
	return out
}

func (a *AggregateRoot) ClearDomainEvents() {
	a.events = nil
}
