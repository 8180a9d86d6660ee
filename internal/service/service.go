// Package service implements the inventory/consistency engine: the business
// rules that keep entity state consistent. Uniqueness, referential integrity,
// stock non-negativity and cross-entity reference resolution are all enforced
// here, before any store write; the database carries only partial unique
// constraints as a backstop.
package service

// Event topics published on the process-local bus.
const (
	TopicStockLow = "stock.low"
)

// EventPublisher is the slice of the event bus the services need.
// *EventBus.EventBus satisfies it.
type EventPublisher interface {
	Publish(topic string, args ...interface{})
}

// nopPublisher is used when no bus is wired (tests, CLI tools).
type nopPublisher struct{}

func (nopPublisher) Publish(string, ...interface{}) {}
