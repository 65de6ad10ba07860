package propagation

import (
	"context"
	"slices"

	"game-catalog/feature/catalog"

	"gorm.io/gorm"
)

// EventType names a source record lifecycle transition.
type EventType string

const (
	EventCreated  EventType = "source.created"
	EventUpdated  EventType = "source.updated"
	EventDeleted  EventType = "source.deleted"
	EventRestored EventType = "source.restored"
)

// WatchedFields are the source columns whose change re-triggers propagation.
var WatchedFields = []string{
	"name", "description", "rating", "release_date",
	"developer", "publisher", "genre", "platform",
}

// Event is one lifecycle transition of a source record. Changed lists the
// columns an update modified.
type Event struct {
	Type    EventType
	Source  *catalog.SourceRecord
	Changed []string
}

// WatchedChanged reports whether any watched column changed.
func (e Event) WatchedChanged() bool {
	for _, field := range e.Changed {
		if slices.Contains(WatchedFields, field) {
			return true
		}
	}
	return false
}

// HandlerFunc reacts to an event inside the triggering transaction.
type HandlerFunc func(ctx context.Context, tx *gorm.DB, ev Event) error

// Binding subscribes a handler to one event type.
type Binding struct {
	Event   EventType
	Handler HandlerFunc
}

// Pipeline dispatches events to handlers registered at construction.
type Pipeline struct {
	handlers map[EventType][]HandlerFunc
}

// NewPipeline builds a pipeline from a fixed binding list. Handlers for one
// event run in registration order.
func NewPipeline(bindings ...Binding) *Pipeline {
	p := &Pipeline{handlers: make(map[EventType][]HandlerFunc)}
	for _, b := range bindings {
		p.handlers[b.Event] = append(p.handlers[b.Event], b.Handler)
	}
	return p
}

// Dispatch runs every handler bound to ev.Type and stops at the first error.
func (p *Pipeline) Dispatch(ctx context.Context, tx *gorm.DB, ev Event) error {
	for _, h := range p.handlers[ev.Type] {
		if err := h(ctx, tx, ev); err != nil {
			return err
		}
	}
	return nil
}

// Bound reports whether any handler listens to t.
func (p *Pipeline) Bound(t EventType) bool {
	return len(p.handlers[t]) > 0
}
