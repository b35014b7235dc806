// Package eventbus implements the runtime's lifecycle event bus: a
// publish/subscribe fan-out that decouples event producers (the execution
// loop, the module registry) from consumers (plugins, telemetry sinks,
// loggers). Grounded in the teacher pack's goa-ai hooks package, adapted
// from its workflow-run vocabulary to this runtime's execution/module
// vocabulary (spec.md §4 "Event Bus").
package eventbus

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// EventType enumerates the well-known events the runtime broadcasts.
type EventType string

const (
	ExecutionStart    EventType = "execution.start"
	ExecutionComplete EventType = "execution.complete"
	ExecutionError    EventType = "execution.error"

	ModuleInitialize      EventType = "module.initialize"
	ModuleExecution       EventType = "module.execution"
	ModuleDisposeStart    EventType = "module.dispose.start"
	ModuleDisposeComplete EventType = "module.dispose.complete"
	ModuleDisposeError    EventType = "module.dispose.error"
)

// Event is the payload published on the bus.
type Event struct {
	Type           EventType
	ConversationID string
	Timestamp      time.Time
	Payload        any
}

// Subscriber receives events published on a Bus.
type Subscriber interface {
	HandleEvent(ctx context.Context, event Event) error
}

// SubscriberFunc adapts an ordinary function into a Subscriber.
type SubscriberFunc func(ctx context.Context, event Event) error

// HandleEvent implements Subscriber by invoking the function.
func (fn SubscriberFunc) HandleEvent(ctx context.Context, event Event) error {
	return fn(ctx, event)
}

// Subscription is a handle returned by Bus.Register; closing it
// unregisters the subscriber.
type Subscription struct {
	bus *Bus
	id  int
}

// Close unregisters the subscriber this subscription was returned for.
// Closing twice is a no-op.
func (s *Subscription) Close() error {
	s.bus.unregister(s.id)
	return nil
}

// Bus is a per-agent, in-process publish/subscribe fan-out (spec.md §7
// "Shared resources": the event bus is a per-agent instance, not a
// singleton). Subscribers are invoked in registration order; a subscriber
// that returns an error is logged and skipped, never aborting the publish
// for the rest (mirrors the plugin pipeline's failure isolation).
type Bus struct {
	logger *slog.Logger

	mu     sync.Mutex
	nextID int
	order  []int
	subs   map[int]Subscriber
}

// NewBus constructs an empty event bus. A nil logger disables failure
// logging (events are still delivered, errors are just swallowed silently).
func NewBus(logger *slog.Logger) *Bus {
	return &Bus{logger: logger, subs: make(map[int]Subscriber)}
}

// Register adds a subscriber and returns a Subscription that unregisters
// it on Close.
func (b *Bus) Register(sub Subscriber) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs[id] = sub
	b.order = append(b.order, id)
	return &Subscription{bus: b, id: id}
}

func (b *Bus) unregister(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.subs, id)
	for i, oid := range b.order {
		if oid == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Publish fans event out to every registered subscriber in registration
// order. A subscriber whose HandleEvent returns an error is logged (if a
// logger was supplied) and skipped; Publish itself never fails.
func (b *Bus) Publish(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	b.mu.Lock()
	order := make([]int, len(b.order))
	copy(order, b.order)
	snapshot := make(map[int]Subscriber, len(b.subs))
	for id, s := range b.subs {
		snapshot[id] = s
	}
	b.mu.Unlock()

	for _, id := range order {
		sub, ok := snapshot[id]
		if !ok {
			continue
		}
		if err := sub.HandleEvent(ctx, event); err != nil && b.logger != nil {
			b.logger.Warn("event subscriber failed", "event_type", event.Type, "error", err)
		}
	}
}

// Len returns the number of currently registered subscribers.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
