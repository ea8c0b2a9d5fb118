package bus

import "time"

// Well-known gesture event types.
const (
	// EventGestureDrawn is published once per finished drawing. Its data is
	// the caster outcome carrying the resolved class and spell.
	EventGestureDrawn = "gesture.drawn"
	// EventGestureDisposed is published when a stroke's finish animation has
	// completed and its segments were released.
	EventGestureDisposed = "gesture.disposed"
)

// EventBus is an in-process pub/sub bus.
//
// Delivery is synchronous: Publish calls every handler subscribed to
// Event.Type() in the caller goroutine, in subscription order. Handler errors
// are joined and returned from Publish. All methods are safe for concurrent
// use.
type EventBus interface {
	// Publish delivers the event to all active subscribers of event.Type().
	Publish(event Event) error
	// Subscribe registers a handler for an event type.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels the given Subscription. Nil is ignored.
	Unsubscribe(Subscription) error

	// PublishBatch publishes events in order and aggregates their errors.
	PublishBatch(events ...Event) error

	// AddObserver registers an observer to receive delivery callbacks.
	AddObserver(obs EventBusObserver)
	// RemoveObserver unregisters a previously added observer.
	RemoveObserver(obs EventBusObserver)
	// GetMetrics returns a snapshot of accumulated counters. Counters are
	// only collected while at least one observer is registered.
	GetMetrics() EventBusMetrics
}

// Event is an immutable message transported by the EventBus.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

type (
	// EventHandler is invoked per delivered event.
	EventHandler func(event Event) error
)

// Subscription is a registered handler bound to an event type.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel() error
}

// EventBusObserver is notified about deliveries.
type EventBusObserver interface {
	OnPublish(eventType string, event Event)
	OnDelivered(eventType string, handlers int, err error, duration time.Duration)
}

type EventBusMetrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	SubscribersActive uint64
}
