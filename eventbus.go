package kecil

import "reflect"

// MaxEventTypes defines the maximum number of unique event types that can be
// registered in the EventBus.
const MaxEventTypes = 16

// EventBus provides typed, synchronous publish/subscribe between systems and
// between the World and game code. The World publishes Despawned on its own
// bus whenever a despawn takes effect.
//
// Subscribing allocates and belongs in setup code; Publish does not allocate.
type EventBus struct {
	eventTypeMap    map[reflect.Type]uint8
	handlers        [MaxEventTypes][]any
	nextEventTypeID uint8
}

// Subscribe registers a handler function to be called when an event of type `T`
// is published. Handlers are called in the order they were subscribed.
//
// Parameters:
//   - bus: The EventBus instance to subscribe to.
//   - handler: A function that takes a single argument of type `T`.
//
// Returns:
//   - ErrCapacityExceeded if MaxEventTypes distinct event types already have
//     subscribers.
func Subscribe[T any](bus *EventBus, handler func(T)) error {
	id, ok := bus.getEventTypeID(reflect.TypeFor[T]())
	if !ok {
		return ErrCapacityExceeded
	}
	if cap(bus.handlers[id]) == 0 {
		bus.handlers[id] = make([]any, 0, 4)
	}
	bus.handlers[id] = append(bus.handlers[id], handler)
	return nil
}

// Publish broadcasts an event of type `T` to all registered handlers for that
// type, synchronously and in subscription order.
//
// Parameters:
//   - bus: The EventBus instance to publish to.
//   - event: The event data of type `T` to be sent to handlers.
func Publish[T any](bus *EventBus, event T) {
	id, ok := bus.eventTypeMap[reflect.TypeFor[T]()]
	if !ok {
		return
	}
	for _, h := range bus.handlers[id] {
		h.(func(T))(event)
	}
}

// getEventTypeID retrieves or assigns an ID for the event type.
func (bus *EventBus) getEventTypeID(t reflect.Type) (uint8, bool) {
	if bus.eventTypeMap == nil {
		bus.eventTypeMap = make(map[reflect.Type]uint8)
	}
	if id, ok := bus.eventTypeMap[t]; ok {
		return id, true
	}
	if int(bus.nextEventTypeID) >= MaxEventTypes {
		return 0, false
	}
	id := bus.nextEventTypeID
	bus.nextEventTypeID++
	bus.eventTypeMap[t] = id
	return id, true
}
