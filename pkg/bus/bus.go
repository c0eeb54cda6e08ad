package bus

import (
	"sync"

	"github.com/nzbgetcom/webconf/pkg/logger"
)

// EventType represents different types of configuration events
type EventType string

const (
	EventConfigLoaded     EventType = "config.loaded"
	EventConfigChanged    EventType = "config.changed"
	EventInstancesChanged EventType = "config.instances_changed"
	EventConfigCommitted  EventType = "config.committed"
	EventConfigReverted   EventType = "config.reverted"
	EventSnapshotCreated  EventType = "snapshot.created"
	EventSnapshotRestored EventType = "snapshot.restored"
)

// Event represents a configuration event
type Event struct {
	Type EventType
	// Name is the option, section or snapshot the event is about
	Name string
	Data interface{}
}

// Handler is a function that handles events
type Handler func(event Event)

// Bus is a simple pub/sub event bus
type Bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]Handler
	eventChan chan Event
	wg        sync.WaitGroup
	stopped   bool
}

// NewBus creates a new event bus
func NewBus() *Bus {
	b := &Bus{
		handlers:  make(map[EventType][]Handler),
		eventChan: make(chan Event, 100),
	}
	b.start()
	return b
}

// Subscribe subscribes a handler to an event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Publish publishes an event to all subscribers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.stopped {
		return
	}

	select {
	case b.eventChan <- event:
	default:
		logger.Warn("Event dropped, bus is full", "type", event.Type, "name", event.Name)
	}
}

// start starts the event processing goroutine
func (b *Bus) start() {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for event := range b.eventChan {
			b.dispatch(event)
		}
	}()
}

// dispatch runs the handlers registered for the event in order
func (b *Bus) dispatch(event Event) {
	b.mu.RLock()
	handlers := b.handlers[event.Type]
	b.mu.RUnlock()

	for _, handler := range handlers {
		func(h Handler) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Event handler panicked", "type", event.Type, "panic", r)
				}
			}()
			h(event)
		}(handler)
	}
}

// Stop stops the event bus after pending events are dispatched
func (b *Bus) Stop() {
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return
	}
	b.stopped = true
	close(b.eventChan)
	b.mu.Unlock()

	b.wg.Wait()
}

// GlobalBus is the global event bus instance
var GlobalBus = NewBus()
