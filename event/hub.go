/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package event

import (
	"math"
	"sort"
	"sync"
)

// Priority defines handler execution priority.
type Priority int32

const (
	// LowestPriority defines lowest handler execution priority.
	LowestPriority = Priority(math.MinInt32)

	// DefaultPriority defines default handler execution priority.
	DefaultPriority = Priority(0)

	// HighestPriority defines highest handler execution priority.
	HighestPriority = Priority(math.MaxInt32)
)

// Event is a named notification posted by a session.
type Event struct {
	// Name is the event name (one of the package constants).
	Name string

	// Info carries the event payload. Its concrete type depends on Name.
	Info interface{}
}

// Handler defines a generic event handler function.
type Handler func(ev *Event)

// SubscriptionID identifies a subscribed handler.
type SubscriptionID uint64

type handler struct {
	id SubscriptionID
	h  Handler
	p  Priority
}

// Hub dispatches posted events to the handlers subscribed to their name.
type Hub struct {
	mu       sync.RWMutex
	nextID   SubscriptionID
	handlers map[string][]handler
}

// NewHub returns a new initialized Hub instance.
func NewHub() *Hub {
	return &Hub{
		handlers: make(map[string][]handler),
	}
}

// Subscribe adds a handler for the events named name and returns the
// identifier used to unsubscribe it.
// Handlers with a higher priority are executed first; equal priorities keep subscription order.
func (h *Hub) Subscribe(name string, hnd Handler, priority Priority) SubscriptionID {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID

	current := h.handlers[name]
	handlers := make([]handler, len(current), len(current)+1)
	copy(handlers, current)
	handlers = append(handlers, handler{id: id, h: hnd, p: priority})
	sort.SliceStable(handlers, func(i, j int) bool { return handlers[i].p > handlers[j].p })
	h.handlers[name] = handlers
	return id
}

// Unsubscribe removes the handler subscribed under id.
// It reports whether such a subscription existed.
func (h *Hub) Unsubscribe(name string, id SubscriptionID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	handlers := h.handlers[name]
	for i, handler := range handlers {
		if handler.id != id {
			continue
		}
		h.handlers[name] = append(handlers[:i:i], handlers[i+1:]...)
		return true
	}
	return false
}

// Post delivers an event to every subscribed handler, in order.
// It returns the number of handlers the event was delivered to.
func (h *Hub) Post(name string, info interface{}) int {
	h.mu.RLock()
	handlers := h.handlers[name]
	h.mu.RUnlock()

	ev := &Event{Name: name, Info: info}
	for _, handler := range handlers {
		handler.h(ev)
	}
	return len(handlers)
}
