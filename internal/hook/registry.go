// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package hook

import (
	"slices"
	"sync"
)

// ID identifies a registered handler.
type ID uint64

// Handler receives every dispatched event.
type Handler func(event *Event)

// Filter decides whether an event must be reserved.
type Filter func(event *Event) bool

type registration struct {
	id      ID
	handler Handler
}

// Registry keeps the handlers interested in input events. Handlers run in registration order.
type Registry struct {
	lock     sync.RWMutex
	lastID   ID
	handlers []registration
	reserve  Filter
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds handler and returns the id needed to remove it.
func (r *Registry) Register(handler Handler) ID {
	r.lock.Lock()
	defer r.lock.Unlock()

	// ids wrap around, zero is skipped so it can be used as "no handler"
	r.lastID++
	if r.lastID == 0 {
		r.lastID++
	}

	r.handlers = append(r.handlers, registration{id: r.lastID, handler: handler})
	return r.lastID
}

// Unregister removes the handler registered under id. It reports whether it was found.
func (r *Registry) Unregister(id ID) bool {
	r.lock.Lock()
	defer r.lock.Unlock()

	idx := slices.IndexFunc(r.handlers, func(reg registration) bool {
		return reg.id == id
	})
	if idx < 0 {
		return false
	}

	r.handlers = slices.Delete(r.handlers, idx, idx+1)
	return true
}

// Len returns the number of registered handlers.
func (r *Registry) Len() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.handlers)
}

// SetReserveFilter installs filter; events it accepts are marked ModeReserved before the
// handlers see them. A nil filter clears it.
func (r *Registry) SetReserveFilter(filter Filter) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.reserve = filter
}

// Dispatch applies the reserve filter to event and hands it to every handler.
func (r *Registry) Dispatch(event *Event) {
	r.lock.RLock()
	handlers := slices.Clone(r.handlers)
	reserve := r.reserve
	r.lock.RUnlock()

	if reserve != nil && reserve(event) {
		event.Mode |= ModeReserved
	}

	for _, reg := range handlers {
		reg.handler(event)
	}
}
