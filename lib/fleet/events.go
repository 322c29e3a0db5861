// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fleet

import (
	"sync"
	"time"
)

// EventKind identifies what happened to a fleet.
type EventKind int

const (
	// ProcessStarted: a process joined fleet state, either through
	// Start or because Sync discovered it on the platform.
	ProcessStarted EventKind = iota + 1

	// ProcessStopped: a process left fleet state, either through Stop
	// or because Sync found it missing from the platform.
	ProcessStopped

	// FleetSynced: a Sync completed. Event.Processes holds the fleet
	// state snapshot after reconciliation.
	FleetSynced

	// AutoSyncFailed: an unattended auto-sync cycle failed. Event.Err
	// holds the error. The next cycle is still armed.
	AutoSyncFailed
)

// String returns the wire name used in logs and exported records.
func (k EventKind) String() string {
	switch k {
	case ProcessStarted:
		return "process_started"
	case ProcessStopped:
		return "process_stopped"
	case FleetSynced:
		return "fleet_synced"
	case AutoSyncFailed:
		return "auto_sync_failed"
	default:
		return "unknown"
	}
}

// Event is a fleet membership notification.
type Event struct {
	Kind EventKind

	// Process is set for ProcessStarted and ProcessStopped.
	Process ProcessHandle

	// Processes is set for FleetSynced.
	Processes []ProcessHandle

	// Err is set for AutoSyncFailed.
	Err error

	// Time is the fleet clock's time at emission.
	Time time.Time
}

// Listener receives events synchronously on the emitting goroutine.
type Listener func(Event)

// listenerRegistry holds subscribed listeners in subscription order.
type listenerRegistry struct {
	mu        sync.RWMutex
	nextID    uint64
	listeners []registeredListener
}

type registeredListener struct {
	id       uint64
	listener Listener
}

func (r *listenerRegistry) subscribe(listener Listener) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	r.listeners = append(r.listeners, registeredListener{id: id, listener: listener})

	var once sync.Once
	return func() {
		once.Do(func() { r.unsubscribe(id) })
	}
}

func (r *listenerRegistry) unsubscribe(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, registered := range r.listeners {
		if registered.id == id {
			r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
			return
		}
	}
}

// emit calls every listener in subscription order. The listener list
// is copied first so a listener may unsubscribe itself.
func (r *listenerRegistry) emit(event Event) {
	r.mu.RLock()
	listeners := make([]Listener, len(r.listeners))
	for i, registered := range r.listeners {
		listeners[i] = registered.listener
	}
	r.mu.RUnlock()

	for _, listener := range listeners {
		listener(event)
	}
}
