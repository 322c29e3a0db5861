// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fleet

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/bureau-foundation/dynofleet/lib/clock"
)

// Config configures a Fleet.
type Config struct {
	// Remote is the platform client. Required.
	Remote RemoteClient

	// Command is the command line every managed process runs. Required.
	// Processes with any other command are invisible to the fleet.
	Command string

	// Size is the process size requested on Start. Defaults to
	// DefaultSize.
	Size string

	// AutoSyncInterval, when non-zero, is passed to EnableAutoSync
	// during New. New fails if the interval is rejected.
	AutoSyncInterval time.Duration

	// ScaleDown picks which processes Scale stops. Defaults to
	// ListingOrder.
	ScaleDown ScaleDownPolicy

	// Clock drives auto-sync timers and event timestamps. Defaults to
	// clock.Real().
	Clock clock.Clock

	// Logger receives operational logs. Defaults to a discarding
	// logger.
	Logger *slog.Logger
}

// Fleet manages the processes running one command on one platform
// application. Create with New.
type Fleet struct {
	remote    RemoteClient
	command   string
	size      string
	scaleDown ScaleDownPolicy
	clock     clock.Clock
	logger    *slog.Logger

	// operationMu serializes Sync, Start, Stop, and Scale. Each of
	// those reads fleet state, suspends on a remote call, then mutates
	// state based on what it read.
	operationMu sync.Mutex

	state     *state
	listeners listenerRegistry

	// ctx is passed to remote calls made by auto-sync cycles and is
	// cancelled by Close.
	ctx    context.Context
	cancel context.CancelFunc

	autoSync autoSyncState

	// cycles counts auto-sync cycles that have fired and not finished.
	cycles sync.WaitGroup
}

// New creates a Fleet. Fleet state starts empty; call Sync to populate
// it from the platform.
func New(config Config) (*Fleet, error) {
	if config.Remote == nil {
		return nil, errors.New("fleet: Remote is required")
	}
	if config.Command == "" {
		return nil, errors.New("fleet: Command is required")
	}

	size := config.Size
	if size == "" {
		size = DefaultSize
	}
	scaleDown := config.ScaleDown
	if scaleDown == nil {
		scaleDown = ListingOrder
	}
	fleetClock := config.Clock
	if fleetClock == nil {
		fleetClock = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ctx, cancel := context.WithCancel(context.Background())
	f := &Fleet{
		remote:    config.Remote,
		command:   config.Command,
		size:      size,
		scaleDown: scaleDown,
		clock:     fleetClock,
		logger:    logger.With("command", config.Command),
		state:     newState(),
		ctx:       ctx,
		cancel:    cancel,
	}

	if config.AutoSyncInterval != 0 {
		if err := f.EnableAutoSync(config.AutoSyncInterval); err != nil {
			cancel()
			return nil, err
		}
	}

	return f, nil
}

// Command returns the command this fleet manages.
func (f *Fleet) Command() string { return f.command }

// Size returns the size requested for new processes.
func (f *Fleet) Size() string { return f.size }

// Processes returns a snapshot of fleet state in insertion order.
// Safe to call while another operation is in flight.
func (f *Fleet) Processes() []ProcessHandle { return f.state.snapshot() }

// Len returns the number of tracked processes.
func (f *Fleet) Len() int { return f.state.len() }

// Contains reports whether a process ID is tracked.
func (f *Fleet) Contains(id string) bool { return f.state.contains(id) }

// Lookup returns the tracked handle for id.
func (f *Fleet) Lookup(id string) (ProcessHandle, bool) { return f.state.get(id) }

// Subscribe registers listener for all future events and returns a
// function that removes it. Calling the returned function more than
// once is harmless.
func (f *Fleet) Subscribe(listener Listener) (unsubscribe func()) {
	return f.listeners.subscribe(listener)
}

// Close disables auto-sync, cancels the context used by any auto-sync
// cycle in flight, and waits for such cycles to return. A cycle still
// queued behind another operation returns without calling the
// platform. Close must not be called from a listener.
func (f *Fleet) Close() {
	f.DisableAutoSync()
	f.cancel()
	f.cycles.Wait()
}

func (f *Fleet) emit(kind EventKind, configure func(*Event)) {
	event := Event{Kind: kind, Time: f.clock.Now()}
	if configure != nil {
		configure(&event)
	}
	f.listeners.emit(event)
}

func (f *Fleet) emitProcess(kind EventKind, handle ProcessHandle) {
	f.emit(kind, func(event *Event) { event.Process = handle })
}
