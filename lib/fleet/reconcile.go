// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fleet

import "context"

// Sync reconciles fleet state with the platform listing and returns
// the listing filtered to this fleet's command, in platform order.
//
// Processes newly seen on the platform are added (ProcessStarted),
// then tracked processes missing from the listing are removed
// (ProcessStopped), then FleetSynced carries the final snapshot. If
// the listing fails, the error matches ErrRemoteFetch, no events are
// emitted, and fleet state is unchanged.
func (f *Fleet) Sync(ctx context.Context) ([]ProcessHandle, error) {
	f.operationMu.Lock()
	defer f.operationMu.Unlock()
	return f.syncLocked(ctx)
}

// syncLocked implements Sync. Caller must hold f.operationMu.
func (f *Fleet) syncLocked(ctx context.Context) ([]ProcessHandle, error) {
	listing, err := f.remote.List(ctx)
	if err != nil {
		return nil, &RemoteError{Op: OpList, Err: err}
	}

	// Filter to our command. A platform that repeats an ID in one
	// listing gets the first occurrence only.
	listed := make(map[string]struct{}, len(listing))
	filtered := make([]ProcessHandle, 0, len(listing))
	for _, handle := range listing {
		if handle.Command != f.command {
			continue
		}
		if _, duplicate := listed[handle.ID]; duplicate {
			continue
		}
		listed[handle.ID] = struct{}{}
		filtered = append(filtered, handle)
	}

	// Register processes started by other means (dashboard, another
	// controller, a previous run of this one). Already-tracked handles
	// get their metadata refreshed without an event.
	for _, handle := range filtered {
		if f.state.add(handle) {
			f.logger.Info("discovered running process",
				"process_id", handle.ID,
				"name", handle.Name,
			)
			f.emitProcess(ProcessStarted, handle)
			continue
		}
		f.state.refresh(handle)
	}

	// Unregister processes that died or were terminated elsewhere.
	// Candidates are collected from a snapshot before any removal so
	// that the scan never walks a slice it is mutating.
	var departed []ProcessHandle
	for _, handle := range f.state.snapshot() {
		if _, stillListed := listed[handle.ID]; !stillListed {
			departed = append(departed, handle)
		}
	}
	for _, handle := range departed {
		if removed, ok := f.state.remove(handle.ID); ok {
			f.logger.Info("tracked process no longer running",
				"process_id", removed.ID,
				"name", removed.Name,
			)
			f.emitProcess(ProcessStopped, removed)
		}
	}

	snapshot := f.state.snapshot()
	f.emit(FleetSynced, func(event *Event) { event.Processes = snapshot })

	f.logger.Debug("fleet synced",
		"listed", len(listing),
		"tracked", len(snapshot),
	)
	return filtered, nil
}
