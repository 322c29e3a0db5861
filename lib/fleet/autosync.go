// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fleet

import (
	"sync"
	"time"

	"github.com/bureau-foundation/dynofleet/lib/clock"
)

const (
	// MinAutoSyncInterval is the shortest accepted auto-sync interval.
	MinAutoSyncInterval = 5 * time.Second

	// AutoSyncCooldown is the fixed pause after each auto-sync cycle
	// completes before the next interval starts counting. The
	// effective period is therefore interval + AutoSyncCooldown.
	AutoSyncCooldown = 10 * time.Second
)

// autoSyncState tracks the single pending auto-sync timer. generation
// increments on every enable or disable; a cycle or cooldown callback
// that observes a different generation than the one it was armed with
// does nothing, so a stale timer that already fired cannot re-arm.
type autoSyncState struct {
	mu         sync.Mutex
	timer      *clock.Timer
	generation uint64
	interval   time.Duration
}

// EnableAutoSync schedules periodic Sync calls.
//
// An interval <= 0 disables auto-sync and returns nil. A positive
// interval below MinAutoSyncInterval disables auto-sync and returns an
// error matching ErrIntervalTooShort. Otherwise any existing schedule
// is replaced: the first cycle runs after interval, and each completed
// cycle (successful or not) waits AutoSyncCooldown and then interval
// again. Failed cycles are logged and emitted as AutoSyncFailed.
func (f *Fleet) EnableAutoSync(interval time.Duration) error {
	f.autoSync.mu.Lock()
	defer f.autoSync.mu.Unlock()

	f.cancelAutoSyncLocked()

	if interval <= 0 {
		f.logger.Debug("auto-sync disabled")
		return nil
	}
	if interval < MinAutoSyncInterval {
		return &IntervalError{Interval: interval, Minimum: MinAutoSyncInterval}
	}

	f.autoSync.interval = interval
	f.armCycleLocked(f.autoSync.generation)
	f.logger.Info("auto-sync enabled",
		"interval", interval,
		"cooldown", AutoSyncCooldown,
	)
	return nil
}

// DisableAutoSync cancels any pending auto-sync timer. A cycle that is
// already running completes but does not re-arm.
func (f *Fleet) DisableAutoSync() {
	f.autoSync.mu.Lock()
	defer f.autoSync.mu.Unlock()
	f.cancelAutoSyncLocked()
}

// AutoSyncInterval returns the active auto-sync interval, or zero when
// auto-sync is disabled.
func (f *Fleet) AutoSyncInterval() time.Duration {
	f.autoSync.mu.Lock()
	defer f.autoSync.mu.Unlock()
	return f.autoSync.interval
}

func (f *Fleet) cancelAutoSyncLocked() {
	if f.autoSync.timer != nil {
		f.autoSync.timer.Stop()
		f.autoSync.timer = nil
	}
	f.autoSync.generation++
	f.autoSync.interval = 0
}

func (f *Fleet) armCycleLocked(generation uint64) {
	interval := f.autoSync.interval
	f.autoSync.timer = f.clock.AfterFunc(interval, func() {
		f.runAutoSyncCycle(generation)
	})
}

func (f *Fleet) runAutoSyncCycle(generation uint64) {
	f.autoSync.mu.Lock()
	current := f.autoSync.generation == generation
	if current {
		f.autoSync.timer = nil
		// Registered under autoSync.mu so that Close, which disables
		// under the same lock before waiting, sees every admitted cycle.
		f.cycles.Add(1)
	}
	f.autoSync.mu.Unlock()
	if !current {
		return
	}
	defer f.cycles.Done()

	f.operationMu.Lock()
	if f.ctx.Err() != nil {
		// Closed while this cycle waited behind another operation.
		f.operationMu.Unlock()
		return
	}
	_, err := f.syncLocked(f.ctx)
	f.operationMu.Unlock()

	defer f.armCooldown(generation)

	if err != nil {
		f.logger.Warn("auto-sync failed", "error", err)
		f.emit(AutoSyncFailed, func(event *Event) { event.Err = err })
	}
}

// armCooldown schedules the cooldown after a cycle, then the next
// interval after the cooldown. Both steps are skipped if auto-sync was
// reconfigured in the meantime.
func (f *Fleet) armCooldown(generation uint64) {
	f.autoSync.mu.Lock()
	defer f.autoSync.mu.Unlock()

	if f.autoSync.generation != generation {
		return
	}
	f.autoSync.timer = f.clock.AfterFunc(AutoSyncCooldown, func() {
		f.autoSync.mu.Lock()
		defer f.autoSync.mu.Unlock()
		if f.autoSync.generation != generation {
			return
		}
		f.armCycleLocked(generation)
	})
}
