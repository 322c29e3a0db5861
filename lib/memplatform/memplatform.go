// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package memplatform is an in-memory process platform implementing
// fleet.RemoteClient. The daemon uses it for `platform: memory`, where
// fleets can be exercised locally without a Heroku account, and tests
// use its out-of-band controls (Inject, Kill, FailNext) to simulate
// processes that start or die behind the fleet's back.
package memplatform

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/bureau-foundation/dynofleet/lib/clock"
	"github.com/bureau-foundation/dynofleet/lib/fleet"
)

// ErrNotFound is returned by Terminate for an unknown process ID.
var ErrNotFound = errors.New("memplatform: no such process")

// Platform holds processes in creation order. It is safe for
// concurrent use.
type Platform struct {
	clock clock.Clock

	mu        sync.Mutex
	processes []fleet.ProcessHandle
	sequence  int
	failures  map[fleet.RemoteOp][]error
	calls     map[fleet.RemoteOp]int
}

// New returns an empty platform. A nil clock uses the real clock.
func New(platformClock clock.Clock) *Platform {
	if platformClock == nil {
		platformClock = clock.Real()
	}
	return &Platform{
		clock:    platformClock,
		failures: make(map[fleet.RemoteOp][]error),
		calls:    make(map[fleet.RemoteOp]int),
	}
}

// Create starts a process. It is immediately "up".
func (p *Platform) Create(ctx context.Context, spec fleet.CreateSpec) (fleet.ProcessHandle, error) {
	if err := ctx.Err(); err != nil {
		return fleet.ProcessHandle{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.recordLocked(fleet.OpCreate); err != nil {
		return fleet.ProcessHandle{}, err
	}
	handle := p.newHandleLocked(spec.Command, spec.Size)
	p.processes = append(p.processes, handle)
	return handle, nil
}

// Terminate removes the process with id.
func (p *Platform) Terminate(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.recordLocked(fleet.OpTerminate); err != nil {
		return err
	}
	if !p.removeLocked(id) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// List returns every process in creation order.
func (p *Platform) List(ctx context.Context) ([]fleet.ProcessHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.recordLocked(fleet.OpList); err != nil {
		return nil, err
	}
	return append([]fleet.ProcessHandle(nil), p.processes...), nil
}

// Inject starts a process out of band, as a dashboard user or another
// controller would. It is not counted as a Create call.
func (p *Platform) Inject(command, size string) fleet.ProcessHandle {
	p.mu.Lock()
	defer p.mu.Unlock()

	handle := p.newHandleLocked(command, size)
	p.processes = append(p.processes, handle)
	return handle
}

// Kill removes a process out of band, as a crash would. Reports
// whether the process existed.
func (p *Platform) Kill(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.removeLocked(id)
}

// FailNext queues err to be returned by the next call of op. Queued
// errors are consumed in order, one per call.
func (p *Platform) FailNext(op fleet.RemoteOp, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failures[op] = append(p.failures[op], err)
}

// Calls returns how many times op has been called, including calls
// that failed.
func (p *Platform) Calls(op fleet.RemoteOp) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[op]
}

// Len returns the number of running processes.
func (p *Platform) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.processes)
}

func (p *Platform) recordLocked(op fleet.RemoteOp) error {
	p.calls[op]++
	queued := p.failures[op]
	if len(queued) == 0 {
		return nil
	}
	p.failures[op] = queued[1:]
	return queued[0]
}

func (p *Platform) newHandleLocked(command, size string) fleet.ProcessHandle {
	if size == "" {
		size = fleet.DefaultSize
	}
	p.sequence++
	return fleet.ProcessHandle{
		ID:        uuid.NewString(),
		Name:      fmt.Sprintf("run.%d", p.sequence),
		Command:   command,
		Size:      size,
		State:     "up",
		CreatedAt: p.clock.Now(),
	}
}

func (p *Platform) removeLocked(id string) bool {
	for i, handle := range p.processes {
		if handle.ID == id {
			p.processes = append(p.processes[:i], p.processes[i+1:]...)
			return true
		}
	}
	return false
}
