// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fleet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/bureau-foundation/dynofleet/lib/clock"
)

const testCommand = "node worker.js"

var errPlatform = errors.New("platform unavailable")

// fakeRemote is an in-memory RemoteClient that records every call.
type fakeRemote struct {
	mu        sync.Mutex
	processes []ProcessHandle
	nextID    int

	listErr      error
	createErr    error
	terminateErr error

	// createsBeforeFailure, when positive, lets that many Create calls
	// succeed before createErr applies.
	createsBeforeFailure int

	listCalls  int
	creates    []CreateSpec
	terminates []string
}

func (r *fakeRemote) Create(_ context.Context, spec CreateSpec) (ProcessHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.creates = append(r.creates, spec)
	if r.createErr != nil {
		if r.createsBeforeFailure <= 0 {
			return ProcessHandle{}, r.createErr
		}
		r.createsBeforeFailure--
	}
	r.nextID++
	handle := ProcessHandle{
		ID:      fmt.Sprintf("p%d", r.nextID),
		Name:    fmt.Sprintf("run.%d", r.nextID),
		Command: spec.Command,
		Size:    spec.Size,
		State:   "starting",
	}
	r.processes = append(r.processes, handle)
	return handle, nil
}

func (r *fakeRemote) Terminate(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.terminates = append(r.terminates, id)
	if r.terminateErr != nil {
		return r.terminateErr
	}
	for i, handle := range r.processes {
		if handle.ID == id {
			r.processes = append(r.processes[:i], r.processes[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeRemote) List(_ context.Context) ([]ProcessHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.listCalls++
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]ProcessHandle(nil), r.processes...), nil
}

// inject adds processes to the platform as if started elsewhere.
func (r *fakeRemote) inject(handles ...ProcessHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processes = append(r.processes, handles...)
}

// kill removes a process from the platform without going through the
// fleet.
func (r *fakeRemote) kill(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, handle := range r.processes {
		if handle.ID == id {
			r.processes = append(r.processes[:i], r.processes[i+1:]...)
			return
		}
	}
}

func (r *fakeRemote) setListErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listErr = err
}

func (r *fakeRemote) counts() (lists, creates, terminates int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listCalls, len(r.creates), len(r.terminates)
}

func (r *fakeRemote) terminated() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.terminates...)
}

// eventRecorder collects events from a fleet subscription.
type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) listen(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *eventRecorder) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// ofKind returns the process IDs carried by events of the given kind,
// in emission order.
func (r *eventRecorder) ofKind(kind EventKind) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for _, event := range r.events {
		if event.Kind == kind {
			ids = append(ids, event.Process.ID)
		}
	}
	return ids
}

func (r *eventRecorder) count(kind EventKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, event := range r.events {
		if event.Kind == kind {
			n++
		}
	}
	return n
}

func (r *eventRecorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

var testEpoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func testClock() *clock.FakeClock { return clock.Fake(testEpoch) }

// newTestFleet returns a fleet over remote with a fake clock and an
// attached event recorder.
func newTestFleet(t *testing.T, remote *fakeRemote) (*Fleet, *clock.FakeClock, *eventRecorder) {
	t.Helper()

	fakeClock := testClock()
	f, err := New(Config{
		Remote:  remote,
		Command: testCommand,
		Clock:   fakeClock,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(f.Close)

	recorder := &eventRecorder{}
	f.Subscribe(recorder.listen)
	return f, fakeClock, recorder
}

func handle(id string) ProcessHandle {
	return ProcessHandle{ID: id, Name: "run." + id, Command: testCommand, Size: DefaultSize, State: "up"}
}

func foreign(id string) ProcessHandle {
	return ProcessHandle{ID: id, Name: "web." + id, Command: "npm start", Size: DefaultSize, State: "up"}
}

func ids(handles []ProcessHandle) []string {
	result := make([]string, len(handles))
	for i, h := range handles {
		result[i] = h.ID
	}
	return result
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
