// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fleet

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestScaleDownStopsInListingOrder(t *testing.T) {
	remote := &fakeRemote{}
	remote.inject(handle("A"), handle("B"), handle("C"), handle("D"))
	f, _, events := newTestFleet(t, remote)

	if err := f.Scale(context.Background(), 2); err != nil {
		t.Fatalf("Scale: %v", err)
	}

	if got, want := remote.terminated(), []string{"A", "B"}; !equalIDs(got, want) {
		t.Errorf("terminated: got %v, want %v", got, want)
	}
	if got, want := ids(f.Processes()), []string{"C", "D"}; !equalIDs(got, want) {
		t.Errorf("state: got %v, want %v", got, want)
	}
	if got, want := events.ofKind(ProcessStopped), []string{"A", "B"}; !equalIDs(got, want) {
		t.Errorf("stopped events: got %v, want %v", got, want)
	}
}

func TestScaleUpFromEmpty(t *testing.T) {
	remote := &fakeRemote{}
	f, _, events := newTestFleet(t, remote)

	if err := f.Scale(context.Background(), 3); err != nil {
		t.Fatalf("Scale: %v", err)
	}
	if _, creates, _ := remote.counts(); creates != 3 {
		t.Errorf("creates: got %d, want 3", creates)
	}
	if f.Len() != 3 {
		t.Errorf("state: got %d processes, want 3", f.Len())
	}
	if events.count(ProcessStarted) != 3 {
		t.Errorf("started events: got %d, want 3", events.count(ProcessStarted))
	}
}

func TestScaleIgnoresForeignProcesses(t *testing.T) {
	remote := &fakeRemote{}
	remote.inject(foreign("w1"), handle("a"), foreign("w2"))
	f, _, _ := newTestFleet(t, remote)

	if err := f.Scale(context.Background(), 2); err != nil {
		t.Fatalf("Scale: %v", err)
	}
	if _, creates, terminates := remote.counts(); creates != 1 || terminates != 0 {
		t.Errorf("got %d creates and %d terminates, want 1 and 0", creates, terminates)
	}
}

func TestScaleToCurrentIsNoOp(t *testing.T) {
	remote := &fakeRemote{}
	remote.inject(handle("a"), handle("b"))
	f, _, _ := newTestFleet(t, remote)

	if err := f.Scale(context.Background(), 2); err != nil {
		t.Fatalf("Scale: %v", err)
	}
	lists, creates, terminates := remote.counts()
	if lists != 1 || creates != 0 || terminates != 0 {
		t.Errorf("got %d lists, %d creates, %d terminates; want 1, 0, 0", lists, creates, terminates)
	}
}

func TestScaleToZero(t *testing.T) {
	remote := &fakeRemote{}
	remote.inject(handle("a"), handle("b"))
	f, _, _ := newTestFleet(t, remote)

	if err := f.Scale(context.Background(), 0); err != nil {
		t.Fatalf("Scale: %v", err)
	}
	if f.Len() != 0 {
		t.Errorf("state: got %d processes, want 0", f.Len())
	}
}

func TestScaleRejectsNegativeWithoutRemoteCalls(t *testing.T) {
	remote := &fakeRemote{}
	f, _, _ := newTestFleet(t, remote)

	err := f.Scale(context.Background(), -1)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("Scale(-1): got %v, want ErrInvalidArgument", err)
	}
	if lists, creates, terminates := remote.counts(); lists+creates+terminates != 0 {
		t.Errorf("Scale(-1) made %d remote calls, want 0", lists+creates+terminates)
	}
}

func TestScaleStopsAtFirstCreateFailure(t *testing.T) {
	remote := &fakeRemote{createErr: errPlatform, createsBeforeFailure: 1}
	f, _, _ := newTestFleet(t, remote)

	err := f.Scale(context.Background(), 3)
	if !errors.Is(err, ErrRemoteCreate) {
		t.Fatalf("Scale: got %v, want ErrRemoteCreate", err)
	}
	// One success, one failure, then no further attempts.
	if _, creates, _ := remote.counts(); creates != 2 {
		t.Errorf("create attempts: got %d, want 2", creates)
	}
	if f.Len() != 1 {
		t.Errorf("state: got %d processes, want 1 (completed steps are kept)", f.Len())
	}
}

func TestScaleStopsAtFirstTerminateFailure(t *testing.T) {
	remote := &fakeRemote{terminateErr: errPlatform}
	remote.inject(handle("a"), handle("b"), handle("c"))
	f, _, _ := newTestFleet(t, remote)

	err := f.Scale(context.Background(), 0)
	if !errors.Is(err, ErrRemoteTerminate) {
		t.Fatalf("Scale: got %v, want ErrRemoteTerminate", err)
	}
	if got := remote.terminated(); !equalIDs(got, []string{"a"}) {
		t.Errorf("terminate attempts: got %v, want [a]", got)
	}
}

func TestScaleFetchFailure(t *testing.T) {
	remote := &fakeRemote{listErr: errPlatform}
	f, _, _ := newTestFleet(t, remote)

	err := f.Scale(context.Background(), 2)
	if !errors.Is(err, ErrRemoteFetch) {
		t.Fatalf("Scale: got %v, want ErrRemoteFetch", err)
	}
	if _, creates, _ := remote.counts(); creates != 0 {
		t.Errorf("creates after failed fetch: got %d, want 0", creates)
	}
}

func TestScaleDownPolicies(t *testing.T) {
	listing := []ProcessHandle{
		{ID: "mid", CreatedAt: testEpoch.Add(2 * time.Minute)},
		{ID: "old", CreatedAt: testEpoch},
		{ID: "new", CreatedAt: testEpoch.Add(5 * time.Minute)},
		{ID: "old-twin", CreatedAt: testEpoch},
	}

	tests := []struct {
		name   string
		policy ScaleDownPolicy
		count  int
		want   []string
	}{
		{"listing", ListingOrder, 2, []string{"mid", "old"}},
		{"oldest", OldestFirst, 3, []string{"old", "old-twin", "mid"}},
		{"newest", NewestFirst, 2, []string{"new", "mid"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			before := ids(listing)
			got := ids(test.policy(listing, test.count))
			if !equalIDs(got, test.want) {
				t.Errorf("got %v, want %v", got, test.want)
			}
			if !equalIDs(ids(listing), before) {
				t.Error("policy modified its input")
			}
		})
	}
}

func TestScaleUsesConfiguredPolicy(t *testing.T) {
	remote := &fakeRemote{}
	remote.inject(
		ProcessHandle{ID: "a", Command: testCommand, CreatedAt: testEpoch.Add(time.Hour)},
		ProcessHandle{ID: "b", Command: testCommand, CreatedAt: testEpoch},
	)
	f, err := New(Config{Remote: remote, Command: testCommand, ScaleDown: OldestFirst})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer f.Close()

	if err := f.Scale(context.Background(), 1); err != nil {
		t.Fatalf("Scale: %v", err)
	}
	if got := remote.terminated(); !equalIDs(got, []string{"b"}) {
		t.Errorf("terminated: got %v, want [b]", got)
	}
}

func TestScaleDownPolicyByName(t *testing.T) {
	for _, name := range []string{"", "listing", "oldest", "newest"} {
		if _, err := ScaleDownPolicyByName(name); err != nil {
			t.Errorf("ScaleDownPolicyByName(%q): %v", name, err)
		}
	}
	if _, err := ScaleDownPolicyByName("random"); err == nil {
		t.Error("ScaleDownPolicyByName(\"random\"): expected error")
	}
}
