// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fleet

import (
	"context"
	"testing"
	"time"
)

func TestEventKindString(t *testing.T) {
	tests := map[EventKind]string{
		ProcessStarted: "process_started",
		ProcessStopped: "process_stopped",
		FleetSynced:    "fleet_synced",
		AutoSyncFailed: "auto_sync_failed",
		EventKind(0):   "unknown",
	}
	for kind, want := range tests {
		if got := kind.String(); got != want {
			t.Errorf("EventKind(%d).String(): got %q, want %q", int(kind), got, want)
		}
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	remote := &fakeRemote{}
	f, _, _ := newTestFleet(t, remote)

	var received int
	unsubscribe := f.Subscribe(func(Event) { received++ })

	if _, err := f.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	unsubscribe()
	unsubscribe()
	if _, err := f.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if received != 1 {
		t.Errorf("events received: got %d, want 1", received)
	}
}

func TestListenersRunInSubscriptionOrder(t *testing.T) {
	remote := &fakeRemote{}
	f, _, _ := newTestFleet(t, remote)

	var order []string
	f.Subscribe(func(Event) { order = append(order, "first") })
	f.Subscribe(func(Event) { order = append(order, "second") })

	if _, err := f.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("order: got %v, want [first second]", order)
	}
}

func TestListenerMayUnsubscribeItself(t *testing.T) {
	remote := &fakeRemote{}
	f, _, _ := newTestFleet(t, remote)

	var received int
	var unsubscribe func()
	unsubscribe = f.Subscribe(func(Event) {
		received++
		unsubscribe()
	})

	ctx := context.Background()
	for range 2 {
		if _, err := f.Start(ctx); err != nil {
			t.Fatalf("Start: %v", err)
		}
	}
	if received != 1 {
		t.Errorf("events received: got %d, want 1", received)
	}
}

func TestEventTimeUsesFleetClock(t *testing.T) {
	remote := &fakeRemote{}
	f, fakeClock, events := newTestFleet(t, remote)

	fakeClock.Advance(90 * time.Second)
	if _, err := f.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	all := events.all()
	if len(all) != 1 {
		t.Fatalf("events: got %d, want 1", len(all))
	}
	if want := fakeClock.Now(); !all[0].Time.Equal(want) {
		t.Errorf("event time: got %v, want %v", all[0].Time, want)
	}
}
