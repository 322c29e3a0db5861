// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source so that fleet
// timers (auto-sync cycles, cooldowns, scheduled scaling) can be
// driven deterministically in tests.
//
// Production code stores a Clock and never calls time.Now, time.After,
// time.AfterFunc or time.Since directly:
//
//	f, err := fleet.New(fleet.Config{Clock: clock.Real(), ...})
//
// Tests inject a FakeClock and move time by hand:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	f, err := fleet.New(fleet.Config{Clock: c, ...})
//	c.WaitForTimers(1)
//	c.Advance(5 * time.Second)
//
// WaitForTimers closes the race between a goroutine registering a
// timer and the test advancing past it.
package clock
