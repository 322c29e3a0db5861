// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock abstracts the subset of the time package used by dynofleet.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// After returns a channel that receives the current time once d
	// has elapsed. If d <= 0 the channel is ready immediately.
	After(d time.Duration) <-chan time.Time

	// AfterFunc calls f once d has elapsed and returns a Timer that
	// can cancel the pending call. A real clock runs f in its own
	// goroutine; a fake clock runs f synchronously inside Advance.
	AfterFunc(d time.Duration, f func()) *Timer

	// Since returns the time elapsed since t, measured against Now.
	Since(t time.Time) time.Duration
}

// Timer is a pending AfterFunc call.
type Timer struct {
	stopFunc func() bool
}

// Stop cancels the pending call. It reports whether the call was
// cancelled; false means it already ran or was already stopped.
func (t *Timer) Stop() bool { return t.stopFunc() }
