// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

func TestRealAfterFuncStopPreventsCall(t *testing.T) {
	called := make(chan struct{}, 1)
	timer := Real().AfterFunc(time.Hour, func() { called <- struct{}{} })
	if !timer.Stop() {
		t.Fatal("Stop on a pending timer returned false")
	}
	if timer.Stop() {
		t.Error("second Stop returned true")
	}
	select {
	case <-called:
		t.Error("stopped callback ran")
	default:
	}
}

func TestRealSince(t *testing.T) {
	c := Real()
	start := c.Now().Add(-time.Minute)
	if got := c.Since(start); got < time.Minute {
		t.Errorf("Since = %v, want at least 1m", got)
	}
}
