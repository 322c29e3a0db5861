// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fleet

import (
	"context"
	"fmt"
	"slices"
)

// ScaleDownPolicy chooses count processes to stop from listing, the
// filtered platform listing in platform order. count is always in
// [1, len(listing)]. The returned handles are stopped in the order
// given. A policy must not modify listing.
type ScaleDownPolicy func(listing []ProcessHandle, count int) []ProcessHandle

// ListingOrder stops the first count processes in platform listing
// order. The platform does not document what that order means, so
// prefer OldestFirst or NewestFirst when the choice matters.
func ListingOrder(listing []ProcessHandle, count int) []ProcessHandle {
	return slices.Clone(listing[:count])
}

// OldestFirst stops the count processes with the earliest CreatedAt.
// Processes with equal timestamps keep their listing order.
func OldestFirst(listing []ProcessHandle, count int) []ProcessHandle {
	sorted := slices.Clone(listing)
	slices.SortStableFunc(sorted, func(a, b ProcessHandle) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return sorted[:count]
}

// NewestFirst stops the count processes with the latest CreatedAt.
// Processes with equal timestamps keep their listing order.
func NewestFirst(listing []ProcessHandle, count int) []ProcessHandle {
	sorted := slices.Clone(listing)
	slices.SortStableFunc(sorted, func(a, b ProcessHandle) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return sorted[:count]
}

// ScaleDownPolicyByName resolves a configuration name: "listing" (or
// ""), "oldest", or "newest".
func ScaleDownPolicyByName(name string) (ScaleDownPolicy, error) {
	switch name {
	case "", "listing":
		return ListingOrder, nil
	case "oldest":
		return OldestFirst, nil
	case "newest":
		return NewestFirst, nil
	default:
		return nil, fmt.Errorf("unknown scale-down policy %q (want listing, oldest, or newest)", name)
	}
}

// Scale converges the fleet to exactly quantity processes. It syncs
// first and then stops or starts processes one at a time against the
// synced listing.
//
// A negative quantity fails with ErrInvalidArgument before any remote
// call. Otherwise the first failing sync, stop, or start is returned
// and the remaining steps are skipped. Steps already taken are kept:
// Scale is fail-fast, not all-or-nothing.
func (f *Fleet) Scale(ctx context.Context, quantity int) error {
	if quantity < 0 {
		return &ArgumentError{Name: "quantity", Reason: "please provide a non-negative number"}
	}

	f.operationMu.Lock()
	defer f.operationMu.Unlock()

	listing, err := f.syncLocked(ctx)
	if err != nil {
		return err
	}
	current := len(listing)

	switch {
	case current > quantity:
		victims := f.scaleDown(listing, current-quantity)
		f.logger.Info("scaling down",
			"current", current,
			"target", quantity,
			"stopping", len(victims),
		)
		for stopped, handle := range victims {
			if err := f.stopLocked(ctx, handle); err != nil {
				f.logger.Warn("scale down aborted",
					"target", quantity,
					"stopped", stopped,
					"error", err,
				)
				return err
			}
		}

	case current < quantity:
		missing := quantity - current
		f.logger.Info("scaling up",
			"current", current,
			"target", quantity,
			"starting", missing,
		)
		for started := range missing {
			if _, err := f.startLocked(ctx); err != nil {
				f.logger.Warn("scale up aborted",
					"target", quantity,
					"started", started,
					"error", err,
				)
				return err
			}
		}
	}

	return nil
}
