// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package fleet keeps a local view of the worker processes ("dynos")
// running one command on a remote platform, and converges that fleet
// to a target size.
//
// A [Fleet] owns three things:
//
//   - Fleet state: the ordered set of [ProcessHandle] values the fleet
//     believes are running. Only handles whose Command equals the
//     configured command are ever tracked, and IDs are unique.
//   - A [RemoteClient]: the platform collaborator that creates, lists,
//     and terminates processes. The platform listing is authoritative.
//   - A listener registry: [Event] values describing membership
//     changes, delivered synchronously in the order they happen.
//
// # Reconciliation
//
// [Fleet.Sync] fetches the platform listing, filters it to the
// configured command, adds processes the fleet did not know about
// (emitting [ProcessStarted]), removes tracked processes the platform
// no longer reports (emitting [ProcessStopped]), then emits
// [FleetSynced] with the resulting snapshot. A failed listing leaves
// fleet state untouched.
//
// # Scaling
//
// [Fleet.Scale] syncs, then stops or starts processes one at a time
// until the platform listing would hold exactly the requested number.
// Scale-down victims are chosen by the configured [ScaleDownPolicy];
// the default, [ListingOrder], stops the first N processes in the
// order the platform listed them. Scaling is fail-fast: the first
// failed start or stop aborts the remaining steps and completed steps
// are not rolled back. Fleet state and the emitted events show how far
// it got.
//
// # Auto-sync
//
// [Fleet.EnableAutoSync] arms a one-shot timer. When it fires the
// fleet syncs, waits [AutoSyncCooldown], and re-arms with the same
// interval, whether or not the sync succeeded. Failures are reported
// as [AutoSyncFailed] events. Intervals below [MinAutoSyncInterval]
// are rejected to bound the platform API call rate; zero or negative
// intervals disable auto-sync. At most one timer is pending per fleet.
//
// # Concurrency
//
// Sync, Start, Stop, and Scale are serialized by a per-fleet mutex, so
// a Fleet may be shared between the auto-sync timer, a scheduler, and
// socket handlers. Separate Fleet values share nothing. Listeners run
// while that mutex is held and must not call back into the same Fleet.
package fleet
