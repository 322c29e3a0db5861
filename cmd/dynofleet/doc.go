// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Dynofleet is the operator CLI for dynofleet-service.
//
// Every command except version talks to the daemon's socket, found at
// --socket, $DYNOFLEET_SOCKET, or /run/dynofleet/dynofleet.sock.
// --fleet selects a fleet and may be omitted when the daemon manages
// exactly one.
//
//	dynofleet status
//	dynofleet list --fleet workers --json
//	dynofleet scale 4 --fleet workers
//	dynofleet autosync 30000
//
// Exit status is 0 on success, 2 for rejected input, 3 when the fleet
// or process does not exist, 4 when the daemon is unreachable, 5 when
// the platform call failed, and 1 otherwise.
package main
