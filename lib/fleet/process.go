// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fleet

import (
	"context"
	"time"
)

// DefaultSize is the process size requested when Config.Size is empty.
const DefaultSize = "1X"

// ProcessHandle identifies one process instance on the remote
// platform. Handles are produced by a RemoteClient (from Create or
// List) and never constructed by the fleet itself. Two handles refer
// to the same process if and only if their IDs are equal.
type ProcessHandle struct {
	// ID is the platform's opaque process identifier.
	ID string `json:"id"`

	// Name is the platform's display name (e.g. "run.1234").
	Name string `json:"name,omitempty"`

	// Command is the command line the process runs. The fleet tracks
	// only processes whose Command equals its configured command.
	Command string `json:"command"`

	// Size is the platform's size or class tag (e.g. "1X").
	Size string `json:"size,omitempty"`

	// State is the platform-reported state (e.g. "starting", "up").
	State string `json:"state,omitempty"`

	// CreatedAt is when the platform created the process. Zero if the
	// platform did not report it.
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// CreateSpec describes a process to create.
type CreateSpec struct {
	Command string
	Size    string
}

// RemoteClient is the platform capability the fleet depends on.
// Implementations own transport, authentication, timeouts, and any
// retry policy; the fleet adds none.
type RemoteClient interface {
	// Create starts one process and returns its handle.
	Create(ctx context.Context, spec CreateSpec) (ProcessHandle, error)

	// Terminate stops the process with the given ID.
	Terminate(ctx context.Context, id string) error

	// List returns every process on the platform, for all commands,
	// in the platform's order.
	List(ctx context.Context) ([]ProcessHandle, error)
}
