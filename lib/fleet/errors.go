// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fleet

import (
	"errors"
	"fmt"
	"time"
)

// Error classes. Use errors.Is to classify an error returned by a
// Fleet, and errors.As with *ArgumentError, *IntervalError, or
// *RemoteError for details.
var (
	// ErrInvalidArgument means an argument was rejected locally. No
	// remote call was made and fleet state is unchanged.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrIntervalTooShort means an auto-sync interval was positive but
	// below MinAutoSyncInterval. Auto-sync is left disabled.
	ErrIntervalTooShort = errors.New("auto-sync interval too short")

	// ErrRemoteFetch means listing processes on the platform failed.
	ErrRemoteFetch = errors.New("listing remote processes failed")

	// ErrRemoteCreate means the platform rejected a process creation.
	ErrRemoteCreate = errors.New("creating remote process failed")

	// ErrRemoteTerminate means the platform rejected a termination.
	ErrRemoteTerminate = errors.New("terminating remote process failed")
)

// ArgumentError describes a rejected argument.
type ArgumentError struct {
	// Name is the argument name ("quantity", "interval").
	Name string
	// Reason says what was wrong with it.
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid %s argument; %s", e.Name, e.Reason)
}

// Is reports whether target is ErrInvalidArgument.
func (e *ArgumentError) Is(target error) bool { return target == ErrInvalidArgument }

// IntervalError is returned by EnableAutoSync for a positive interval
// below the floor.
type IntervalError struct {
	Interval time.Duration
	Minimum  time.Duration
}

func (e *IntervalError) Error() string {
	return fmt.Sprintf("auto-sync interval %v is too short; specify %v or more", e.Interval, e.Minimum)
}

// Is reports whether target is ErrIntervalTooShort.
func (e *IntervalError) Is(target error) bool { return target == ErrIntervalTooShort }

// RemoteOp names the RemoteClient call that failed.
type RemoteOp string

const (
	OpList      RemoteOp = "list"
	OpCreate    RemoteOp = "create"
	OpTerminate RemoteOp = "terminate"
)

// RemoteError wraps a RemoteClient failure. The collaborator's error
// is kept intact and reachable through errors.As and errors.Is.
type RemoteError struct {
	Op RemoteOp
	// ProcessID is set for OpTerminate, and for OpCreate when the
	// platform created a process the fleet refused to track.
	ProcessID string
	Err       error
}

func (e *RemoteError) Error() string {
	switch e.Op {
	case OpList:
		return fmt.Sprintf("fleet: listing processes: %v", e.Err)
	case OpCreate:
		return fmt.Sprintf("fleet: creating process: %v", e.Err)
	case OpTerminate:
		return fmt.Sprintf("fleet: terminating process %s: %v", e.ProcessID, e.Err)
	default:
		return fmt.Sprintf("fleet: remote %s: %v", e.Op, e.Err)
	}
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Is matches the error class sentinel for e.Op.
func (e *RemoteError) Is(target error) bool {
	switch e.Op {
	case OpList:
		return target == ErrRemoteFetch
	case OpCreate:
		return target == ErrRemoteCreate
	case OpTerminate:
		return target == ErrRemoteTerminate
	}
	return false
}
