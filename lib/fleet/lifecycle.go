// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fleet

import (
	"context"
	"fmt"
)

// Start creates one process with the fleet's command and size, adds it
// to fleet state, and emits ProcessStarted. On failure the error
// matches ErrRemoteCreate and fleet state is unchanged. A created
// process whose reported command differs from the fleet's is a failure:
// it is left running on the platform and not tracked.
func (f *Fleet) Start(ctx context.Context) (ProcessHandle, error) {
	f.operationMu.Lock()
	defer f.operationMu.Unlock()
	return f.startLocked(ctx)
}

// startLocked implements Start. Caller must hold f.operationMu.
func (f *Fleet) startLocked(ctx context.Context) (ProcessHandle, error) {
	handle, err := f.remote.Create(ctx, CreateSpec{Command: f.command, Size: f.size})
	if err != nil {
		return ProcessHandle{}, &RemoteError{Op: OpCreate, Err: err}
	}

	// Some platforms echo only the ID on creation. The tracked handle
	// must carry the fleet command or the next Sync would not match it.
	switch handle.Command {
	case "":
		handle.Command = f.command
	case f.command:
	default:
		f.logger.Warn("platform reported a different command for created process",
			"process_id", handle.ID,
			"reported_command", handle.Command,
		)
		return ProcessHandle{}, &RemoteError{
			Op:        OpCreate,
			ProcessID: handle.ID,
			Err:       fmt.Errorf("platform reported command %q for process %s, want %q", handle.Command, handle.ID, f.command),
		}
	}

	if f.state.add(handle) {
		f.logger.Info("started process",
			"process_id", handle.ID,
			"name", handle.Name,
			"size", handle.Size,
		)
		f.emitProcess(ProcessStarted, handle)
	}
	return handle, nil
}

// Stop terminates the given process on the platform. If the process is
// tracked it is removed from fleet state and ProcessStopped is emitted;
// an untracked handle is terminated without an event. On failure the
// error matches ErrRemoteTerminate and fleet state is unchanged.
func (f *Fleet) Stop(ctx context.Context, handle ProcessHandle) error {
	f.operationMu.Lock()
	defer f.operationMu.Unlock()
	return f.stopLocked(ctx, handle)
}

// stopLocked implements Stop. Caller must hold f.operationMu.
func (f *Fleet) stopLocked(ctx context.Context, handle ProcessHandle) error {
	if err := f.remote.Terminate(ctx, handle.ID); err != nil {
		return &RemoteError{Op: OpTerminate, ProcessID: handle.ID, Err: err}
	}

	if _, tracked := f.state.remove(handle.ID); !tracked {
		f.logger.Debug("terminated untracked process", "process_id", handle.ID)
		return nil
	}

	f.logger.Info("stopped process",
		"process_id", handle.ID,
		"name", handle.Name,
	)
	f.emitProcess(ProcessStopped, handle)
	return nil
}
