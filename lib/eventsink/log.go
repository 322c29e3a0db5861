// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package eventsink

import (
	"log/slog"

	"github.com/bureau-foundation/dynofleet/lib/fleet"
)

// LogListener returns a fleet listener that logs every event.
// Membership changes log at Info, syncs at Debug, auto-sync failures
// at Warn.
func LogListener(logger *slog.Logger, fleetName string) fleet.Listener {
	logger = logger.With("fleet", fleetName)
	return func(event fleet.Event) {
		switch event.Kind {
		case fleet.ProcessStarted, fleet.ProcessStopped:
			logger.Info(event.Kind.String(),
				"process_id", event.Process.ID,
				"name", event.Process.Name,
				"state", event.Process.State,
			)
		case fleet.FleetSynced:
			logger.Debug(event.Kind.String(), "processes", len(event.Processes))
		case fleet.AutoSyncFailed:
			logger.Warn(event.Kind.String(), "error", event.Err)
		default:
			logger.Warn("unrecognized fleet event", "kind", int(event.Kind))
		}
	}
}
