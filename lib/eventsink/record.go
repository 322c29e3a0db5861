// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package eventsink

import (
	"time"

	"github.com/bureau-foundation/dynofleet/lib/fleet"
)

// Record is the exported form of a fleet event.
type Record struct {
	Fleet     string                `json:"fleet"`
	Kind      string                `json:"kind"`
	Time      time.Time             `json:"time"`
	Process   *fleet.ProcessHandle  `json:"process,omitempty"`
	Processes []fleet.ProcessHandle `json:"processes,omitempty"`
	Error     string                `json:"error,omitempty"`
}

// NewRecord converts event into a Record for fleetName.
func NewRecord(fleetName string, event fleet.Event) Record {
	record := Record{
		Fleet: fleetName,
		Kind:  event.Kind.String(),
		Time:  event.Time,
	}
	switch event.Kind {
	case fleet.ProcessStarted, fleet.ProcessStopped:
		process := event.Process
		record.Process = &process
	case fleet.FleetSynced:
		record.Processes = event.Processes
		if record.Processes == nil {
			record.Processes = []fleet.ProcessHandle{}
		}
	case fleet.AutoSyncFailed:
		if event.Err != nil {
			record.Error = event.Err.Error()
		}
	}
	return record
}
