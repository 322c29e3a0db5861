// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bureau-foundation/dynofleet/lib/codec"
	"github.com/bureau-foundation/dynofleet/lib/fleet"
	"github.com/bureau-foundation/dynofleet/lib/service"
	"github.com/bureau-foundation/dynofleet/lib/version"
)

// errNotFound marks requests naming an unknown fleet or an untracked
// process.
var errNotFound = errors.New("not found")

// Error codes returned in the response's code field.
const (
	codeInvalidArgument  = "invalid_argument"
	codeIntervalTooShort = "interval_too_short"
	codeRemoteFetch      = "remote_fetch"
	codeRemoteCreate     = "remote_create"
	codeRemoteTerminate  = "remote_terminate"
	codeNotFound         = "not_found"
)

func classifyError(err error) string {
	switch {
	case errors.Is(err, fleet.ErrIntervalTooShort):
		return codeIntervalTooShort
	case errors.Is(err, fleet.ErrInvalidArgument):
		return codeInvalidArgument
	case errors.Is(err, fleet.ErrRemoteFetch):
		return codeRemoteFetch
	case errors.Is(err, fleet.ErrRemoteCreate):
		return codeRemoteCreate
	case errors.Is(err, fleet.ErrRemoteTerminate):
		return codeRemoteTerminate
	case errors.Is(err, errNotFound):
		return codeNotFound
	}
	return ""
}

func (d *Daemon) registerActions(server *service.SocketServer) {
	server.Handle("status", d.handleStatus)
	server.Handle("list", d.handleList)
	server.Handle("sync", d.handleSync)
	server.Handle("start", d.handleStart)
	server.Handle("stop", d.handleStop)
	server.Handle("scale", d.handleScale)
	server.Handle("autosync", d.handleAutoSync)
}

// --- Requests ---

type fleetRequest struct {
	Fleet string `cbor:"fleet"`
}

type stopRequest struct {
	Fleet string `cbor:"fleet"`
	ID    string `cbor:"id"`
}

// scaleRequest keeps quantity untyped so that a string or fraction is
// reported as an invalid argument rather than a decode failure.
type scaleRequest struct {
	Fleet    string `cbor:"fleet"`
	Quantity any    `cbor:"quantity"`
}

type autoSyncRequest struct {
	Fleet      string `cbor:"fleet"`
	IntervalMS any    `cbor:"interval_ms"`
}

// --- Responses ---

type processInfo struct {
	ID        string `cbor:"id"`
	Name      string `cbor:"name,omitempty"`
	Command   string `cbor:"command"`
	Size      string `cbor:"size,omitempty"`
	State     string `cbor:"state,omitempty"`
	CreatedAt string `cbor:"created_at,omitempty"`
}

func newProcessInfo(handle fleet.ProcessHandle) processInfo {
	info := processInfo{
		ID:      handle.ID,
		Name:    handle.Name,
		Command: handle.Command,
		Size:    handle.Size,
		State:   handle.State,
	}
	if !handle.CreatedAt.IsZero() {
		info.CreatedAt = handle.CreatedAt.UTC().Format(time.RFC3339)
	}
	return info
}

func processInfos(handles []fleet.ProcessHandle) []processInfo {
	infos := make([]processInfo, len(handles))
	for i, handle := range handles {
		infos[i] = newProcessInfo(handle)
	}
	return infos
}

type fleetStatus struct {
	Name               string `cbor:"name"`
	Command            string `cbor:"command"`
	Size               string `cbor:"size"`
	Processes          int    `cbor:"processes"`
	AutoSyncIntervalMS int64  `cbor:"auto_sync_interval_ms"`
}

type statusResponse struct {
	UptimeSeconds float64           `cbor:"uptime_seconds"`
	Platform      string            `cbor:"platform"`
	Version       version.BuildInfo `cbor:"version"`
	Fleets        []fleetStatus     `cbor:"fleets"`
}

type listResponse struct {
	Fleet     string        `cbor:"fleet"`
	Processes []processInfo `cbor:"processes"`
}

type syncResponse struct {
	Fleet string `cbor:"fleet"`
	// Processes is the platform listing for the fleet's command.
	Processes []processInfo `cbor:"processes"`
}

type startResponse struct {
	Fleet   string      `cbor:"fleet"`
	Process processInfo `cbor:"process"`
}

type scaleResponse struct {
	Fleet     string `cbor:"fleet"`
	Quantity  int    `cbor:"quantity"`
	Processes int    `cbor:"processes"`
}

type autoSyncResponse struct {
	Fleet      string `cbor:"fleet"`
	IntervalMS int64  `cbor:"interval_ms"`
	Enabled    bool   `cbor:"enabled"`
}

// --- Handlers ---

func (d *Daemon) handleStatus(_ context.Context, _ []byte) (any, error) {
	response := statusResponse{
		UptimeSeconds: d.clock.Since(d.startedAt).Seconds(),
		Platform:      string(d.platform),
		Version:       version.Current(),
		Fleets:        make([]fleetStatus, len(d.fleets)),
	}
	for i, managed := range d.fleets {
		response.Fleets[i] = fleetStatus{
			Name:               managed.name,
			Command:            managed.fleet.Command(),
			Size:               managed.fleet.Size(),
			Processes:          managed.fleet.Len(),
			AutoSyncIntervalMS: managed.fleet.AutoSyncInterval().Milliseconds(),
		}
	}
	return response, nil
}

func (d *Daemon) decodeFleet(raw []byte) (*managedFleet, error) {
	var request fleetRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, &fleet.ArgumentError{Name: "request", Reason: err.Error()}
	}
	return d.lookup(request.Fleet)
}

func (d *Daemon) handleList(_ context.Context, raw []byte) (any, error) {
	managed, err := d.decodeFleet(raw)
	if err != nil {
		return nil, err
	}
	return listResponse{
		Fleet:     managed.name,
		Processes: processInfos(managed.fleet.Processes()),
	}, nil
}

func (d *Daemon) handleSync(ctx context.Context, raw []byte) (any, error) {
	managed, err := d.decodeFleet(raw)
	if err != nil {
		return nil, err
	}
	listing, err := managed.fleet.Sync(ctx)
	if err != nil {
		return nil, err
	}
	return syncResponse{
		Fleet:     managed.name,
		Processes: processInfos(listing),
	}, nil
}

func (d *Daemon) handleStart(ctx context.Context, raw []byte) (any, error) {
	managed, err := d.decodeFleet(raw)
	if err != nil {
		return nil, err
	}
	handle, err := managed.fleet.Start(ctx)
	if err != nil {
		return nil, err
	}
	return startResponse{
		Fleet:   managed.name,
		Process: newProcessInfo(handle),
	}, nil
}

func (d *Daemon) handleStop(ctx context.Context, raw []byte) (any, error) {
	var request stopRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, &fleet.ArgumentError{Name: "request", Reason: err.Error()}
	}
	if request.ID == "" {
		return nil, &fleet.ArgumentError{Name: "id", Reason: "a process id is required"}
	}
	managed, err := d.lookup(request.Fleet)
	if err != nil {
		return nil, err
	}

	handle, ok := managed.fleet.Lookup(request.ID)
	if !ok {
		return nil, fmt.Errorf("process %q in fleet %q: %w", request.ID, managed.name, errNotFound)
	}
	return nil, managed.fleet.Stop(ctx, handle)
}

func (d *Daemon) handleScale(ctx context.Context, raw []byte) (any, error) {
	var request scaleRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, &fleet.ArgumentError{Name: "request", Reason: err.Error()}
	}
	quantity, err := fleet.QuantityArgument(request.Quantity)
	if err != nil {
		return nil, err
	}
	managed, err := d.lookup(request.Fleet)
	if err != nil {
		return nil, err
	}

	if err := managed.fleet.Scale(ctx, quantity); err != nil {
		return nil, err
	}
	return scaleResponse{
		Fleet:     managed.name,
		Quantity:  quantity,
		Processes: managed.fleet.Len(),
	}, nil
}

func (d *Daemon) handleAutoSync(_ context.Context, raw []byte) (any, error) {
	var request autoSyncRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, &fleet.ArgumentError{Name: "request", Reason: err.Error()}
	}
	interval, err := fleet.IntervalArgument(request.IntervalMS)
	if err != nil {
		return nil, err
	}
	managed, err := d.lookup(request.Fleet)
	if err != nil {
		return nil, err
	}

	if err := managed.fleet.EnableAutoSync(interval); err != nil {
		return nil, err
	}
	current := managed.fleet.AutoSyncInterval()
	return autoSyncResponse{
		Fleet:      managed.name,
		IntervalMS: current.Milliseconds(),
		Enabled:    current > 0,
	}, nil
}
