// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Dynofleet-service is the long-running fleet manager daemon.
//
// It loads one config file (--config or DYNOFLEET_CONFIG), builds a
// platform client (Heroku or the in-memory platform), and creates one
// fleet per configured entry. Each fleet gets a structured log
// listener, the Kafka event sink when events.kafka is configured,
// auto-sync when auto_sync_interval_ms is set, and a cron scheduler
// when schedules are configured.
//
// After an initial sync of every fleet (failures are logged, not
// fatal) the daemon serves a CBOR socket API until SIGINT or SIGTERM:
//
//   - status: uptime, build version, and a summary of every fleet
//   - list: tracked processes of one fleet
//   - sync: reconcile one fleet with the platform
//   - start: start one process
//   - stop: stop a tracked process by id
//   - scale: scale to quantity processes
//   - autosync: set the auto-sync interval in milliseconds (0 disables)
//
// Every action except status takes an optional "fleet" field. It may
// be omitted when exactly one fleet is configured.
package main
