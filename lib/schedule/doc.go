// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package schedule scales fleets on a calendar.
//
// A [Scheduler] owns a list of rules, each a standard five-field cron
// expression paired with a replica count. Run waits on the injected
// clock until the earliest next firing and calls Scale for every rule
// due at that instant. Expressions are parsed by robfig/cron, so the
// usual descriptors (@hourly, @daily) and a leading CRON_TZ=Zone are
// accepted. Firings missed while the process was not running, or while
// a previous Scale was still in progress, are skipped rather than
// replayed.
package schedule
