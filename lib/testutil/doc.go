// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for dynofleet packages.
//
// [SocketDir] creates a short temporary directory under /tmp for Unix
// domain sockets, whose paths are limited to 108 bytes. t.TempDir()
// paths can exceed that. [WaitForSocket] blocks until a server has
// created its socket file.
//
// [RequireReceive], [RequireSend], and [RequireClosed] wrap the
// select-with-timeout pattern so tests never block forever on a
// channel. They are the only place tests use wall-clock timeouts;
// everything time-dependent in production code runs on lib/clock and
// is driven by a fake clock in tests.
//
// All helpers call t.Fatalf on failure.
package testutil
