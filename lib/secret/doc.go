// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds platform API tokens in memory that the Go heap
// never sees.
//
// A [Buffer] is an anonymous mmap region locked into RAM (mlock) and
// excluded from core dumps (MADV_DONTDUMP). Close zeroes, unlocks, and
// unmaps it. Tokens enter a Buffer through [ReadFromPath] (a token
// file, or stdin for "-") or [ReadFromEnv], and leave it only at the
// HTTP boundary where an Authorization header has to be a string.
//
// Depends on golang.org/x/sys/unix.
package secret
