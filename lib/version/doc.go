// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports build version information for the dynofleet
// binaries.
//
// [GitCommit], [GitDirty], [BuildTime], and [Version] are injected with
// -ldflags -X. When they are not injected, [Current] falls back to the
// VCS stamp the Go toolchain records in the binary, so plain go build
// output still reports a commit.
//
// [Info] is the --version line. [Current] is the structured form the
// daemon returns from its version action.
package version
