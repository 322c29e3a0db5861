// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process holds the entrypoint error handling shared by the
// dynofleet binaries. It covers the one raw write that happens outside
// the structured logger: reporting the error that ends main.
package process
