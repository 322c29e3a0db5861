// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the dynofleet
// operator CLI.
//
// The central type is [Command], a named command with optional nested
// [Command.Subcommands], a [pflag.FlagSet] factory, and a Run function.
// [Command.Execute] handles flag parsing, subcommand routing, and help
// output with examples. Unknown commands and flags get a suggestion
// when a known name is within edit distance 3.
//
// Parameter structs declare flags with struct tags and are bound by
// [FlagsFromParams]. Embedding [JSONOutput] adds --json; embedding
// [Connection] adds --socket and --fleet and provides [Connection.Call]
// for talking to the daemon.
//
// Errors returned to main are [ToolError] values carrying a category
// derived from the daemon's error code, so scripts can distinguish bad
// input from platform failures by exit status.
package cli
