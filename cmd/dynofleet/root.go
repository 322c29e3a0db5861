// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/bureau-foundation/dynofleet/cmd/dynofleet/cli"
)

func root() *cli.Command {
	return &cli.Command{
		Name: "dynofleet",
		Description: `Dynofleet: manage fleets of one-off dynos.

Talks to a running dynofleet-service over its Unix socket to inspect,
reconcile, and scale the fleets it manages.`,
		Subcommands: []*cli.Command{
			statusCommand(),
			listCommand(),
			syncCommand(),
			startCommand(),
			stopCommand(),
			scaleCommand(),
			autoSyncCommand(),
			versionCommand(),
		},
	}
}
