// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/dynofleet/cmd/dynofleet/cli"
	"github.com/bureau-foundation/dynofleet/lib/version"
)

type statusParams struct {
	cli.Connection
	cli.JSONOutput
}

type fleetStatus struct {
	Name               string `cbor:"name" json:"name"`
	Command            string `cbor:"command" json:"command"`
	Size               string `cbor:"size" json:"size"`
	Processes          int    `cbor:"processes" json:"processes"`
	AutoSyncIntervalMS int64  `cbor:"auto_sync_interval_ms" json:"auto_sync_interval_ms"`
}

type statusResult struct {
	UptimeSeconds float64           `cbor:"uptime_seconds" json:"uptime_seconds"`
	Platform      string            `cbor:"platform" json:"platform"`
	Version       version.BuildInfo `cbor:"version" json:"version"`
	Fleets        []fleetStatus     `cbor:"fleets" json:"fleets"`
}

func statusCommand() *cli.Command {
	var params statusParams

	return &cli.Command{
		Name:    "status",
		Summary: "Show daemon status and a summary of every fleet",
		Usage:   "dynofleet status [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("status", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return runStatus(context.Background(), &params, os.Stdout)
		},
	}
}

func runStatus(ctx context.Context, params *statusParams, w io.Writer) error {
	var result statusResult
	if err := params.Call(ctx, "status", nil, &result); err != nil {
		return err
	}
	if done, err := params.EmitJSON(w, result); done {
		return err
	}

	uptime := time.Duration(result.UptimeSeconds * float64(time.Second)).Truncate(time.Second)
	fmt.Fprintf(w, "dynofleet-service %s on %s, up %s\n\n", result.Version, result.Platform, uptime)

	tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "FLEET\tPROCESSES\tSIZE\tAUTO-SYNC\tCOMMAND")
	for _, fleet := range result.Fleets {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n",
			fleet.Name, fleet.Processes, fleet.Size, formatInterval(fleet.AutoSyncIntervalMS), fleet.Command)
	}
	return tw.Flush()
}

func formatInterval(ms int64) string {
	if ms <= 0 {
		return "off"
	}
	return (time.Duration(ms) * time.Millisecond).String()
}
