// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/dynofleet/cmd/dynofleet/cli"
)

// numberArgument parses a positional numeric argument. Integers are
// sent as integers; other numbers are sent as floats so the daemon
// applies its own whole-number check and message.
func numberArgument(name, arg string) (any, error) {
	if n, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return n, nil
	}
	if f, err := strconv.ParseFloat(arg, 64); err == nil {
		return f, nil
	}
	return nil, cli.Validation("invalid %s %q: expected a number", name, arg)
}

type scaleParams struct {
	cli.Connection
	cli.JSONOutput
}

type scaleResult struct {
	Fleet     string `cbor:"fleet" json:"fleet"`
	Quantity  int    `cbor:"quantity" json:"quantity"`
	Processes int    `cbor:"processes" json:"processes"`
}

func scaleCommand() *cli.Command {
	var params scaleParams

	return &cli.Command{
		Name:    "scale",
		Summary: "Scale a fleet to a number of processes",
		Description: `Sync the fleet, then start or stop processes until exactly <n> run.

Processes are started or stopped one at a time. The first platform failure
stops the operation; processes already started or stopped stay that way.
Which processes are stopped when scaling down follows the fleet's
scale_down policy.`,
		Usage: "dynofleet scale <n> [flags]",
		Examples: []cli.Example{
			{
				Description: "Run four workers",
				Command:     "dynofleet scale 4 --fleet workers",
			},
			{
				Description: "Stop every worker",
				Command:     "dynofleet scale 0 --fleet workers",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("scale", &params)
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("expected exactly one quantity, got %d arguments", len(args))
			}
			quantity, err := numberArgument("quantity", args[0])
			if err != nil {
				return err
			}
			return runScale(context.Background(), &params, quantity, os.Stdout, cli.NewCommandLogger())
		},
	}
}

func runScale(ctx context.Context, params *scaleParams, quantity any, w io.Writer, logger *slog.Logger) error {
	var result scaleResult
	if err := params.Call(ctx, "scale", map[string]any{"quantity": quantity}, &result); err != nil {
		return err
	}
	if done, err := params.EmitJSON(w, result); done {
		return err
	}
	logger.Info("fleet scaled",
		"fleet", result.Fleet,
		"quantity", result.Quantity,
		"processes", result.Processes,
	)
	return nil
}

type autoSyncParams struct {
	cli.Connection
	cli.JSONOutput
}

type autoSyncResult struct {
	Fleet      string `cbor:"fleet" json:"fleet"`
	IntervalMS int64  `cbor:"interval_ms" json:"interval_ms"`
	Enabled    bool   `cbor:"enabled" json:"enabled"`
}

func autoSyncCommand() *cli.Command {
	var params autoSyncParams

	return &cli.Command{
		Name:    "autosync",
		Summary: "Set a fleet's auto-sync interval",
		Description: `Sync the fleet with the platform every <ms> milliseconds.

Each cycle is followed by a 10 second cooldown before the next interval
starts. The interval must be at least 5000; 0 disables auto-sync.`,
		Usage: "dynofleet autosync <ms> [flags]",
		Examples: []cli.Example{
			{
				Description: "Sync every 30 seconds",
				Command:     "dynofleet autosync 30000 --fleet workers",
			},
			{
				Description: "Disable auto-sync",
				Command:     "dynofleet autosync 0 --fleet workers",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("autosync", &params)
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("expected exactly one interval in milliseconds, got %d arguments", len(args))
			}
			interval, err := numberArgument("interval", args[0])
			if err != nil {
				return err
			}
			return runAutoSync(context.Background(), &params, interval, os.Stdout, cli.NewCommandLogger())
		},
	}
}

func runAutoSync(ctx context.Context, params *autoSyncParams, interval any, w io.Writer, logger *slog.Logger) error {
	var result autoSyncResult
	if err := params.Call(ctx, "autosync", map[string]any{"interval_ms": interval}, &result); err != nil {
		return err
	}
	if done, err := params.EmitJSON(w, result); done {
		return err
	}
	if result.Enabled {
		logger.Info("auto-sync enabled", "fleet", result.Fleet, "interval", formatInterval(result.IntervalMS))
	} else {
		logger.Info("auto-sync disabled", "fleet", result.Fleet)
	}
	return nil
}
