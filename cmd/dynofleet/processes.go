// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/dynofleet/cmd/dynofleet/cli"
)

type processEntry struct {
	ID        string `cbor:"id" json:"id"`
	Name      string `cbor:"name,omitempty" json:"name,omitempty"`
	Command   string `cbor:"command" json:"command"`
	Size      string `cbor:"size,omitempty" json:"size,omitempty"`
	State     string `cbor:"state,omitempty" json:"state,omitempty"`
	CreatedAt string `cbor:"created_at,omitempty" json:"created_at,omitempty"`
}

type processListResult struct {
	Fleet     string         `cbor:"fleet" json:"fleet"`
	Processes []processEntry `cbor:"processes" json:"processes"`
}

func printProcesses(w io.Writer, processes []processEntry) error {
	if len(processes) == 0 {
		fmt.Fprintln(w, "no processes")
		return nil
	}
	tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATE\tSIZE\tCREATED")
	for _, process := range processes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			process.ID, process.Name, process.State, process.Size, process.CreatedAt)
	}
	return tw.Flush()
}

type listParams struct {
	cli.Connection
	cli.JSONOutput
}

func listCommand() *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List the processes a fleet tracks",
		Description: `List the processes the daemon currently tracks for a fleet.

This is the daemon's local view as of the last sync, start, or stop. Run
'dynofleet sync' first to refresh it from the platform.`,
		Usage: "dynofleet list [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("list", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return runList(context.Background(), &params, os.Stdout)
		},
	}
}

func runList(ctx context.Context, params *listParams, w io.Writer) error {
	var result processListResult
	if err := params.Call(ctx, "list", nil, &result); err != nil {
		return err
	}
	if done, err := params.EmitJSON(w, result); done {
		return err
	}
	return printProcesses(w, result.Processes)
}

type syncParams struct {
	cli.Connection
	cli.JSONOutput
}

func syncCommand() *cli.Command {
	var params syncParams

	return &cli.Command{
		Name:    "sync",
		Summary: "Reconcile a fleet with the platform",
		Description: `Fetch the platform's process listing and reconcile the fleet with it.

Processes running the fleet's command that the daemon did not know about
are adopted; tracked processes missing from the listing are dropped. The
listing is printed.`,
		Usage: "dynofleet sync [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("sync", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return runSync(context.Background(), &params, os.Stdout)
		},
	}
}

func runSync(ctx context.Context, params *syncParams, w io.Writer) error {
	var result processListResult
	if err := params.Call(ctx, "sync", nil, &result); err != nil {
		return err
	}
	if done, err := params.EmitJSON(w, result); done {
		return err
	}
	return printProcesses(w, result.Processes)
}

type startParams struct {
	cli.Connection
	cli.JSONOutput
}

type startResult struct {
	Fleet   string       `cbor:"fleet" json:"fleet"`
	Process processEntry `cbor:"process" json:"process"`
}

func startCommand() *cli.Command {
	var params startParams

	return &cli.Command{
		Name:    "start",
		Summary: "Start one process",
		Usage:   "dynofleet start [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("start", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return runStart(context.Background(), &params, os.Stdout, cli.NewCommandLogger())
		},
	}
}

func runStart(ctx context.Context, params *startParams, w io.Writer, logger *slog.Logger) error {
	var result startResult
	if err := params.Call(ctx, "start", nil, &result); err != nil {
		return err
	}
	if done, err := params.EmitJSON(w, result); done {
		return err
	}
	logger.Info("process started",
		"fleet", result.Fleet,
		"id", result.Process.ID,
		"name", result.Process.Name,
	)
	return nil
}

type stopParams struct {
	cli.Connection
}

func stopCommand() *cli.Command {
	var params stopParams

	return &cli.Command{
		Name:    "stop",
		Summary: "Stop a tracked process",
		Description: `Terminate a process the fleet tracks.

The id must be in the fleet's tracked set ('dynofleet list'). Processes
the daemon has not seen yet are adopted by 'dynofleet sync'.`,
		Usage: "dynofleet stop <id> [flags]",
		Examples: []cli.Example{
			{
				Description: "Stop one worker",
				Command:     "dynofleet stop 01234567-89ab-cdef-0123-456789abcdef --fleet workers",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("stop", &params)
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("expected exactly one process id, got %d arguments", len(args))
			}
			return runStop(context.Background(), &params, args[0], cli.NewCommandLogger())
		},
	}
}

func runStop(ctx context.Context, params *stopParams, id string, logger *slog.Logger) error {
	if err := params.Call(ctx, "stop", map[string]any{"id": id}, nil); err != nil {
		return err
	}
	logger.Info("process stopped", "fleet", params.Fleet, "id", id)
	return nil
}
