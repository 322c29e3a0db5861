// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/dynofleet/cmd/dynofleet/cli"
	"github.com/bureau-foundation/dynofleet/lib/version"
)

type versionParams struct {
	cli.JSONOutput
	Full bool `flag:"full" desc:"include Go toolchain and platform"`
}

func versionCommand() *cli.Command {
	var params versionParams

	return &cli.Command{
		Name:    "version",
		Summary: "Print the CLI version",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("version", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return runVersion(&params, os.Stdout)
		},
	}
}

func runVersion(params *versionParams, w io.Writer) error {
	if done, err := params.EmitJSON(w, version.Current()); done {
		return err
	}
	if params.Full {
		_, err := fmt.Fprintf(w, "dynofleet %s\n", version.Full())
		return err
	}
	_, err := fmt.Fprintf(w, "dynofleet %s\n", version.Info())
	return err
}
