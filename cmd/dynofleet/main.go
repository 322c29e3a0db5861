// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/bureau-foundation/dynofleet/cmd/dynofleet/cli"
	"github.com/bureau-foundation/dynofleet/lib/process"
)

func main() {
	err := root().Execute(os.Args[1:])
	if err == nil {
		return
	}

	// Errors carrying their own exit code have already reported themselves.
	code := process.Report(os.Stderr, err)

	var toolErr *cli.ToolError
	if errors.As(err, &toolErr) {
		if toolErr.Hint != "" {
			fmt.Fprintf(os.Stderr, "\n%s\n", toolErr.Hint)
		}
		code = toolErr.Category.ExitCode()
	}
	os.Exit(code)
}
