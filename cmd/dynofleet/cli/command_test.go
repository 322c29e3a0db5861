// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestExecute_DispatchesToSubcommand(t *testing.T) {
	var called string
	var receivedArgs []string

	root := &Command{
		Name: "dynofleet",
		Subcommands: []*Command{
			{Name: "status", Run: func(args []string) error { called = "status"; return nil }},
			{Name: "stop", Run: func(args []string) error {
				called = "stop"
				receivedArgs = args
				return nil
			}},
		},
	}

	if err := root.Execute([]string{"stop", "p1"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if called != "stop" {
		t.Errorf("dispatched to %q, want stop", called)
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "p1" {
		t.Errorf("args = %v, want [p1]", receivedArgs)
	}
}

func TestExecute_FlagParsing(t *testing.T) {
	var params struct {
		Connection
		JSONOutput
	}
	var receivedArgs []string

	command := &Command{
		Name:  "scale",
		Flags: func() *pflag.FlagSet { return FlagsFromParams("scale", &params) },
		Run: func(args []string) error {
			receivedArgs = args
			return nil
		},
	}

	if err := command.Execute([]string{"--socket", "/tmp/d.sock", "4", "--fleet", "workers", "--json"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if params.SocketPath != "/tmp/d.sock" || params.Fleet != "workers" || !params.OutputJSON {
		t.Errorf("params = %+v", params)
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "4" {
		t.Errorf("args = %v, want [4]", receivedArgs)
	}
}

func TestExecute_UnknownCommandSuggests(t *testing.T) {
	root := &Command{
		Name: "dynofleet",
		Subcommands: []*Command{
			{Name: "status", Run: func([]string) error { return nil }},
			{Name: "sync", Run: func([]string) error { return nil }},
		},
	}

	err := root.Execute([]string{"stauts"})
	if err == nil || !strings.Contains(err.Error(), `did you mean "status"`) {
		t.Fatalf("error = %v, want suggestion", err)
	}
	var toolErr *ToolError
	if !errors.As(err, &toolErr) || toolErr.Category != CategoryValidation {
		t.Errorf("error is not a validation ToolError: %#v", err)
	}

	err = root.Execute([]string{"completely-different"})
	if err == nil || strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %v, want no suggestion", err)
	}
}

func TestExecute_UnknownFlagSuggests(t *testing.T) {
	var params struct{ Connection }
	command := &Command{
		Name:  "list",
		Flags: func() *pflag.FlagSet { return FlagsFromParams("list", &params) },
		Run:   func([]string) error { return nil },
	}

	err := command.Execute([]string{"--flete", "workers"})
	if err == nil || !strings.Contains(err.Error(), "did you mean --fleet?") {
		t.Errorf("error = %v, want --fleet suggestion", err)
	}
}

func TestExecute_HelpReturnsNil(t *testing.T) {
	var params struct{ JSONOutput }
	command := &Command{
		Name:  "list",
		Flags: func() *pflag.FlagSet { return FlagsFromParams("list", &params) },
		Run: func([]string) error {
			t.Error("Run called for --help")
			return nil
		},
	}
	for _, args := range [][]string{{"--help"}, {"-h"}, {"help"}} {
		if err := command.Execute(args); err != nil {
			t.Errorf("Execute(%v): %v", args, err)
		}
	}
}

func TestExecute_HelpOutputInherited(t *testing.T) {
	var help bytes.Buffer
	root := &Command{
		Name:       "dynofleet",
		HelpOutput: &help,
		Subcommands: []*Command{{
			Name:        "sync",
			Description: "Reconcile tracked processes with the platform.",
			Run:         func([]string) error { return nil },
		}},
	}

	if err := root.Execute([]string{"sync", "--help"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(help.String(), "Reconcile tracked processes") {
		t.Errorf("subcommand help not written to the root's HelpOutput:\n%s", help.String())
	}
}

func TestExecute_SubcommandRequired(t *testing.T) {
	root := &Command{
		Name:        "dynofleet",
		Subcommands: []*Command{{Name: "status", Run: func([]string) error { return nil }}},
	}
	if err := root.Execute(nil); err == nil {
		t.Error("expected error with no command")
	}
}

func TestPrintHelp(t *testing.T) {
	var params struct {
		Connection
		JSONOutput
	}
	root := &Command{Name: "dynofleet"}
	command := &Command{
		Name:        "scale",
		Description: "Scale a fleet.",
		Usage:       "dynofleet scale <n> [flags]",
		Examples:    []Example{{Description: "Run four", Command: "dynofleet scale 4"}},
		Flags:       func() *pflag.FlagSet { return FlagsFromParams("scale", &params) },
		parent:      root,
	}

	var output bytes.Buffer
	command.PrintHelp(&output)
	help := output.String()
	for _, want := range []string{"Scale a fleet.", "Usage:\n  dynofleet scale <n> [flags]", "--socket", "--fleet", "--json", "# Run four"} {
		if !strings.Contains(help, want) {
			t.Errorf("help missing %q:\n%s", want, help)
		}
	}

	root.Subcommands = []*Command{command}
	output.Reset()
	root.PrintHelp(&output)
	if !strings.Contains(output.String(), "scale") || !strings.Contains(output.String(), "dynofleet <command> --help") {
		t.Errorf("root help:\n%s", output.String())
	}
}
