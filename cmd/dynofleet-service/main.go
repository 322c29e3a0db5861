// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/dynofleet/lib/clock"
	"github.com/bureau-foundation/dynofleet/lib/config"
	"github.com/bureau-foundation/dynofleet/lib/fleet"
	"github.com/bureau-foundation/dynofleet/lib/heroku"
	"github.com/bureau-foundation/dynofleet/lib/memplatform"
	"github.com/bureau-foundation/dynofleet/lib/process"
	"github.com/bureau-foundation/dynofleet/lib/service"
	"github.com/bureau-foundation/dynofleet/lib/version"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		process.Fatal(err)
	}
}

func run(args []string) error {
	var (
		configPath  string
		showVersion bool
	)

	flags := pflag.NewFlagSet("dynofleet-service", pflag.ContinueOnError)
	flags.StringVar(&configPath, "config", "", "path to the config file (default: $"+config.EnvironmentVariable+")")
	flags.BoolVar(&showVersion, "version", false, "print version information and exit")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if showVersion {
		fmt.Printf("dynofleet-service %s\n", version.Info())
		return nil
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Logging, os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clk := clock.Real()

	remote, closeRemote, err := openRemote(cfg, clk, logger)
	if err != nil {
		return err
	}
	defer closeRemote()

	daemon, err := newDaemon(cfg, daemonOptions{
		remote: remote,
		clock:  clk,
		logger: logger,
	})
	if err != nil {
		return err
	}
	defer daemon.Close()

	daemon.initialSync(ctx)

	socketServer := service.NewSocketServer(cfg.Service.SocketPath, classifyError, logger)
	daemon.registerActions(socketServer)

	var wg sync.WaitGroup
	daemon.runSchedulers(ctx, &wg)

	socketDone := make(chan error, 1)
	go func() {
		socketDone <- socketServer.Serve(ctx)
	}()

	logger.Info("dynofleet service running",
		"version", version.Short(),
		"platform", cfg.Platform,
		"socket", cfg.Service.SocketPath,
		"fleets", len(cfg.Fleets),
	)

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		serveErr = <-socketDone
	case serveErr = <-socketDone:
		// Serve only returns early on listen failure.
		stop()
	}
	wg.Wait()

	if serveErr != nil {
		return fmt.Errorf("socket server: %w", serveErr)
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config:\n%w", err)
	}
	return cfg, nil
}

func newLogger(logging config.LoggingConfig, w io.Writer) (*slog.Logger, error) {
	level, err := logging.SlogLevel()
	if err != nil {
		return nil, err
	}
	options := &slog.HandlerOptions{Level: level}
	if logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, options)), nil
	}
	return slog.New(slog.NewTextHandler(w, options)), nil
}

// openRemote builds the platform client selected by cfg.Platform. The
// returned close function releases the API token.
func openRemote(cfg *config.Config, clk clock.Clock, logger *slog.Logger) (fleet.RemoteClient, func(), error) {
	switch cfg.Platform {
	case config.PlatformMemory:
		logger.Warn("using the in-memory platform; processes are simulated")
		return memplatform.New(clk), func() {}, nil

	case config.PlatformHeroku:
		token, err := cfg.Heroku.OpenToken()
		if err != nil {
			return nil, nil, err
		}
		client, err := heroku.New(heroku.Config{
			App:    cfg.Heroku.App,
			Token:  token,
			APIURL: cfg.Heroku.APIURL,
			Logger: logger,
		})
		if err != nil {
			token.Close()
			return nil, nil, err
		}
		return client, func() { token.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported platform %q", cfg.Platform)
	}
}
