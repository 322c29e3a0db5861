// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/dynofleet/lib/fleet"
	"github.com/bureau-foundation/dynofleet/lib/schedule"
)

// Validate checks the configuration and returns every problem found,
// joined.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	switch c.Platform {
	case PlatformHeroku:
		if c.Heroku.App == "" {
			add("heroku.app is required for platform heroku")
		}
		switch {
		case c.Heroku.TokenEnv == "" && c.Heroku.TokenFile == "":
			add("one of heroku.token_env or heroku.token_file is required for platform heroku")
		case c.Heroku.TokenEnv != "" && c.Heroku.TokenFile != "":
			add("heroku.token_env and heroku.token_file are mutually exclusive")
		}
	case PlatformMemory:
	default:
		add("platform must be heroku or memory, got %q", c.Platform)
	}

	if c.Service.SocketPath == "" {
		add("service.socket_path is required")
	}

	if _, err := c.Logging.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		add("logging.format must be text or json, got %q", c.Logging.Format)
	}

	if kafka := c.Events.Kafka; kafka.Enabled() && kafka.Topic == "" {
		add("events.kafka.topic is required when brokers are set")
	} else if !kafka.Enabled() && kafka.Topic != "" {
		add("events.kafka.brokers is required when topic is set")
	}

	if len(c.Fleets) == 0 {
		add("at least one fleet is required")
	}
	seen := make(map[string]bool, len(c.Fleets))
	for i, fleetConfig := range c.Fleets {
		label := fmt.Sprintf("fleets[%d]", i)
		if fleetConfig.Name == "" {
			add("%s.name is required", label)
		} else {
			label = fmt.Sprintf("fleet %q", fleetConfig.Name)
			if seen[fleetConfig.Name] {
				add("%s is defined more than once", label)
			}
			seen[fleetConfig.Name] = true
		}
		errs = append(errs, fleetConfig.validate(label)...)
	}

	return errors.Join(errs...)
}

func (f FleetConfig) validate(label string) []error {
	var errs []error

	if f.Command == "" {
		errs = append(errs, fmt.Errorf("%s: command is required", label))
	}

	interval := f.AutoSyncInterval()
	if f.AutoSyncIntervalMS < 0 || (interval > 0 && interval < fleet.MinAutoSyncInterval) {
		errs = append(errs, fmt.Errorf("%s: auto_sync_interval_ms must be 0 or at least %d, got %d",
			label, fleet.MinAutoSyncInterval.Milliseconds(), f.AutoSyncIntervalMS))
	}

	if _, err := fleet.ScaleDownPolicyByName(f.ScaleDown); err != nil {
		errs = append(errs, fmt.Errorf("%s: scale_down: %w", label, err))
	}

	for i, rule := range f.Schedules {
		if _, err := schedule.Parse(rule.Cron); err != nil {
			errs = append(errs, fmt.Errorf("%s: schedules[%d]: %w", label, i, err))
		}
		if rule.Replicas < 0 {
			errs = append(errs, fmt.Errorf("%s: schedules[%d]: replicas must be non-negative, got %d", label, i, rule.Replicas))
		}
	}

	return errs
}

// SlogLevel parses Level.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", l.Level)
	}
	return level, nil
}
