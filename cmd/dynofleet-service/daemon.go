// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bureau-foundation/dynofleet/lib/clock"
	"github.com/bureau-foundation/dynofleet/lib/config"
	"github.com/bureau-foundation/dynofleet/lib/eventsink"
	"github.com/bureau-foundation/dynofleet/lib/fleet"
	"github.com/bureau-foundation/dynofleet/lib/schedule"
)

// daemonOptions carries the collaborators newDaemon does not build
// from config.
type daemonOptions struct {
	remote fleet.RemoteClient
	clock  clock.Clock
	logger *slog.Logger

	// producer replaces the franz-go client when events.kafka is
	// configured.
	producer eventsink.Producer
}

// managedFleet is one configured fleet and everything attached to it.
type managedFleet struct {
	name        string
	fleet       *fleet.Fleet
	scheduler   *schedule.Scheduler
	unsubscribe []func()
}

// Daemon owns the configured fleets for the life of the process.
type Daemon struct {
	platform  config.Platform
	clock     clock.Clock
	startedAt time.Time
	logger    *slog.Logger

	// fleets is in config order.
	fleets []*managedFleet
	byName map[string]*managedFleet

	kafka *eventsink.KafkaSink
}

func newDaemon(cfg *config.Config, options daemonOptions) (*Daemon, error) {
	if options.remote == nil {
		return nil, errors.New("remote client is required")
	}
	if options.clock == nil {
		options.clock = clock.Real()
	}
	if options.logger == nil {
		options.logger = slog.New(slog.DiscardHandler)
	}

	d := &Daemon{
		platform:  cfg.Platform,
		clock:     options.clock,
		startedAt: options.clock.Now(),
		logger:    options.logger,
		byName:    make(map[string]*managedFleet, len(cfg.Fleets)),
	}

	if kafka := cfg.Events.Kafka; kafka.Enabled() {
		if options.producer != nil {
			d.kafka = eventsink.NewKafkaSinkWithProducer(options.producer, kafka.Topic, options.logger)
		} else {
			sink, err := eventsink.NewKafkaSink(eventsink.KafkaConfig{
				Brokers: kafka.Brokers,
				Topic:   kafka.Topic,
				Logger:  options.logger,
			})
			if err != nil {
				return nil, fmt.Errorf("creating kafka event sink: %w", err)
			}
			d.kafka = sink
		}
		d.logger.Info("publishing fleet events to kafka",
			"brokers", kafka.Brokers,
			"topic", kafka.Topic,
		)
	}

	for _, fleetConfig := range cfg.Fleets {
		managed, err := d.newManagedFleet(options.remote, fleetConfig)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("fleet %q: %w", fleetConfig.Name, err)
		}
		d.fleets = append(d.fleets, managed)
		d.byName[managed.name] = managed
	}

	return d, nil
}

func (d *Daemon) newManagedFleet(remote fleet.RemoteClient, fleetConfig config.FleetConfig) (*managedFleet, error) {
	policy, err := fleet.ScaleDownPolicyByName(fleetConfig.ScaleDown)
	if err != nil {
		return nil, err
	}

	logger := d.logger.With("fleet", fleetConfig.Name)

	// Auto-sync is enabled after listeners are attached so that no
	// cycle can emit before the sinks exist.
	f, err := fleet.New(fleet.Config{
		Remote:    remote,
		Command:   fleetConfig.Command,
		Size:      fleetConfig.Size,
		ScaleDown: policy,
		Clock:     d.clock,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	managed := &managedFleet{
		name:  fleetConfig.Name,
		fleet: f,
	}
	managed.unsubscribe = append(managed.unsubscribe,
		f.Subscribe(eventsink.LogListener(d.logger, fleetConfig.Name)))
	if d.kafka != nil {
		managed.unsubscribe = append(managed.unsubscribe,
			f.Subscribe(d.kafka.Listener(fleetConfig.Name)))
	}

	if len(fleetConfig.Schedules) > 0 {
		rules := make([]schedule.Rule, len(fleetConfig.Schedules))
		for i, rule := range fleetConfig.Schedules {
			rules[i] = schedule.Rule{Cron: rule.Cron, Replicas: rule.Replicas}
		}
		managed.scheduler, err = schedule.New(f, rules, d.clock, logger)
		if err != nil {
			managed.close()
			return nil, err
		}
	}

	if interval := fleetConfig.AutoSyncInterval(); interval > 0 {
		if err := f.EnableAutoSync(interval); err != nil {
			managed.close()
			return nil, err
		}
	}

	return managed, nil
}

func (m *managedFleet) close() {
	m.fleet.Close()
	for _, unsubscribe := range m.unsubscribe {
		unsubscribe()
	}
}

// initialSync reconciles every fleet once. Failures are logged; the
// fleet keeps an empty view until the next successful sync.
func (d *Daemon) initialSync(ctx context.Context) {
	for _, managed := range d.fleets {
		listing, err := managed.fleet.Sync(ctx)
		if err != nil {
			d.logger.Warn("initial sync failed",
				"fleet", managed.name,
				"error", err,
			)
			continue
		}
		d.logger.Info("initial sync complete",
			"fleet", managed.name,
			"processes", len(listing),
		)
	}
}

// runSchedulers starts one goroutine per fleet with schedules. They
// exit when ctx is cancelled.
func (d *Daemon) runSchedulers(ctx context.Context, wg *sync.WaitGroup) {
	for _, managed := range d.fleets {
		if managed.scheduler == nil {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			managed.scheduler.Run(ctx)
		}()
	}
}

// lookup resolves a request's fleet field. An empty name selects the
// only fleet when exactly one is configured.
func (d *Daemon) lookup(name string) (*managedFleet, error) {
	if name == "" {
		if len(d.fleets) == 1 {
			return d.fleets[0], nil
		}
		return nil, &fleet.ArgumentError{
			Name:   "fleet",
			Reason: fmt.Sprintf("required when %d fleets are configured", len(d.fleets)),
		}
	}
	managed, ok := d.byName[name]
	if !ok {
		return nil, fmt.Errorf("fleet %q: %w", name, errNotFound)
	}
	return managed, nil
}

// Close stops auto-sync on every fleet, detaches listeners, and
// flushes the Kafka sink. Schedulers stop with their context.
func (d *Daemon) Close() {
	for _, managed := range d.fleets {
		managed.close()
	}
	if d.kafka != nil {
		if err := d.kafka.Close(); err != nil {
			d.logger.Warn("closing kafka event sink", "error", err)
		}
		produced, failed := d.kafka.Stats()
		d.logger.Info("kafka event sink closed", "produced", produced, "failed", failed)
	}
}
