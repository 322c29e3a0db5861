// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/bureau-foundation/dynofleet/lib/clock"
	"github.com/bureau-foundation/dynofleet/lib/config"
	"github.com/bureau-foundation/dynofleet/lib/eventsink"
	"github.com/bureau-foundation/dynofleet/lib/fleet"
	"github.com/bureau-foundation/dynofleet/lib/heroku"
	"github.com/bureau-foundation/dynofleet/lib/memplatform"
	"github.com/bureau-foundation/dynofleet/lib/testutil"
)

type fakeProducer struct {
	mu      sync.Mutex
	records []*kgo.Record
	closed  bool
}

func (p *fakeProducer) TryProduce(_ context.Context, record *kgo.Record, promise func(*kgo.Record, error)) {
	p.mu.Lock()
	p.records = append(p.records, record)
	p.mu.Unlock()
	promise(record, nil)
}

func (p *fakeProducer) Flush(context.Context) error { return nil }

func (p *fakeProducer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

func (p *fakeProducer) kinds(t *testing.T) []string {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	kinds := make([]string, len(p.records))
	for i, record := range p.records {
		var decoded eventsink.Record
		if err := json.Unmarshal(record.Value, &decoded); err != nil {
			t.Fatalf("decoding record %d: %v", i, err)
		}
		if string(record.Key) != decoded.Fleet {
			t.Errorf("record key %q does not match fleet %q", record.Key, decoded.Fleet)
		}
		kinds[i] = decoded.Kind
	}
	return kinds
}

func TestDaemonPublishesToKafka(t *testing.T) {
	cfg := singleFleet()
	cfg.Events.Kafka = config.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "dynofleet.events"}

	fakeClock := clock.Fake(testEpoch)
	platform := memplatform.New(fakeClock)
	producer := &fakeProducer{}

	daemon, err := newDaemon(cfg, daemonOptions{
		remote:   platform,
		clock:    fakeClock,
		logger:   testLogger(),
		producer: producer,
	})
	if err != nil {
		t.Fatalf("newDaemon: %v", err)
	}

	if _, err := daemon.fleets[0].fleet.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	daemon.initialSync(context.Background())
	daemon.Close()

	kinds := producer.kinds(t)
	want := []string{"process_started", "fleet_synced"}
	if strings.Join(kinds, ",") != strings.Join(want, ",") {
		t.Errorf("published kinds = %v, want %v", kinds, want)
	}
	if !producer.closed {
		t.Error("producer not closed")
	}

	// Listeners are detached on close.
	platform.Inject(workerCommand, "1X")
	daemon.fleets[0].fleet.Sync(context.Background())
	if got := len(producer.kinds(t)); got != len(want) {
		t.Errorf("published %d records after close, want %d", got, len(want))
	}
}

func TestDaemonArmsAutoSyncFromConfig(t *testing.T) {
	cfg := memoryConfig(config.FleetConfig{
		Name:               "workers",
		Command:            workerCommand,
		AutoSyncIntervalMS: 30000,
	})
	fakeClock := clock.Fake(testEpoch)
	platform := memplatform.New(fakeClock)

	daemon, err := newDaemon(cfg, daemonOptions{remote: platform, clock: fakeClock, logger: testLogger()})
	if err != nil {
		t.Fatalf("newDaemon: %v", err)
	}
	defer daemon.Close()

	if got := daemon.fleets[0].fleet.AutoSyncInterval(); got != 30*time.Second {
		t.Errorf("auto-sync interval = %v, want 30s", got)
	}

	platform.Inject(workerCommand, "1X")
	fakeClock.Advance(30 * time.Second)
	if platform.Calls(fleet.OpList) != 1 {
		t.Errorf("list calls = %d, want 1", platform.Calls(fleet.OpList))
	}

	daemon.Close()
	fakeClock.Advance(time.Hour)
	if platform.Calls(fleet.OpList) != 1 {
		t.Errorf("list calls after close = %d, want 1", platform.Calls(fleet.OpList))
	}
}

func TestDaemonRunsSchedules(t *testing.T) {
	cfg := memoryConfig(config.FleetConfig{
		Name:      "workers",
		Command:   workerCommand,
		Schedules: []config.ScheduleConfig{{Cron: "0 8 * * 1-5", Replicas: 2}},
	})
	fakeClock := clock.Fake(testEpoch)
	platform := memplatform.New(fakeClock)

	daemon, err := newDaemon(cfg, daemonOptions{remote: platform, clock: fakeClock, logger: testLogger()})
	if err != nil {
		t.Fatalf("newDaemon: %v", err)
	}
	defer daemon.Close()

	started := make(chan fleet.ProcessHandle, 8)
	daemon.fleets[0].fleet.Subscribe(func(event fleet.Event) {
		if event.Kind == fleet.ProcessStarted {
			started <- event.Process
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	daemon.runSchedulers(ctx, &wg)
	defer func() {
		cancel()
		wg.Wait()
	}()

	fakeClock.WaitForTimers(1)
	fakeClock.Advance(time.Minute)

	testutil.RequireReceive(t, started, 5*time.Second, "first scheduled start")
	testutil.RequireReceive(t, started, 5*time.Second, "second scheduled start")
}

func TestNewDaemonRejectsBadFleet(t *testing.T) {
	fakeClock := clock.Fake(testEpoch)
	platform := memplatform.New(fakeClock)

	tests := []struct {
		name  string
		fleet config.FleetConfig
	}{
		{"short interval", config.FleetConfig{Name: "w", Command: workerCommand, AutoSyncIntervalMS: 1000}},
		{"bad policy", config.FleetConfig{Name: "w", Command: workerCommand, ScaleDown: "random"}},
		{"bad cron", config.FleetConfig{Name: "w", Command: workerCommand, Schedules: []config.ScheduleConfig{{Cron: "soon"}}}},
		{"no command", config.FleetConfig{Name: "w"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newDaemon(memoryConfig(tt.fleet), daemonOptions{remote: platform, clock: fakeClock})
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), `fleet "w"`) {
				t.Errorf("error %q does not name the fleet", err)
			}
		})
	}
}

func TestInitialSyncToleratesFailure(t *testing.T) {
	fakeClock := clock.Fake(testEpoch)
	platform := memplatform.New(fakeClock)
	daemon, err := newDaemon(memoryConfig(
		config.FleetConfig{Name: "workers", Command: workerCommand},
		config.FleetConfig{Name: "clock", Command: clockCommand},
	), daemonOptions{remote: platform, clock: fakeClock, logger: testLogger()})
	if err != nil {
		t.Fatalf("newDaemon: %v", err)
	}
	defer daemon.Close()

	platform.Inject(clockCommand, "1X")
	platform.FailNext(fleet.OpList, context.DeadlineExceeded)
	daemon.initialSync(context.Background())

	if daemon.fleets[0].fleet.Len() != 0 {
		t.Errorf("workers tracks %d processes, want 0", daemon.fleets[0].fleet.Len())
	}
	if daemon.fleets[1].fleet.Len() != 1 {
		t.Errorf("clock tracks %d processes, want 1 despite workers failure", daemon.fleets[1].fleet.Len())
	}
}

func TestOpenRemote(t *testing.T) {
	fakeClock := clock.Fake(testEpoch)

	remote, closeRemote, err := openRemote(memoryConfig(), fakeClock, testLogger())
	if err != nil {
		t.Fatalf("openRemote(memory): %v", err)
	}
	closeRemote()
	if _, ok := remote.(*memplatform.Platform); !ok {
		t.Errorf("memory platform built %T", remote)
	}

	t.Setenv("DYNOFLEET_TEST_TOKEN", "secret-token")
	cfg := memoryConfig()
	cfg.Platform = config.PlatformHeroku
	cfg.Heroku = config.HerokuConfig{App: "my-app", TokenEnv: "DYNOFLEET_TEST_TOKEN"}
	remote, closeRemote, err = openRemote(cfg, fakeClock, testLogger())
	if err != nil {
		t.Fatalf("openRemote(heroku): %v", err)
	}
	closeRemote()
	if _, ok := remote.(*heroku.Client); !ok {
		t.Errorf("heroku platform built %T", remote)
	}

	cfg.Heroku.TokenEnv = "DYNOFLEET_TEST_TOKEN_UNSET"
	if _, _, err := openRemote(cfg, fakeClock, testLogger()); err == nil {
		t.Error("expected error for missing token")
	}
}

func TestNewLogger(t *testing.T) {
	var buffer bytes.Buffer
	logger, err := newLogger(config.LoggingConfig{Level: "warn", Format: "json"}, &buffer)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	logger.Info("dropped")
	logger.Warn("kept", "fleet", "workers")

	output := buffer.String()
	if strings.Contains(output, "dropped") {
		t.Errorf("info message logged at warn level: %s", output)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(output)), &entry); err != nil {
		t.Fatalf("output is not one JSON line: %q", output)
	}
	if entry["msg"] != "kept" || entry["fleet"] != "workers" {
		t.Errorf("entry = %v", entry)
	}

	if _, err := newLogger(config.LoggingConfig{Level: "chatty"}, &buffer); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestLoadConfigValidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dynofleet.yaml")
	if err := os.WriteFile(path, []byte("platform: memory\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := loadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "at least one fleet is required") {
		t.Errorf("loadConfig = %v, want validation error", err)
	}
}

func TestRunVersionAndHelp(t *testing.T) {
	if err := run([]string{"--version"}); err != nil {
		t.Errorf("run --version: %v", err)
	}
	if err := run([]string{"--help"}); err != nil {
		t.Errorf("run --help: %v", err)
	}
	if err := run([]string{"--bogus"}); err == nil {
		t.Error("expected error for unknown flag")
	}
}
