// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the config file when no --config flag is
// given.
const EnvironmentVariable = "DYNOFLEET_CONFIG"

// DefaultSocketPath is the daemon socket when service.socket_path is
// not set.
const DefaultSocketPath = "/run/dynofleet/dynofleet.sock"

// Platform selects the fleet.RemoteClient implementation.
type Platform string

const (
	// PlatformHeroku manages dynos through the Heroku Platform API.
	PlatformHeroku Platform = "heroku"
	// PlatformMemory manages simulated processes held in memory.
	PlatformMemory Platform = "memory"
)

// Config is the daemon configuration.
type Config struct {
	Platform Platform      `yaml:"platform" json:"platform"`
	Heroku   HerokuConfig  `yaml:"heroku" json:"heroku"`
	Service  ServiceConfig `yaml:"service" json:"service"`
	Logging  LoggingConfig `yaml:"logging" json:"logging"`
	Events   EventsConfig  `yaml:"events" json:"events"`
	Fleets   []FleetConfig `yaml:"fleets" json:"fleets"`
}

// HerokuConfig configures the Heroku platform client.
type HerokuConfig struct {
	// App is the application name or ID.
	App string `yaml:"app" json:"app"`

	// APIURL overrides the Platform API endpoint.
	APIURL string `yaml:"api_url" json:"api_url"`

	// TokenEnv names an environment variable holding the API token.
	// Exactly one of TokenEnv and TokenFile must be set.
	TokenEnv string `yaml:"token_env" json:"token_env"`

	// TokenFile is a file containing the API token, or "-" for stdin.
	TokenFile string `yaml:"token_file" json:"token_file"`
}

// ServiceConfig configures the daemon socket.
type ServiceConfig struct {
	SocketPath string `yaml:"socket_path" json:"socket_path"`
}

// LoggingConfig configures the daemon logger.
type LoggingConfig struct {
	// Level is debug, info, warn, or error.
	Level string `yaml:"level" json:"level"`
	// Format is text or json.
	Format string `yaml:"format" json:"format"`
}

// EventsConfig configures event export.
type EventsConfig struct {
	Kafka KafkaConfig `yaml:"kafka" json:"kafka"`
}

// KafkaConfig enables the Kafka event sink when Brokers is non-empty.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers" json:"brokers"`
	Topic   string   `yaml:"topic" json:"topic"`
}

// Enabled reports whether Kafka export is configured.
func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

// FleetConfig configures one managed fleet.
type FleetConfig struct {
	// Name identifies the fleet in socket requests, logs, and events.
	Name string `yaml:"name" json:"name"`

	// Command is the command line every process in the fleet runs.
	Command string `yaml:"command" json:"command"`

	// Size is the dyno size for new processes. Empty means 1X.
	Size string `yaml:"size" json:"size"`

	// AutoSyncIntervalMS enables auto-sync when non-zero. It must be
	// 0 or at least 5000.
	AutoSyncIntervalMS int64 `yaml:"auto_sync_interval_ms" json:"auto_sync_interval_ms"`

	// ScaleDown is listing, oldest, or newest. Empty means listing.
	ScaleDown string `yaml:"scale_down" json:"scale_down"`

	// Schedules scale the fleet at fixed times.
	Schedules []ScheduleConfig `yaml:"schedules" json:"schedules"`
}

// AutoSyncInterval returns AutoSyncIntervalMS as a duration.
func (f FleetConfig) AutoSyncInterval() time.Duration {
	return time.Duration(f.AutoSyncIntervalMS) * time.Millisecond
}

// ScheduleConfig scales to Replicas whenever Cron matches.
type ScheduleConfig struct {
	Cron     string `yaml:"cron" json:"cron"`
	Replicas int    `yaml:"replicas" json:"replicas"`
}

// Default returns the values a config file starts from. Fleets are
// never defaulted.
func Default() *Config {
	return &Config{
		Platform: PlatformHeroku,
		Service: ServiceConfig{
			SocketPath: DefaultSocketPath,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads the file named by DYNOFLEET_CONFIG.
func Load() (*Config, error) {
	path := os.Getenv(EnvironmentVariable)
	if path == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your dynofleet config file, or use --config", EnvironmentVariable)
	}
	return LoadFile(path)
}

// LoadFile loads and expands the config file at path. It does not
// validate; call Validate.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	config, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// Parse decodes data in the format named by extension (".yaml",
// ".yml", ".json", or ".jsonc") over Default and expands variables.
func Parse(data []byte, extension string) (*Config, error) {
	config := Default()

	switch strings.ToLower(extension) {
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(config); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
	case ".json", ".jsonc":
		decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(config); err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file extension %q (want .yaml, .yml, .json, or .jsonc)", extension)
	}

	config.expandVariables()
	return config, nil
}

// Fleet returns the fleet named name.
func (c *Config) Fleet(name string) (FleetConfig, bool) {
	for _, fleet := range c.Fleets {
		if fleet.Name == name {
			return fleet, true
		}
	}
	return FleetConfig{}, false
}

func (c *Config) expandVariables() {
	c.Heroku.APIURL = expandVars(c.Heroku.APIURL)
	c.Heroku.TokenFile = expandVars(c.Heroku.TokenFile)
	c.Service.SocketPath = expandVars(c.Service.SocketPath)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars replaces ${VAR} and ${VAR:-default}. An unset or empty
// variable without a default expands to "".
func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}
