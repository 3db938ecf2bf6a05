// Package config loads autoblock's configuration from the config file and
// command-line flags.
package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ayoisaiah/autoblock/internal/schedule"
)

type (
	// Config holds all configuration settings
	Config struct {
		Schedule      *schedule.Schedule
		Paths         PathsConfig
		Settings      SettingsConfig
		CLI           CLIConfig
		Notifications NotificationConfig
	}

	// PathsConfig holds the locations of external files
	PathsConfig struct {
		SelfControl  string
		LaunchAgents string
		ConfigFile   string
	}

	// SettingsConfig holds activation settings
	SettingsConfig struct {
		HelperApp      string
		Cmd            string
		AttemptTimeout time.Duration
		SettleDelay    time.Duration
		RetryDelay     time.Duration
		CheckInterval  time.Duration
		AutoPassword   bool
	}

	// NotificationConfig holds notification settings
	NotificationConfig struct {
		Enabled bool
	}

	// CLIConfig holds settings that only come from command-line flags
	CLIConfig struct {
		Until   time.Time
		Minutes int
		Debug   bool
		NoColor bool
	}

	// Option is a function that modifies Config
	Option func(*Config) error
)

const Version = "v0.3.0"

var (
	Stdin  io.Reader = os.Stdin
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

// New creates a new Config and applies options in order.
func New(opts ...Option) (*Config, error) {
	cfg := &Config{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("%w: %w", errConfigOption, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errConfigValidation, err)
	}

	return cfg, nil
}
