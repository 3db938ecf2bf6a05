package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/ayoisaiah/autoblock/blocker"
	"github.com/ayoisaiah/autoblock/internal/schedule"
	"github.com/ayoisaiah/autoblock/watcher"
)

// viperKeys defines the mapping between config keys and their Viper counterparts.
const (
	keySelfControlPath      = "paths.selfcontrol"
	keyLaunchAgentsPath     = "paths.launch_agents"
	keyBlocks               = "blocks"
	keyAutoPassword         = "settings.auto_password"
	keyAttemptTimeout       = "settings.attempt_timeout"
	keySettleDelay          = "settings.settle_delay"
	keyRetryDelay           = "settings.retry_delay"
	keyCheckInterval        = "settings.check_interval"
	keyHelperApp            = "settings.helper_app"
	keyCmd                  = "settings.cmd"
	keyNotificationsEnabled = "notifications.enabled"
)

const defaultLaunchAgents = "~/Library/LaunchAgents"

// WithViperConfig returns an Option that loads configuration from the file
// at configPath, creating it with defaults if it does not exist.
func WithViperConfig(configPath string) Option {
	return func(c *Config) error {
		v := viper.New()

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		setupViper(v, c)

		c.Paths.ConfigFile = configPath

		err := v.ReadInConfig()
		if err == nil {
			return loadViperConfig(v, c)
		}

		if !errors.Is(err, os.ErrNotExist) {
			return errReadConfig.Wrap(err)
		}

		if err := v.WriteConfig(); err != nil {
			return errWriteConfig.Wrap(err)
		}

		return loadViperConfig(v, c)
	}
}

// setupViper configures Viper with defaults and prompt values.
func setupViper(v *viper.Viper, c *Config) {
	v.SetDefault(keySelfControlPath, blocker.DefaultPath)
	v.SetDefault(keyLaunchAgentsPath, defaultLaunchAgents)
	v.SetDefault(keyBlocks, map[string][]string{})
	v.SetDefault(keyAutoPassword, false)
	v.SetDefault(keyAttemptTimeout, "5s")
	v.SetDefault(keySettleDelay, watcher.DefaultSettleDelay.String())
	v.SetDefault(keyRetryDelay, "0s")
	v.SetDefault(keyCheckInterval, "30s")
	v.SetDefault(keyHelperApp, watcher.DefaultHelperApp)
	v.SetDefault(keyCmd, "")
	v.SetDefault(keyNotificationsEnabled, true)

	if c.Paths.SelfControl != "" {
		v.SetDefault(keySelfControlPath, c.Paths.SelfControl)
	}

	if c.Settings.CheckInterval != 0 {
		v.SetDefault(keyCheckInterval, c.Settings.CheckInterval.String())
	}

	if c.Settings.AutoPassword {
		v.SetDefault(keyAutoPassword, true)
	}
}

// loadViperConfig loads configuration from Viper into the Config struct.
func loadViperConfig(v *viper.Viper, c *Config) error {
	c.Paths.SelfControl = expandHome(v.GetString(keySelfControlPath))
	c.Paths.LaunchAgents = expandHome(v.GetString(keyLaunchAgentsPath))

	c.Settings = SettingsConfig{
		AutoPassword:   v.GetBool(keyAutoPassword),
		AttemptTimeout: v.GetDuration(keyAttemptTimeout),
		SettleDelay:    v.GetDuration(keySettleDelay),
		RetryDelay:     v.GetDuration(keyRetryDelay),
		CheckInterval:  v.GetDuration(keyCheckInterval),
		HelperApp:      strings.TrimSpace(v.GetString(keyHelperApp)),
		Cmd:            strings.TrimSpace(v.GetString(keyCmd)),
	}

	c.Notifications.Enabled = v.GetBool(keyNotificationsEnabled)

	s, err := parseBlocks(v.GetStringMapStringSlice(keyBlocks))
	if err != nil {
		return err
	}

	c.Schedule = s

	return nil
}

// parseBlocks builds a schedule from the blocks section. Each key names one
// or more days separated by commas and maps to a list of ranges.
func parseBlocks(blocks map[string][]string) (*schedule.Schedule, error) {
	keys := make([]string, 0, len(blocks))
	for k := range blocks {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	days := make(map[schedule.Day][]schedule.Range)

	for _, key := range keys {
		ds, err := schedule.ParseDays(key)
		if err != nil {
			return nil, ErrInvalidBlocks.Fmt(key).Wrap(err)
		}

		ranges := make([]schedule.Range, 0, len(blocks[key]))

		for _, s := range blocks[key] {
			r, err := schedule.ParseRange(s)
			if err != nil {
				return nil, ErrInvalidBlocks.Fmt(key).Wrap(err)
			}

			ranges = append(ranges, r)
		}

		for _, d := range ds {
			if _, ok := days[d]; ok {
				return nil, ErrDuplicateDay.Fmt(d)
			}

			days[d] = ranges
		}
	}

	s, err := schedule.New(days)
	if err != nil {
		return nil, ErrInvalidBlocks.Fmt(keyBlocks).Wrap(err)
	}

	return s, nil
}

func expandHome(path string) string {
	if path == "~" {
		return xdg.Home
	}

	if strings.HasPrefix(path, "~/") {
		return filepath.Join(xdg.Home, path[2:])
	}

	return path
}
