package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"
)

type durationBound struct {
	name     string
	value    time.Duration
	min, max time.Duration
}

// Validate performs validation checks on the Config struct and its fields.
func (c *Config) Validate() error {
	bounds := []durationBound{
		{keyAttemptTimeout, c.Settings.AttemptTimeout, time.Second, 5 * time.Minute},
		{keySettleDelay, c.Settings.SettleDelay, 0, 10 * time.Second},
		{keyRetryDelay, c.Settings.RetryDelay, 0, time.Hour},
		{keyCheckInterval, c.Settings.CheckInterval, 10 * time.Second, 24 * time.Hour},
	}

	for _, b := range bounds {
		if b.value < b.min || b.value > b.max {
			return errInvalidDuration.Fmt(b.name, b.min, b.max, b.value)
		}
	}

	if strings.TrimSpace(c.Settings.HelperApp) == "" {
		return errEmptySetting.Fmt(keyHelperApp)
	}

	return nil
}

// ValidatePaths checks that the blocking tool and the launch agents
// directory exist.
func (c *Config) ValidatePaths() error {
	info, err := stat(keySelfControlPath, c.Paths.SelfControl)
	if err != nil {
		return err
	}

	if info.IsDir() || info.Mode().Perm()&0o111 == 0 {
		return errNotExecutable.Fmt(keySelfControlPath, c.Paths.SelfControl)
	}

	info, err = stat(keyLaunchAgentsPath, c.Paths.LaunchAgents)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return errNotDirectory.Fmt(keyLaunchAgentsPath, c.Paths.LaunchAgents)
	}

	return nil
}

func stat(key, path string) (fs.FileInfo, error) {
	if path == "" {
		return nil, errEmptySetting.Fmt(key)
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrMissingPath.Fmt(key, path)
	}

	if err != nil {
		return nil, ErrMissingPath.Fmt(key, path).Wrap(err)
	}

	return info, nil
}
