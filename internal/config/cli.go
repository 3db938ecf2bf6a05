package config

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/autoblock/internal/timeutil"
)

// CLIOptions represents command-line configuration options.
type CLIOptions struct {
	Until    string
	Cmd      string
	Minutes  int
	Debug    bool
	NoColor  bool
	NoNotify bool
}

var now = time.Now

// WithCLIConfig returns an Option that loads configuration from CLI flags.
func WithCLIConfig(ctx *cli.Context) Option {
	return func(c *Config) error {
		opts := CLIOptions{
			Until:    ctx.String("until"),
			Cmd:      ctx.String("cmd"),
			Minutes:  ctx.Int("minutes"),
			Debug:    ctx.Bool("debug"),
			NoColor:  ctx.Bool("no-color"),
			NoNotify: ctx.Bool("disable-notification"),
		}

		return applyCLIOptions(c, opts)
	}
}

// applyCLIOptions applies CLI options to the config.
func applyCLIOptions(c *Config, opts CLIOptions) error {
	c.CLI.Debug = opts.Debug
	c.CLI.NoColor = opts.NoColor

	if opts.NoNotify {
		c.Notifications.Enabled = false
	}

	if opts.Cmd != "" {
		c.Settings.Cmd = opts.Cmd
	}

	if opts.Minutes != 0 && opts.Until != "" {
		return errConflictingFlags
	}

	if opts.Minutes < 0 {
		return errInvalidCLIMinutes
	}

	c.CLI.Minutes = opts.Minutes

	if opts.Until != "" {
		t := now()

		until, err := timeutil.ParseUntil(opts.Until, t)
		if err != nil {
			return errInvalidUntil.Fmt(opts.Until).Wrap(err)
		}

		if !until.After(t) {
			return errUntilInPast.Fmt(until.Format(time.DateTime))
		}

		c.CLI.Until = until
	}

	return nil
}
