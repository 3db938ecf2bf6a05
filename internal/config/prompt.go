package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"github.com/ayoisaiah/autoblock/blocker"
)

const asciiLogo = `
 █████╗ ██╗   ██╗████████╗ ██████╗ ██████╗ ██╗      ██████╗  ██████╗██╗  ██╗
██╔══██╗██║   ██║╚══██╔══╝██╔═══██╗██╔══██╗██║     ██╔═══██╗██╔════╝██║ ██╔╝
███████║██║   ██║   ██║   ██║   ██║██████╔╝██║     ██║   ██║██║     █████╔╝
██╔══██║██║   ██║   ██║   ██║   ██║██╔══██╗██║     ██║   ██║██║     ██╔═██╗
██║  ██║╚██████╔╝   ██║   ╚██████╔╝██████╔╝███████╗╚██████╔╝╚██████╗██║  ██╗
╚═╝  ╚═╝ ╚═════╝    ╚═╝    ╚═════╝ ╚═════╝ ╚══════╝ ╚═════╝  ╚═════╝╚═╝  ╚═╝`

// PromptOptions holds the user's responses to the configuration prompts.
type PromptOptions struct {
	SelfControlPath string
	CheckInterval   int
	AutoPassword    bool
}

// WithPromptConfig returns an Option that configures settings via
// interactive prompts when no config file exists yet.
func WithPromptConfig(configPath string) Option {
	return func(c *Config) error {
		_, err := os.Stat(configPath)
		if err == nil || !errors.Is(err, os.ErrNotExist) {
			return err
		}

		opts, err := promptUser()
		if err != nil {
			return fmt.Errorf("user prompt failed: %w", err)
		}

		applyPromptOptions(c, opts)

		return nil
	}
}

// promptUser handles the interactive configuration process.
func promptUser() (PromptOptions, error) {
	opts := PromptOptions{
		SelfControlPath: blocker.DefaultPath,
	}

	pterm.Println(asciiLogo)

	_ = putils.BulletListFromString(`Follow the prompts below to configure autoblock for the first time.
Select your preferred value, or press ENTER to accept the defaults.
Add your blocks with 'autoblock edit-config' afterwards.`, " ").
		Render()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Path to the SelfControl binary").
				Value(&opts.SelfControlPath).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errEmptySetting.Fmt(keySelfControlPath)
					}

					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("How often to check the schedule").
				Options(
					huh.NewOption("Every 30 seconds", 30).Selected(true),
					huh.NewOption("Every minute", 60),
					huh.NewOption("Every 5 minutes", 300),
				).
				Value(&opts.CheckInterval),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Type your login password into the SelfControl prompt automatically?").
				Description("The password is kept in the macOS keychain. Store it with 'autoblock set-password'.").
				Value(&opts.AutoPassword),
		),
	)

	err := form.Run()
	if err != nil {
		return opts, fmt.Errorf("form interaction failed: %w", err)
	}

	return opts, nil
}

// applyPromptOptions applies the user's prompt responses to the configuration.
func applyPromptOptions(c *Config, opts PromptOptions) {
	c.Paths.SelfControl = strings.TrimSpace(opts.SelfControlPath)
	c.Settings.CheckInterval = time.Duration(opts.CheckInterval) * time.Second
	c.Settings.AutoPassword = opts.AutoPassword
}

// PromptPassword asks for the login password twice without echoing it.
func PromptPassword() (string, error) {
	var password, confirm string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Login password").
				EchoMode(huh.EchoModePassword).
				Value(&password),
			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&confirm).
				Validate(func(s string) error {
					if s != password {
						return errPasswordMismatch
					}

					return nil
				}),
		),
	)

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("form interaction failed: %w", err)
	}

	return password, nil
}
