// Package app defines the autoblock command-line application.
package app

import (
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/autoblock/internal/config"
)

// Get retrieves the autoblock app instance.
func Get() *cli.App {
	autoblockApp := &cli.App{
		Name: "autoblock",
		Authors: []*cli.Author{
			{
				Name:  "Ayooluwa Isaiah",
				Email: "ayo@freshman.tech",
			},
		},
		Usage: `
		autoblock keeps SelfControl running through a weekly schedule of blocks.
		It restarts SelfControl whenever a scheduled block is not covered and can
		answer the authorization prompt with the password in your keychain.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:   "execute",
				Usage:  "Start SelfControl if a scheduled block is active (run by the launch agent)",
				Action: executeAction,
				Flags: []cli.Flag{
					disableNotificationFlag,
					cmdFlag,
				},
			},
			{
				Name:   "start",
				Usage:  "Keep SelfControl active for a number of minutes or until a given time",
				Action: startAction,
				Flags: []cli.Flag{
					minutesFlag,
					untilFlag,
					disableNotificationFlag,
					cmdFlag,
				},
			},
			{
				Name:   "status",
				Usage:  "Print the state of SelfControl and the current block",
				Action: statusAction,
			},
			{
				Name:   "history",
				Usage:  "List past activations",
				Action: historyAction,
				Flags: []cli.Flag{
					daysFlag,
					jsonFlag,
				},
			},
			{
				Name:   "deploy",
				Usage:  "Install the launch agent that runs the schedule",
				Action: deployAction,
			},
			{
				Name:   "remove",
				Usage:  "Uninstall the launch agents",
				Action: removeAction,
			},
			{
				Name:   "set-password",
				Usage:  "Store your login password in the keychain for auto_password",
				Action: setPasswordAction,
				Flags: []cli.Flag{
					deleteFlag,
				},
			},
			{
				Name:   "write-config",
				Usage:  "Write an annotated example configuration file",
				Action: writeConfigAction,
				Flags: []cli.Flag{
					forceFlag,
				},
			},
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: editConfigAction,
			},
		},
		Flags: []cli.Flag{
			configFlag,
			debugFlag,
			noColorFlag,
		},
		Before: beforeAction,
		After:  afterAction,
	}

	return autoblockApp
}
