// Package report prints command results to the terminal.
package report

import (
	"fmt"
	"os"
	"time"

	"github.com/pterm/pterm"

	"github.com/ayoisaiah/autoblock/internal/ui"
)

const timeFormat = "Mon 15:04"

func Quit(err error) {
	pterm.Error.Println(err)
	os.Exit(1)
}

// NoBlock reports that the schedule has no block at this time.
func NoBlock() {
	pterm.Info.Println("no block is scheduled right now")
}

// Active reports that the blocking tool is active until until.
func Active(until time.Time) {
	pterm.Success.Printfln("block active until %s", ui.Green(until.Format(timeFormat)))
}

// Rearm reports the one-shot agent that extends a short block.
func Rearm(at time.Time) {
	pterm.Info.Printfln(
		"SelfControl ends before the scheduled block: it will be restarted at %s",
		ui.Cyan(at.Format(timeFormat)),
	)
}

// Installed reports a launch agent written to path.
func Installed(label, path string) {
	pterm.Success.Printfln("installed %s at %s", ui.Highlight(label), path)
}

// Removed reports the removal of the launch agents.
func Removed(labels ...string) {
	for _, l := range labels {
		pterm.Success.Printfln("removed %s", ui.Highlight(l))
	}
}

// PasswordSaved reports that the password is in the keychain.
func PasswordSaved() {
	pterm.Success.Println("password saved to the keychain")
}

// ConfigWritten reports the path of a new config file.
func ConfigWritten(path string) {
	pterm.Success.Println(fmt.Sprintf("config written to %s", path))
}
