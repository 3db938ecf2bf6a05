package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ayoisaiah/autoblock/internal/apperr"
	"github.com/ayoisaiah/autoblock/internal/osutil"
)

// ErrConfigExists is returned when writing the example would overwrite an
// existing file.
var ErrConfigExists = &apperr.Error{
	Message: "%s already exists: use --force to overwrite it",
}

// Example is an annotated configuration file.
const Example = `# Where autoblock finds SelfControl and installs its launch agents.
paths:
  selfcontrol: /Applications/SelfControl.app/Contents/MacOS/org.eyebeam.SelfControl
  launch_agents: ~/Library/LaunchAgents

# Blocks map days to time ranges. A day is "*" (any day), a weekday name
# such as "mon" or "Monday", or a comma-separated list of weekdays.
# A weekday's ranges replace the "*" ranges for that day.
# Ranges are "HH:MM-HH:MM" and may cross midnight, e.g. "20:00-08:30".
blocks:
  "*": ["09:30-13:50", "20:00-08:30"]
  mon: ["12:00-15:00"]
  "sat,sun": ["11:00-12:15", "14:30-18:36"]

settings:
  # Type the login password from the keychain into the SelfControl prompt.
  auto_password: false
  # Longest wait for one start attempt before it counts as unanswered.
  attempt_timeout: 5s
  # Pause between the prompt gaining focus and typing into it.
  settle_delay: 250ms
  # Pause between a dismissed prompt and the next attempt.
  retry_delay: 0s
  # How often the launch agent checks the schedule.
  check_interval: 30s
  # Process that shows the authorization prompt.
  helper_app: SecurityAgent
  # Command to run after a block is started.
  cmd: ""

notifications:
  enabled: true
`

// WriteExample writes Example to path. An existing file is only replaced
// when force is set.
func WriteExample(path string, force bool) error {
	_, err := os.Stat(path)
	if err == nil && !force {
		return ErrConfigExists.Fmt(path)
	}

	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errWriteConfig.Wrap(err)
	}

	err = os.MkdirAll(filepath.Dir(path), osutil.DirPermission)
	if err != nil {
		return errWriteConfig.Wrap(err)
	}

	err = os.WriteFile(path, []byte(Example), osutil.FilePermission)
	if err != nil {
		return errWriteConfig.Wrap(err)
	}

	return nil
}
