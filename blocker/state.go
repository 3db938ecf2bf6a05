package blocker

import (
	"fmt"
	"strings"
	"time"

	"github.com/ayoisaiah/autoblock/internal/timeutil"
)

const (
	keyBlockIsRunning = "BlockIsRunning"
	keyBlockEndDate   = "BlockEndDate"
)

// endDateLayouts are the accepted BlockEndDate formats. The second is the
// form left over when whitespace inside the value has been stripped.
var endDateLayouts = []string{
	"2006-01-02 15:04:05 -0700",
	"2006-01-0215:04:05-0700",
	time.RFC3339,
}

// State is the tool's self-reported status.
type State struct {
	// Until is the instant the running block ends.
	Until time.Time
	// End is the time of day of Until in the probe's location.
	End    timeutil.Clock
	Active bool
}

// Inactive is the state of a tool with no running block.
var Inactive = State{}

func (s State) String() string {
	if !s.Active {
		return "inactive"
	}

	return fmt.Sprintf("active until %s", s.End)
}

// Covers reports whether the running block lasts at least until t.
func (s State) Covers(t time.Time) bool {
	return s.Active && !s.Until.Before(t)
}

// StateFromSettings interprets a parsed settings dump. End times are
// reported in loc.
func StateFromSettings(settings map[string]string, loc *time.Location) (State, error) {
	running, ok := settings[keyBlockIsRunning]
	if !ok {
		return State{}, ErrMalformedOutput.Fmt("missing key " + keyBlockIsRunning)
	}

	active, err := parseBool(running)
	if err != nil {
		return State{}, err
	}

	if !active {
		return Inactive, nil
	}

	rawEnd, ok := settings[keyBlockEndDate]
	if !ok {
		return State{}, ErrMalformedOutput.Fmt("missing key " + keyBlockEndDate)
	}

	until, err := parseEndDate(rawEnd)
	if err != nil {
		return State{}, err
	}

	until = until.In(loc)

	return State{
		Active: true,
		Until:  until,
		End:    timeutil.ClockOf(until),
	}, nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.Trim(s, `"`)) {
	case "1", "true", "yes":
		return true, nil
	case "0", "false", "no":
		return false, nil
	}

	return false, ErrMalformedOutput.Fmt(keyBlockIsRunning + " is " + quote(s))
}

func parseEndDate(s string) (time.Time, error) {
	unquoted := strings.TrimSpace(strings.Trim(s, `"`))

	for _, layout := range endDateLayouts {
		t, err := time.Parse(layout, unquoted)
		if err == nil {
			return t, nil
		}
	}

	return time.Time{}, ErrMalformedOutput.Fmt(keyBlockEndDate + " is " + quote(s))
}
