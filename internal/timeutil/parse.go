package timeutil

import (
	"time"

	"github.com/markusmobius/go-dateparser"
)

// ParseUntil parses an end time such as "17:30", "in 2 hours" or
// "tomorrow 9am" relative to now. Bare times of day that have already
// passed today are moved to tomorrow.
func ParseUntil(s string, now time.Time) (time.Time, error) {
	if c, err := ParseClock(s); err == nil {
		t := At(now, c)
		if !t.After(now) {
			t = t.AddDate(0, 0, 1)
		}

		return t, nil
	}

	cfg := &dateparser.Configuration{
		CurrentTime:         now,
		DefaultTimezone:     now.Location(),
		PreferredDateSource: dateparser.Future,
	}

	d, err := dateparser.Parse(cfg, s)
	if err != nil {
		return time.Time{}, err
	}

	return d.Time, nil
}
