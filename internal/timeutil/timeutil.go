// Package timeutil provides utility functions and types for working with
// time-related operations.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	secondsInAMinute = 60
	secondsInAnHour  = 3600
	secondsInADay    = 86400
)

// Day is the length of a calendar day without daylight saving transitions.
const Day = 24 * time.Hour

// Clock is a time of day with second precision, expressed as the number of
// seconds since midnight.
type Clock int

// NewClock returns the Clock for the given hour, minute and second.
func NewClock(hour, minute, second int) Clock {
	return Clock(hour*secondsInAnHour + minute*secondsInAMinute + second)
}

// ClockOf returns the time of day of t in t's location.
func ClockOf(t time.Time) Clock {
	return NewClock(t.Hour(), t.Minute(), t.Second())
}

// ParseClock parses HH:MM or HH:MM:SS.
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time of day %q: expected HH:MM or HH:MM:SS", s)
	}

	limits := []int{23, 59, 59}
	vals := make([]int, 3)

	for i, p := range parts {
		if p == "" || len(p) > 2 {
			return 0, fmt.Errorf("invalid time of day %q", s)
		}

		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > limits[i] {
			return 0, fmt.Errorf("invalid time of day %q", s)
		}

		vals[i] = n
	}

	return NewClock(vals[0], vals[1], vals[2]), nil
}

func (c Clock) Hour() int {
	return int(c) / secondsInAnHour
}

func (c Clock) Minute() int {
	return int(c) % secondsInAnHour / secondsInAMinute
}

func (c Clock) Second() int {
	return int(c) % secondsInAMinute
}

// String formats the clock as HH:MM, or HH:MM:SS when seconds are set.
func (c Clock) String() string {
	if c.Second() != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", c.Hour(), c.Minute(), c.Second())
	}

	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// Duration returns the offset of c from midnight.
func (c Clock) Duration() time.Duration {
	return time.Duration(c) * time.Second
}

// TruncateMinute drops the seconds component.
func (c Clock) TruncateMinute() Clock {
	return c - Clock(c.Second())
}

// Add returns c shifted by d, wrapping around midnight.
func (c Clock) Add(d time.Duration) Clock {
	s := (int(c) + int(d/time.Second)) % secondsInADay
	if s < 0 {
		s += secondsInADay
	}

	return Clock(s)
}

// DurationBetween returns how long it takes to get from start to end moving
// forward in time. The result is always in (0, 24h]: when end is not
// strictly after start, end is taken to be on the following day.
func DurationBetween(start, end Clock) time.Duration {
	diff := end.Duration() - start.Duration()
	if start < end {
		return diff
	}

	return Day + diff
}

// CeilMinutes rounds d up to whole minutes.
func CeilMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}

	return int((d + time.Minute - 1) / time.Minute)
}

// At returns the instant at clock c on the calendar day of t, in t's
// location.
func At(t time.Time, c Clock) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		c.Hour(),
		c.Minute(),
		c.Second(),
		0,
		t.Location(),
	)
}

// RoundToStart resets the given time to the start of the day.
func RoundToStart(t time.Time) time.Time {
	return At(t, 0)
}

// ToKey converts a time value to a database key for Bolt.
func ToKey(t time.Time) []byte {
	return []byte(t.Format(time.RFC3339Nano))
}
