// Package schedule models the weekly blocking schedule and resolves which
// block, if any, is active at a given instant.
package schedule

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/ayoisaiah/autoblock/internal/timeutil"
)

// Day keys a list of ranges. It is either AnyDay or a time.Weekday.
type Day int

// AnyDay is the fallback entry for weekdays without their own list.
const AnyDay Day = -1

// Weekday returns the Day for wd.
func Weekday(wd time.Weekday) Day {
	return Day(wd)
}

func (d Day) String() string {
	if d == AnyDay {
		return "*"
	}

	return time.Weekday(d).String()[:3]
}

// ParseDay parses "*", "any", or an English weekday name (full or
// three-letter, any case).
func ParseDay(s string) (Day, error) {
	name := strings.ToLower(strings.TrimSpace(s))

	if name == "*" || name == "any" {
		return AnyDay, nil
	}

	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		full := strings.ToLower(wd.String())
		if name == full || name == full[:3] {
			return Weekday(wd), nil
		}
	}

	return 0, ErrInvalidDay.Fmt(s)
}

// ParseDays parses a comma-separated list of days such as "sat, sun" or
// "[sat, sun]".
func ParseDays(s string) ([]Day, error) {
	var days []Day

	list := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(s), "["), "]")

	for _, part := range strings.Split(list, ",") {
		d, err := ParseDay(part)
		if err != nil {
			return nil, err
		}

		days = append(days, d)
	}

	return days, nil
}

// Range is a half-open time-of-day window [Start, End). When Start >= End
// the range crosses midnight.
type Range struct {
	Start timeutil.Clock
	End   timeutil.Clock
}

// ParseRange parses "HH:MM-HH:MM". "->" is accepted as the separator too.
func ParseRange(s string) (Range, error) {
	sep := "-"
	if strings.Contains(s, "->") {
		sep = "->"
	}

	start, end, ok := strings.Cut(s, sep)
	if !ok {
		return Range{}, ErrInvalidRange.Fmt(s)
	}

	startClock, err := timeutil.ParseClock(start)
	if err != nil {
		return Range{}, ErrInvalidRange.Fmt(s).Wrap(err)
	}

	endClock, err := timeutil.ParseClock(end)
	if err != nil {
		return Range{}, ErrInvalidRange.Fmt(s).Wrap(err)
	}

	return Range{Start: startClock, End: endClock}, nil
}

// Wraps reports whether r crosses midnight.
func (r Range) Wraps() bool {
	return r.Start >= r.End
}

// Contains reports whether c falls inside r.
func (r Range) Contains(c timeutil.Clock) bool {
	if r.Wraps() {
		return c >= r.Start || c < r.End
	}

	return c >= r.Start && c < r.End
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// Schedule maps days to validated, start-ordered ranges. It is immutable
// once built.
type Schedule struct {
	days map[Day][]Range
}

// New validates days and builds a Schedule. The input map is not retained.
func New(days map[Day][]Range) (*Schedule, error) {
	s := &Schedule{
		days: make(map[Day][]Range, len(days)),
	}

	for day, ranges := range days {
		sorted := slices.Clone(ranges)
		slices.SortFunc(sorted, func(a, b Range) int {
			return int(a.Start) - int(b.Start)
		})

		if err := validate(day, sorted); err != nil {
			return nil, err
		}

		s.days[day] = sorted
	}

	return s, nil
}

// validate checks a start-ordered list for overlapping ranges.
func validate(day Day, ranges []Range) error {
	wrapping := 0

	for _, r := range ranges {
		if r.Wraps() {
			wrapping++
		}
	}

	if wrapping > 1 {
		return ErrManyWrappingRanges.Fmt(day)
	}

	for i := 1; i < len(ranges); i++ {
		prev, next := ranges[i-1], ranges[i]

		if prev.Wraps() || prev.End > next.Start {
			return ErrOverlappingRanges.Fmt(day, prev, next)
		}
	}

	if len(ranges) > 1 {
		first, last := ranges[0], ranges[len(ranges)-1]
		if last.Wraps() && last.End > first.Start {
			return ErrOverlappingRanges.Fmt(day, last, first)
		}
	}

	return nil
}

// Ranges returns the ranges defined for d, without the AnyDay fallback.
func (s *Schedule) Ranges(d Day) []Range {
	return slices.Clone(s.days[d])
}

// Days returns the days that have an entry, AnyDay first.
func (s *Schedule) Days() []Day {
	days := make([]Day, 0, len(s.days))
	for d := range s.days {
		days = append(days, d)
	}

	slices.Sort(days)

	return days
}

// Empty reports whether no ranges are defined at all.
func (s *Schedule) Empty() bool {
	for _, ranges := range s.days {
		if len(ranges) > 0 {
			return false
		}
	}

	return true
}

// Starts returns every distinct range start across all days in ascending
// order.
func (s *Schedule) Starts() []timeutil.Clock {
	var starts []timeutil.Clock

	for _, ranges := range s.days {
		for _, r := range ranges {
			starts = append(starts, r.Start)
		}
	}

	slices.Sort(starts)

	return slices.Compact(starts)
}

// rangesFor returns the list that applies on wd.
func (s *Schedule) rangesFor(wd time.Weekday) ([]Range, bool) {
	if ranges, ok := s.days[Weekday(wd)]; ok {
		return ranges, true
	}

	ranges, ok := s.days[AnyDay]

	return ranges, ok
}
