package schedule

import (
	"time"

	"github.com/ayoisaiah/autoblock/internal/timeutil"
)

// Block is a resolved active window. End is always after Start.
type Block struct {
	Start time.Time
	End   time.Time
}

// Remaining returns how long the block lasts after now.
func (b Block) Remaining(now time.Time) time.Duration {
	return b.End.Sub(now)
}

// Resolve returns the block that contains now, if any. The list for now's
// weekday is consulted first, then the AnyDay list.
//
// A range that crosses midnight is resolved relative to the side of
// midnight now is on: in the evening half it ends tomorrow, in the early
// morning half it started yesterday and ends today.
func Resolve(s *Schedule, now time.Time) (Block, bool) {
	if s == nil {
		return Block{}, false
	}

	ranges, ok := s.rangesFor(now.Weekday())
	if !ok {
		return Block{}, false
	}

	c := timeutil.ClockOf(now)

	for _, r := range ranges {
		if !r.Contains(c) {
			continue
		}

		start := timeutil.At(now, r.Start)
		end := timeutil.At(now, r.End)

		if r.Wraps() {
			if c >= r.Start {
				end = timeutil.At(now.AddDate(0, 0, 1), r.End)
			} else {
				start = timeutil.At(now.AddDate(0, 0, -1), r.Start)
			}
		}

		return Block{Start: start, End: end}, true
	}

	return Block{}, false
}
