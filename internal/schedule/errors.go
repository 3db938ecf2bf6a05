package schedule

import "github.com/ayoisaiah/autoblock/internal/apperr"

var (
	ErrInvalidDay = &apperr.Error{
		Message: "unknown day %q: use *, any, or a weekday name such as Mon",
	}

	ErrInvalidRange = &apperr.Error{
		Message: "invalid time range %q: expected HH:MM-HH:MM",
	}

	ErrManyWrappingRanges = &apperr.Error{
		Message: "%s: only one range may cross midnight",
	}

	ErrOverlappingRanges = &apperr.Error{
		Message: "%s: ranges %s and %s overlap",
	}
)
