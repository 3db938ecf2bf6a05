package watcher

import "github.com/ayoisaiah/autoblock/internal/apperr"

var (
	ErrFocusUnavailable = &apperr.Error{
		Message: "unable to observe the focused application",
	}

	errScript = &apperr.Error{
		Message: "running %s failed",
	}
)
