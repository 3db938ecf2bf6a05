package blocker

import "github.com/ayoisaiah/autoblock/internal/apperr"

var (
	// ErrMalformedOutput means the settings dump did not have the expected
	// shape. Retrying cannot fix it.
	ErrMalformedOutput = &apperr.Error{
		Message: "malformed settings output: %s",
	}

	// ErrTransport means the tool could not be run or its output could not
	// be read.
	ErrTransport = &apperr.Error{
		Message: "running %s failed",
	}

	// ErrToolFailure means the tool ran but did not report success.
	ErrToolFailure = &apperr.Error{
		Message: "tool did not report success: %s",
	}

	// ErrAttemptFailed is reported for a terminal outcome that carries no
	// error of its own.
	ErrAttemptFailed = &apperr.Error{
		Message: "start attempt failed: %s",
	}

	errPreferences = &apperr.Error{
		Message: "writing %s preference failed",
	}
)
