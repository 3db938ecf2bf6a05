package activation

import "github.com/ayoisaiah/autoblock/internal/apperr"

var (
	// ErrAlreadyRunning means another process holds the activation lock.
	ErrAlreadyRunning = &apperr.Error{
		Message: "another activation is already running (pid %s)",
	}

	// ErrTargetPassed means the target time passed before a block was
	// started.
	ErrTargetPassed = &apperr.Error{
		Message: "target time %s passed before a block was started",
	}

	errLock = &apperr.Error{
		Message: "unable to acquire activation lock at %s",
	}

	errNoResponse = &apperr.Error{
		Message: "start command did not finish within %s",
	}
)
