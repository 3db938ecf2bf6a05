package config

import "github.com/ayoisaiah/autoblock/internal/apperr"

var (
	errConfigOption = &apperr.Error{
		Message: "config option error",
	}

	errConfigValidation = &apperr.Error{
		Message: "config validation error",
	}

	errReadConfig = &apperr.Error{
		Message: "reading config file failed",
	}

	errWriteConfig = &apperr.Error{
		Message: "writing config file failed",
	}

	// ErrInvalidBlocks means the blocks section could not be turned into a
	// schedule.
	ErrInvalidBlocks = &apperr.Error{
		Message: "invalid blocks for %q",
	}

	// ErrDuplicateDay means two keys of the blocks section name the same
	// day.
	ErrDuplicateDay = &apperr.Error{
		Message: "%s is defined more than once in blocks",
	}

	errInvalidDuration = &apperr.Error{
		Message: "%s must be between %v and %v, got %v",
	}

	errEmptySetting = &apperr.Error{
		Message: "%s cannot be empty",
	}

	// ErrMissingPath means a configured path does not exist.
	ErrMissingPath = &apperr.Error{
		Message: "%s path %q does not exist",
	}

	errNotExecutable = &apperr.Error{
		Message: "%s path %q is not an executable file",
	}

	errNotDirectory = &apperr.Error{
		Message: "%s path %q is not a directory",
	}

	errInvalidCLIMinutes = &apperr.Error{
		Message: "--minutes must be a positive number of minutes",
	}

	errInvalidUntil = &apperr.Error{
		Message: "unable to understand --until %q",
	}

	errUntilInPast = &apperr.Error{
		Message: "--until %s is in the past",
	}

	errConflictingFlags = &apperr.Error{
		Message: "--minutes and --until cannot be used together",
	}
)

var errPasswordMismatch = &apperr.Error{
	Message: "passwords do not match",
}
