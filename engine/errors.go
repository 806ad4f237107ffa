package engine

import "github.com/ayoisaiah/cadence/internal/apperr"

var (
	errInvalidDuration = &apperr.Error{
		Message: "%s duration must be a whole number of seconds and at least 1s, got %v",
	}

	errInvalidLongBreakEvery = &apperr.Error{
		Message: "long breaks must be scheduled every 2 or more work intervals, got %d",
	}

	errInvalidTargetCycles = &apperr.Error{
		Message: "the target number of cycles must be at least 1, got %d",
	}

	errInvalidRunMode = &apperr.Error{
		Message: "unknown run mode %q: must be one of workday, cycles",
	}

	errInvalidBreakPolicy = &apperr.Error{
		Message: "unknown break policy %q: must be one of standard, short_only, long_only",
	}

	errAlreadyRunning = &apperr.Error{
		Message: "a run is already in progress: reset it before starting a new one",
	}

	errNotRunning = &apperr.Error{
		Message: "the timer is not running",
	}

	errNotPaused = &apperr.Error{
		Message: "the timer is not paused",
	}

	errNotOnBreak = &apperr.Error{
		Message: "only a running break can be skipped",
	}

	errUnknownPhase = &apperr.Error{
		Message: "unknown phase %q",
	}

	errInvalidCheckpoint = &apperr.Error{
		Message: "the saved timer cannot be recovered",
	}
)

// Exported sentinels for callers that need to branch on engine errors.
var (
	ErrAlreadyRunning    = errAlreadyRunning
	ErrNotRunning        = errNotRunning
	ErrNotPaused         = errNotPaused
	ErrNotOnBreak        = errNotOnBreak
	ErrInvalidCheckpoint = errInvalidCheckpoint
)
