package store

import "github.com/ayoisaiah/cadence/internal/apperr"

var (
	errAlreadyRunning = &apperr.Error{
		Message: "is cadence already running? Only one instance can be active at a time",
	}

	errCorruptCheckpoint = &apperr.Error{
		Message: "the saved timer could not be read",
	}

	errCorruptDiary = &apperr.Error{
		Message: "the diary entry for %s could not be read",
	}
)

// ErrAlreadyRunning is returned when the database is locked by another
// process.
var ErrAlreadyRunning = errAlreadyRunning
