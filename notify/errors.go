package notify

import "github.com/ayoisaiah/cadence/internal/apperr"

var (
	errInvalidSessionCmd = &apperr.Error{
		Message: "unable to parse the session command",
	}

	errSessionCmd = &apperr.Error{
		Message: "session command failed",
	}
)
