package timer

import "github.com/ayoisaiah/cadence/internal/apperr"

var (
	errReadStatus = &apperr.Error{
		Message: "unable to read the status file",
	}

	errWriteStatus = &apperr.Error{
		Message: "unable to write the status file",
	}
)
