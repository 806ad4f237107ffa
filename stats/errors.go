package stats

import "github.com/ayoisaiah/cadence/internal/apperr"

var errUnsupportedPlatform = &apperr.Error{
	Message: "opening a browser is not supported on %s",
}
