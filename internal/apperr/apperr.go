// Package apperr defines the error type shared by cadence packages
package apperr

import "fmt"

// Error is an application error with a user-facing message and an optional
// underlying cause.
type Error struct {
	Cause   error
	Message string

	// tmpl is the unformatted message of the sentinel this error derives from.
	tmpl string
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}

	return e.Message + ": " + e.Cause.Error()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target carries the same message template, so that a
// formatted or wrapped copy still matches its sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e.template() == t.template()
}

// Fmt returns a copy of the error with its message formatted with args.
func (e *Error) Fmt(args ...any) *Error {
	return &Error{
		Message: fmt.Sprintf(e.Message, args...),
		Cause:   e.Cause,
		tmpl:    e.template(),
	}
}

// Wrap returns a copy of the error with err as its cause.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		Message: e.Message,
		Cause:   err,
		tmpl:    e.template(),
	}
}

func (e *Error) template() string {
	if e.tmpl != "" {
		return e.tmpl
	}

	return e.Message
}
