// Package apperr defines the error type used across autoblock. Errors are
// declared once as templates and specialised at the point of failure with
// Fmt and Wrap, so callers can still match them with errors.Is.
package apperr

import "fmt"

// Error is a templated application error.
type Error struct {
	Cause   error
	Message string
	tmpl    *Error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}

	return e.Message + ": " + e.Cause.Error()
}

// Fmt returns a copy of e with Message formatted using args.
func (e *Error) Fmt(args ...any) *Error {
	ne := *e
	ne.Message = fmt.Sprintf(e.Message, args...)
	ne.tmpl = e.template()

	return &ne
}

// Wrap returns a copy of e that wraps err.
func (e *Error) Wrap(err error) *Error {
	ne := *e
	ne.Cause = err
	ne.tmpl = e.template()

	return &ne
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the template e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e.template() == t.template()
}

func (e *Error) template() *Error {
	if e.tmpl != nil {
		return e.tmpl
	}

	return e
}
