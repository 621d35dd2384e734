package expense

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("expense not found")
	ErrEmptyInput    = errors.New("input is required")
	ErrInvalidAmount = errors.New("amount must be positive")
)

// Parse failure classes. Only ErrUnparseable is caused by the user's input.
var (
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrEmptyResponse       = errors.New("empty upstream response")
	ErrMalformedResponse   = errors.New("malformed upstream response")
	ErrUnparseable         = errors.New("unparseable input")
)

// ParseError is returned by a Parser. Message is safe to show to users;
// Kind is one of the parse failure classes above.
type ParseError struct {
	Kind    error
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}

	return e.Kind.Error()
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Err}
}

// UserInputError reports whether err was caused by the input itself rather
// than by the upstream model.
func UserInputError(err error) bool {
	return errors.Is(err, ErrUnparseable)
}
