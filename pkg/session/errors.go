package session

import "errors"

var (
	ErrEmptyMessage       = errors.New("no message parts given")
	ErrUnsupportedContent = errors.New("unsupported message part")
	ErrRequestFailed      = errors.New("completion request failed")
	ErrNotFound           = errors.New("session source not found")
	ErrMalformedState     = errors.New("malformed session state")
)

// RequestError wraps the boundary's failure so callers can match
// ErrRequestFailed with errors.Is while still unwrapping the cause.
type RequestError struct {
	Cause error
}

func (e *RequestError) Error() string {
	return "completion request failed: " + e.Cause.Error()
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

func (e *RequestError) Is(target error) bool {
	return target == ErrRequestFailed
}
