// Package failure defines the error classes the client reports to the operator.
//
// Errors are plain errors marked with one of the class sentinels below, so callers
// test them with errors.Is regardless of how deeply they are wrapped:
//
//	if errors.Is(err, failure.ErrInput) { ... }
package failure

import "github.com/cockroachdb/errors"

// Error classes.
var (
	// ErrConnection marks a backend that is unreachable or rejected the credentials.
	ErrConnection = errors.New("connection error")
	// ErrExecution marks a statement rejected by the backend.
	ErrExecution = errors.New("execution error")
	// ErrInput marks malformed operator input: bad meta-command syntax, unknown
	// snippet or help topic, bad go modifiers.
	ErrInput = errors.New("input error")
	// ErrResource marks temp-file, cache or output-file I/O failures.
	ErrResource = errors.New("resource error")
	// ErrIndexOutOfRange marks a history reference past the end of the history.
	// It is always an ErrInput as well.
	ErrIndexOutOfRange = errors.New("history index out of range")
)

// Input returns a formatted ErrInput.
func Input(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrInput)
}

// Connection wraps err as an ErrConnection.
func Connection(err error, format string, args ...any) error {
	return errors.Mark(errors.Wrapf(err, format, args...), ErrConnection)
}

// Resource wraps err as an ErrResource.
func Resource(err error, format string, args ...any) error {
	return errors.Mark(errors.Wrapf(err, format, args...), ErrResource)
}

// IndexOutOfRange reports a history index that does not exist.
func IndexOutOfRange(idx, size int) error {
	err := errors.Newf("history index %d out of range (%d entries)", idx, size)
	return errors.Mark(errors.Mark(err, ErrIndexOutOfRange), ErrInput)
}

// Class names the error class of err for log records.
func Class(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConnection):
		return "connection"
	case errors.Is(err, ErrExecution):
		return "execution"
	case errors.Is(err, ErrInput):
		return "input"
	case errors.Is(err, ErrResource):
		return "resource"
	}
	return "internal"
}
