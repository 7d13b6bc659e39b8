package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates the source is reachable but holds no entity.
	ErrNotFound = errors.New("not found")

	// ErrSourceUnavailable indicates the backing source cannot be reached or opened.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrDecodeFailure indicates source content cannot be decoded into an entity.
	ErrDecodeFailure = errors.New("decode failure")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates an unknown feature variant.
	ErrUnsupportedType = errors.New("unsupported type")
)

// FeatureError wraps a fetch failure with its kind and the source that produced it.
// errors.Is matches both the kind sentinel and the underlying cause.
type FeatureError struct {
	// Kind is one of ErrNotFound, ErrSourceUnavailable or ErrDecodeFailure.
	Kind error

	// Source names the repository, e.g. a file path or "sqlite".
	Source string

	// Err is the underlying cause, may be nil.
	Err error
}

// NewFeatureError creates a FeatureError.
func NewFeatureError(kind error, source string, err error) *FeatureError {
	return &FeatureError{Kind: kind, Source: source, Err: err}
}

// Error implements error.
func (e *FeatureError) Error() string {
	msg := e.Kind.Error()
	if e.Source != "" {
		msg = fmt.Sprintf("%s: %s", e.Source, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes the kind and the cause to errors.Is and errors.As.
func (e *FeatureError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ErrorKindOf classifies err into one of the fetch error kinds.
// Returns nil for a nil error and the error itself when it matches no kind.
func ErrorKindOf(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrDecodeFailure):
		return ErrDecodeFailure
	case errors.Is(err, ErrSourceUnavailable):
		return ErrSourceUnavailable
	default:
		return err
	}
}
