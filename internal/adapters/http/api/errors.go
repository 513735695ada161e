package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrUnprocessable    = errors.New("unprocessable entity")
	ErrPayloadTooLarge  = errors.New("payload too large")
	ErrInternal         = errors.New("internal error")
	ErrMethodNotAllowed = errors.New("method not allowed")
)

// KindError tags an error with the operation that produced it and a sentinel
// kind callers can match with errors.Is.
type KindError struct {
	Op   string
	Kind error
	Err  error
}

func (e *KindError) Error() string {
	if e.Err == nil {
		return e.Op + ": " + e.Kind.Error()
	}
	return e.Op + ": " + e.Kind.Error() + ": " + e.Err.Error()
}

func (e *KindError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewKind returns an error of the given kind raised by op.
func NewKind(op string, kind error) error {
	return &KindError{Op: op, Kind: kind}
}

// WrapKind wraps err as the given kind raised by op.
func WrapKind(op string, kind, err error) error {
	return &KindError{Op: op, Kind: kind, Err: err}
}
