package smoke

import "errors"

var (
	// ErrUnexpectedStatus is returned when a response carries the wrong HTTP status.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrContractMismatch is returned when a response body breaks the /crud contract.
	ErrContractMismatch = errors.New("contract mismatch")
	// ErrChecksFailed is returned by Run when any check did not pass.
	ErrChecksFailed = errors.New("smoke checks failed")
)
