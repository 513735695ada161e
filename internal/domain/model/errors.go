package model

import "errors"

// Sentinel kinds for model errors.
var (
	ErrUnknownOperation = errors.New("unknown operation")
)
