package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrBodyOperation     = errors.New("operation expects a payload")
	ErrBodylessOperation = errors.New("operation does not take a payload")
)
