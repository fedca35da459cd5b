package param

import "errors"

// Configuration errors reported by envelope and baseline construction.
var (
	ErrInvalidBounds = errors.New("param: invalid bounds")
	ErrOutOfRange    = errors.New("param: value out of range")
	ErrInvalidAmount = errors.New("param: blend amount must be in [0, 1]")
)
