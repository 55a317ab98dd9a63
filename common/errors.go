package common

import "github.com/pkg/errors"

var (
	// ErrEmptySequence is returned when an operation needs at least one frame.
	ErrEmptySequence = errors.New("empty sequence")
	// ErrInvalidAxis is returned for a scan on an unsupported axis.
	ErrInvalidAxis = errors.New("invalid axis")
	// ErrDimensionMismatch is returned when a frame, color or box does not
	// match the dimensions established for the sequence.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)
