package sequence

import (
	"github.com/nvr-ai/go-framecrop/common"
	"github.com/pkg/errors"
)

var (
	// ErrSequenceEmpty is returned when a source yields no frames. It wraps
	// common.ErrEmptySequence.
	ErrSequenceEmpty = errors.Wrap(common.ErrEmptySequence, "input image sequence is empty")
	// ErrSequenceRead is returned when an expected frame is missing or cannot
	// be decoded.
	ErrSequenceRead = errors.New("cannot read image sequence")
	// ErrSequenceWrite is returned when the cropped sequence cannot be written.
	ErrSequenceWrite = errors.New("cannot write image sequence")
	// ErrUnsupportedFormat is returned for file extensions with no codec.
	ErrUnsupportedFormat = errors.New("unsupported format")
)
