package autocrop

import (
	"context"
	"image/color"
	"sync"

	"github.com/nvr-ai/go-framecrop/common"
	"github.com/nvr-ai/go-framecrop/images"
	"github.com/pkg/errors"
)

// Options configures ScanAll.
type Options struct {
	// Axes to scan; empty means common.DefaultAxes.
	Axes []common.Axis
	// Workers is the number of frames scanned concurrently. Values of 1 or
	// less scan sequentially on the calling goroutine.
	Workers int
	// Background is the background color of every frame; nil guesses it per
	// frame from the corners.
	Background color.Color
}

// ScanAll scans every frame against opts.Background, or a guessed background
// color when it is nil.
//
// Frames carry no dependency on each other, so they may be scanned
// concurrently; the returned boxes are always index-aligned with frames.
//
// Arguments:
// - ctx: Cancels the scan between frames.
// - frames: The sequence; every frame must share the shape of the first.
// - opts: Scan options.
//
// Returns:
// - One box per frame.
// - ErrEmptySequence, ErrDimensionMismatch, ErrInvalidAxis, or ctx.Err().
func ScanAll(ctx context.Context, frames []images.Frame, opts Options) ([]common.Box, error) {
	if err := images.CheckUniform(frames); err != nil {
		return nil, err
	}
	axes := opts.Axes
	if len(axes) == 0 {
		axes = common.DefaultAxes
	}
	for _, a := range axes {
		if err := a.Validate(); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	boxes := make([]common.Box, len(frames))
	workers := max(opts.Workers, 1)
	images.Parallel(len(frames), workers, func(start, end int) {
		for i := start; i < end; i++ {
			if err := ctx.Err(); err != nil {
				fail(err)
				return
			}
			box, err := scanFrame(frames[i], opts.Background, axes)
			if err != nil {
				fail(errors.Wrapf(err, "scan frame %d", i))
				return
			}
			boxes[i] = box
		}
	})

	if firstErr != nil {
		return nil, firstErr
	}
	return boxes, nil
}

func scanFrame(f images.Frame, bg color.Color, axes []common.Axis) (common.Box, error) {
	if bg == nil {
		return Scan(f, axes...)
	}
	return ScanColor(f, f.ColorOf(bg), axes...)
}
