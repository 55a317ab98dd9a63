package report

import (
	"fmt"
	"image"

	"github.com/chewxy/math32"
	"github.com/nvr-ai/go-framecrop/reconcile"
)

// Summary describes a reconciled sequence at a glance.
type Summary struct {
	// Frames is the number of frames.
	Frames int
	// Policy is the reconciliation policy applied.
	Policy reconcile.Policy
	// MinSize and MaxSize bound the output frame sizes.
	MinSize, MaxSize image.Point
	// Retained is the mean fraction of the input frame area kept, in [0, 1]
	// unless boxes were grown past the frame.
	Retained float32
	// Travel is the summed length of the center offsets in pixels.
	Travel float32
}

// Summarize computes the summary of res for frames of frameW x frameH.
func Summarize(res *reconcile.Result, frameW, frameH int) Summary {
	s := Summary{Frames: len(res.Boxes), Policy: res.Policy}
	if s.Frames == 0 || frameW <= 0 || frameH <= 0 {
		return s
	}
	area := float32(frameW * frameH)
	var retained float32
	for i, b := range res.Boxes {
		size := b.Size()
		if i == 0 {
			s.MinSize, s.MaxSize = size, size
		}
		s.MinSize.X = min(s.MinSize.X, size.X)
		s.MinSize.Y = min(s.MinSize.Y, size.Y)
		s.MaxSize.X = max(s.MaxSize.X, size.X)
		s.MaxSize.Y = max(s.MaxSize.Y, size.Y)
		retained += float32(size.X*size.Y) / area

		o := res.Offsets[i]
		s.Travel += math32.Hypot(float32(o.X), float32(o.Y))
	}
	s.Retained = retained / float32(s.Frames)
	return s
}

// Percent returns Retained as a rounded percentage.
func (s Summary) Percent() int {
	return int(math32.Round(s.Retained * 100))
}

func (s Summary) String() string {
	return fmt.Sprintf("%d frames, policy %s, size %dx%d..%dx%d, retained %d%%, travel %.1fpx",
		s.Frames, s.Policy, s.MinSize.X, s.MinSize.Y, s.MaxSize.X, s.MaxSize.Y, s.Percent(), s.Travel)
}
