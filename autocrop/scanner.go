// Package autocrop finds the tightest box around the non-background content
// of a frame.
//
// A sample is background when it equals the background color in its
// channel. Each channel is scanned on its own and the per-channel extents are
// merged by union, so a single stray sample in any channel widens the box for
// the whole frame.
package autocrop

import (
	"github.com/nvr-ai/go-framecrop/common"
	"github.com/nvr-ai/go-framecrop/images"
	"github.com/pkg/errors"
)

// extent is the foreground range of one channel along one axis.
type extent struct {
	lo, hi int
}

func emptyExtent() extent {
	return extent{lo: 0, hi: -1}
}

func (e extent) empty() bool {
	return e.hi < e.lo
}

func (e *extent) add(i int) {
	if e.empty() {
		e.lo, e.hi = i, i
		return
	}
	e.lo = min(e.lo, i)
	e.hi = max(e.hi, i)
}

// union merges per-channel extents by overall minimum and maximum.
func union(exts []extent) extent {
	out := emptyExtent()
	for _, e := range exts {
		if e.empty() {
			continue
		}
		if out.empty() {
			out = e
			continue
		}
		out.lo = min(out.lo, e.lo)
		out.hi = max(out.hi, e.hi)
	}
	return out
}

// Scan computes the autocrop box of f with a guessed background color.
//
// The color at (0,0) is tried first. When the resulting box spans the whole
// frame on every scanned axis the corner is assumed to be foreground, and the
// scan is repeated with the color at (W-1,H-1).
//
// Arguments:
// - f: The frame to scan.
// - axes: The axes to scan; none means DefaultAxes.
//
// Returns:
// - The box; unscanned axes and axes without foreground hold the 0,-1 sentinel.
// - ErrInvalidAxis or ErrDimensionMismatch.
func Scan(f images.Frame, axes ...common.Axis) (common.Box, error) {
	if err := f.Validate(); err != nil {
		return common.EmptyBox(), err
	}
	if len(axes) == 0 {
		axes = common.DefaultAxes
	}
	box, err := ScanColor(f, f.At(0, 0), axes...)
	if err != nil {
		return box, err
	}
	if spansFrame(box, f, axes) {
		return ScanColor(f, f.At(f.Width-1, f.Height-1), axes...)
	}
	return box, nil
}

// spansFrame reports whether box covers f completely on each of axes.
func spansFrame(box common.Box, f images.Frame, axes []common.Axis) bool {
	for _, a := range axes {
		switch a {
		case common.AxisX:
			if box.X0 != 0 || box.X1 != f.Width-1 {
				return false
			}
		case common.AxisY:
			if box.Y0 != 0 || box.Y1 != f.Height-1 {
				return false
			}
		}
	}
	return true
}

// ScanColor computes the autocrop box of f against an explicit background.
//
// Arguments:
// - f: The frame to scan.
// - bg: The background color, one sample per channel of f.
// - axes: The axes to scan; none means DefaultAxes.
//
// Returns:
// - The box; unscanned axes and axes without foreground hold the 0,-1 sentinel.
// - ErrInvalidAxis for an unsupported axis, ErrDimensionMismatch when bg does
// not have one sample per channel.
func ScanColor(f images.Frame, bg images.Color, axes ...common.Axis) (common.Box, error) {
	box := common.EmptyBox()
	if err := f.Validate(); err != nil {
		return box, err
	}
	if len(bg) != f.Channels {
		return box, errors.Wrapf(common.ErrDimensionMismatch,
			"background has %d samples, frame has %d channels", len(bg), f.Channels)
	}
	if len(axes) == 0 {
		axes = common.DefaultAxes
	}
	for _, a := range axes {
		if err := a.Validate(); err != nil {
			return box, err
		}
	}

	xs, ys := channelExtents(f, bg)
	for _, a := range axes {
		switch a {
		case common.AxisX:
			if e := union(xs); !e.empty() {
				box.X0, box.X1 = e.lo, e.hi
			}
		case common.AxisY:
			if e := union(ys); !e.empty() {
				box.Y0, box.Y1 = e.lo, e.hi
			}
		}
	}
	return box, nil
}

// channelExtents returns, per channel, the columns and rows holding samples
// that differ from bg in that channel.
func channelExtents(f images.Frame, bg images.Color) (xs, ys []extent) {
	xs = make([]extent, f.Channels)
	ys = make([]extent, f.Channels)
	for c := range xs {
		xs[c] = emptyExtent()
		ys[c] = emptyExtent()
	}

	i := 0
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			for c := 0; c < f.Channels; c++ {
				if f.Pix[i] != bg[c] {
					xs[c].add(x)
					ys[c].add(y)
				}
				i++
			}
		}
	}
	return xs, ys
}
