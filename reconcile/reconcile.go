// Package reconcile turns per-frame autocrop boxes into the final crop boxes of
// a sequence and derives the frame-to-frame center offsets.
//
// Reconciliation runs in three steps:
//
//  1. Empty axes are resolved to the full frame extent and every box is
//     parity normalized: an even extent is grown by one pixel on its high
//     side, so that x0+x1 and y0+y1 are even and the center is exact.
//  2. The policy is applied. Union and fixed need a global pre-pass over all
//     boxes before any box can be adjusted.
//  3. Centers are taken from the final boxes and differenced against the
//     previous frame's center. The first frame's offset is (0,0).
package reconcile

import (
	"image"

	"github.com/nvr-ai/go-framecrop/common"
	"github.com/pkg/errors"
)

// Result holds the reconciled boxes and their derived centers and offsets,
// all index-aligned with the input boxes.
type Result struct {
	// Policy is the policy that produced Boxes.
	Policy Policy
	// Boxes are the final crop boxes.
	Boxes []common.Box
	// Centers are the integer centers of Boxes.
	Centers []image.Point
	// Offsets[i] is Centers[i]-Centers[i-1]; Offsets[0] is (0,0).
	Offsets []image.Point
}

// Reconcile applies policy to the per-frame boxes of one sequence.
//
// The input slice is not modified.
//
// Arguments:
// - boxes: One autocrop box per frame, in frame order.
// - frameW, frameH: The dimensions shared by every frame of the sequence.
// - policy: The reconciliation policy.
//
// Returns:
// - The reconciled boxes, centers and offsets.
// - ErrEmptySequence for no boxes, ErrDimensionMismatch for non-positive
// frame dimensions.
//
// @example
//
//	boxes := []common.Box{{X0: 2, X1: 5, Y0: 2, Y1: 5}, {X0: 3, X1: 6, Y0: 3, Y1: 6}}
//	res, err := reconcile.Reconcile(boxes, 10, 10, reconcile.PolicyUnion)
//	// res.Boxes[0] == res.Boxes[1] == x=[2,7], y=[2,7]
func Reconcile(boxes []common.Box, frameW, frameH int, policy Policy) (*Result, error) {
	if len(boxes) == 0 {
		return nil, common.ErrEmptySequence
	}
	if frameW <= 0 || frameH <= 0 {
		return nil, errors.Wrapf(common.ErrDimensionMismatch, "invalid frame size %dx%d", frameW, frameH)
	}

	final := make([]common.Box, len(boxes))
	for i, b := range boxes {
		final[i] = Normalize(ResolveEmpty(b, frameW, frameH))
	}

	switch policy {
	case PolicyUnion:
		u := Union(final)
		for i := range final {
			final[i] = u
		}
	case PolicyFixed:
		size := MaxSize(final)
		for i := range final {
			final[i] = Grow(final[i], size.X, size.Y)
		}
	default:
		policy = PolicyIndependent
	}

	centers, offsets := Offsets(final)
	return &Result{
		Policy:  policy,
		Boxes:   final,
		Centers: centers,
		Offsets: offsets,
	}, nil
}

// ResolveEmpty replaces every empty axis of b with the full frame extent.
func ResolveEmpty(b common.Box, frameW, frameH int) common.Box {
	if b.EmptyX() {
		b.X0, b.X1 = 0, frameW-1
	}
	if b.EmptyY() {
		b.Y0, b.Y1 = 0, frameH-1
	}
	return b
}

// Normalize grows each even extent of b by one pixel on its high side so
// that both extents are odd.
func Normalize(b common.Box) common.Box {
	b.X1 += 1 - (b.X1-b.X0+1)%2
	b.Y1 += 1 - (b.Y1-b.Y0+1)%2
	return b
}

// Union returns the component-wise min/max box of boxes.
func Union(boxes []common.Box) common.Box {
	u := boxes[0]
	for _, b := range boxes[1:] {
		u.X0 = min(u.X0, b.X0)
		u.X1 = max(u.X1, b.X1)
		u.Y0 = min(u.Y0, b.Y0)
		u.Y1 = max(u.Y1, b.Y1)
	}
	return u
}

// MaxSize returns the largest width and height over boxes.
func MaxSize(boxes []common.Box) image.Point {
	var size image.Point
	for _, b := range boxes {
		size.X = max(size.X, b.Width())
		size.Y = max(size.Y, b.Height())
	}
	return size
}

// Grow extends b to exactly w x h pixels. Each axis gains floor(pad/2) on its
// low side and ceil(pad/2) on its high side; b is returned unchanged on an
// axis that is already at least as large.
func Grow(b common.Box, w, h int) common.Box {
	if pad := w - b.Width(); pad > 0 {
		b.X0 -= pad / 2
		b.X1 += (pad + 1) / 2
	}
	if pad := h - b.Height(); pad > 0 {
		b.Y0 -= pad / 2
		b.Y1 += (pad + 1) / 2
	}
	return b
}

// Offsets computes the centers of boxes and the forward differences between
// consecutive centers.
func Offsets(boxes []common.Box) (centers, offsets []image.Point) {
	centers = make([]image.Point, len(boxes))
	offsets = make([]image.Point, len(boxes))
	var prev image.Point
	for i, b := range boxes {
		c := b.Center()
		centers[i] = c
		if i > 0 {
			offsets[i] = c.Sub(prev)
		}
		prev = c
	}
	return centers, offsets
}
