// Package images - Frame definition and raster utilities shared by the
// scanning, cropping and sequence I/O stages.
package images

import (
	"fmt"

	"github.com/nvr-ai/go-framecrop/common"
	"github.com/pkg/errors"
)

// ColorOrder is the channel order of a three or four channel frame.
type ColorOrder int

const (
	// OrderRGB is the order produced by image.Image decoders.
	OrderRGB ColorOrder = iota
	// OrderBGR is the order produced by OpenCV.
	OrderBGR
)

func (o ColorOrder) String() string {
	if o == OrderBGR {
		return "bgr"
	}
	return "rgb"
}

// Color is a background reference, one sample per channel.
type Color []uint8

// Frame is a raster image with interleaved 8-bit samples (HWC layout).
//
// Frames are treated as immutable once built; every operation that changes
// pixels returns a new Frame.
type Frame struct {
	// Width is the number of columns.
	Width int
	// Height is the number of rows.
	Height int
	// Channels is the number of samples per pixel (1, 3 or 4).
	Channels int
	// Order is the channel order for 3 and 4 channel frames.
	Order ColorOrder
	// Pix holds Height*Width*Channels samples, row-major.
	Pix []uint8
}

// NewFrame allocates a zero-filled frame.
//
// Arguments:
// - width, height: The frame dimensions in pixels.
// - channels: Samples per pixel.
//
// Returns:
// - The frame.
// - ErrDimensionMismatch for non-positive dimensions or channel counts.
func NewFrame(width, height, channels int) (Frame, error) {
	if width <= 0 || height <= 0 || channels <= 0 {
		return Frame{}, errors.Wrapf(common.ErrDimensionMismatch,
			"invalid frame dimensions %dx%dx%d", width, height, channels)
	}
	return Frame{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}, nil
}

// Offset returns the index of the first sample of pixel (x, y).
func (f Frame) Offset(x, y int) int {
	return (y*f.Width + x) * f.Channels
}

// At returns a copy of the sample vector at (x, y).
func (f Frame) At(x, y int) Color {
	i := f.Offset(x, y)
	c := make(Color, f.Channels)
	copy(c, f.Pix[i:i+f.Channels])
	return c
}

// Set writes the sample vector c at (x, y). Missing samples are left as is.
func (f Frame) Set(x, y int, c Color) {
	i := f.Offset(x, y)
	copy(f.Pix[i:i+f.Channels], c)
}

// Fill sets every pixel to c.
func (f Frame) Fill(c Color) {
	for i := 0; i < len(f.Pix); i += f.Channels {
		copy(f.Pix[i:i+f.Channels], c)
	}
}

// Empty reports whether the frame holds no pixels.
func (f Frame) Empty() bool {
	return f.Width <= 0 || f.Height <= 0 || f.Channels <= 0
}

// Bounds returns the inclusive box covering the whole frame.
func (f Frame) Bounds() common.Box {
	return common.FullBox(f.Width, f.Height)
}

// SameShape reports whether f and other share width, height and channel count.
func (f Frame) SameShape(other Frame) bool {
	return f.Width == other.Width && f.Height == other.Height && f.Channels == other.Channels
}

// Validate checks that Pix matches the declared dimensions.
func (f Frame) Validate() error {
	if f.Empty() {
		return errors.Wrapf(common.ErrDimensionMismatch, "empty frame %s", f.Shape())
	}
	if want := f.Width * f.Height * f.Channels; len(f.Pix) != want {
		return errors.Wrapf(common.ErrDimensionMismatch,
			"frame %s holds %d samples, want %d", f.Shape(), len(f.Pix), want)
	}
	return nil
}

// Shape formats the frame dimensions as WxHxC.
func (f Frame) Shape() string {
	return fmt.Sprintf("%dx%dx%d", f.Width, f.Height, f.Channels)
}

// CheckUniform verifies that every frame has the shape of the first one.
//
// Returns:
// - ErrEmptySequence when frames is empty.
// - ErrDimensionMismatch naming the first frame that differs.
func CheckUniform(frames []Frame) error {
	if len(frames) == 0 {
		return common.ErrEmptySequence
	}
	first := frames[0]
	for i, f := range frames {
		if err := f.Validate(); err != nil {
			return errors.Wrapf(err, "frame %d", i)
		}
		if !f.SameShape(first) {
			return errors.Wrapf(common.ErrDimensionMismatch,
				"frame %d is %s, sequence is %s", i, f.Shape(), first.Shape())
		}
	}
	return nil
}

// Crop copies the pixels inside box into a new frame of the box's size.
//
// The box may reach outside the frame (parity normalization and fixed-size
// growth can do that); samples outside the source are zero.
func (f Frame) Crop(box common.Box) (Frame, error) {
	out, err := NewFrame(box.Width(), box.Height(), f.Channels)
	if err != nil {
		return Frame{}, errors.Wrapf(err, "crop %s", box)
	}
	out.Order = f.Order

	src := box.ToRect().Intersect(f.Bounds().ToRect())
	if src.Empty() {
		return out, nil
	}
	n := src.Dx() * f.Channels
	for y := src.Min.Y; y < src.Max.Y; y++ {
		from := f.Offset(src.Min.X, y)
		to := out.Offset(src.Min.X-box.X0, y-box.Y0)
		copy(out.Pix[to:to+n], f.Pix[from:from+n])
	}
	return out, nil
}

// WithOrder returns the frame with its channels rearranged to order.
//
// Single channel frames and frames already in order are returned unchanged.
func (f Frame) WithOrder(order ColorOrder) Frame {
	if f.Order == order || f.Channels < 3 {
		return f
	}
	out := Frame{Width: f.Width, Height: f.Height, Channels: f.Channels, Order: order, Pix: make([]uint8, len(f.Pix))}
	copy(out.Pix, f.Pix)
	for i := 0; i < len(out.Pix); i += f.Channels {
		out.Pix[i], out.Pix[i+2] = out.Pix[i+2], out.Pix[i]
	}
	return out
}
