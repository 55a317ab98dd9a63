package images

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/nvr-ai/go-framecrop/common"
	"github.com/pkg/errors"
)

// FromImage converts a decoded image into an RGB-ordered frame.
//
// Grayscale images become single channel frames, opaque images three
// channel frames and everything else four channel (non-premultiplied RGBA)
// frames. 16-bit samples are reduced to their high byte.
func FromImage(img image.Image) (Frame, error) {
	if img == nil {
		return Frame{}, errors.New("image is nil")
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	switch src := img.(type) {
	case *image.Gray:
		f, err := NewFrame(w, h, 1)
		if err != nil {
			return Frame{}, err
		}
		for y := 0; y < h; y++ {
			row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			copy(f.Pix[y*w:(y+1)*w], row[:w])
		}
		return f, nil
	case *image.Gray16:
		f, err := NewFrame(w, h, 1)
		if err != nil {
			return Frame{}, err
		}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				f.Pix[y*w+x] = uint8(src.Gray16At(b.Min.X+x, b.Min.Y+y).Y >> 8)
			}
		}
		return f, nil
	}

	channels := 4
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		channels = 3
	}
	f, err := NewFrame(w, h, channels)
	if err != nil {
		return Frame{}, err
	}

	nrgba, ok := img.(*image.NRGBA)
	if !ok || b.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			s := nrgba.PixOffset(x, y)
			d := f.Offset(x, y)
			copy(f.Pix[d:d+channels], nrgba.Pix[s:s+channels])
		}
	}
	return f, nil
}

// ToImage converts the frame to an image.Image in RGB order.
//
// Single channel frames become *image.Gray, three channel frames opaque
// *image.NRGBA and four channel frames *image.NRGBA with their alpha.
func (f Frame) ToImage() (image.Image, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	rect := image.Rect(0, 0, f.Width, f.Height)

	switch f.Channels {
	case 1:
		g := image.NewGray(rect)
		copy(g.Pix, f.Pix)
		return g, nil
	case 3, 4:
		src := f.WithOrder(OrderRGB)
		out := image.NewNRGBA(rect)
		for i, j := 0, 0; i < len(src.Pix); i, j = i+f.Channels, j+4 {
			out.Pix[j+0] = src.Pix[i+0]
			out.Pix[j+1] = src.Pix[i+1]
			out.Pix[j+2] = src.Pix[i+2]
			if f.Channels == 4 {
				out.Pix[j+3] = src.Pix[i+3]
			} else {
				out.Pix[j+3] = 0xff
			}
		}
		return out, nil
	}
	return nil, errors.Wrapf(common.ErrDimensionMismatch, "cannot convert %d channel frame to an image", f.Channels)
}

// ColorOf converts a color.Color to a background reference for f's layout.
func (f Frame) ColorOf(c color.Color) Color {
	switch f.Channels {
	case 1:
		return Color{color.GrayModel.Convert(c).(color.Gray).Y}
	case 3, 4:
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		out := Color{n.R, n.G, n.B, n.A}[:f.Channels]
		if f.Order == OrderBGR {
			out[0], out[2] = out[2], out[0]
		}
		return out
	}
	return make(Color, f.Channels)
}

// Promote widens f to the given channel count: gray samples are replicated
// into the color channels and a missing alpha channel is filled opaque.
// Frames that already have at least that many channels are returned as is.
func (f Frame) Promote(channels int) Frame {
	if f.Channels >= channels || (channels != 3 && channels != 4) {
		return f
	}
	out := Frame{Width: f.Width, Height: f.Height, Channels: channels, Order: f.Order,
		Pix: make([]uint8, f.Width*f.Height*channels)}
	for i, j := 0, 0; i < len(f.Pix); i, j = i+f.Channels, j+channels {
		if f.Channels == 1 {
			out.Pix[j], out.Pix[j+1], out.Pix[j+2] = f.Pix[i], f.Pix[i], f.Pix[i]
		} else {
			copy(out.Pix[j:j+3], f.Pix[i:i+3])
		}
		if channels == 4 {
			out.Pix[j+3] = 0xff
		}
	}
	return out
}

// Harmonize promotes every frame to the largest channel count in frames, so
// that a sequence mixing opaque and translucent (or gray and color) images
// shares one layout.
func Harmonize(frames []Frame) []Frame {
	channels := 0
	for _, f := range frames {
		channels = max(channels, f.Channels)
	}
	for i := range frames {
		frames[i] = frames[i].Promote(channels)
	}
	return frames
}
