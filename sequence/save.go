package sequence

import (
	"context"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"os"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/nvr-ai/go-framecrop/images"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Destination describes where a cropped sequence is written.
type Destination struct {
	// Path is a file name or a printf pattern such as cropped_%06d.png.
	Path string
	// Indices are the frame numbers substituted into per-frame file names;
	// when nil the 0-based position is used.
	Indices []int
	// FPS is the frame rate of video and GIF output (default 25).
	FPS float64
	// Quality is the JPEG and WebP quality, 1-100 (default 95).
	Quality int
}

func (d Destination) index(i int) int {
	if i < len(d.Indices) {
		return d.Indices[i]
	}
	return i
}

// Save writes frames to dest.
//
// Video and GIF destinations hold the whole sequence in one file, so every
// frame must share one size. Patterns get one file per frame. A plain image
// name gets one numbered file per frame (name_000000.png, ...) unless the
// sequence has a single frame, which is written to the name as given.
//
// Returns:
// - ErrSequenceWrite wrapping the cause, ErrUnsupportedFormat, or ctx.Err().
func Save(ctx context.Context, frames []images.Frame, dest Destination) error {
	if len(frames) == 0 {
		return errors.Wrap(ErrSequenceWrite, "no frames to write")
	}
	if dest.FPS <= 0 {
		dest.FPS = 25
	}
	if dest.Quality <= 0 || dest.Quality > 100 {
		dest.Quality = 95
	}

	if ContainsPattern(dest.Path) {
		for i, f := range frames {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := SaveImage(f, FramePath(dest.Path, dest.index(i)), dest.Quality); err != nil {
				return err
			}
		}
		return nil
	}

	format, ok := FormatOf(dest.Path)
	if !ok {
		return errors.Wrapf(ErrUnsupportedFormat, "%s", dest.Path)
	}
	switch format {
	case FormatVideo:
		return saveVideo(ctx, frames, dest)
	case FormatGIF:
		return saveGIF(frames, dest)
	}

	if len(frames) == 1 {
		return SaveImage(frames[0], dest.Path, dest.Quality)
	}
	for i, f := range frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := SaveImage(f, NumberedPath(dest.Path, dest.index(i)), dest.Quality); err != nil {
			return err
		}
	}
	return nil
}

// SaveImage encodes one frame to a still image file chosen by extension.
func SaveImage(f images.Frame, path string, quality int) error {
	img, err := f.ToImage()
	if err != nil {
		return errors.Wrapf(ErrSequenceWrite, "%s: %v", path, err)
	}
	format, ok := FormatOf(path)
	if !ok {
		return errors.Wrapf(ErrUnsupportedFormat, "%s", path)
	}
	if format == FormatWebP {
		out, err := os.Create(path)
		if err != nil {
			return errors.Wrapf(ErrSequenceWrite, "%s: %v", path, err)
		}
		defer out.Close()
		if err := webp.Encode(out, img, &webp.Options{Quality: float32(quality)}); err != nil {
			return errors.Wrapf(ErrSequenceWrite, "%s: %v", path, err)
		}
		if err := out.Close(); err != nil {
			return errors.Wrapf(ErrSequenceWrite, "%s: %v", path, err)
		}
		return nil
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(quality)); err != nil {
		return errors.Wrapf(ErrSequenceWrite, "%s: %v", path, err)
	}
	return nil
}

func checkUniform(frames []images.Frame, path string) error {
	if err := images.CheckUniform(frames); err != nil {
		return errors.Wrapf(ErrSequenceWrite, "%s requires frames of one size: %v", path, err)
	}
	return nil
}

// saveVideo encodes frames to a video container with OpenCV.
func saveVideo(ctx context.Context, frames []images.Frame, dest Destination) error {
	if err := checkUniform(frames, dest.Path); err != nil {
		return err
	}
	w, h := frames[0].Width, frames[0].Height
	isColor := frames[0].Channels >= 3
	writer, err := gocv.VideoWriterFile(dest.Path, codecFor(dest.Path), dest.FPS, w, h, isColor)
	if err != nil {
		return errors.Wrapf(ErrSequenceWrite, "%s: %v", dest.Path, err)
	}
	defer writer.Close()
	if !writer.IsOpened() {
		return errors.Wrapf(ErrSequenceWrite, "%s: video writer not opened", dest.Path)
	}

	for i, f := range frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		// VideoWriter takes 1 or 3 channel frames.
		if f.Channels == 4 {
			f = dropAlpha(f)
		}
		mat, err := f.ToMat()
		if err != nil {
			return errors.Wrapf(ErrSequenceWrite, "%s frame %d: %v", dest.Path, i, err)
		}
		err = writer.Write(mat)
		mat.Close()
		if err != nil {
			return errors.Wrapf(ErrSequenceWrite, "%s frame %d: %v", dest.Path, i, err)
		}
	}
	return nil
}

func dropAlpha(f images.Frame) images.Frame {
	out := images.Frame{Width: f.Width, Height: f.Height, Channels: 3, Order: f.Order,
		Pix: make([]uint8, f.Width*f.Height*3)}
	for i, j := 0, 0; i < len(f.Pix); i, j = i+4, j+3 {
		copy(out.Pix[j:j+3], f.Pix[i:i+3])
	}
	return out
}

// saveGIF encodes frames as an animated GIF.
//
// Opaque frames use the Plan 9 palette. Frames with an alpha channel use the
// web-safe palette plus one fully transparent entry and are disposed to the
// background, so transparent pixels do not show the previous frame. GIF has
// no partial transparency: alpha values are quantized to 0 or 255.
func saveGIF(frames []images.Frame, dest Destination) error {
	if err := checkUniform(frames, dest.Path); err != nil {
		return err
	}
	delay := int(100/dest.FPS + 0.5)
	colors, disposal := color.Palette(palette.Plan9), byte(gif.DisposalNone)
	if frames[0].Channels == 4 {
		colors = append(color.Palette{}, palette.WebSafe...)
		colors = append(colors, color.Transparent)
		disposal = gif.DisposalBackground
	}
	anim := &gif.GIF{LoopCount: 0}
	for i, f := range frames {
		img, err := f.ToImage()
		if err != nil {
			return errors.Wrapf(ErrSequenceWrite, "%s frame %d: %v", dest.Path, i, err)
		}
		p := image.NewPaletted(img.Bounds(), colors)
		draw.FloydSteinberg.Draw(p, img.Bounds(), img, image.Point{})
		anim.Image = append(anim.Image, p)
		anim.Delay = append(anim.Delay, delay)
		anim.Disposal = append(anim.Disposal, disposal)
	}

	out, err := os.Create(dest.Path)
	if err != nil {
		return errors.Wrapf(ErrSequenceWrite, "%s: %v", dest.Path, err)
	}
	defer out.Close()
	if err := gif.EncodeAll(out, anim); err != nil {
		return errors.Wrapf(ErrSequenceWrite, "%s: %v", dest.Path, err)
	}
	if err := out.Close(); err != nil {
		return errors.Wrapf(ErrSequenceWrite, "%s: %v", dest.Path, err)
	}
	return nil
}
