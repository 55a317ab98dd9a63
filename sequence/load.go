// Package sequence reads and writes the frame sequences processed by the
// cropping pipeline: numbered image files, single images, animated GIFs and
// video containers.
package sequence

import (
	"bytes"
	"context"
	"image"
	"image/draw"
	"image/gif"
	"os"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/nvr-ai/go-framecrop/common"
	"github.com/nvr-ai/go-framecrop/images"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// MaxFrameIndex bounds the frame indices probed for a numbered pattern.
const MaxFrameIndex = 1_000_000

// Source describes where a sequence is read from.
type Source struct {
	// Path is a file name, a directory of numbered images or a printf
	// pattern such as movie_%06d.png.
	Path string
	// Begin is the index of the first frame of a pattern or directory.
	Begin int
	// End is the index of the last frame of a pattern or directory
	// (inclusive); a negative value reads until the first missing file.
	End int
	// Stride is the increment between frame indices of a pattern.
	Stride int
}

// Load reads every frame of src.
//
// Arguments:
// - ctx: Cancels loading between frames.
// - src: The sequence source.
//
// Returns:
// - The frames, all sharing one shape.
// - ErrSequenceEmpty, ErrSequenceRead, ErrDimensionMismatch or ctx.Err().
func Load(ctx context.Context, src Source) ([]images.Frame, error) {
	var (
		frames []images.Frame
		err    error
	)
	if ContainsPattern(src.Path) {
		frames, err = loadPattern(ctx, src)
	} else if info, statErr := os.Stat(src.Path); statErr == nil && info.IsDir() {
		frames, err = loadDirectory(ctx, src)
	} else {
		frames, err = LoadFile(ctx, src.Path)
	}
	if err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, errors.Wrapf(ErrSequenceEmpty, "%s", src.Path)
	}
	frames = images.Harmonize(frames)
	if err := images.CheckUniform(frames); err != nil {
		return nil, errors.Wrapf(err, "%s", src.Path)
	}
	return frames, nil
}

func loadPattern(ctx context.Context, src Source) ([]images.Frame, error) {
	if src.Stride < 1 {
		src.Stride = 1
	}
	var frames []images.Frame
	for frame := src.Begin; src.End < 0 || frame <= src.End; frame += src.Stride {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if frame > MaxFrameIndex {
			return nil, errors.Wrapf(ErrSequenceRead, "too many input frames (index %d)", frame)
		}
		path := FramePath(src.Path, frame)
		if _, err := os.Stat(path); err != nil {
			if frame > src.Begin && src.End < 0 {
				break
			}
			return nil, errors.Wrapf(ErrSequenceRead, "frame %d expected in file %s", frame, path)
		}
		f, err := LoadImage(path)
		if err != nil {
			return nil, errors.Wrapf(err, "frame %d", frame)
		}
		frames = append(frames, f)
	}
	return frames, nil
}

// LoadFile reads all frames stored in a single file.
func LoadFile(ctx context.Context, path string) ([]images.Frame, error) {
	format, ok := FormatOf(path)
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%s", path)
	}
	switch format {
	case FormatVideo:
		return loadVideo(ctx, path)
	case FormatGIF:
		return loadGIF(path)
	}
	f, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	return []images.Frame{f}, nil
}

// LoadImage decodes one still image file into a frame.
func LoadImage(path string) (images.Frame, error) {
	var (
		img image.Image
		err error
	)
	if format, _ := FormatOf(path); format == FormatWebP {
		var data []byte
		if data, err = os.ReadFile(path); err == nil {
			img, err = webp.Decode(bytes.NewReader(data))
		}
	} else {
		img, err = imaging.Open(path)
	}
	if err != nil {
		return images.Frame{}, errors.Wrapf(ErrSequenceRead, "%s: %v", path, err)
	}
	f, err := images.FromImage(img)
	if err != nil {
		return images.Frame{}, errors.Wrapf(ErrSequenceRead, "%s: %v", path, err)
	}
	return f, nil
}

// loadGIF decodes every frame of a GIF, compositing each onto the logical
// screen so that all frames share its size.
func loadGIF(path string) ([]images.Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrSequenceRead, "%s: %v", path, err)
	}
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(ErrSequenceRead, "%s: %v", path, err)
	}

	screen := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if screen.Empty() && len(g.Image) > 0 {
		screen = g.Image[0].Bounds()
	}
	canvas := image.NewNRGBA(screen)
	frames := make([]images.Frame, 0, len(g.Image))
	for i, p := range g.Image {
		var previous *image.NRGBA
		disposal := byte(0)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			previous = image.NewNRGBA(screen)
			copy(previous.Pix, canvas.Pix)
		}

		draw.Draw(canvas, p.Bounds(), p, p.Bounds().Min, draw.Over)
		f, err := images.FromImage(canvas)
		if err != nil {
			return nil, errors.Wrapf(ErrSequenceRead, "%s frame %d: %v", path, i, err)
		}
		frames = append(frames, f)

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, p.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = previous
		}
	}
	return frames, nil
}

// loadVideo reads every frame of a video container through OpenCV.
func loadVideo(ctx context.Context, path string) ([]images.Frame, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(ErrSequenceRead, "%s: %v", path, err)
	}
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrSequenceRead, "%s: %v", path, err)
	}
	defer capture.Close()

	mat := gocv.NewMat()
	defer mat.Close()

	var frames []images.Frame
	for capture.Read(&mat) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if mat.Empty() {
			continue
		}
		f, err := images.FromMat(mat)
		if err != nil {
			return nil, errors.Wrapf(ErrSequenceRead, "%s frame %d: %v", path, len(frames), err)
		}
		frames = append(frames, f)
	}
	return frames, nil
}

// Dimensions returns the shared width and height of frames.
func Dimensions(frames []images.Frame) (int, int, error) {
	if len(frames) == 0 {
		return 0, 0, common.ErrEmptySequence
	}
	return frames[0].Width, frames[0].Height, nil
}
