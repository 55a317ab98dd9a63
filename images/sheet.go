package images

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// Contact sheet defaults, applied to zero SheetOptions fields.
const (
	DefaultThumbHeight = 96
	DefaultColumns     = 8
	DefaultGap         = 4
)

// SheetOptions configures ContactSheet.
type SheetOptions struct {
	// ThumbHeight is the height of each thumbnail in pixels (default DefaultThumbHeight).
	ThumbHeight int
	// Columns is the number of thumbnails per row (default DefaultColumns).
	Columns int
	// Gap is the spacing between thumbnails in pixels. Zero selects
	// DefaultGap; a negative value lays the thumbnails out edge to edge.
	Gap int
	// Background fills the sheet behind the thumbnails (default white).
	Background color.Color
}

// ContactSheet lays out downscaled copies of frames on a grid.
//
// Every thumbnail is scaled to ThumbHeight keeping its aspect ratio, so
// frames cropped with the independent policy keep their relative sizes.
//
// Arguments:
// - frames: The frames to lay out, in order.
// - opts: Layout options; zero values select defaults.
//
// Returns:
// - The sheet image.
// - An error if frames is empty or a frame cannot be converted.
func ContactSheet(frames []Frame, opts SheetOptions) (image.Image, error) {
	if len(frames) == 0 {
		return nil, errors.New("no frames for contact sheet")
	}
	if opts.ThumbHeight <= 0 {
		opts.ThumbHeight = DefaultThumbHeight
	}
	if opts.Columns <= 0 {
		opts.Columns = DefaultColumns
	}
	if opts.Gap < 0 {
		opts.Gap = 0
	} else if opts.Gap == 0 {
		opts.Gap = DefaultGap
	}
	if opts.Background == nil {
		opts.Background = color.White
	}

	thumbs := make([]image.Image, len(frames))
	cellW := 0
	for i, f := range frames {
		img, err := f.ToImage()
		if err != nil {
			return nil, errors.Wrapf(err, "frame %d", i)
		}
		thumbs[i] = resize.Resize(0, uint(opts.ThumbHeight), img, resize.Lanczos3)
		cellW = max(cellW, thumbs[i].Bounds().Dx())
	}

	cols := min(opts.Columns, len(thumbs))
	rows := (len(thumbs) + cols - 1) / cols
	w := cols*cellW + (cols+1)*opts.Gap
	h := rows*opts.ThumbHeight + (rows+1)*opts.Gap

	sheet := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(sheet, sheet.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)
	for i, t := range thumbs {
		col, row := i%cols, i/cols
		tb := t.Bounds()
		x := opts.Gap + col*(cellW+opts.Gap) + (cellW-tb.Dx())/2
		y := opts.Gap + row*(opts.ThumbHeight+opts.Gap)
		draw.Draw(sheet, image.Rect(x, y, x+tb.Dx(), y+tb.Dy()), t, tb.Min, draw.Over)
	}
	return sheet, nil
}
