package sequence

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nvr-ai/go-framecrop/common"
	"github.com/nvr-ai/go-framecrop/images"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testFrame returns an opaque RGB frame with a white square at [lo,hi] on
// black.
func testFrame(t *testing.T, w, h, lo, hi int) images.Frame {
	t.Helper()
	f, err := images.NewFrame(w, h, 3)
	require.NoError(t, err)
	for y := lo; y <= hi; y++ {
		for x := lo; x <= hi; x++ {
			f.Set(x, y, images.Color{255, 255, 255})
		}
	}
	return f
}

// writeFrames saves frames as pattern files starting at begin.
func writeFrames(t *testing.T, pattern string, begin int, frames ...images.Frame) {
	t.Helper()
	for i, f := range frames {
		require.NoError(t, SaveImage(f, FramePath(pattern, begin+i), 95))
	}
}

func TestLoadPattern(t *testing.T) {
	dir := t.TempDir()
	pattern := filepath.Join(dir, "movie_%06d.png")
	frames := []images.Frame{
		testFrame(t, 10, 8, 1, 3),
		testFrame(t, 10, 8, 2, 4),
		testFrame(t, 10, 8, 3, 5),
		testFrame(t, 10, 8, 4, 6),
	}
	writeFrames(t, pattern, 5, frames...)

	tests := []struct {
		name string
		src  Source
		want []int
	}{
		{"until missing", Source{Path: pattern, Begin: 5, End: -1, Stride: 1}, []int{0, 1, 2, 3}},
		{"bounded", Source{Path: pattern, Begin: 6, End: 7, Stride: 1}, []int{1, 2}},
		{"stride", Source{Path: pattern, Begin: 5, End: -1, Stride: 2}, []int{0, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(context.Background(), tt.src)
			require.NoError(t, err)
			require.Len(t, got, len(tt.want))
			for i, j := range tt.want {
				assert.Equal(t, frames[j].Pix, got[i].Pix, "frame %d", i)
			}
		})
	}
}

func TestLoadPatternErrors(t *testing.T) {
	dir := t.TempDir()
	pattern := filepath.Join(dir, "movie_%06d.png")
	writeFrames(t, pattern, 0, testFrame(t, 10, 8, 1, 3), testFrame(t, 12, 8, 1, 3))

	// Missing first frame.
	_, err := Load(context.Background(), Source{Path: pattern, Begin: 3, End: -1, Stride: 1})
	assert.ErrorIs(t, err, ErrSequenceRead)

	// Missing frame inside an explicit range.
	_, err = Load(context.Background(), Source{Path: pattern, Begin: 0, End: 3, Stride: 1})
	assert.ErrorIs(t, err, ErrSequenceRead)

	// Frames of different sizes.
	_, err = Load(context.Background(), Source{Path: pattern, Begin: 0, End: -1, Stride: 1})
	assert.ErrorIs(t, err, common.ErrDimensionMismatch)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Load(ctx, Source{Path: pattern, Begin: 0, End: -1, Stride: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "still.png")
	want := testFrame(t, 6, 6, 2, 3)
	require.NoError(t, SaveImage(want, path, 95))

	got, err := Load(context.Background(), Source{Path: path})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, want.Pix, got[0].Pix)

	_, err = Load(context.Background(), Source{Path: filepath.Join(dir, "missing.png")})
	assert.ErrorIs(t, err, ErrSequenceRead)

	_, err = Load(context.Background(), Source{Path: filepath.Join(dir, "notes.txt")})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	corrupt := filepath.Join(dir, "corrupt.png")
	require.NoError(t, os.WriteFile(corrupt, []byte("not a png"), 0o644))
	_, err = Load(context.Background(), Source{Path: corrupt})
	assert.ErrorIs(t, err, ErrSequenceRead)
}

func TestGIFRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anim.gif")
	frames := []images.Frame{
		testFrame(t, 8, 8, 1, 2),
		testFrame(t, 8, 8, 3, 5),
		testFrame(t, 8, 8, 0, 7),
	}
	require.NoError(t, Save(context.Background(), frames, Destination{Path: path, FPS: 10}))

	got, err := Load(context.Background(), Source{Path: path})
	require.NoError(t, err)
	require.Len(t, got, len(frames))
	for i := range frames {
		assert.Equal(t, 8, got[i].Width)
		assert.Equal(t, 8, got[i].Height)
		// Black and white survive the palette exactly.
		assert.Equal(t, frames[i].WithOrder(images.OrderRGB).Pix[:3*8], got[i].Pix[:3*8], "frame %d first row", i)
	}
}

func TestGIFTransparency(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alpha.gif")
	frames := make([]images.Frame, 2)
	for i := range frames {
		f, err := images.NewFrame(6, 6, 4)
		require.NoError(t, err)
		for y := 2 + i; y <= 3+i; y++ {
			for x := 2 + i; x <= 3+i; x++ {
				f.Set(x, y, images.Color{255, 255, 255, 255})
			}
		}
		frames[i] = f
	}
	require.NoError(t, Save(context.Background(), frames, Destination{Path: path, FPS: 10}))

	got, err := Load(context.Background(), Source{Path: path})
	require.NoError(t, err)
	require.Len(t, got, 2)

	tests := []struct {
		name  string
		frame int
		x, y  int
		alpha uint8
	}{
		{name: "first frame corner", frame: 0, x: 0, y: 0, alpha: 0},
		{name: "first frame square", frame: 0, x: 2, y: 2, alpha: 255},
		{name: "second frame corner", frame: 1, x: 5, y: 5, alpha: 0},
		{name: "second frame square", frame: 1, x: 4, y: 4, alpha: 255},
		{name: "previous square is cleared", frame: 1, x: 2, y: 2, alpha: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := got[tt.frame]
			require.Equal(t, 4, f.Channels)
			assert.Equal(t, tt.alpha, f.At(tt.x, tt.y)[3])
		})
	}
}

func TestWebPRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "still.webp")
	want := testFrame(t, 16, 16, 4, 11)
	require.NoError(t, Save(context.Background(), []images.Frame{want}, Destination{Path: path, Quality: 100}))

	got, err := Load(context.Background(), Source{Path: path})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 16, got[0].Width)
	assert.Equal(t, 16, got[0].Height)
}

func TestDimensions(t *testing.T) {
	w, h, err := Dimensions([]images.Frame{testFrame(t, 7, 5, 0, 0)})
	require.NoError(t, err)
	assert.Equal(t, 7, w)
	assert.Equal(t, 5, h)

	_, _, err = Dimensions(nil)
	assert.ErrorIs(t, err, common.ErrEmptySequence)
}
