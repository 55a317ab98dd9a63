package autocrop

import (
	"context"
	"image/color"
	"testing"

	"github.com/nvr-ai/go-framecrop/common"
	"github.com/nvr-ai/go-framecrop/images"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// squareFrame returns a w x h frame of bg with the square [lo,hi]x[lo,hi]
// set to fg.
func squareFrame(t testing.TB, w, h, lo, hi int, bg, fg images.Color) images.Frame {
	t.Helper()
	f, err := images.NewFrame(w, h, len(bg))
	require.NoError(t, err)
	f.Fill(bg)
	for y := lo; y <= hi; y++ {
		for x := lo; x <= hi; x++ {
			f.Set(x, y, fg)
		}
	}
	return f
}

func TestScan(t *testing.T) {
	black, white := images.Color{0}, images.Color{255}

	tests := []struct {
		name  string
		frame images.Frame
		axes  []common.Axis
		want  common.Box
	}{
		{
			name:  "centered square",
			frame: squareFrame(t, 10, 10, 2, 5, black, white),
			want:  common.Box{X0: 2, X1: 5, Y0: 2, Y1: 5},
		},
		{
			name:  "uniform frame has no foreground",
			frame: squareFrame(t, 10, 10, 0, -1, black, white),
			want:  common.EmptyBox(),
		},
		{
			name:  "x axis only",
			frame: squareFrame(t, 10, 10, 3, 6, black, white),
			axes:  []common.Axis{common.AxisX},
			want:  common.Box{X0: 3, X1: 6, Y0: 0, Y1: -1},
		},
		{
			name:  "y axis only",
			frame: squareFrame(t, 10, 8, 3, 6, black, white),
			axes:  []common.Axis{common.AxisY},
			want:  common.Box{X0: 0, X1: -1, Y0: 3, Y1: 6},
		},
		{
			name:  "single pixel",
			frame: squareFrame(t, 5, 5, 4, 4, black, white),
			want:  common.Box{X0: 4, X1: 4, Y0: 4, Y1: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Scan(tt.frame, tt.axes...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScanUnionOfChannels(t *testing.T) {
	f, err := images.NewFrame(10, 10, 3)
	require.NoError(t, err)
	f.Fill(images.Color{0, 0, 0})
	// Red at (2,7), blue at (8,1): only their union covers both.
	f.Set(2, 7, images.Color{200, 0, 0})
	f.Set(8, 1, images.Color{0, 0, 200})

	box, err := Scan(f)
	require.NoError(t, err)
	assert.Equal(t, common.Box{X0: 2, X1: 8, Y0: 1, Y1: 7}, box)
}

func TestScanCornerFallback(t *testing.T) {
	// Foreground touching (0,0) spans the frame against its own color, so
	// the scan retries against the bottom-right corner.
	f := squareFrame(t, 10, 10, 0, 4, images.Color{0}, images.Color{255})

	first, err := ScanColor(f, f.At(0, 0))
	require.NoError(t, err)
	assert.Equal(t, common.FullBox(10, 10), first)

	box, err := Scan(f)
	require.NoError(t, err)
	assert.Equal(t, common.Box{X0: 0, X1: 4, Y0: 0, Y1: 4}, box)

	// The retry only considers the scanned axes.
	box, err = Scan(f, common.AxisX)
	require.NoError(t, err)
	assert.Equal(t, common.Box{X0: 0, X1: 4, Y0: 0, Y1: -1}, box)
}

func TestScanColor(t *testing.T) {
	f := squareFrame(t, 6, 6, 1, 3, images.Color{10, 20, 30}, images.Color{10, 20, 31})

	box, err := ScanColor(f, images.Color{10, 20, 30})
	require.NoError(t, err)
	assert.Equal(t, common.Box{X0: 1, X1: 3, Y0: 1, Y1: 3}, box)

	// Against the foreground color everything else is foreground.
	box, err = ScanColor(f, images.Color{10, 20, 31})
	require.NoError(t, err)
	assert.Equal(t, common.FullBox(6, 6), box)

	_, err = ScanColor(f, images.Color{10, 20})
	assert.ErrorIs(t, err, common.ErrDimensionMismatch)

	_, err = ScanColor(f, images.Color{10, 20, 30}, common.Axis('z'))
	assert.ErrorIs(t, err, common.ErrInvalidAxis)
}

func TestScanInvalidFrame(t *testing.T) {
	_, err := Scan(images.Frame{})
	assert.ErrorIs(t, err, common.ErrDimensionMismatch)
}

func TestScanAll(t *testing.T) {
	bg, fg := images.Color{0}, images.Color{255}
	frames := []images.Frame{
		squareFrame(t, 10, 10, 2, 5, bg, fg),
		squareFrame(t, 10, 10, 3, 6, bg, fg),
		squareFrame(t, 10, 10, 2, 7, bg, fg),
		squareFrame(t, 10, 10, 0, -1, bg, fg),
	}
	want := []common.Box{
		{X0: 2, X1: 5, Y0: 2, Y1: 5},
		{X0: 3, X1: 6, Y0: 3, Y1: 6},
		{X0: 2, X1: 7, Y0: 2, Y1: 7},
		common.EmptyBox(),
	}

	for _, workers := range []int{0, 1, 2, 8} {
		boxes, err := ScanAll(context.Background(), frames, Options{Workers: workers})
		require.NoError(t, err, "workers=%d", workers)
		assert.Equal(t, want, boxes, "workers=%d", workers)
	}
}

func TestScanAllBackground(t *testing.T) {
	frames := []images.Frame{
		squareFrame(t, 10, 10, 2, 5, images.Color{50}, images.Color{255}),
		squareFrame(t, 10, 10, 3, 6, images.Color{50}, images.Color{255}),
	}

	boxes, err := ScanAll(context.Background(), frames, Options{Background: color.Gray{Y: 50}})
	require.NoError(t, err)
	assert.Equal(t, []common.Box{{X0: 2, X1: 5, Y0: 2, Y1: 5}, {X0: 3, X1: 6, Y0: 3, Y1: 6}}, boxes)

	// Against black every sample is foreground.
	boxes, err = ScanAll(context.Background(), frames, Options{Background: color.Black, Workers: 2})
	require.NoError(t, err)
	assert.Equal(t, []common.Box{common.FullBox(10, 10), common.FullBox(10, 10)}, boxes)
}

func TestScanAllErrors(t *testing.T) {
	bg, fg := images.Color{0}, images.Color{255}
	a := squareFrame(t, 10, 10, 2, 5, bg, fg)
	b := squareFrame(t, 8, 10, 2, 5, bg, fg)

	_, err := ScanAll(context.Background(), nil, Options{})
	assert.ErrorIs(t, err, common.ErrEmptySequence)

	_, err = ScanAll(context.Background(), []images.Frame{a, b}, Options{})
	assert.ErrorIs(t, err, common.ErrDimensionMismatch)

	_, err = ScanAll(context.Background(), []images.Frame{a}, Options{Axes: []common.Axis{'z'}})
	assert.ErrorIs(t, err, common.ErrInvalidAxis)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ScanAll(ctx, []images.Frame{a, a, a}, Options{Workers: 2})
	assert.ErrorIs(t, err, context.Canceled)
}

func BenchmarkScan(b *testing.B) {
	f := squareFrame(b, 1920, 1080, 200, 800, images.Color{0, 0, 0}, images.Color{255, 128, 0})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Scan(f); err != nil {
			b.Fatal(err)
		}
	}
}
