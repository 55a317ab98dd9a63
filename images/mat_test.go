package images

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestMatRoundTrip(t *testing.T) {
	f, err := NewFrame(3, 2, 3)
	require.NoError(t, err)
	f.Set(1, 1, Color{10, 20, 30})

	mat, err := f.ToMat()
	require.NoError(t, err)
	defer mat.Close()
	assert.Equal(t, 3, mat.Cols())
	assert.Equal(t, 2, mat.Rows())
	assert.Equal(t, gocv.MatTypeCV8UC3, mat.Type())

	back, err := FromMat(mat)
	require.NoError(t, err)
	assert.Equal(t, OrderBGR, back.Order)
	assert.Equal(t, Color{30, 20, 10}, back.At(1, 1))
	assert.Equal(t, f.Pix, back.WithOrder(OrderRGB).Pix)
}

func TestFromMatErrors(t *testing.T) {
	empty := gocv.NewMat()
	defer empty.Close()
	_, err := FromMat(empty)
	assert.Error(t, err)

	float := gocv.NewMatWithSize(2, 2, gocv.MatTypeCV32F)
	defer float.Close()
	_, err = FromMat(float)
	assert.Error(t, err)

	_, err = Frame{Width: 1, Height: 1, Channels: 2, Pix: []uint8{1, 2}}.ToMat()
	assert.Error(t, err)
}
