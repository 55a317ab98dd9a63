package images

import (
	"github.com/nvr-ai/go-framecrop/common"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// FromMat copies an 8-bit OpenCV matrix into a BGR-ordered frame.
//
// Arguments:
//   - mat: A CV_8UC1, CV_8UC3 or CV_8UC4 matrix.
//
// Returns:
//   - Frame: The copied frame.
//   - error: If the matrix is empty or of an unsupported type.
func FromMat(mat gocv.Mat) (Frame, error) {
	if mat.Empty() {
		return Frame{}, errors.New("input mat is empty")
	}
	switch mat.Type() {
	case gocv.MatTypeCV8UC1, gocv.MatTypeCV8UC3, gocv.MatTypeCV8UC4:
	default:
		return Frame{}, errors.Wrapf(common.ErrDimensionMismatch, "unsupported mat type %v", mat.Type())
	}

	src := mat
	if !mat.IsContinuous() {
		src = mat.Clone()
		defer src.Close()
	}

	f, err := NewFrame(src.Cols(), src.Rows(), src.Channels())
	if err != nil {
		return Frame{}, err
	}
	f.Order = OrderBGR
	copy(f.Pix, src.ToBytes())
	return f, nil
}

// ToMat copies the frame into a new BGR-ordered OpenCV matrix.
//
// The caller owns the returned Mat and must Close it.
func (f Frame) ToMat() (gocv.Mat, error) {
	if err := f.Validate(); err != nil {
		return gocv.NewMat(), err
	}
	var mt gocv.MatType
	switch f.Channels {
	case 1:
		mt = gocv.MatTypeCV8UC1
	case 3:
		mt = gocv.MatTypeCV8UC3
	case 4:
		mt = gocv.MatTypeCV8UC4
	default:
		return gocv.NewMat(), errors.Wrapf(common.ErrDimensionMismatch, "cannot convert %d channel frame to a mat", f.Channels)
	}
	bgr := f.WithOrder(OrderBGR)
	mat, err := gocv.NewMatFromBytes(f.Height, f.Width, mt, bgr.Pix)
	if err != nil {
		return gocv.NewMat(), errors.Wrap(err, "failed to create mat")
	}
	// The mat above borrows the Go slice; the clone owns its own buffer.
	defer mat.Close()
	return mat.Clone(), nil
}
