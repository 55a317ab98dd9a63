// Package report writes the per-frame crop coordinates of a reconciled
// sequence as a CSV spreadsheet.
//
// Columns are fixed width and right-aligned, separated by ", ", with the
// header row first.
//
//	frame,     sx,     sy,     x0,     y0,     x1,     y1,     cx,     cy,     ox,     oy
//	    0,      5,      5,      2,      2,      6,      6,      4,      4,      0,      0
package report

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"os"
	"strings"

	"github.com/nvr-ai/go-framecrop/common"
	"github.com/nvr-ai/go-framecrop/reconcile"
	"github.com/pkg/errors"
)

// Columns are the report column names in order.
var Columns = []string{"frame", "sx", "sy", "x0", "y0", "x1", "y1", "cx", "cy", "ox", "oy"}

const fieldWidth = 6

// ErrReportWrite is returned when the report cannot be written.
var ErrReportWrite = errors.New("cannot write spreadsheet")

// Row is one report line.
type Row struct {
	// Frame is the frame number in the source sequence.
	Frame int
	// Box is the final crop box.
	Box common.Box
	// Center is the center of Box.
	Center image.Point
	// Offset is the center displacement from the previous frame.
	Offset image.Point
}

// Values returns the row as the integers of Columns.
func (r Row) Values() []int {
	return []int{
		r.Frame, r.Box.Width(), r.Box.Height(),
		r.Box.X0, r.Box.Y0, r.Box.X1, r.Box.Y1,
		r.Center.X, r.Center.Y, r.Offset.X, r.Offset.Y,
	}
}

// Rows builds the report rows of a reconciliation result.
//
// Arguments:
// - res: The reconciled sequence.
// - start: The number of the first frame.
// - stride: The frame number increment.
//
// Returns:
// - One row per frame, numbered start + i*stride.
func Rows(res *reconcile.Result, start, stride int) []Row {
	rows := make([]Row, len(res.Boxes))
	for i, b := range res.Boxes {
		rows[i].Frame = start + i*stride
		rows[i].Box = b
		rows[i].Center = res.Centers[i]
		rows[i].Offset = res.Offsets[i]
	}
	return rows
}

// Header returns the header line, without the trailing newline.
func Header() string {
	fields := make([]string, len(Columns))
	for i, c := range Columns {
		fields[i] = fmt.Sprintf("%*s", fieldWidth, c)
	}
	return strings.Join(fields, ", ")
}

// Format returns the row line, without the trailing newline.
func (r Row) Format() string {
	values := r.Values()
	fields := make([]string, len(values))
	for i, v := range values {
		fields[i] = fmt.Sprintf("%*d", fieldWidth, v)
	}
	return strings.Join(fields, ", ")
}

// Write writes the rows to w, preceded by the header when header is true.
func Write(w io.Writer, rows []Row, header bool) error {
	bw := bufio.NewWriter(w)
	if header {
		if _, err := fmt.Fprintln(bw, Header()); err != nil {
			return errors.Wrap(ErrReportWrite, err.Error())
		}
	}
	for _, r := range rows {
		if _, err := fmt.Fprintln(bw, r.Format()); err != nil {
			return errors.Wrap(ErrReportWrite, err.Error())
		}
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(ErrReportWrite, err.Error())
	}
	return nil
}

// Disabled reports whether a report path turns the report off.
func Disabled(path string) bool {
	switch strings.ToLower(path) {
	case "", "false", "no", "0":
		return true
	}
	return false
}

// WriteFile writes the rows to path.
//
// In append mode the rows are appended to an existing file without a header;
// a missing file is created with a header in either mode.
func WriteFile(path string, rows []Row, appendRows bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	header := true
	if appendRows {
		if _, err := os.Stat(path); err == nil {
			flags = os.O_WRONLY | os.O_APPEND
			header = false
		}
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return errors.Wrapf(ErrReportWrite, "%s: %v", path, err)
	}
	defer f.Close()
	if err := Write(f, rows, header); err != nil {
		return errors.Wrapf(err, "%s", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(ErrReportWrite, "%s: %v", path, err)
	}
	return nil
}
