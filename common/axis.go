package common

import (
	"strings"

	"github.com/pkg/errors"
)

// Axis names an image axis that can be scanned for foreground.
type Axis byte

const (
	// AxisX is the column axis.
	AxisX Axis = 'x'
	// AxisY is the row axis.
	AxisY Axis = 'y'
)

// DefaultAxes is the scan order used when no axes are requested.
var DefaultAxes = []Axis{AxisY, AxisX}

func (a Axis) String() string {
	return string(a)
}

// Validate returns ErrInvalidAxis for anything other than x or y.
func (a Axis) Validate() error {
	switch a {
	case AxisX, AxisY:
		return nil
	}
	return errors.Wrapf(ErrInvalidAxis, "axis %q", string(a))
}

// ParseAxes parses an axis string such as "yx" into its axes.
//
// Upper-case letters are accepted. An empty string yields DefaultAxes.
//
// Arguments:
// - s: The axes to parse, one letter per axis.
//
// Returns:
// - The parsed axes in order.
// - ErrInvalidAxis for any letter other than x or y.
//
// @example
// axes, err := ParseAxes("yx") // [y x], nil
// axes, err = ParseAxes("zyx") // nil, invalid axis "z"
func ParseAxes(s string) ([]Axis, error) {
	if s == "" {
		return append([]Axis(nil), DefaultAxes...), nil
	}
	axes := make([]Axis, 0, len(s))
	for _, r := range strings.ToLower(s) {
		a := Axis(r)
		if r > 0x7f {
			a = 0
		}
		if err := a.Validate(); err != nil {
			return nil, errors.Wrapf(ErrInvalidAxis, "axis %q in %q", string(r), s)
		}
		axes = append(axes, a)
	}
	return axes, nil
}
