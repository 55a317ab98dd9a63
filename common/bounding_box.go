package common

import (
	"fmt"
	"image"
)

// Box is an inclusive, axis-aligned pixel-index rectangle of a frame.
//
// An axis whose high bound is below its low bound (the 0,-1 sentinel) holds no
// extent: either the axis was not scanned or no foreground was found on it.
type Box struct {
	X0, X1 int
	Y0, Y1 int
}

// EmptyBox returns the sentinel box with no extent on either axis.
func EmptyBox() Box {
	return Box{X0: 0, X1: -1, Y0: 0, Y1: -1}
}

// FullBox returns the box covering a whole width x height frame.
func FullBox(width, height int) Box {
	return Box{X0: 0, X1: width - 1, Y0: 0, Y1: height - 1}
}

// EmptyX reports whether the box holds no extent on the x axis.
func (b Box) EmptyX() bool {
	return b.X1 < b.X0
}

// EmptyY reports whether the box holds no extent on the y axis.
func (b Box) EmptyY() bool {
	return b.Y1 < b.Y0
}

// Width is the number of columns covered by the box.
func (b Box) Width() int {
	if b.EmptyX() {
		return 0
	}
	return b.X1 - b.X0 + 1
}

// Height is the number of rows covered by the box.
func (b Box) Height() int {
	if b.EmptyY() {
		return 0
	}
	return b.Y1 - b.Y0 + 1
}

// Size returns the width and height of the box as a point.
func (b Box) Size() image.Point {
	return image.Point{X: b.Width(), Y: b.Height()}
}

// Center returns the integer center of the box.
//
// The center is only exact when both extents are odd; otherwise the
// division truncates toward zero.
//
// @example
// box := Box{X0: 2, X1: 6, Y0: 3, Y1: 7}
// c := box.Center() // (4,5)
func (b Box) Center() image.Point {
	return image.Point{X: (b.X0 + b.X1) / 2, Y: (b.Y0 + b.Y1) / 2}
}

// Contains reports whether other lies entirely inside b.
func (b Box) Contains(other Box) bool {
	return other.X0 >= b.X0 && other.X1 <= b.X1 && other.Y0 >= b.Y0 && other.Y1 <= b.Y1
}

// ToRect converts the box to an image.Rectangle.
//
// image.Rectangle uses an exclusive maximum, so one is added to the high
// bounds.
//
// Returns:
// - An image.Rectangle covering the same pixels as the box.
//
// @example
// box := Box{X0: 2, X1: 6, Y0: 3, Y1: 7}
// rect := box.ToRect() // (2,3)-(7,8)
func (b Box) ToRect() image.Rectangle {
	return image.Rect(b.X0, b.Y0, b.X1+1, b.Y1+1)
}

func (b Box) String() string {
	return fmt.Sprintf("x=[%d,%d], y=[%d,%d]", b.X0, b.X1, b.Y0, b.Y1)
}
