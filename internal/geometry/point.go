// Package geometry computes the slope and the equation of the line through
// two points in the plane.
package geometry

import (
	"fmt"
	"strconv"
)

// Point is an immutable point in the plane.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint builds a Point from its coordinates.
func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

// String renders the point as "(x, y)" using the shortest exact decimal form.
func (p Point) String() string {
	return fmt.Sprintf("(%s, %s)", FormatCoord(p.X), FormatCoord(p.Y))
}

// FormatCoord renders a user-entered coordinate without trailing zeros.
func FormatCoord(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
