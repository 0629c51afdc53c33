// Package plot turns two points and their slope into a declarative drawing
// (PlotSpec) and renders it to PNG or SVG.
package plot

import (
	"math"

	"github.com/fairyhunter13/slope-calculator/internal/geometry"
)

const (
	// Padding is added on every side of the bounding box of the two points.
	Padding = 2.0
	// SampleCount is the number of x values sampled along a non-vertical line.
	SampleCount = 100

	Title  = "Line through the two points"
	XLabel = "x"
	YLabel = "y"
)

// Bounds is a closed interval on one axis.
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies inside the interval.
func (b Bounds) Contains(v float64) bool { return v >= b.Min && v <= b.Max }

// Sample is one vertex of the sampled line.
type Sample struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Marker is a labelled point drawn on top of the line.
type Marker struct {
	Point geometry.Point `json:"point"`
	Label string         `json:"label"`
}

// Segment is the dashed stroke joining the two markers.
type Segment struct {
	From   geometry.Point `json:"from"`
	To     geometry.Point `json:"to"`
	Dashed bool           `json:"dashed"`
}

// Spec describes everything a renderer needs to draw the line.
//
// Exactly one of Samples and VerticalX is set. Every value in a Spec is
// finite.
type Spec struct {
	Samples   []Sample `json:"line_samples,omitempty"`
	VerticalX *float64 `json:"vertical_x,omitempty"`
	LineLabel string   `json:"line_label"`
	Point1    Marker   `json:"point1"`
	Point2    Marker   `json:"point2"`
	Segment   Segment  `json:"segment"`
	XBounds   Bounds   `json:"x_bounds"`
	YBounds   Bounds   `json:"y_bounds"`
	Title     string   `json:"title"`
	XLabel    string   `json:"x_label"`
	YLabel    string   `json:"y_label"`
}

// IsVertical reports whether the drawing uses a vertical reference line.
func (s Spec) IsVertical() bool { return s.VerticalX != nil }

// BuildSpec computes the drawing for the line through p1 and p2.
func BuildSpec(p1, p2 geometry.Point, slope geometry.SlopeResult) Spec {
	xb := pad(p1.X, p2.X)
	yb := pad(p1.Y, p2.Y)
	eq := geometry.FormatEquation(p1, slope)

	s := Spec{
		LineLabel: eq.String(),
		Point1:    Marker{Point: p1, Label: "Point 1 " + p1.String()},
		Point2:    Marker{Point: p2, Label: "Point 2 " + p2.String()},
		Segment:   Segment{From: p1, To: p2, Dashed: true},
		XBounds:   xb,
		YBounds:   yb,
		Title:     Title,
		XLabel:    XLabel,
		YLabel:    YLabel,
	}
	if eq.IsVertical() {
		x := eq.X
		s.VerticalX = &x
		return s
	}
	xs := Linspace(xb.Min, xb.Max, SampleCount)
	s.Samples = make([]Sample, 0, len(xs))
	for _, x := range xs {
		if y := eq.At(x); finite(x) && finite(y) {
			s.Samples = append(s.Samples, Sample{X: x, Y: y})
		}
	}
	if len(s.Samples) < 2 {
		// The line is so steep that almost every sample overflowed.
		if a, b, ok := ClipLine(p1, p2, xb, yb); ok {
			s.Samples = []Sample{a, b}
		}
	}
	return s
}

// ClipLine returns the part of the infinite line through p1 and p2 that lies
// inside the box xb×yb. The points must differ and lie inside the box.
func ClipLine(p1, p2 geometry.Point, xb, yb Bounds) (Sample, Sample, bool) {
	// Halving keeps differences of huge coordinates finite; ratios are
	// unchanged.
	scale := 1.0
	for _, v := range []float64{p1.X, p1.Y, p2.X, p2.Y, xb.Min, xb.Max, yb.Min, yb.Max} {
		if math.Abs(v) > math.MaxFloat64/2 {
			scale = 0.5
			break
		}
	}
	dx := p2.X*scale - p1.X*scale
	dy := p2.Y*scale - p1.Y*scale
	if dx == 0 && dy == 0 {
		return Sample{}, Sample{}, false
	}
	tlo, thi := math.Inf(-1), math.Inf(1)
	narrow := func(p, d, lo, hi float64) {
		if d == 0 {
			return
		}
		t1 := (lo*scale - p*scale) / d
		t2 := (hi*scale - p*scale) / d
		tlo = max(tlo, min(t1, t2))
		thi = min(thi, max(t1, t2))
	}
	narrow(p1.X, dx, xb.Min, xb.Max)
	narrow(p1.Y, dy, yb.Min, yb.Max)
	// p + t*d/scale, split so the partial sum stays finite.
	along := func(p, d, t float64) float64 {
		if d == 0 {
			return p
		}
		v := p + t*d
		if scale != 1 {
			v += t * d
		}
		return v
	}
	at := func(t float64) Sample {
		return Sample{X: clamp(along(p1.X, dx, t), xb), Y: clamp(along(p1.Y, dy, t), yb)}
	}
	a, b := at(tlo), at(thi)
	if tlo > thi || !finite(a.X) || !finite(a.Y) || !finite(b.X) || !finite(b.Y) {
		return Sample{}, Sample{}, false
	}
	return a, b, true
}

// Linspace returns n evenly spaced values from lo to hi inclusive. The last
// value is hi exactly.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		if math.IsInf(step, 0) {
			// hi - lo overflows; interpolate instead.
			f := float64(i) / float64(n-1)
			out[i] = lo*(1-f) + hi*f
			continue
		}
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

// pad widens [min(a,b), max(a,b)] by Padding on both sides. Where Padding is
// below the float64 spacing the bound moves to the next representable value,
// so the margin is never smaller than Padding and never collapses to zero.
func pad(a, b float64) Bounds {
	return Bounds{Min: widen(min(a, b), -1), Max: widen(max(a, b), 1)}
}

func widen(v, dir float64) float64 {
	out := v + dir*Padding
	for math.Abs(out-v) < Padding && !math.IsInf(out, 0) {
		out = math.Nextafter(out, math.Inf(int(dir)))
	}
	if math.IsInf(out, 0) {
		return math.Copysign(math.MaxFloat64, dir)
	}
	return out
}

func clamp(v float64, b Bounds) float64 {
	return min(max(v, b.Min), b.Max)
}

func finite(v float64) bool { return !math.IsInf(v, 0) && !math.IsNaN(v) }
