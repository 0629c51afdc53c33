package geometry

import (
	"encoding/json"
	"fmt"
)

// EquationKind tags the variant held by a LineEquation.
type EquationKind string

const (
	// EquationLinear is y = slope*x + intercept.
	EquationLinear EquationKind = "linear"
	// EquationVertical is x = constant.
	EquationVertical EquationKind = "vertical"
)

// LineEquation describes a line either in slope-intercept form or as a
// vertical line.
type LineEquation struct {
	Kind      EquationKind
	Slope     float64
	Intercept float64
	X         float64
}

// FormatEquation derives the equation of the line through p1 with the given
// slope.
func FormatEquation(p1 Point, slope SlopeResult) LineEquation {
	m, ok := slope.Value()
	if !ok {
		return LineEquation{Kind: EquationVertical, X: p1.X}
	}
	b := p1.Y
	if p1.X != 0 {
		b -= m * p1.X
	}
	return LineEquation{Kind: EquationLinear, Slope: m, Intercept: b}
}

// IsFinite reports whether every coefficient of the equation fits in a
// float64.
func (e LineEquation) IsFinite() bool {
	if e.IsVertical() {
		return isFinite(e.X)
	}
	return isFinite(e.Slope) && isFinite(e.Intercept)
}

// IsVertical reports whether the equation is x = constant.
func (e LineEquation) IsVertical() bool { return e.Kind == EquationVertical }

// At evaluates a linear equation at x. Meaningless for vertical lines.
func (e LineEquation) At(x float64) float64 {
	return e.Slope*x + e.Intercept
}

// String renders "y = 1.00x + 0.00" or "x = 2".
func (e LineEquation) String() string {
	if e.IsVertical() {
		return "x = " + FormatCoord(e.X)
	}
	return fmt.Sprintf("y = %.2fx + %.2f", normalizeZero(e.Slope), normalizeZero(e.Intercept))
}

// MarshalJSON emits only the fields of the active variant plus the text form.
// Coefficients that overflowed are null; the text keeps their ±Inf form.
func (e LineEquation) MarshalJSON() ([]byte, error) {
	if e.IsVertical() {
		return json.Marshal(struct {
			Kind EquationKind `json:"kind"`
			X    float64      `json:"x"`
			Text string       `json:"text"`
		}{e.Kind, e.X, e.String()})
	}
	return json.Marshal(struct {
		Kind      EquationKind `json:"kind"`
		Slope     *float64     `json:"slope"`
		Intercept *float64     `json:"intercept"`
		Text      string       `json:"text"`
	}{e.Kind, finiteOrNil(e.Slope), finiteOrNil(e.Intercept), e.String()})
}
