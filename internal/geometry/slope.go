package geometry

import (
	"encoding/json"
	"fmt"
	"math"
)

// SlopeResult is either a defined slope or the undefined slope of a
// vertical line. The zero value is Undefined.
type SlopeResult struct {
	defined bool
	value   float64
}

// Defined returns a SlopeResult holding slope m.
func Defined(m float64) SlopeResult {
	return SlopeResult{defined: true, value: m}
}

// Undefined returns the slope of a vertical line.
func Undefined() SlopeResult {
	return SlopeResult{}
}

// IsDefined reports whether the slope has a real value.
func (s SlopeResult) IsDefined() bool { return s.defined }

// Value returns the slope and whether it is defined.
func (s SlopeResult) Value() (float64, bool) { return s.value, s.defined }

// Text renders a defined slope with four decimals; undefined renders as
// "undefined".
func (s SlopeResult) Text() string {
	if !s.defined {
		return "undefined"
	}
	return fmt.Sprintf("%.4f", normalizeZero(s.value))
}

// IsFinite reports whether the slope is defined and fits in a float64. A
// defined slope overflows to ±Inf when the rise is huge compared to the run.
func (s SlopeResult) IsFinite() bool { return s.defined && isFinite(s.value) }

// MarshalJSON encodes {"defined":true,"value":m} or {"defined":false}. An
// overflowed slope is {"defined":true,"value":null,"overflow":"+Inf"}.
func (s SlopeResult) MarshalJSON() ([]byte, error) {
	if !s.defined {
		return json.Marshal(struct {
			Defined bool `json:"defined"`
		}{false})
	}
	return json.Marshal(struct {
		Defined  bool     `json:"defined"`
		Value    *float64 `json:"value"`
		Overflow string   `json:"overflow,omitempty"`
	}{true, finiteOrNil(s.value), overflowSign(s.value)})
}

// ComputeSlope returns the slope of the line through p1 and p2.
//
// A zero horizontal difference yields Undefined. The comparison is exact:
// nearly-vertical lines built from noisy coordinates keep a (large) defined
// slope.
//
// Differences that overflow are taken on halved coordinates, so the result
// is never NaN for finite points. It can still be ±Inf.
func ComputeSlope(p1, p2 Point) SlopeResult {
	dx := p2.X - p1.X
	if dx == 0 {
		return Undefined()
	}
	dy := p2.Y - p1.Y
	if math.IsInf(dx, 0) || math.IsInf(dy, 0) {
		dx, dy = p2.X/2-p1.X/2, p2.Y/2-p1.Y/2
	}
	return Defined(dy / dx)
}

// normalizeZero turns -0 into 0 so that text output never shows "-0.00".
func normalizeZero(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}

func isFinite(v float64) bool { return !math.IsInf(v, 0) && !math.IsNaN(v) }

func finiteOrNil(v float64) *float64 {
	if !isFinite(v) {
		return nil
	}
	return &v
}

func overflowSign(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	return ""
}
