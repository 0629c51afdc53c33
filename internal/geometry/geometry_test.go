package geometry

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSlope_Scenarios(t *testing.T) {
	cases := []struct {
		name     string
		p1, p2   Point
		defined  bool
		slope    string
		equation string
		trend    string
	}{
		{"increasing", NewPoint(0, 0), NewPoint(1, 1), true, "1.0000", "y = 1.00x + 0.00", "increasing"},
		{"vertical", NewPoint(2, 3), NewPoint(2, 7), false, "undefined", "x = 2", "vertical"},
		{"horizontal", NewPoint(0, 5), NewPoint(4, 5), true, "0.0000", "y = 0.00x + 5.00", "horizontal"},
		{"decreasing", NewPoint(-1, -1), NewPoint(1, -5), true, "-2.0000", "y = -2.00x + -3.00", "decreasing"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := ComputeSlope(tc.p1, tc.p2)
			assert.Equal(t, tc.defined, s.IsDefined())
			assert.Equal(t, tc.slope, s.Text())
			assert.Equal(t, tc.equation, FormatEquation(tc.p1, s).String())
			assert.Equal(t, tc.trend, Interpret(s).Word())
		})
	}
}

func TestComputeSlope_UndefinedForEqualX(t *testing.T) {
	for _, p := range [][2]Point{
		{NewPoint(3, 1), NewPoint(3, -9)},
		{NewPoint(-0.5, 2), NewPoint(-0.5, 2)},
		{NewPoint(0, 0), NewPoint(0, 0)},
	} {
		assert.False(t, ComputeSlope(p[0], p[1]).IsDefined(), "%v %v", p[0], p[1])
	}
}

func TestComputeSlope_MatchesFormula(t *testing.T) {
	pts := []Point{
		NewPoint(0.1, 0.2), NewPoint(-3.7, 12), NewPoint(1e6, -2e5),
		NewPoint(42, 42), NewPoint(-0.3, 0.7), NewPoint(9.99, -1e-3),
	}
	for _, p1 := range pts {
		for _, p2 := range pts {
			if p1.X == p2.X {
				continue
			}
			m, ok := ComputeSlope(p1, p2).Value()
			require.True(t, ok)
			assert.Equal(t, (p2.Y-p1.Y)/(p2.X-p1.X), m)
		}
	}
}

func TestComputeSlope_Symmetric(t *testing.T) {
	pts := []Point{NewPoint(0, 0), NewPoint(2, 3), NewPoint(2, 7), NewPoint(-1.5, 4.25), NewPoint(10, -10)}
	for _, p1 := range pts {
		for _, p2 := range pts {
			a, b := ComputeSlope(p1, p2), ComputeSlope(p2, p1)
			require.Equal(t, a.IsDefined(), b.IsDefined())
			ma, _ := a.Value()
			mb, _ := b.Value()
			assert.InDelta(t, ma, mb, 1e-12)
		}
	}
}

func TestFormatEquation_PassesThroughBothPoints(t *testing.T) {
	pairs := [][2]Point{
		{NewPoint(0, 0), NewPoint(1, 1)},
		{NewPoint(-1, -1), NewPoint(1, -5)},
		{NewPoint(0.3, 1.7), NewPoint(-2.2, 8.1)},
		{NewPoint(100, -50), NewPoint(-250, 75.5)},
	}
	for _, pp := range pairs {
		s := ComputeSlope(pp[0], pp[1])
		eq := FormatEquation(pp[0], s)
		require.False(t, eq.IsVertical())
		assert.InDelta(t, pp[0].Y, eq.At(pp[0].X), 1e-9)
		assert.InDelta(t, pp[1].Y, eq.At(pp[1].X), 1e-9)
	}
}

func TestFormatEquation_Vertical(t *testing.T) {
	eq := FormatEquation(NewPoint(-2.5, 1), Undefined())
	assert.True(t, eq.IsVertical())
	assert.Equal(t, -2.5, eq.X)
	assert.Equal(t, "x = -2.5", eq.String())
}

func TestText_NegativeZero(t *testing.T) {
	// (5-5)/(0-4) is -0.
	s := ComputeSlope(NewPoint(4, 5), NewPoint(0, 5))
	m, _ := s.Value()
	assert.True(t, math.Signbit(m))
	assert.Equal(t, "0.0000", s.Text())
	assert.Equal(t, TrendZero, Interpret(s))
}

func TestInterpret(t *testing.T) {
	assert.Equal(t, TrendPositive, Interpret(Defined(0.001)))
	assert.Equal(t, TrendNegative, Interpret(Defined(-3)))
	assert.Equal(t, TrendZero, Interpret(Defined(0)))
	assert.Equal(t, TrendVertical, Interpret(Undefined()))
	assert.Equal(t, "negative slope: the line is decreasing", TrendNegative.Sentence())
}

func TestPointString(t *testing.T) {
	assert.Equal(t, "(0, 0)", NewPoint(0, 0).String())
	assert.Equal(t, "(1.5, -2)", NewPoint(1.5, -2).String())
}

func TestJSON(t *testing.T) {
	b, err := json.Marshal(FormatEquation(NewPoint(2, 3), Undefined()))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"vertical","x":2,"text":"x = 2"}`, string(b))

	b, err = json.Marshal(Defined(-2))
	require.NoError(t, err)
	assert.JSONEq(t, `{"defined":true,"value":-2}`, string(b))

	b, err = json.Marshal(Undefined())
	require.NoError(t, err)
	assert.JSONEq(t, `{"defined":false}`, string(b))
}

func TestComputeSlope_Overflow(t *testing.T) {
	cases := []struct {
		name   string
		p1, p2 Point
		finite bool
		trend  Trend
	}{
		{"subnormal run", NewPoint(0, 0), NewPoint(5e-324, 1), false, TrendPositive},
		{"huge rise", NewPoint(0, 0), NewPoint(1, 1e308), true, TrendPositive},
		{"rise beyond range", NewPoint(0, -1e308), NewPoint(1, 1e308), false, TrendPositive},
		{"both differences overflow", NewPoint(-1e308, 1e308), NewPoint(1e308, -1e308), true, TrendNegative},
		{"large coordinates", NewPoint(1e17, 1e17), NewPoint(1e17+1024, 1e17), true, TrendZero},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := ComputeSlope(tc.p1, tc.p2)
			require.True(t, s.IsDefined())
			m, _ := s.Value()
			assert.False(t, math.IsNaN(m))
			assert.Equal(t, tc.finite, s.IsFinite())
			assert.Equal(t, tc.trend, Interpret(s))

			eq := FormatEquation(tc.p1, s)
			assert.False(t, math.IsNaN(eq.Intercept))

			b, err := json.Marshal(s)
			require.NoError(t, err)
			assert.True(t, json.Valid(b))
			b, err = json.Marshal(eq)
			require.NoError(t, err)
			assert.True(t, json.Valid(b))
		})
	}
}

func TestJSON_Overflow(t *testing.T) {
	b, err := json.Marshal(Defined(math.Inf(1)))
	require.NoError(t, err)
	assert.JSONEq(t, `{"defined":true,"value":null,"overflow":"+Inf"}`, string(b))

	eq := FormatEquation(NewPoint(0, 2), Defined(math.Inf(-1)))
	assert.Equal(t, 2.0, eq.Intercept)
	assert.False(t, eq.IsFinite())
	b, err = json.Marshal(eq)
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"linear","slope":null,"intercept":2,"text":"y = -Infx + 2.00"}`, string(b))
}
