// Package view recomputes the complete form state from one set of inputs.
package view

import (
	"github.com/fairyhunter13/slope-calculator/internal/geometry"
	"github.com/fairyhunter13/slope-calculator/internal/model"
	"github.com/fairyhunter13/slope-calculator/internal/plot"
)

// UndefinedMessage frames the vertical-line result.
const UndefinedMessage = "slope is undefined (vertical line)"

// Info is the static informational panel.
func Info() model.InfoPanel {
	return model.InfoPanel{
		Formula: "m = (y2 - y1) / (x2 - x1)",
		Rules: []model.InfoRule{
			{Condition: "m > 0", Meaning: "the line is increasing"},
			{Condition: "m < 0", Meaning: "the line is decreasing"},
			{Condition: "m = 0", Meaning: "the line is horizontal"},
			{Condition: "m undefined", Meaning: "the line is vertical"},
		},
	}
}

// Result computes the result block for two points.
func Result(p1, p2 geometry.Point) model.ResultBlock {
	slope := geometry.ComputeSlope(p1, p2)
	eq := geometry.FormatEquation(p1, slope)
	rb := model.ResultBlock{
		Slope:     slope,
		SlopeText: slope.Text(),
		Equation:  eq,
	}
	if !slope.IsDefined() {
		rb.Status = model.StatusError
		rb.Message = UndefinedMessage
		return rb
	}
	trend := geometry.Interpret(slope)
	rb.Status = model.StatusSuccess
	rb.Message = "slope (m): " + slope.Text()
	rb.Interpretation = trend.Word()
	rb.InterpretationText = trend.Sentence()
	return rb
}

// Compute runs one full recompute pass: slope, equation, and the plot when
// requested.
func Compute(in model.Inputs, step float64) model.View {
	p1, p2 := in.Points()
	v := model.View{
		Inputs: in,
		Step:   step,
		Result: Result(p1, p2),
		Info:   Info(),
	}
	if in.ShowPlot {
		s := plot.BuildSpec(p1, p2, v.Result.Slope)
		v.Plot = &s
	}
	return v
}
