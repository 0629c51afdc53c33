// Package model defines the request and view types exchanged with clients.
package model

import (
	"github.com/fairyhunter13/slope-calculator/internal/geometry"
	"github.com/fairyhunter13/slope-calculator/internal/plot"
)

// Inputs are the four coordinates and the plot toggle of the form.
type Inputs struct {
	X1       float64 `json:"x1"`
	Y1       float64 `json:"y1"`
	X2       float64 `json:"x2"`
	Y2       float64 `json:"y2"`
	ShowPlot bool    `json:"show_plot"`
}

// Points returns the two points described by the inputs.
func (in Inputs) Points() (geometry.Point, geometry.Point) {
	return geometry.NewPoint(in.X1, in.Y1), geometry.NewPoint(in.X2, in.Y2)
}

// InputsPatch is a partial Inputs; nil fields keep their current value.
type InputsPatch struct {
	X1       *float64 `json:"x1,omitempty"`
	Y1       *float64 `json:"y1,omitempty"`
	X2       *float64 `json:"x2,omitempty"`
	Y2       *float64 `json:"y2,omitempty"`
	ShowPlot *bool    `json:"show_plot,omitempty"`
}

// Apply overlays the patch onto base.
func (p InputsPatch) Apply(base Inputs) Inputs {
	if p.X1 != nil {
		base.X1 = *p.X1
	}
	if p.Y1 != nil {
		base.Y1 = *p.Y1
	}
	if p.X2 != nil {
		base.X2 = *p.X2
	}
	if p.Y2 != nil {
		base.Y2 = *p.Y2
	}
	if p.ShowPlot != nil {
		base.ShowPlot = *p.ShowPlot
	}
	return base
}

// Status selects how the result block is framed.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// ResultBlock is the computed result shown under the form.
type ResultBlock struct {
	Status             Status                `json:"status"`
	Message            string                `json:"message"`
	Slope              geometry.SlopeResult  `json:"slope"`
	SlopeText          string                `json:"slope_text"`
	Equation           geometry.LineEquation `json:"equation"`
	Interpretation     string                `json:"interpretation,omitempty"`
	InterpretationText string                `json:"interpretation_text,omitempty"`
}

// InfoRule is one bullet of the informational panel.
type InfoRule struct {
	Condition string `json:"condition"`
	Meaning   string `json:"meaning"`
}

// InfoPanel is the static explanation of the slope formula.
type InfoPanel struct {
	Formula string     `json:"formula"`
	Rules   []InfoRule `json:"rules"`
}

// View is the full state pushed to a client after each recompute.
type View struct {
	SessionID string      `json:"session_id,omitempty"`
	Sequence  uint64      `json:"sequence,omitempty"`
	Inputs    Inputs      `json:"inputs"`
	Step      float64     `json:"step"`
	Result    ResultBlock `json:"result"`
	Plot      *plot.Spec  `json:"plot,omitempty"`
	Info      InfoPanel   `json:"info"`
}
