package plot

import (
	"bytes"
	"errors"
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Format is an output image format.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

var (
	// ErrUnknownFormat is returned for formats other than png and svg.
	ErrUnknownFormat = errors.New("unknown plot format")
	// ErrUnrenderable is returned when the drawing cannot be mapped onto a
	// canvas, e.g. when an axis spans more than the float64 range.
	ErrUnrenderable = errors.New("plot cannot be rendered")
)

// ParseFormat maps a file extension or query value to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatPNG:
		return FormatPNG, nil
	case FormatSVG:
		return FormatSVG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ContentType is the MIME type of the encoded image.
func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// Size is the canvas size in pixels.
type Size struct {
	Width  int
	Height int
}

// DefaultSize matches a 10x6 inch figure at 100 dpi.
var DefaultSize = Size{Width: 1000, Height: 600}

func markerStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    7,
		DotColor:    col,
	}
}

// Chart converts a Spec into a go-chart definition without the legend,
// which must be bound to the final Chart value.
func Chart(s Spec, size Size) chart.Chart {
	if size.Width <= 0 || size.Height <= 0 {
		size = DefaultSize
	}
	lineStyle := chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2}

	var line chart.ContinuousSeries
	if s.IsVertical() {
		x := *s.VerticalX
		line = chart.ContinuousSeries{
			Name:    s.LineLabel,
			XValues: []float64{x, x},
			YValues: []float64{s.YBounds.Min, s.YBounds.Max},
			Style:   lineStyle,
		}
	} else {
		xs, ys := visibleLine(s)
		line = chart.ContinuousSeries{Name: s.LineLabel, XValues: xs, YValues: ys, Style: lineStyle}
	}

	segment := chart.ContinuousSeries{
		Name:    "segment",
		XValues: []float64{s.Segment.From.X, s.Segment.To.X},
		YValues: []float64{s.Segment.From.Y, s.Segment.To.Y},
		Style: chart.Style{
			StrokeColor:     chart.ColorRed.WithAlpha(180),
			StrokeWidth:     1,
			StrokeDashArray: []float64{5, 5},
		},
	}
	if !s.Segment.Dashed {
		segment.Style.StrokeDashArray = nil
	}

	p1 := chart.ContinuousSeries{
		Name:    s.Point1.Label,
		XValues: []float64{s.Point1.Point.X},
		YValues: []float64{s.Point1.Point.Y},
		Style:   markerStyle(chart.ColorRed),
	}
	p2 := chart.ContinuousSeries{
		Name:    s.Point2.Label,
		XValues: []float64{s.Point2.Point.X},
		YValues: []float64{s.Point2.Point.Y},
		Style:   markerStyle(chart.ColorGreen),
	}

	grid := chart.Style{StrokeColor: chart.ColorAlternateGray.WithAlpha(80), StrokeWidth: 1}
	return chart.Chart{
		Title:      s.Title,
		Width:      size.Width,
		Height:     size.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:           s.XLabel,
			Range:          &chart.ContinuousRange{Min: s.XBounds.Min, Max: s.XBounds.Max},
			GridMajorStyle: grid,
		},
		YAxis: chart.YAxis{
			Name:           s.YLabel,
			Range:          &chart.ContinuousRange{Min: s.YBounds.Min, Max: s.YBounds.Max},
			GridMajorStyle: grid,
		},
		Series: []chart.Series{line, segment, p1, p2},
	}
}

// visibleLine is the stretch of the line inside the plot box. The samples
// inside the box are the fallback when clipping fails.
func visibleLine(s Spec) (xs, ys []float64) {
	if a, b, ok := ClipLine(s.Point1.Point, s.Point2.Point, s.XBounds, s.YBounds); ok {
		return []float64{a.X, b.X}, []float64{a.Y, b.Y}
	}
	for _, p := range s.Samples {
		if s.XBounds.Contains(p.X) && s.YBounds.Contains(p.Y) {
			xs = append(xs, p.X)
			ys = append(ys, p.Y)
		}
	}
	return xs, ys
}

// checkFinite rejects charts the rasterizer cannot draw: non-finite values
// and axes whose span overflows.
func checkFinite(ch chart.Chart) error {
	for _, r := range []chart.Range{ch.XAxis.Range, ch.YAxis.Range} {
		if d := r.GetMax() - r.GetMin(); !finite(d) || d <= 0 {
			return fmt.Errorf("%w: axis span %v", ErrUnrenderable, d)
		}
	}
	for _, series := range ch.Series {
		cs, ok := series.(chart.ContinuousSeries)
		if !ok {
			continue
		}
		for i := range cs.XValues {
			if !finite(cs.XValues[i]) || !finite(cs.YValues[i]) {
				return fmt.Errorf("%w: series %q has a non-finite value", ErrUnrenderable, cs.Name)
			}
		}
	}
	return nil
}

// Render draws the plot in the requested format.
func Render(s Spec, f Format, size Size) ([]byte, error) {
	ch := Chart(s, size)
	if err := checkFinite(ch); err != nil {
		return nil, err
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	var provider chart.RendererProvider
	switch f {
	case FormatPNG, "":
		provider = chart.PNG
	case FormatSVG:
		provider = chart.SVG
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	var buf bytes.Buffer
	if err := ch.Render(provider, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", f, err)
	}
	return buf.Bytes(), nil
}
