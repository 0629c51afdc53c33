package geometry

// Trend classifies the sign of a slope.
type Trend string

const (
	TrendPositive Trend = "positive"
	TrendNegative Trend = "negative"
	TrendZero     Trend = "zero"
	TrendVertical Trend = "vertical"
)

// Interpret classifies a slope. Zero is detected by exact equality.
func Interpret(slope SlopeResult) Trend {
	m, ok := slope.Value()
	switch {
	case !ok:
		return TrendVertical
	case m > 0:
		return TrendPositive
	case m < 0:
		return TrendNegative
	default:
		return TrendZero
	}
}

// Word is the one-word description of the line: increasing, decreasing,
// horizontal or vertical.
func (t Trend) Word() string {
	switch t {
	case TrendPositive:
		return "increasing"
	case TrendNegative:
		return "decreasing"
	case TrendZero:
		return "horizontal"
	default:
		return "vertical"
	}
}

// Sentence is the interpretation line shown under the result.
func (t Trend) Sentence() string {
	switch t {
	case TrendPositive:
		return "positive slope: the line is increasing"
	case TrendNegative:
		return "negative slope: the line is decreasing"
	case TrendZero:
		return "zero slope: the line is horizontal"
	default:
		return "undefined slope: the line is vertical"
	}
}
