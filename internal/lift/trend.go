package lift

import "github.com/louisbranch/airfoil/internal/uncertain"

// Trend is the elevation decision drawn from the adjusted lift.
type Trend int

const (
	TrendUnspecified Trend = iota
	TrendIncreasing
	TrendDecreasing
	TrendSteady
)

func (t Trend) String() string {
	switch t {
	case TrendUnspecified:
		return "Unspecified"
	case TrendIncreasing:
		return "Elevation level is increasing"
	case TrendDecreasing:
		return "Elevation level is decreasing"
	case TrendSteady:
		return "Airplane is not changing elevation level"
	default:
		return "Unknown"
	}
}

// Key returns the stable identifier used for storage and telemetry.
func (t Trend) Key() string {
	switch t {
	case TrendIncreasing:
		return "increasing"
	case TrendDecreasing:
		return "decreasing"
	case TrendSteady:
		return "steady"
	default:
		return "unspecified"
	}
}

// ParseTrend resolves a key produced by Key. Unknown keys map to TrendUnspecified.
func ParseTrend(key string) Trend {
	switch key {
	case "increasing":
		return TrendIncreasing
	case "decreasing":
		return TrendDecreasing
	case "steady":
		return TrendSteady
	default:
		return TrendUnspecified
	}
}

// TrendOf classifies the adjusted lift by the sign of its mean.
func TrendOf(adjusted *uncertain.Value) Trend {
	switch adjusted.Sign() {
	case 1:
		return TrendIncreasing
	case -1:
		return TrendDecreasing
	default:
		return TrendSteady
	}
}
