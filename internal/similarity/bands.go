package similarity

import "fmt"

// Band labels.
const (
	BandHigh        = "highly similar"
	BandModerate    = "moderate"
	BandSignificant = "significant differences"
)

// Default cut points.
const (
	DefaultHigh     = 0.90
	DefaultModerate = 0.75
)

// Thresholds are the cut points used to label a score for presentation.
// They never affect the score itself.
type Thresholds struct {
	High     float64 `mapstructure:"high" json:"high" yaml:"high"`
	Moderate float64 `mapstructure:"moderate" json:"moderate" yaml:"moderate"`
}

// DefaultThresholds returns the standard cut points.
func DefaultThresholds() Thresholds {
	return Thresholds{High: DefaultHigh, Moderate: DefaultModerate}
}

// Validate checks that the cut points are ordered and within range.
func (t Thresholds) Validate() error {
	if t.Moderate < -1 || t.High > 1 {
		return fmt.Errorf("thresholds must lie within [-1, 1], got moderate=%.2f high=%.2f", t.Moderate, t.High)
	}
	if t.Moderate > t.High {
		return fmt.Errorf("moderate threshold %.2f exceeds high threshold %.2f", t.Moderate, t.High)
	}
	return nil
}

// Band returns the presentation label for a score.
func (t Thresholds) Band(score float64) string {
	switch {
	case score >= t.High:
		return BandHigh
	case score >= t.Moderate:
		return BandModerate
	default:
		return BandSignificant
	}
}

// Percent formats a score as a percentage with two decimals.
func Percent(score float64) string {
	return fmt.Sprintf("%.2f%%", score*100)
}
