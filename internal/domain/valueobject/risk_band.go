package valueobject

import "fmt"

// RiskBand is an immutable value object classifying a risk probability for
// display and alerting.
type RiskBand struct {
	value string
}

var (
	RiskBandLow      = RiskBand{value: "LOW"}
	RiskBandMedium   = RiskBand{value: "MEDIUM"}
	RiskBandHigh     = RiskBand{value: "HIGH"}
	RiskBandCritical = RiskBand{value: "CRITICAL"}
)

// RiskBandFromString reconstructs a RiskBand from its string representation.
func RiskBandFromString(s string) (RiskBand, error) {
	switch s {
	case "LOW":
		return RiskBandLow, nil
	case "MEDIUM":
		return RiskBandMedium, nil
	case "HIGH":
		return RiskBandHigh, nil
	case "CRITICAL":
		return RiskBandCritical, nil
	default:
		return RiskBand{}, fmt.Errorf("invalid risk band: %s", s)
	}
}

// RiskBandFromProbability derives the band from a risk probability in [0,1].
func RiskBandFromProbability(p float64) RiskBand {
	switch {
	case p >= 0.80:
		return RiskBandCritical
	case p >= 0.60:
		return RiskBandHigh
	case p >= 0.35:
		return RiskBandMedium
	default:
		return RiskBandLow
	}
}

// String returns the string representation.
func (b RiskBand) String() string {
	return b.value
}

// IsZero returns true if the RiskBand has not been set.
func (b RiskBand) IsZero() bool {
	return b.value == ""
}

// Equal checks equality with another RiskBand.
func (b RiskBand) Equal(other RiskBand) bool {
	return b.value == other.value
}
