package valueobject

// Feature names are a fixed enumerated set shared by storage, the event
// stream, and the explanation prompt. Do not rename without a migration.
const (
	FeatureHeartRate       = "Heart Rate"
	FeatureBloodPressure   = "Blood Pressure"
	FeatureOxygen          = "SpO2 Saturation"
	FeatureInfectionMarker = "Infection Marker"
	FeaturePain            = "Pain Index"
	FeatureBreathless      = "Resp. Distress"
)

// Contribution is a single feature-attribution term: a signed additive
// quantity representing the feature's effect on log-odds.
type Contribution struct {
	Feature string
	Phi     float64
}

// DisplayClass derives the display classification from the sign of phi.
func (c Contribution) DisplayClass() string {
	if c.Phi >= 0 {
		return "positive"
	}
	return "negative"
}

// InferenceResult is the output of a single engine invocation. A new result
// is produced on every call; nothing is mutated in place.
type InferenceResult struct {
	// Probability is the risk probability in (0,1).
	Probability float64
	// BaseValue is the fixed intercept the engine applied.
	BaseValue float64
	// Contributions is ordered by descending |phi|; equal magnitudes keep
	// insertion order (vitals first, then pain, then breathless).
	Contributions []Contribution
	// LimeSensitivity is a two-valued heuristic lookup keyed on heart rate.
	// It is not a derivative or perturbation-based sensitivity.
	LimeSensitivity float64
}

// LogOdds returns the logit-scale score the probability was derived from,
// intercept included.
func (r InferenceResult) LogOdds() float64 {
	sum := r.BaseValue
	for _, c := range r.Contributions {
		sum += c.Phi
	}
	return sum
}

// TopFeature returns the name of the largest-magnitude contribution, or ""
// for an empty result.
func (r InferenceResult) TopFeature() string {
	if len(r.Contributions) == 0 {
		return ""
	}
	return r.Contributions[0].Feature
}
