package service

import (
	"math"
	"sort"

	"github.com/sentinelhealth/sentinel/internal/domain/valueobject"
)

// BaseValue is the fixed intercept added to all feature contributions before
// the sigmoid transform. Not configurable.
const BaseValue = 0.18

// Scoring coefficients. These are placeholder policy values without a
// documented clinical derivation, pending integration of a validated model.
const (
	heartRateSlope   = 0.009
	heartRateRelief  = -0.04
	bloodPressSlope  = 0.015
	bloodPressRelief = -0.02
	oxygenSlope      = 0.05
	oxygenRelief     = -0.09
	infectionSlope   = 0.08
	infectionRelief  = -0.03
	painWeight       = 0.14
	breathlessWeight = 0.25
)

// RiskEngine is a domain service that maps a vitals/symptom snapshot to a
// risk probability with a per-feature attribution breakdown. It is a fixed
// heuristic policy, not SHAP or LIME output derived from a trained model.
type RiskEngine struct{}

// NewRiskEngine creates a new RiskEngine instance.
func NewRiskEngine() *RiskEngine {
	return &RiskEngine{}
}

// Compute evaluates the risk of the given snapshots. It is pure,
// deterministic and total: any finite float input yields a numeric result
// with probability = sigmoid(BaseValue + sum of phi). Non-finite inputs
// (NaN, ±Inf) are propagated through the arithmetic rather than rejected;
// the result may then itself be non-finite.
func (e *RiskEngine) Compute(vitals valueobject.VitalsSnapshot, symptoms valueobject.SymptomSnapshot) valueobject.InferenceResult {
	contributions := make([]valueobject.Contribution, 0, 6)

	// Rule: tachycardia above 100 bpm scales with the excess.
	if vitals.HeartRate > 100 {
		contributions = append(contributions, valueobject.Contribution{Feature: valueobject.FeatureHeartRate, Phi: (vitals.HeartRate - 100) * heartRateSlope})
	} else {
		contributions = append(contributions, valueobject.Contribution{Feature: valueobject.FeatureHeartRate, Phi: heartRateRelief})
	}

	// Rule: hypotension below 90 mmHg systolic.
	if vitals.BloodPressure < 90 {
		contributions = append(contributions, valueobject.Contribution{Feature: valueobject.FeatureBloodPressure, Phi: (90 - vitals.BloodPressure) * bloodPressSlope})
	} else {
		contributions = append(contributions, valueobject.Contribution{Feature: valueobject.FeatureBloodPressure, Phi: bloodPressRelief})
	}

	// Rule: desaturation below 94%.
	if vitals.Oxygen < 94 {
		contributions = append(contributions, valueobject.Contribution{Feature: valueobject.FeatureOxygen, Phi: (94 - vitals.Oxygen) * oxygenSlope})
	} else {
		contributions = append(contributions, valueobject.Contribution{Feature: valueobject.FeatureOxygen, Phi: oxygenRelief})
	}

	// Rule: elevated infection marker above 3.
	if vitals.InfectionMarker > 3 {
		contributions = append(contributions, valueobject.Contribution{Feature: valueobject.FeatureInfectionMarker, Phi: (vitals.InfectionMarker - 3) * infectionSlope})
	} else {
		contributions = append(contributions, valueobject.Contribution{Feature: valueobject.FeatureInfectionMarker, Phi: infectionRelief})
	}

	// Symptom terms are omitted entirely when the flag is false.
	if symptoms.Pain {
		contributions = append(contributions, valueobject.Contribution{Feature: valueobject.FeaturePain, Phi: painWeight})
	}
	if symptoms.Breathless {
		contributions = append(contributions, valueobject.Contribution{Feature: valueobject.FeatureBreathless, Phi: breathlessWeight})
	}

	logOdds := BaseValue
	for _, c := range contributions {
		logOdds += c.Phi
	}

	// Stable sort keeps insertion order for equal magnitudes.
	sort.SliceStable(contributions, func(i, j int) bool {
		return math.Abs(contributions[i].Phi) > math.Abs(contributions[j].Phi)
	})

	sensitivity := 0.002
	if vitals.HeartRate > 100 {
		sensitivity = 0.009
	}

	return valueobject.InferenceResult{
		Probability:     sigmoid(logOdds),
		BaseValue:       BaseValue,
		Contributions:   contributions,
		LimeSensitivity: sensitivity,
	}
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
