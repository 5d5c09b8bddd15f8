package service_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinelhealth/sentinel/internal/domain/service"
	"github.com/sentinelhealth/sentinel/internal/domain/valueobject"
)

func normalVitals() valueobject.VitalsSnapshot {
	return valueobject.VitalsSnapshot{
		HeartRate:       80,
		BloodPressure:   120,
		Oxygen:          98,
		Temperature:     37,
		InfectionMarker: 1,
	}
}

func findTerm(t *testing.T, result valueobject.InferenceResult, feature string) valueobject.Contribution {
	t.Helper()
	for _, c := range result.Contributions {
		if c.Feature == feature {
			return c
		}
	}
	t.Fatalf("term %q not found in contributions", feature)
	return valueobject.Contribution{}
}

func TestRiskEngine_HeartRateTerm(t *testing.T) {
	engine := service.NewRiskEngine()

	t.Run("at or below 100 bpm contributes the fixed relief", func(t *testing.T) {
		for _, hr := range []float64{0, 55, 80, 100} {
			vitals := normalVitals()
			vitals.HeartRate = hr
			result := engine.Compute(vitals, valueobject.SymptomSnapshot{})
			assert.InDelta(t, -0.04, findTerm(t, result, valueobject.FeatureHeartRate).Phi, 1e-12)
		}
	})

	t.Run("above 100 bpm scales with the excess", func(t *testing.T) {
		vitals := normalVitals()
		vitals.HeartRate = 130
		result := engine.Compute(vitals, valueobject.SymptomSnapshot{})

		// (130 - 100) * 0.009 = 0.27
		assert.InDelta(t, 0.27, findTerm(t, result, valueobject.FeatureHeartRate).Phi, 1e-12)
	})
}

func TestRiskEngine_ProbabilityMatchesLogOdds(t *testing.T) {
	engine := service.NewRiskEngine()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		vitals := valueobject.VitalsSnapshot{
			HeartRate:       rng.Float64() * 220,
			BloodPressure:   rng.Float64() * 220,
			Oxygen:          rng.Float64() * 100,
			Temperature:     34 + rng.Float64()*8,
			InfectionMarker: rng.Float64() * 20,
		}
		symptoms := valueobject.SymptomSnapshot{
			Pain:       rng.Intn(2) == 1,
			Breathless: rng.Intn(2) == 1,
		}

		result := engine.Compute(vitals, symptoms)

		sum := result.BaseValue
		for _, c := range result.Contributions {
			sum += c.Phi
		}
		want := 1 / (1 + math.Exp(-sum))
		assert.InDelta(t, want, result.Probability, 1e-9)
	}
}

func TestRiskEngine_ContributionCount(t *testing.T) {
	engine := service.NewRiskEngine()
	vitals := normalVitals()

	tests := []struct {
		name     string
		symptoms valueobject.SymptomSnapshot
		want     int
	}{
		{name: "no symptom flags", symptoms: valueobject.SymptomSnapshot{}, want: 4},
		{name: "pain only", symptoms: valueobject.SymptomSnapshot{Pain: true}, want: 5},
		{name: "breathless only", symptoms: valueobject.SymptomSnapshot{Breathless: true}, want: 5},
		{name: "both flags", symptoms: valueobject.SymptomSnapshot{Pain: true, Breathless: true}, want: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.Compute(vitals, tt.symptoms)
			assert.Len(t, result.Contributions, tt.want)
		})
	}
}

func TestRiskEngine_OrderedByDescendingMagnitude(t *testing.T) {
	engine := service.NewRiskEngine()

	// All-relief magnitudes are distinct: 0.09 > 0.04 > 0.03 > 0.02.
	result := engine.Compute(normalVitals(), valueobject.SymptomSnapshot{})
	require.Len(t, result.Contributions, 4)
	assert.Equal(t, valueobject.FeatureOxygen, result.Contributions[0].Feature)
	assert.Equal(t, valueobject.FeatureHeartRate, result.Contributions[1].Feature)
	assert.Equal(t, valueobject.FeatureInfectionMarker, result.Contributions[2].Feature)
	assert.Equal(t, valueobject.FeatureBloodPressure, result.Contributions[3].Feature)
}

func TestRiskEngine_OrderingIsStableOnTies(t *testing.T) {
	engine := service.NewRiskEngine()

	// 5*0.009 and 3*0.015 are the same float64, so heart rate 105 and blood
	// pressure 87 produce an exact |phi| tie at 0.045.
	vitals := normalVitals()
	vitals.HeartRate = 105
	vitals.BloodPressure = 87
	result := engine.Compute(vitals, valueobject.SymptomSnapshot{})

	hr := findTerm(t, result, valueobject.FeatureHeartRate)
	bp := findTerm(t, result, valueobject.FeatureBloodPressure)
	require.Equal(t, math.Abs(hr.Phi), math.Abs(bp.Phi))

	// Equal magnitudes keep insertion order: heart rate before blood pressure.
	hrIdx, bpIdx := -1, -1
	for i, c := range result.Contributions {
		switch c.Feature {
		case valueobject.FeatureHeartRate:
			hrIdx = i
		case valueobject.FeatureBloodPressure:
			bpIdx = i
		}
	}
	assert.Less(t, hrIdx, bpIdx)
}

func TestRiskEngine_DeterioratingPatientScenario(t *testing.T) {
	engine := service.NewRiskEngine()

	vitals := valueobject.VitalsSnapshot{
		HeartRate:       130,
		BloodPressure:   80,
		Oxygen:          90,
		Temperature:     37,
		InfectionMarker: 5,
	}
	symptoms := valueobject.SymptomSnapshot{Pain: true, Breathless: true}

	result := engine.Compute(vitals, symptoms)

	require.Len(t, result.Contributions, 6)
	assert.InDelta(t, 0.27, findTerm(t, result, valueobject.FeatureHeartRate).Phi, 1e-12)
	assert.InDelta(t, 0.15, findTerm(t, result, valueobject.FeatureBloodPressure).Phi, 1e-12)
	assert.InDelta(t, 0.20, findTerm(t, result, valueobject.FeatureOxygen).Phi, 1e-12)
	assert.InDelta(t, 0.16, findTerm(t, result, valueobject.FeatureInfectionMarker).Phi, 1e-12)
	assert.InDelta(t, 0.14, findTerm(t, result, valueobject.FeaturePain).Phi, 1e-12)
	assert.InDelta(t, 0.25, findTerm(t, result, valueobject.FeatureBreathless).Phi, 1e-12)

	// logOdds = 1.17, probability = sigmoid(1.17 + 0.18) = sigmoid(1.35)
	assert.InDelta(t, 1.35, result.LogOdds(), 1e-9)
	assert.InDelta(t, 0.7941, result.Probability, 1e-4)

	// Breathless (0.25) outranks heart rate only when |phi| says so; here
	// 0.27 > 0.25 > 0.20 > 0.16 > 0.15 > 0.14.
	assert.Equal(t, valueobject.FeatureHeartRate, result.Contributions[0].Feature)
	assert.Equal(t, valueobject.FeatureBreathless, result.Contributions[1].Feature)
	assert.Equal(t, valueobject.FeatureOxygen, result.Contributions[2].Feature)
	assert.Equal(t, valueobject.FeatureInfectionMarker, result.Contributions[3].Feature)
	assert.Equal(t, valueobject.FeatureBloodPressure, result.Contributions[4].Feature)
	assert.Equal(t, valueobject.FeaturePain, result.Contributions[5].Feature)
}

func TestRiskEngine_HealthyPatientScenario(t *testing.T) {
	engine := service.NewRiskEngine()

	result := engine.Compute(normalVitals(), valueobject.SymptomSnapshot{})

	// All four terms negative: -0.04, -0.02, -0.09, -0.03; logOdds = -0.18,
	// probability = sigmoid(-0.18 + 0.18) = 0.5 exactly.
	for _, c := range result.Contributions {
		assert.Negative(t, c.Phi)
		assert.Equal(t, "negative", c.DisplayClass())
	}
	// Summed phi (-0.18) cancels the intercept exactly.
	assert.InDelta(t, 0, result.LogOdds(), 1e-12)
	assert.Equal(t, 0.5, result.Probability)
}

func TestRiskEngine_LimeSensitivity(t *testing.T) {
	engine := service.NewRiskEngine()

	tests := []struct {
		name string
		hr   float64
		want float64
	}{
		{name: "tachycardic", hr: 101, want: 0.009},
		{name: "strongly tachycardic", hr: 180, want: 0.009},
		{name: "at threshold", hr: 100, want: 0.002},
		{name: "normal", hr: 72, want: 0.002},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vitals := normalVitals()
			vitals.HeartRate = tt.hr
			// Independent of other inputs.
			vitals.Oxygen = 70
			vitals.InfectionMarker = 15
			result := engine.Compute(vitals, valueobject.SymptomSnapshot{Pain: true})
			assert.Equal(t, tt.want, result.LimeSensitivity)
		})
	}
}

func TestRiskEngine_BaseValueEchoed(t *testing.T) {
	engine := service.NewRiskEngine()
	result := engine.Compute(normalVitals(), valueobject.SymptomSnapshot{})
	assert.Equal(t, service.BaseValue, result.BaseValue)
}

func TestContribution_DisplayClass(t *testing.T) {
	assert.Equal(t, "positive", valueobject.Contribution{Feature: valueobject.FeaturePain, Phi: 0.14}.DisplayClass())
	assert.Equal(t, "negative", valueobject.Contribution{Feature: valueobject.FeatureOxygen, Phi: -0.09}.DisplayClass())
}
