package valueobject_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinelhealth/sentinel/internal/domain/valueobject"
)

func TestRiskBandFromProbability(t *testing.T) {
	tests := []struct {
		name string
		p    float64
		want valueobject.RiskBand
	}{
		{name: "healthy baseline", p: 0.10, want: valueobject.RiskBandLow},
		{name: "just below medium", p: 0.349, want: valueobject.RiskBandLow},
		{name: "medium threshold", p: 0.35, want: valueobject.RiskBandMedium},
		{name: "high threshold", p: 0.60, want: valueobject.RiskBandHigh},
		{name: "just below critical", p: 0.799, want: valueobject.RiskBandHigh},
		{name: "critical threshold", p: 0.80, want: valueobject.RiskBandCritical},
		{name: "near certainty", p: 0.99, want: valueobject.RiskBandCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, valueobject.RiskBandFromProbability(tt.p).Equal(tt.want))
		})
	}
}

func TestRiskBandFromString(t *testing.T) {
	for _, s := range []string{"LOW", "MEDIUM", "HIGH", "CRITICAL"} {
		band, err := valueobject.RiskBandFromString(s)
		require.NoError(t, err)
		assert.Equal(t, s, band.String())
	}

	_, err := valueobject.RiskBandFromString("SEVERE")
	assert.Error(t, err)
}

func TestRiskBandIsZero(t *testing.T) {
	var band valueobject.RiskBand
	assert.True(t, band.IsZero())
	assert.False(t, valueobject.RiskBandLow.IsZero())
}
