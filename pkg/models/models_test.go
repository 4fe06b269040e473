package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRiskLevelFor(t *testing.T) {
	assert.Equal(t, RiskLow, RiskLevelFor(0.0))
	assert.Equal(t, RiskLow, RiskLevelFor(0.5)) // boundary is LOW
	assert.Equal(t, RiskHigh, RiskLevelFor(0.5001))
	assert.Equal(t, RiskHigh, RiskLevelFor(1.0))
}

func TestScreensPositive(t *testing.T) {
	tests := []struct {
		name  string
		qsofa int
		sirs  int
		want  bool
	}{
		{"all clear", 0, 0, false},
		{"qsofa one short", 1, 1, false},
		{"qsofa positive", 2, 0, true},
		{"sirs positive", 0, 2, true},
		{"both positive", 2, 4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &StagingResult{QSOFAScore: tt.qsofa, SIRSScore: tt.sirs}
			assert.Equal(t, tt.want, r.ScreensPositive())
		})
	}
}

func TestIsError(t *testing.T) {
	assert.True(t, (&RiskAssessment{Level: RiskError}).IsError())
	assert.False(t, (&RiskAssessment{Level: RiskHigh}).IsError())
	assert.False(t, (&RiskAssessment{Level: RiskLow}).IsError())
}

func TestVitalSampleGet(t *testing.T) {
	s := VitalSample{"HR": 82.0, "Temp": 0.0}

	v, ok := s.Get("HR")
	assert.True(t, ok)
	assert.Equal(t, 82.0, v)

	v, ok = s.Get("Temp")
	assert.True(t, ok)
	assert.Equal(t, 0.0, v)

	_, ok = s.Get("WBC")
	assert.False(t, ok)
}

func TestVitalsRowSample(t *testing.T) {
	hr := 82.0
	row := &VitalsRow{HeartRate: &hr}

	s := row.Sample()
	v, ok := s.Get(FieldHeartRate)
	assert.True(t, ok)
	assert.Equal(t, 82.0, v)

	// Nil fields stay absent so imputation can fill them.
	_, ok = s.Get(FieldTemperature)
	assert.False(t, ok)
}

func TestReasoningJSONShape(t *testing.T) {
	r := &Reasoning{
		Probability: 0.85,
		Threshold:   RiskThreshold,
		Features:    ReasoningFeatures{ShockIndex: 0.683, MAP: 93.3, ICULOS: 5},
		Model:       "sepsis-lr",
		QSOFAScore:  2,
		SIRSScore:   1,
		ActiveStage: 3,
		Alerts:      []string{"qSOFA >= 2: High sepsis risk"},
	}

	raw, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, 0.85, decoded["probability"])
	assert.Equal(t, 0.5, decoded["threshold"])
	assert.Contains(t, decoded, "features")
	assert.Contains(t, decoded, "alerts")
	assert.NotContains(t, decoded, "error")
}
