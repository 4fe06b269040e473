package staging

import (
	"testing"

	"github.com/OldStager01/sepsis-watcher/pkg/config"
	"github.com/OldStager01/sepsis-watcher/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testThresholds() config.ThresholdConfig {
	return config.ThresholdConfig{
		RespQSOFA:     22,
		SBPQSOFA:      100,
		TempHigh:      38.0,
		TempLow:       36.0,
		HRSIRS:        90,
		RespSIRS:      20,
		WBCHigh:       12000,
		WBCLow:        4000,
		HRCritical:    120,
		SBPCritical:   90,
		MAPCritical:   65,
		O2SatCritical: 90,
		TempCritical:  39.0,
	}
}

func normalVitals() models.ImputedVitals {
	return models.ImputedVitals{
		HeartRate:       80,
		SpO2:            97,
		SystolicBP:      120,
		DiastolicBP:     80,
		RespiratoryRate: 18,
		Temperature:     37.0,
		ICULOS:          1,
		WBC:             8000,
	}
}

func TestEvaluateAllDefaults(t *testing.T) {
	engine := NewEngine(testThresholds())

	result := engine.Evaluate(normalVitals())

	assert.Equal(t, 0, result.QSOFAScore)
	assert.Equal(t, 0, result.SIRSScore)
	assert.Equal(t, 1, result.ActiveStage)
	assert.Empty(t, result.Alerts)
	for name, score := range result.Components {
		assert.Equal(t, 0, score, "component %s should be 0", name)
	}
}

func TestEvaluateQSOFAPositive(t *testing.T) {
	engine := NewEngine(testThresholds())

	v := normalVitals()
	v.RespiratoryRate = 24
	v.SystolicBP = 90

	result := engine.Evaluate(v)

	assert.Equal(t, 2, result.QSOFAScore)
	assert.GreaterOrEqual(t, result.SIRSScore, 1) // resp > 20
	assert.Equal(t, 3, result.ActiveStage)
	assert.Contains(t, result.Alerts, "qSOFA >= 2: High sepsis risk")
	assert.Contains(t, result.Alerts, "Hypotension: SBP 90 mmHg")
	assert.True(t, result.ScreensPositive())
}

func TestEvaluateSIRSFromFeverAndTachycardia(t *testing.T) {
	engine := NewEngine(testThresholds())

	v := normalVitals()
	v.Temperature = 38.5
	v.HeartRate = 95
	v.RespiratoryRate = 18
	v.SystolicBP = 120

	result := engine.Evaluate(v)

	assert.Equal(t, 0, result.QSOFAScore)
	assert.Equal(t, 2, result.SIRSScore)
	assert.GreaterOrEqual(t, result.ActiveStage, 1)
	assert.Equal(t, 2, result.ActiveStage) // hr > 90 satisfies tier 2
	assert.Contains(t, result.Alerts, "Fever detected: 38.5°C")
	assert.True(t, result.ScreensPositive())
}

func TestEvaluateStageIsMaxSatisfiedTier(t *testing.T) {
	engine := NewEngine(testThresholds())

	tests := []struct {
		name     string
		mutate   func(*models.ImputedVitals)
		expected int
	}{
		{
			name:     "baseline",
			mutate:   func(v *models.ImputedVitals) {},
			expected: 1,
		},
		{
			name: "fever only reaches tier 1",
			mutate: func(v *models.ImputedVitals) {
				v.Temperature = 38.5
			},
			expected: 1,
		},
		{
			name: "hypotension reaches tier 2",
			mutate: func(v *models.ImputedVitals) {
				v.SystolicBP = 95
			},
			expected: 2,
		},
		{
			name: "leukocytosis reaches tier 3",
			mutate: func(v *models.ImputedVitals) {
				v.WBC = 15000
			},
			expected: 3,
		},
		{
			name: "leukopenia reaches tier 3",
			mutate: func(v *models.ImputedVitals) {
				v.WBC = 3000
			},
			expected: 3,
		},
		{
			name: "tier 3 dominates lower tiers",
			mutate: func(v *models.ImputedVitals) {
				v.Temperature = 39.0
				v.SystolicBP = 85
				v.WBC = 15000
			},
			expected: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := normalVitals()
			tt.mutate(&v)
			result := engine.Evaluate(v)
			assert.Equal(t, tt.expected, result.ActiveStage)
		})
	}
}

func TestEvaluateAlertOrder(t *testing.T) {
	engine := NewEngine(testThresholds())

	v := normalVitals()
	v.Temperature = 39.2
	v.SystolicBP = 88
	v.HeartRate = 130
	v.RespiratoryRate = 25
	v.WBC = 16000

	result := engine.Evaluate(v)

	require.Len(t, result.Alerts, 5)
	assert.Equal(t, "Fever detected: 39.2°C", result.Alerts[0])
	assert.Equal(t, "Hypotension: SBP 88 mmHg", result.Alerts[1])
	assert.Equal(t, "Tachycardia: HR 130 bpm", result.Alerts[2])
	assert.Equal(t, "qSOFA >= 2: High sepsis risk", result.Alerts[3])
	assert.Equal(t, "Leukocytosis: WBC 16000", result.Alerts[4])
}

func TestEvaluateTachycardiaAlertNeedsCriticalHR(t *testing.T) {
	engine := NewEngine(testThresholds())

	// HR above SIRS threshold but below the critical cut: tier 2
	// matches without a tachycardia alert.
	v := normalVitals()
	v.HeartRate = 110

	result := engine.Evaluate(v)

	assert.Equal(t, 2, result.ActiveStage)
	assert.Empty(t, result.Alerts)
}

func TestEvaluateScoreBounds(t *testing.T) {
	engine := NewEngine(testThresholds())

	// Everything deranged at once
	v := models.ImputedVitals{
		HeartRate:       180,
		SpO2:            70,
		SystolicBP:      60,
		DiastolicBP:     30,
		RespiratoryRate: 45,
		Temperature:     41.0,
		ICULOS:          50,
		WBC:             30000,
	}

	result := engine.Evaluate(v)

	assert.Equal(t, 2, result.QSOFAScore)
	assert.Equal(t, 4, result.SIRSScore)
	assert.Equal(t, 3, result.ActiveStage)
}

func TestEvaluateIsIdempotent(t *testing.T) {
	engine := NewEngine(testThresholds())

	v := normalVitals()
	v.Temperature = 38.5
	v.HeartRate = 125

	first := engine.Evaluate(v)
	second := engine.Evaluate(v)

	assert.Equal(t, first, second)
}

func TestEvaluateComponents(t *testing.T) {
	engine := NewEngine(testThresholds())

	v := normalVitals()
	v.Temperature = 35.5 // hypothermia counts for SIRS
	v.WBC = 3500

	result := engine.Evaluate(v)

	assert.Equal(t, 1, result.Components[models.ComponentSIRSTemp])
	assert.Equal(t, 1, result.Components[models.ComponentSIRSWBC])
	assert.Equal(t, 0, result.Components[models.ComponentSIRSHR])
	assert.Equal(t, 0, result.Components[models.ComponentQSOFAResp])
	assert.Equal(t, 2, result.SIRSScore)
}
