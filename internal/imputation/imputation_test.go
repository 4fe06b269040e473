package imputation

import (
	"testing"

	"github.com/OldStager01/sepsis-watcher/pkg/config"
	"github.com/OldStager01/sepsis-watcher/pkg/models"
	"github.com/stretchr/testify/assert"
)

func testDefaults() config.DefaultsConfig {
	return config.DefaultsConfig{
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

func TestImputeEmptySampleUsesDefaults(t *testing.T) {
	im := New(testDefaults())

	result := im.Impute(models.VitalSample{})

	assert.Equal(t, 80.0, result.HeartRate)
	assert.Equal(t, 97.0, result.SpO2)
	assert.Equal(t, 120.0, result.SystolicBP)
	assert.Equal(t, 80.0, result.DiastolicBP)
	assert.Equal(t, 18.0, result.RespiratoryRate)
	assert.Equal(t, 37.0, result.Temperature)
	assert.Equal(t, 1.0, result.ICULOS)
	assert.Equal(t, 8000.0, result.WBC)
}

func TestImputeAliasResolutionOrder(t *testing.T) {
	im := New(testDefaults())

	tests := []struct {
		name     string
		sample   models.VitalSample
		expected float64
	}{
		{
			name:     "descriptive name wins over alias",
			sample:   models.VitalSample{"heart_rate": 110, "HR": 95},
			expected: 110,
		},
		{
			name:     "alias used when descriptive absent",
			sample:   models.VitalSample{"HR": 95},
			expected: 95,
		},
		{
			name:     "default when both absent",
			sample:   models.VitalSample{},
			expected: 80,
		},
		{
			name:     "zero descriptive falls through to alias",
			sample:   models.VitalSample{"heart_rate": 0, "HR": 95},
			expected: 95,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := im.Impute(tt.sample)
			assert.Equal(t, tt.expected, result.HeartRate)
		})
	}
}

func TestImputeZeroTreatedAsMissing(t *testing.T) {
	im := New(testDefaults())

	result := im.Impute(models.VitalSample{
		"spo2":        0,
		"systolic_bp": 0,
		"temperature": 0,
	})

	assert.Equal(t, 97.0, result.SpO2)
	assert.Equal(t, 120.0, result.SystolicBP)
	assert.Equal(t, 37.0, result.Temperature)
}

func TestImputeMixedFieldNames(t *testing.T) {
	im := New(testDefaults())

	result := im.Impute(models.VitalSample{
		"heart_rate": 102,
		"O2Sat":      94,
		"SBP":        88,
		"Resp":       24,
		"wbc":        13500,
	})

	assert.Equal(t, 102.0, result.HeartRate)
	assert.Equal(t, 94.0, result.SpO2)
	assert.Equal(t, 88.0, result.SystolicBP)
	assert.Equal(t, 24.0, result.RespiratoryRate)
	assert.Equal(t, 13500.0, result.WBC)
	// Untouched fields still defaulted
	assert.Equal(t, 80.0, result.DiastolicBP)
	assert.Equal(t, 37.0, result.Temperature)
}

func TestImputeFromVitalsRow(t *testing.T) {
	im := New(testDefaults())

	hr := 125.0
	sbp := 85.0
	row := &models.VitalsRow{
		ID:         "v1",
		HeartRate:  &hr,
		SystolicBP: &sbp,
	}

	result := im.Impute(row.Sample())

	assert.Equal(t, 125.0, result.HeartRate)
	assert.Equal(t, 85.0, result.SystolicBP)
	assert.Equal(t, 18.0, result.RespiratoryRate)
}
