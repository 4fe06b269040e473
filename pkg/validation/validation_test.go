package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fptr(v float64) *float64 { return &v }

func TestValidateVital(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   *float64
		wantErr bool
	}{
		{"normal heart rate", "heart_rate", fptr(80), false},
		{"heart rate lower bound", "heart_rate", fptr(20), false},
		{"heart rate upper bound", "heart_rate", fptr(300), false},
		{"heart rate too low", "heart_rate", fptr(10), true},
		{"heart rate too high", "heart_rate", fptr(400), true},
		{"spo2 in range", "spo2", fptr(97), false},
		{"spo2 over 100", "spo2", fptr(101), true},
		{"systolic in range", "systolic_bp", fptr(120), false},
		{"systolic unit error", "systolic_bp", fptr(1200), true},
		{"diastolic in range", "diastolic_bp", fptr(80), false},
		{"resp in range", "respiratory_rate", fptr(18), false},
		{"resp implausible", "respiratory_rate", fptr(2), true},
		{"temperature in range", "temperature", fptr(37.2), false},
		{"temperature fahrenheit mixup", "temperature", fptr(98.6), true},
		{"iculos in range", "iculos", fptr(48), false},
		{"wbc in range", "wbc", fptr(8000), false},
		{"wbc too low", "wbc", fptr(50), true},
		{"missing value is valid", "heart_rate", nil, false},
		{"unknown field", "lactate", fptr(2.0), true},
		{"unknown field nil value", "lactate", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVital(tt.field, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePatientID(t *testing.T) {
	assert.NoError(t, ValidatePatientID(""))
	assert.NoError(t, ValidatePatientID("P12345"))
	assert.NoError(t, ValidatePatientID("icu-bed_07"))
	assert.NoError(t, ValidatePatientID("  P12345  "))

	assert.Error(t, ValidatePatientID("-leading-hyphen"))
	assert.Error(t, ValidatePatientID("_leading_underscore"))
	assert.Error(t, ValidatePatientID("has spaces"))
	assert.Error(t, ValidatePatientID("semi;colon"))
	assert.Error(t, ValidatePatientID("a"+strings.Repeat("x", 64)))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  hello  "))
	assert.Equal(t, "ab", SanitizeString("a\x00b"))
	assert.Equal(t, "a\nb\tc", SanitizeString("a\nb\tc"))
	assert.Equal(t, "ab", SanitizeString("a\x1bb"))
}

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("nurse1"))
	assert.Error(t, ValidateUsername(""))
	assert.Error(t, ValidateUsername("ab"))
	assert.Error(t, ValidateUsername(strings.Repeat("x", 51)))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("Sup3rSecret"))
	assert.Error(t, ValidatePassword("Sh0rt"))
	assert.Error(t, ValidatePassword("alllowercase1"))
	assert.Error(t, ValidatePassword("ALLUPPERCASE1"))
	assert.Error(t, ValidatePassword("NoNumbersHere"))
	assert.Error(t, ValidatePassword("A1"+strings.Repeat("a", 127)))
}
