package models

import "time"

// Canonical vital field names, matching the vitals table columns.
const (
	FieldHeartRate       = "heart_rate"
	FieldSpO2            = "spo2"
	FieldSystolicBP      = "systolic_bp"
	FieldDiastolicBP     = "diastolic_bp"
	FieldRespiratoryRate = "respiratory_rate"
	FieldTemperature     = "temperature"
	FieldICULOS          = "iculos"
	FieldWBC             = "wbc"
)

// Abbreviated field names as reported by bedside feeds.
const (
	AliasHeartRate       = "HR"
	AliasSpO2            = "O2Sat"
	AliasSystolicBP      = "SBP"
	AliasDiastolicBP     = "DBP"
	AliasRespiratoryRate = "Resp"
	AliasTemperature     = "Temp"
	AliasICULOS          = "ICULOS"
	AliasWBC             = "WBC"
)

// VitalSample is one raw measurement set keyed by field name. Any field may
// be absent, and sources may use either canonical or abbreviated names.
type VitalSample map[string]float64

func (s VitalSample) Get(key string) (float64, bool) {
	v, ok := s[key]
	return v, ok
}

// VitalsRow represents a persisted vitals sample awaiting processing
type VitalsRow struct {
	ID              string    `json:"id"`
	PatientID       string    `json:"patient_id"`
	Source          string    `json:"source"`
	HeartRate       *float64  `json:"heart_rate,omitempty"`
	SpO2            *float64  `json:"spo2,omitempty"`
	SystolicBP      *float64  `json:"systolic_bp,omitempty"`
	DiastolicBP     *float64  `json:"diastolic_bp,omitempty"`
	RespiratoryRate *float64  `json:"respiratory_rate,omitempty"`
	Temperature     *float64  `json:"temperature,omitempty"`
	ICULOS          *float64  `json:"iculos,omitempty"`
	WBC             *float64  `json:"wbc,omitempty"`
	Processed       bool      `json:"processed"`
	Stage           *int      `json:"stage,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Sample converts the row to a VitalSample, dropping absent fields
func (r *VitalsRow) Sample() VitalSample {
	sample := make(VitalSample, 8)
	put := func(key string, v *float64) {
		if v != nil {
			sample[key] = *v
		}
	}
	put(FieldHeartRate, r.HeartRate)
	put(FieldSpO2, r.SpO2)
	put(FieldSystolicBP, r.SystolicBP)
	put(FieldDiastolicBP, r.DiastolicBP)
	put(FieldRespiratoryRate, r.RespiratoryRate)
	put(FieldTemperature, r.Temperature)
	put(FieldICULOS, r.ICULOS)
	put(FieldWBC, r.WBC)
	return sample
}

// ImputedVitals is a fully populated sample after clinical-default
// imputation. Construction is the imputation layer's job; downstream
// components treat it as immutable.
type ImputedVitals struct {
	HeartRate       float64 `json:"heart_rate"`
	SpO2            float64 `json:"spo2"`
	SystolicBP      float64 `json:"systolic_bp"`
	DiastolicBP     float64 `json:"diastolic_bp"`
	RespiratoryRate float64 `json:"respiratory_rate"`
	Temperature     float64 `json:"temperature"`
	ICULOS          float64 `json:"iculos"`
	WBC             float64 `json:"wbc"`
}
