// Package imputation fills gaps in raw vital samples with clinical
// defaults so downstream rules and models always see a complete record.
package imputation

import (
	"github.com/OldStager01/sepsis-watcher/pkg/config"
	"github.com/OldStager01/sepsis-watcher/pkg/models"
)

// Imputer resolves each vital from a raw sample, falling back through
// field name aliases and finally a configured clinical default. A zero
// reading is treated the same as an absent one, since bedside feeds use
// zero as their missing-value marker.
type Imputer struct {
	defaults config.DefaultsConfig
}

func New(defaults config.DefaultsConfig) *Imputer {
	return &Imputer{defaults: defaults}
}

// fieldSpec binds the candidate sample keys for a vital, checked in
// order, to its default value.
type fieldSpec struct {
	keys []string
	def  float64
}

// Impute produces a fully populated vitals record from a raw sample.
func (im *Imputer) Impute(sample models.VitalSample) models.ImputedVitals {
	d := im.defaults
	return models.ImputedVitals{
		HeartRate: im.resolve(sample, fieldSpec{
			keys: []string{models.FieldHeartRate, models.AliasHeartRate},
			def:  d.HeartRate,
		}),
		SpO2: im.resolve(sample, fieldSpec{
			keys: []string{models.FieldSpO2, models.AliasSpO2},
			def:  d.SpO2,
		}),
		SystolicBP: im.resolve(sample, fieldSpec{
			keys: []string{models.FieldSystolicBP, models.AliasSystolicBP},
			def:  d.SystolicBP,
		}),
		DiastolicBP: im.resolve(sample, fieldSpec{
			keys: []string{models.FieldDiastolicBP, models.AliasDiastolicBP},
			def:  d.DiastolicBP,
		}),
		RespiratoryRate: im.resolve(sample, fieldSpec{
			keys: []string{models.FieldRespiratoryRate, models.AliasRespiratoryRate},
			def:  d.RespiratoryRate,
		}),
		Temperature: im.resolve(sample, fieldSpec{
			keys: []string{models.FieldTemperature, models.AliasTemperature},
			def:  d.Temperature,
		}),
		ICULOS: im.resolve(sample, fieldSpec{
			keys: []string{models.FieldICULOS, models.AliasICULOS},
			def:  d.ICULOS,
		}),
		WBC: im.resolve(sample, fieldSpec{
			keys: []string{models.FieldWBC, models.AliasWBC},
			def:  d.WBC,
		}),
	}
}

func (im *Imputer) resolve(sample models.VitalSample, spec fieldSpec) float64 {
	for _, key := range spec.keys {
		if v, ok := sample.Get(key); ok && v != 0 {
			return v
		}
	}
	return spec.def
}
