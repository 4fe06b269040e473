// Package forecast projects a short-horizon vitals trajectory by
// iterating the forecaster model autoregressively and rescoring each
// projected step.
package forecast

import (
	"math"

	"github.com/OldStager01/sepsis-watcher/internal/logger"
	"github.com/OldStager01/sepsis-watcher/internal/model"
	"github.com/OldStager01/sepsis-watcher/internal/risk"
	"github.com/OldStager01/sepsis-watcher/pkg/config"
	"github.com/OldStager01/sepsis-watcher/pkg/models"
)

// iculosStepIncrement advances the ICU counter per simulated step.
const iculosStepIncrement = 0.1

type Simulator struct {
	forecaster model.Forecaster
	assessor   *risk.Assessor
	defaults   config.DefaultsConfig
	steps      int
}

func NewSimulator(forecaster model.Forecaster, assessor *risk.Assessor, defaults config.DefaultsConfig, steps int) *Simulator {
	if steps <= 0 {
		steps = 5
	}
	return &Simulator{
		forecaster: forecaster,
		assessor:   assessor,
		defaults:   defaults,
		steps:      steps,
	}
}

// state is the evolving simulation input. Steps feed their ROUNDED
// outputs back in, so rounding error compounds deliberately and the
// trajectory is reproducible.
type state struct {
	iculos, hr, resp, temp, sbp, dbp, spo2 float64
}

// Simulate runs the autoregressive projection from an anchor sample.
// Any forecaster failure aborts the whole trajectory and returns an
// empty slice; a partial trajectory is never emitted.
func (s *Simulator) Simulate(anchor models.ImputedVitals, vitalsID, simulationID string) []*models.ForecastStep {
	if s.forecaster == nil {
		return []*models.ForecastStep{}
	}

	cur := state{
		iculos: anchor.ICULOS,
		hr:     anchor.HeartRate,
		resp:   anchor.RespiratoryRate,
		temp:   anchor.Temperature,
		sbp:    anchor.SystolicBP,
		dbp:    anchor.DiastolicBP,
		spo2:   anchor.SpO2,
	}

	steps := make([]*models.ForecastStep, 0, s.steps)
	for i := 0; i < s.steps; i++ {
		features := risk.DeriveFeatures(cur.hr, cur.sbp, cur.dbp)
		vector := []float64{
			cur.iculos, cur.hr, cur.resp, cur.temp,
			cur.sbp, cur.dbp, cur.spo2,
			features.MAP, features.ShockIndex,
		}

		outputs, err := s.forecaster.Forecast(vector)
		if err != nil || len(outputs) < 5 {
			logger.WithVitals(vitalsID).Errorf("Forecasting failed at step %d: %v", i+1, err)
			return []*models.ForecastStep{}
		}

		step := &models.ForecastStep{
			VitalsID:        vitalsID,
			SimulationID:    simulationID,
			StepIndex:       i + 1,
			HeartRate:       round(outputs[0], 1),
			RespiratoryRate: round(outputs[1], 1),
			Temperature:     round(outputs[2], 2),
			SystolicBP:      round(outputs[3], 0),
			SpO2:            round(outputs[4], 1),
		}
		s.score(step, anchor)
		steps = append(steps, step)

		// Autoregressive feedback. DBP has no forecast output and stays
		// pinned to the anchor value.
		cur = state{
			iculos: cur.iculos + iculosStepIncrement,
			hr:     step.HeartRate,
			resp:   step.RespiratoryRate,
			temp:   step.Temperature,
			sbp:    step.SystolicBP,
			dbp:    cur.dbp,
			spo2:   step.SpO2,
		}
	}

	return steps
}

// score reruns the risk fusion on a projected step. DBP, the ICU
// counter and WBC come from the anchor sample since the forecaster does
// not project them. A scoring failure leaves the step at score zero.
func (s *Simulator) score(step *models.ForecastStep, anchor models.ImputedVitals) {
	projected := models.ImputedVitals{
		HeartRate:       step.HeartRate,
		SpO2:            step.SpO2,
		SystolicBP:      step.SystolicBP,
		DiastolicBP:     anchor.DiastolicBP,
		RespiratoryRate: step.RespiratoryRate,
		Temperature:     step.Temperature,
		ICULOS:          anchor.ICULOS,
		WBC:             s.defaults.WBC,
	}

	assessment, _ := s.assessor.Assess(projected)
	step.RiskScore = round(assessment.Score, 4)
	step.RiskLevel = models.RiskLevelFor(step.RiskScore)
}

func round(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
