package watcher

import (
	"context"
	"math"
	"time"

	"github.com/OldStager01/sepsis-watcher/internal/events"
	"github.com/OldStager01/sepsis-watcher/internal/forecast"
	"github.com/OldStager01/sepsis-watcher/internal/imputation"
	"github.com/OldStager01/sepsis-watcher/internal/logger"
	"github.com/OldStager01/sepsis-watcher/internal/metrics"
	"github.com/OldStager01/sepsis-watcher/internal/risk"
	"github.com/OldStager01/sepsis-watcher/pkg/models"
)

// AssessmentStore persists risk assessments.
type AssessmentStore interface {
	Insert(ctx context.Context, a *models.RiskAssessment) error
}

// PredictionStore persists forecast trajectories.
type PredictionStore interface {
	InsertBatch(ctx context.Context, steps []*models.ForecastStep) error
}

// Pipeline runs the full evaluation chain for one vitals row:
// imputation, staging, risk fusion, forecast, persistence, events.
type Pipeline struct {
	imputer     *imputation.Imputer
	assessor    *risk.Assessor
	simulator   *forecast.Simulator
	assessments AssessmentStore
	predictions PredictionStore
	publisher   *events.Publisher
}

func NewPipeline(
	imputer *imputation.Imputer,
	assessor *risk.Assessor,
	simulator *forecast.Simulator,
	assessments AssessmentStore,
	predictions PredictionStore,
	publisher *events.Publisher,
) *Pipeline {
	return &Pipeline{
		imputer:     imputer,
		assessor:    assessor,
		simulator:   simulator,
		assessments: assessments,
		predictions: predictions,
		publisher:   publisher,
	}
}

// Process evaluates one row. The returned stage is what the row should
// be marked with; processing always reaches the end because component
// failures degrade to ERROR assessments or empty forecasts.
func (p *Pipeline) Process(ctx context.Context, row *models.VitalsRow) (stage int, err error) {
	started := time.Now()
	m := metrics.Get()

	log := logger.WithVitals(row.ID)
	log.Info("Processing vitals row")

	p.publisher.VitalsReceived(row)

	simulationID := models.NewUUID()
	imputed := p.imputer.Impute(row.Sample())

	assessment, stagingResult := p.assessor.Assess(imputed)
	assessment.VitalsID = row.ID
	assessment.SimulationID = simulationID

	log.WithFields(map[string]interface{}{
		"risk_level":   assessment.Level,
		"risk_score":   assessment.Score,
		"active_stage": assessment.ActiveStage,
		"qsofa_score":  assessment.QSOFAScore,
	}).Info("Risk assessment complete")

	m.IncAssessment(string(assessment.Level))
	m.SetLastStage(assessment.ActiveStage)
	if stagingResult.ScreensPositive() {
		m.IncOverridesApplied()
	}

	if assessment.IsError() {
		// Assessment persistence is skipped for ERROR results. The rest
		// of the pipeline still runs so the row does not wedge the queue.
		m.IncAssessmentErrors()
	} else {
		assessment.Score = round4(assessment.Score)
		if err := p.assessments.Insert(ctx, assessment); err != nil {
			return assessment.ActiveStage, err
		}
	}

	p.publisher.RiskAssessed(row, assessment)

	for _, alert := range stagingResult.Alerts {
		m.IncAlert(alertSeverity(stagingResult.ActiveStage))
		p.publisher.ClinicalAlert(row, stagingResult.ActiveStage, alert)
	}

	steps := p.simulator.Simulate(imputed, row.ID, simulationID)
	if len(steps) > 0 {
		if err := p.predictions.InsertBatch(ctx, steps); err != nil {
			log.Errorf("Failed to save predictions: %v", err)
		} else {
			log.Infof("Saved %d forecast predictions", len(steps))
			p.publisher.ForecastComplete(row, steps)
			m.IncForecasts()
		}
	} else {
		m.IncForecastFailures()
	}

	m.IncSamplesProcessed()
	m.SetPipelineLatency(time.Since(started))

	return assessment.ActiveStage, nil
}

func alertSeverity(stage int) string {
	if stage >= 3 {
		return string(models.SeverityCritical)
	}
	return string(models.SeverityWarning)
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
