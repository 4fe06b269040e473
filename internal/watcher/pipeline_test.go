package watcher

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/sepsis-watcher/internal/events"
	"github.com/OldStager01/sepsis-watcher/internal/forecast"
	"github.com/OldStager01/sepsis-watcher/internal/imputation"
	"github.com/OldStager01/sepsis-watcher/internal/risk"
	"github.com/OldStager01/sepsis-watcher/internal/staging"
	"github.com/OldStager01/sepsis-watcher/pkg/config"
	"github.com/OldStager01/sepsis-watcher/pkg/models"
)

type stubClassifier struct {
	prob float64
	err  error
}

func (s *stubClassifier) Name() string { return "stub-classifier" }

func (s *stubClassifier) PredictProba(features []float64) (float64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.prob, nil
}

type stubForecaster struct {
	outputs []float64
	err     error
}

func (s *stubForecaster) Name() string { return "stub-forecaster" }

func (s *stubForecaster) Forecast(features []float64) ([]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.outputs, nil
}

type fakeAssessmentStore struct {
	inserted []*models.RiskAssessment
	err      error
}

func (f *fakeAssessmentStore) Insert(ctx context.Context, a *models.RiskAssessment) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, a)
	return nil
}

type fakePredictionStore struct {
	batches [][]*models.ForecastStep
	err     error
}

func (f *fakePredictionStore) InsertBatch(ctx context.Context, steps []*models.ForecastStep) error {
	if f.err != nil {
		return f.err
	}
	f.batches = append(f.batches, steps)
	return nil
}

func pipelineThresholds() config.ThresholdConfig {
	return config.ThresholdConfig{
		RespQSOFA:  22,
		SBPQSOFA:   100,
		TempHigh:   38.0,
		TempLow:    36.0,
		HRSIRS:     90,
		RespSIRS:   20,
		WBCHigh:    12000,
		WBCLow:     4000,
		HRCritical: 120,
	}
}

func pipelineDefaults() config.DefaultsConfig {
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

func fptr(v float64) *float64 { return &v }

func normalRow() *models.VitalsRow {
	return &models.VitalsRow{
		ID:              models.NewUUID(),
		Source:          "manual",
		HeartRate:       fptr(80),
		SpO2:            fptr(97),
		SystolicBP:      fptr(120),
		DiastolicBP:     fptr(80),
		RespiratoryRate: fptr(18),
		Temperature:     fptr(37.0),
		ICULOS:          fptr(5),
		WBC:             fptr(8000),
	}
}

func newTestPipeline(classifier *stubClassifier, forecaster *stubForecaster,
	assessments *fakeAssessmentStore, predictions *fakePredictionStore) *Pipeline {

	defaults := pipelineDefaults()
	engine := staging.NewEngine(pipelineThresholds())
	assessor := risk.NewAssessor(classifier, engine)
	simulator := forecast.NewSimulator(forecaster, assessor, defaults, 3)
	publisher := events.NewPublisher(events.NewEventBus(16))

	return NewPipeline(
		imputation.New(defaults),
		assessor,
		simulator,
		assessments,
		predictions,
		publisher,
	)
}

func TestProcessPersistsAssessmentAndForecast(t *testing.T) {
	assessments := &fakeAssessmentStore{}
	predictions := &fakePredictionStore{}
	p := newTestPipeline(
		&stubClassifier{prob: 0.3},
		&stubForecaster{outputs: []float64{82.0, 18.5, 37.1, 118.0, 96.5}},
		assessments, predictions,
	)

	row := normalRow()
	stage, err := p.Process(context.Background(), row)

	require.NoError(t, err)
	assert.Equal(t, 1, stage)

	require.Len(t, assessments.inserted, 1)
	saved := assessments.inserted[0]
	assert.Equal(t, row.ID, saved.VitalsID)
	assert.NotEmpty(t, saved.SimulationID)
	assert.Equal(t, models.RiskLow, saved.Level)
	assert.Equal(t, 0.3, saved.Score)

	require.Len(t, predictions.batches, 1)
	steps := predictions.batches[0]
	require.Len(t, steps, 3)
	assert.Equal(t, row.ID, steps[0].VitalsID)
	assert.Equal(t, saved.SimulationID, steps[0].SimulationID)
	assert.Equal(t, 1, steps[0].StepIndex)
}

func TestProcessRoundsScoreBeforePersisting(t *testing.T) {
	assessments := &fakeAssessmentStore{}
	predictions := &fakePredictionStore{}
	p := newTestPipeline(
		&stubClassifier{prob: 0.123456789},
		&stubForecaster{outputs: []float64{82.0, 18.5, 37.1, 118.0, 96.5}},
		assessments, predictions,
	)

	_, err := p.Process(context.Background(), normalRow())
	require.NoError(t, err)

	require.Len(t, assessments.inserted, 1)
	assert.Equal(t, 0.1235, assessments.inserted[0].Score)
}

func TestProcessSkipsPersistenceOnErrorAssessment(t *testing.T) {
	assessments := &fakeAssessmentStore{}
	predictions := &fakePredictionStore{}
	p := newTestPipeline(
		&stubClassifier{err: errors.New("model offline")},
		&stubForecaster{outputs: []float64{82.0, 18.5, 37.1, 118.0, 96.5}},
		assessments, predictions,
	)

	row := normalRow()
	row.RespiratoryRate = fptr(24)
	row.SystolicBP = fptr(90)

	stage, err := p.Process(context.Background(), row)

	// The failure degrades to an ERROR assessment rather than aborting,
	// and the staging stage still comes back so the row gets marked.
	require.NoError(t, err)
	assert.Equal(t, 3, stage)
	assert.Empty(t, assessments.inserted)

	// The forecast still runs on the imputed anchor.
	assert.Len(t, predictions.batches, 1)
}

func TestProcessReturnsErrorWhenAssessmentInsertFails(t *testing.T) {
	insertErr := errors.New("connection reset")
	assessments := &fakeAssessmentStore{err: insertErr}
	predictions := &fakePredictionStore{}
	p := newTestPipeline(
		&stubClassifier{prob: 0.3},
		&stubForecaster{outputs: []float64{82.0, 18.5, 37.1, 118.0, 96.5}},
		assessments, predictions,
	)

	stage, err := p.Process(context.Background(), normalRow())

	assert.ErrorIs(t, err, insertErr)
	assert.Equal(t, 1, stage)
	assert.Empty(t, predictions.batches)
}

func TestProcessToleratesForecastFailure(t *testing.T) {
	assessments := &fakeAssessmentStore{}
	predictions := &fakePredictionStore{}
	p := newTestPipeline(
		&stubClassifier{prob: 0.3},
		&stubForecaster{err: errors.New("forecaster offline")},
		assessments, predictions,
	)

	stage, err := p.Process(context.Background(), normalRow())

	require.NoError(t, err)
	assert.Equal(t, 1, stage)
	assert.Len(t, assessments.inserted, 1)
	assert.Empty(t, predictions.batches)
}

func TestProcessToleratesPredictionInsertFailure(t *testing.T) {
	assessments := &fakeAssessmentStore{}
	predictions := &fakePredictionStore{err: errors.New("connection reset")}
	p := newTestPipeline(
		&stubClassifier{prob: 0.3},
		&stubForecaster{outputs: []float64{82.0, 18.5, 37.1, 118.0, 96.5}},
		assessments, predictions,
	)

	stage, err := p.Process(context.Background(), normalRow())

	require.NoError(t, err)
	assert.Equal(t, 1, stage)
	assert.Len(t, assessments.inserted, 1)
}

func TestAlertSeverity(t *testing.T) {
	assert.Equal(t, string(models.SeverityWarning), alertSeverity(1))
	assert.Equal(t, string(models.SeverityWarning), alertSeverity(2))
	assert.Equal(t, string(models.SeverityCritical), alertSeverity(3))
}
