package watcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/sepsis-watcher/internal/events"
	"github.com/OldStager01/sepsis-watcher/internal/resilience"
	"github.com/OldStager01/sepsis-watcher/pkg/config"
	"github.com/OldStager01/sepsis-watcher/pkg/models"
)

type fakeVitalsStore struct {
	rows      []*models.VitalsRow
	fetchErrs []error // consumed in order, nil means success
	calls     int
	marked    map[string]int
}

func (f *fakeVitalsStore) GetUnprocessed(ctx context.Context, source string, limit int) ([]*models.VitalsRow, error) {
	f.calls++
	if len(f.fetchErrs) > 0 {
		err := f.fetchErrs[0]
		f.fetchErrs = f.fetchErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return f.rows, nil
}

func (f *fakeVitalsStore) MarkProcessed(ctx context.Context, id string, stage int) error {
	if f.marked == nil {
		f.marked = make(map[string]int)
	}
	f.marked[id] = stage
	return nil
}

func watcherConfig() config.WatcherConfig {
	return config.WatcherConfig{
		PollInterval:  time.Second,
		Source:        "manual",
		BatchSize:     50,
		RetryAttempts: 1,
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxFailures: 3,
			Timeout:     time.Minute,
		},
	}
}

func newTestWatcher(cfg config.WatcherConfig, store *fakeVitalsStore,
	assessments *fakeAssessmentStore, predictions *fakePredictionStore) *Watcher {

	pipeline := newTestPipeline(
		&stubClassifier{prob: 0.3},
		&stubForecaster{outputs: []float64{82.0, 18.5, 37.1, 118.0, 96.5}},
		assessments, predictions,
	)
	publisher := events.NewPublisher(events.NewEventBus(16))
	return New(cfg, store, pipeline, publisher)
}

func TestPollOnceProcessesAndMarksRows(t *testing.T) {
	rowA := normalRow()
	rowB := normalRow()
	rowB.RespiratoryRate = fptr(24)
	rowB.SystolicBP = fptr(90)

	store := &fakeVitalsStore{rows: []*models.VitalsRow{rowA, rowB}}
	assessments := &fakeAssessmentStore{}
	w := newTestWatcher(watcherConfig(), store, assessments, &fakePredictionStore{})

	require.NoError(t, w.PollOnce())

	assert.Len(t, assessments.inserted, 2)
	require.Len(t, store.marked, 2)
	assert.Equal(t, 1, store.marked[rowA.ID])
	assert.Equal(t, 3, store.marked[rowB.ID])
}

func TestPollOnceEmptyQueue(t *testing.T) {
	store := &fakeVitalsStore{}
	assessments := &fakeAssessmentStore{}
	w := newTestWatcher(watcherConfig(), store, assessments, &fakePredictionStore{})

	require.NoError(t, w.PollOnce())

	assert.Equal(t, 1, store.calls)
	assert.Empty(t, assessments.inserted)
}

func TestPollOnceSkipsRowOnPipelineFailure(t *testing.T) {
	row := normalRow()
	store := &fakeVitalsStore{rows: []*models.VitalsRow{row}}
	assessments := &fakeAssessmentStore{err: errors.New("connection reset")}
	w := newTestWatcher(watcherConfig(), store, assessments, &fakePredictionStore{})

	// The cycle itself succeeds; the failed row stays unprocessed for
	// the next poll.
	require.NoError(t, w.PollOnce())
	assert.Empty(t, store.marked)
}

func TestPollOnceRetriesFetch(t *testing.T) {
	cfg := watcherConfig()
	cfg.RetryAttempts = 2

	store := &fakeVitalsStore{
		rows:      []*models.VitalsRow{normalRow()},
		fetchErrs: []error{errors.New("connection refused"), nil},
	}
	w := newTestWatcher(cfg, store, &fakeAssessmentStore{}, &fakePredictionStore{})

	require.NoError(t, w.PollOnce())

	assert.Equal(t, 2, store.calls)
	assert.Len(t, store.marked, 1)
}

func TestPollOnceReturnsFetchErrorAfterRetries(t *testing.T) {
	fetchErr := errors.New("connection refused")
	store := &fakeVitalsStore{fetchErrs: []error{fetchErr}}
	w := newTestWatcher(watcherConfig(), store, &fakeAssessmentStore{}, &fakePredictionStore{})

	err := w.PollOnce()
	assert.ErrorIs(t, err, fetchErr)
}

func TestBreakerOpensAfterRepeatedFetchFailures(t *testing.T) {
	cfg := watcherConfig()
	cfg.CircuitBreaker.MaxFailures = 2

	fetchErr := errors.New("connection refused")
	store := &fakeVitalsStore{fetchErrs: []error{fetchErr, fetchErr, fetchErr}}
	w := newTestWatcher(cfg, store, &fakeAssessmentStore{}, &fakePredictionStore{})

	require.Error(t, w.PollOnce())
	require.Error(t, w.PollOnce())
	assert.Equal(t, resilience.StateOpen, w.BreakerState())

	err := w.PollOnce()
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, 2, store.calls)
}

func TestStartStop(t *testing.T) {
	store := &fakeVitalsStore{}
	w := newTestWatcher(watcherConfig(), store, &fakeAssessmentStore{}, &fakePredictionStore{})

	w.Start()
	time.Sleep(50 * time.Millisecond)
	w.Stop()

	// The immediate first poll ran before Stop.
	assert.GreaterOrEqual(t, store.calls, 1)
}
