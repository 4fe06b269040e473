// Package watcher implements the polling loop that drains unprocessed
// vitals rows and pushes each through the evaluation pipeline.
package watcher

import (
	"context"
	"sync"
	"time"

	"github.com/OldStager01/sepsis-watcher/internal/events"
	"github.com/OldStager01/sepsis-watcher/internal/logger"
	"github.com/OldStager01/sepsis-watcher/internal/metrics"
	"github.com/OldStager01/sepsis-watcher/internal/resilience"
	"github.com/OldStager01/sepsis-watcher/pkg/config"
	"github.com/OldStager01/sepsis-watcher/pkg/models"
)

// VitalsStore is the slice of the vitals repository the watcher needs.
type VitalsStore interface {
	GetUnprocessed(ctx context.Context, source string, limit int) ([]*models.VitalsRow, error)
	MarkProcessed(ctx context.Context, id string, stage int) error
}

type Watcher struct {
	cfg       config.WatcherConfig
	vitals    VitalsStore
	pipeline  *Pipeline
	publisher *events.Publisher
	breaker   *resilience.CircuitBreaker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(cfg config.WatcherConfig, vitals VitalsStore, pipeline *Pipeline, publisher *events.Publisher) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())

	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:        "vitals-poll",
		MaxFailures: cfg.CircuitBreaker.MaxFailures,
		Timeout:     cfg.CircuitBreaker.Timeout,
		OnStateChange: func(name string, from, to resilience.State) {
			logger.WithField("breaker", name).
				Warnf("Circuit breaker %s -> %s", from, to)
			metrics.Get().SetCircuitBreakerState(name, int(to))
		},
	})

	return &Watcher{
		cfg:       cfg,
		vitals:    vitals,
		pipeline:  pipeline,
		publisher: publisher,
		breaker:   breaker,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (w *Watcher) Start() {
	logger.WithFields(map[string]interface{}{
		"poll_interval":    w.cfg.PollInterval,
		"source":           w.cfg.Source,
		"simulation_steps": w.cfg.SimulationSteps,
	}).Info("Starting sepsis watcher")

	w.wg.Add(1)
	go w.run()
}

func (w *Watcher) Stop() {
	logger.Info("Stopping sepsis watcher")
	w.cancel()
	w.wg.Wait()
}

// run polls immediately, then on the configured interval. A failed
// cycle doubles the wait before the next attempt.
func (w *Watcher) run() {
	defer w.wg.Done()

	wait := time.Duration(0)
	for {
		timer := time.NewTimer(wait)
		select {
		case <-w.ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if err := w.pollOnce(); err != nil {
			logger.Errorf("Poll failed: %v", err)
			metrics.Get().IncPollErrors()
			wait = w.cfg.PollInterval * 2
		} else {
			wait = w.cfg.PollInterval
		}
	}
}

// PollOnce runs a single poll cycle. Exposed for the -test-pipeline
// startup check.
func (w *Watcher) PollOnce() error {
	return w.pollOnce()
}

func (w *Watcher) pollOnce() error {
	metrics.Get().IncPollCycles()

	var rows []*models.VitalsRow
	err := w.breaker.Execute(func() error {
		var fetchErr error
		rows, fetchErr = w.fetchWithRetry()
		return fetchErr
	})
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		return nil
	}

	logger.Infof("Found %d unprocessed vitals rows", len(rows))

	for _, row := range rows {
		select {
		case <-w.ctx.Done():
			return nil
		default:
		}

		stage, err := w.pipeline.Process(w.ctx, row)
		if err != nil {
			logger.WithVitals(row.ID).Errorf("Pipeline failed: %v", err)
			w.publisher.Error(row.ID, "Pipeline failed", err)
			continue
		}

		if err := w.vitals.MarkProcessed(w.ctx, row.ID, stage); err != nil {
			logger.WithVitals(row.ID).Errorf("Failed to mark processed: %v", err)
		}
	}

	return nil
}

func (w *Watcher) fetchWithRetry() ([]*models.VitalsRow, error) {
	attempts := w.cfg.RetryAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		rows, err := w.vitals.GetUnprocessed(w.ctx, w.cfg.Source, w.cfg.BatchSize)
		if err == nil {
			return rows, nil
		}
		lastErr = err

		select {
		case <-w.ctx.Done():
			return nil, w.ctx.Err()
		case <-time.After(time.Duration(i+1) * 500 * time.Millisecond):
		}
	}

	return nil, lastErr
}

// BreakerState reports the polling circuit breaker state for health
// endpoints.
func (w *Watcher) BreakerState() resilience.State {
	return w.breaker.State()
}
