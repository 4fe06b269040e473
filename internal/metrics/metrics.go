// Package metrics keeps process-wide counters and gauges and exposes
// them in Prometheus text format.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	samplesProcessed  int64
	assessmentsTotal  map[string]int64 // risk_level -> count
	assessmentErrors  int64
	forecastsTotal    int64
	forecastFailures  int64
	overridesApplied  int64
	alertsEmitted     map[string]int64 // severity -> count
	pollCycles        int64
	pollErrors        int64

	// Gauges
	circuitBreakerState map[string]int // 0=closed, 1=open, 2=half-open
	lastStage           int

	// Histograms (simplified, last value only)
	pipelineLatency time.Duration
}

var (
	instance *Metrics
	once     sync.Once
)

func Get() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			assessmentsTotal:    make(map[string]int64),
			alertsEmitted:       make(map[string]int64),
			circuitBreakerState: make(map[string]int),
			lastStage:           1,
		}
	})
	return instance
}

func (m *Metrics) IncSamplesProcessed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.samplesProcessed++
}

func (m *Metrics) IncAssessment(riskLevel string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assessmentsTotal[riskLevel]++
}

func (m *Metrics) IncAssessmentErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assessmentErrors++
}

func (m *Metrics) IncForecasts() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forecastsTotal++
}

func (m *Metrics) IncForecastFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forecastFailures++
}

func (m *Metrics) IncOverridesApplied() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overridesApplied++
}

func (m *Metrics) IncAlert(severity string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alertsEmitted[severity]++
}

func (m *Metrics) IncPollCycles() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pollCycles++
}

func (m *Metrics) IncPollErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pollErrors++
}

func (m *Metrics) SetCircuitBreakerState(name string, state int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.circuitBreakerState[name] = state
}

func (m *Metrics) SetLastStage(stage int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastStage = stage
}

func (m *Metrics) SetPipelineLatency(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pipelineLatency = d
}

func (m *Metrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.RLock()
		defer m.mu.RUnlock()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		writeMetric(w, "sepsiswatcher_samples_processed_total", nil, float64(m.samplesProcessed))

		for level, count := range m.assessmentsTotal {
			writeMetric(w, "sepsiswatcher_assessments_total", map[string]string{"risk_level": level}, float64(count))
		}

		writeMetric(w, "sepsiswatcher_assessment_errors_total", nil, float64(m.assessmentErrors))
		writeMetric(w, "sepsiswatcher_forecasts_total", nil, float64(m.forecastsTotal))
		writeMetric(w, "sepsiswatcher_forecast_failures_total", nil, float64(m.forecastFailures))
		writeMetric(w, "sepsiswatcher_overrides_applied_total", nil, float64(m.overridesApplied))

		for severity, count := range m.alertsEmitted {
			writeMetric(w, "sepsiswatcher_alerts_emitted_total", map[string]string{"severity": severity}, float64(count))
		}

		writeMetric(w, "sepsiswatcher_poll_cycles_total", nil, float64(m.pollCycles))
		writeMetric(w, "sepsiswatcher_poll_errors_total", nil, float64(m.pollErrors))

		for name, state := range m.circuitBreakerState {
			writeMetric(w, "sepsiswatcher_circuit_breaker_state", map[string]string{"name": name}, float64(state))
		}

		writeMetric(w, "sepsiswatcher_active_stage", nil, float64(m.lastStage))
		writeMetric(w, "sepsiswatcher_pipeline_latency_ms", nil, float64(m.pipelineLatency.Milliseconds()))
	})
}

func writeMetric(w http.ResponseWriter, name string, labels map[string]string, value float64) {
	labelStr := ""
	if len(labels) > 0 {
		labelStr = "{"
		first := true
		for k, v := range labels {
			if !first {
				labelStr += ","
			}
			labelStr += k + `="` + v + `"`
			first = false
		}
		labelStr += "}"
	}
	w.Write([]byte(name + labelStr + " " + strconv.FormatFloat(value, 'f', -1, 64) + "\n"))
}
