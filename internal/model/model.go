// Package model defines the scoring model contracts and their
// implementations. The risk and forecast packages depend only on the
// interfaces here, so artifact-backed and remote models are
// interchangeable.
package model

import "errors"

// ErrModelUnavailable is returned when a model was not loaded or its
// backing service cannot be reached.
var ErrModelUnavailable = errors.New("model unavailable")

// Classifier scores a feature vector and returns the probability of
// sepsis onset in [0, 1].
type Classifier interface {
	// Name identifies the model in reasoning records.
	Name() string
	PredictProba(features []float64) (float64, error)
}

// Forecaster projects the next-step vitals from a feature vector. The
// output is [heart_rate, respiratory_rate, temperature, systolic_bp, spo2].
type Forecaster interface {
	Name() string
	Forecast(features []float64) ([]float64, error)
}
