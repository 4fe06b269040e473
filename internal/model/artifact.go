package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// classifierArtifact is the on-disk format of an exported logistic
// classifier. Coefficients must match the feature vector width.
type classifierArtifact struct {
	Name         string    `json:"name"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// ArtifactClassifier scores with an exported linear model.
type ArtifactClassifier struct {
	name         string
	coefficients []float64
	intercept    float64
}

// LoadClassifier reads a classifier artifact from disk.
func LoadClassifier(path string) (*ArtifactClassifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read classifier artifact: %w", err)
	}

	var artifact classifierArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse classifier artifact: %w", err)
	}
	if len(artifact.Coefficients) == 0 {
		return nil, fmt.Errorf("classifier artifact has no coefficients")
	}

	name := artifact.Name
	if name == "" {
		name = "sepsis_classifier"
	}

	return &ArtifactClassifier{
		name:         name,
		coefficients: artifact.Coefficients,
		intercept:    artifact.Intercept,
	}, nil
}

func (c *ArtifactClassifier) Name() string {
	return c.name
}

func (c *ArtifactClassifier) PredictProba(features []float64) (float64, error) {
	if len(features) != len(c.coefficients) {
		return 0, fmt.Errorf("feature vector has %d values, model expects %d",
			len(features), len(c.coefficients))
	}

	z := c.intercept
	for i, w := range c.coefficients {
		z += w * features[i]
	}

	return sigmoid(z), nil
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

// forecasterArtifact is the on-disk format of an exported multi-output
// linear regressor with standard scaling. Each output row produces one
// of the five forecast targets.
type forecasterArtifact struct {
	Name         string      `json:"name"`
	ScalerMean   []float64   `json:"scaler_mean"`
	ScalerScale  []float64   `json:"scaler_scale"`
	Coefficients [][]float64 `json:"coefficients"`
	Intercepts   []float64   `json:"intercepts"`
}

// ArtifactForecaster projects vitals with an exported regressor.
type ArtifactForecaster struct {
	name         string
	scalerMean   []float64
	scalerScale  []float64
	coefficients [][]float64
	intercepts   []float64
}

// LoadForecaster reads a forecaster artifact from disk.
func LoadForecaster(path string) (*ArtifactForecaster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read forecaster artifact: %w", err)
	}

	var artifact forecasterArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse forecaster artifact: %w", err)
	}
	if len(artifact.Coefficients) == 0 {
		return nil, fmt.Errorf("forecaster artifact has no coefficients")
	}
	if len(artifact.Intercepts) != len(artifact.Coefficients) {
		return nil, fmt.Errorf("forecaster artifact has %d intercepts for %d outputs",
			len(artifact.Intercepts), len(artifact.Coefficients))
	}

	name := artifact.Name
	if name == "" {
		name = "vital_forecaster"
	}

	return &ArtifactForecaster{
		name:         name,
		scalerMean:   artifact.ScalerMean,
		scalerScale:  artifact.ScalerScale,
		coefficients: artifact.Coefficients,
		intercepts:   artifact.Intercepts,
	}, nil
}

func (f *ArtifactForecaster) Name() string {
	return f.name
}

func (f *ArtifactForecaster) Forecast(features []float64) ([]float64, error) {
	width := len(f.coefficients[0])
	if len(features) != width {
		return nil, fmt.Errorf("feature vector has %d values, model expects %d",
			len(features), width)
	}

	scaled := make([]float64, len(features))
	copy(scaled, features)
	if len(f.scalerMean) == len(features) && len(f.scalerScale) == len(features) {
		for i := range scaled {
			if f.scalerScale[i] != 0 {
				scaled[i] = (scaled[i] - f.scalerMean[i]) / f.scalerScale[i]
			}
		}
	}

	outputs := make([]float64, len(f.coefficients))
	for row, weights := range f.coefficients {
		y := f.intercepts[row]
		for i, w := range weights {
			y += w * scaled[i]
		}
		outputs[row] = y
	}

	return outputs, nil
}
