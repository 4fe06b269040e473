package model

import (
	"github.com/OldStager01/sepsis-watcher/internal/logger"
	"github.com/OldStager01/sepsis-watcher/pkg/config"
)

// Bundle holds the loaded scoring models. Either field may be nil when
// loading failed; callers degrade to rule-only behavior.
type Bundle struct {
	Classifier Classifier
	Forecaster Forecaster
}

// Load builds the model bundle for the configured backend. Loading
// failures are logged and leave the corresponding model nil rather than
// aborting startup, so the watcher still runs the staging rules.
func Load(cfg config.ModelsConfig) *Bundle {
	bundle := &Bundle{}

	switch cfg.Type {
	case "remote":
		remote := NewRemoteModel(cfg.Endpoint, cfg.Timeout)
		bundle.Classifier = remote
		bundle.Forecaster = remote
		logger.WithField("endpoint", cfg.Endpoint).Info("Using remote scoring service")

	default:
		classifier, err := LoadClassifier(cfg.ClassifierPath)
		if err != nil {
			logger.WithField("path", cfg.ClassifierPath).
				Warnf("Classifier artifact not loaded: %v", err)
		} else {
			bundle.Classifier = classifier
			logger.WithField("model", classifier.Name()).Info("Classifier loaded")
		}

		forecaster, err := LoadForecaster(cfg.ForecasterPath)
		if err != nil {
			logger.WithField("path", cfg.ForecasterPath).
				Warnf("Forecaster artifact not loaded: %v", err)
		} else {
			bundle.Forecaster = forecaster
			logger.WithField("model", forecaster.Name()).Info("Forecaster loaded")
		}
	}

	return bundle
}
