// Package risk fuses the ML classifier probability with the rule-based
// staging screen into a single risk assessment.
package risk

import (
	"math"
	"time"

	"github.com/OldStager01/sepsis-watcher/internal/logger"
	"github.com/OldStager01/sepsis-watcher/internal/model"
	"github.com/OldStager01/sepsis-watcher/internal/staging"
	"github.com/OldStager01/sepsis-watcher/pkg/models"
)

// overrideFloor is the minimum probability applied when the strict
// screening criteria fire (qSOFA >= 2 or SIRS >= 2).
const overrideFloor = 0.85

type Assessor struct {
	classifier model.Classifier
	staging    *staging.Engine
}

func NewAssessor(classifier model.Classifier, stagingEngine *staging.Engine) *Assessor {
	return &Assessor{
		classifier: classifier,
		staging:    stagingEngine,
	}
}

// Assess scores an imputed sample. Classifier failure yields an ERROR
// assessment with a zero score; the staging result is still attached so
// rule-based alerting keeps working without a model.
func (a *Assessor) Assess(v models.ImputedVitals) (*models.RiskAssessment, *models.StagingResult) {
	stagingResult := a.staging.Evaluate(v)

	if a.classifier == nil {
		return errorAssessment("classifier not loaded", stagingResult), stagingResult
	}

	features := DeriveFeatures(v.HeartRate, v.SystolicBP, v.DiastolicBP)
	vector := ClassifierVector(
		v.ICULOS, v.HeartRate, v.SpO2, v.Temperature,
		v.SystolicBP, v.DiastolicBP, v.RespiratoryRate, features,
	)

	probability, err := a.classifier.PredictProba(vector)
	if err != nil {
		logger.Errorf("Classification failed: %v", err)
		return errorAssessment(err.Error(), stagingResult), stagingResult
	}

	// Safety override: strict screening criteria floor the probability
	// so rule-detected deterioration is never scored below HIGH.
	if stagingResult.ScreensPositive() {
		probability = math.Max(probability, overrideFloor)
		logger.WithFields(map[string]interface{}{
			"qsofa_score": stagingResult.QSOFAScore,
			"sirs_score":  stagingResult.SIRSScore,
		}).Warn("Clinical override applied, risk floored to high")
	}

	reasoning := &models.Reasoning{
		Probability: round(probability, 4),
		Threshold:   models.RiskThreshold,
		Features: models.ReasoningFeatures{
			ShockIndex: round(features.ShockIndex, 3),
			MAP:        round(features.MAP, 1),
			ICULOS:     int(v.ICULOS),
		},
		Model:       a.classifier.Name(),
		Timestamp:   time.Now().Format(time.RFC3339),
		QSOFAScore:  stagingResult.QSOFAScore,
		SIRSScore:   stagingResult.SIRSScore,
		ActiveStage: stagingResult.ActiveStage,
		Alerts:      stagingResult.Alerts,
	}

	return &models.RiskAssessment{
		Level:       models.RiskLevelFor(probability),
		Score:       probability,
		Reasoning:   reasoning,
		ActiveStage: stagingResult.ActiveStage,
		QSOFAScore:  stagingResult.QSOFAScore,
	}, stagingResult
}

// Score runs only the classifier on a prebuilt feature vector. Used by
// the forecast simulator to rescore projected vitals.
func (a *Assessor) Score(vector []float64, stagingResult *models.StagingResult) (float64, models.RiskLevel, error) {
	if a.classifier == nil {
		return 0, models.RiskError, model.ErrModelUnavailable
	}

	probability, err := a.classifier.PredictProba(vector)
	if err != nil {
		return 0, models.RiskError, err
	}

	if stagingResult != nil && stagingResult.ScreensPositive() {
		probability = math.Max(probability, overrideFloor)
	}

	return probability, models.RiskLevelFor(probability), nil
}

func errorAssessment(msg string, stagingResult *models.StagingResult) *models.RiskAssessment {
	return &models.RiskAssessment{
		Level:       models.RiskError,
		Score:       0.0,
		Reasoning:   &models.Reasoning{Error: msg},
		ActiveStage: stagingResult.ActiveStage,
		QSOFAScore:  stagingResult.QSOFAScore,
	}
}

func round(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
