// Package staging computes qSOFA and SIRS component scores and derives
// the active clinical stage from forward-chained rules. Evaluation is a
// pure function of the imputed vitals and the configured thresholds.
package staging

import (
	"github.com/OldStager01/sepsis-watcher/pkg/config"
	"github.com/OldStager01/sepsis-watcher/pkg/models"
)

type Engine struct {
	thresholds config.ThresholdConfig
}

func NewEngine(thresholds config.ThresholdConfig) *Engine {
	return &Engine{thresholds: thresholds}
}

// Evaluate scores a complete vitals record. All rules run on every
// call and the stage is the maximum satisfied tier, baseline 1.
func (e *Engine) Evaluate(v models.ImputedVitals) *models.StagingResult {
	t := e.thresholds

	components := map[string]int{
		models.ComponentQSOFAResp: boolToScore(v.RespiratoryRate >= t.RespQSOFA),
		models.ComponentQSOFASBP:  boolToScore(v.SystolicBP <= t.SBPQSOFA),
		models.ComponentSIRSTemp:  boolToScore(v.Temperature > t.TempHigh || v.Temperature < t.TempLow),
		models.ComponentSIRSHR:    boolToScore(v.HeartRate > t.HRSIRS),
		models.ComponentSIRSResp:  boolToScore(v.RespiratoryRate > t.RespSIRS),
		models.ComponentSIRSWBC:   boolToScore(v.WBC > t.WBCHigh || v.WBC < t.WBCLow),
	}

	qsofa := components[models.ComponentQSOFAResp] + components[models.ComponentQSOFASBP]
	sirs := components[models.ComponentSIRSTemp] + components[models.ComponentSIRSHR] +
		components[models.ComponentSIRSResp] + components[models.ComponentSIRSWBC]

	stage := 1
	alerts := []string{}
	for _, rule := range rules {
		if !rule.match(t, v, qsofa) {
			continue
		}
		if rule.tier > stage {
			stage = rule.tier
		}
		if msg := rule.alert(t, v, qsofa); msg != "" {
			alerts = append(alerts, msg)
		}
	}

	return &models.StagingResult{
		QSOFAScore:  qsofa,
		SIRSScore:   sirs,
		ActiveStage: stage,
		Alerts:      alerts,
		Components:  components,
	}
}

func boolToScore(b bool) int {
	if b {
		return 1
	}
	return 0
}
