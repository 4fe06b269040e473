package staging

import (
	"fmt"

	"github.com/OldStager01/sepsis-watcher/pkg/config"
	"github.com/OldStager01/sepsis-watcher/pkg/models"
)

// stageRule is one forward-chaining record. Every rule is evaluated on
// every call, and the active stage is the maximum satisfied tier. The
// alert function may return "" when the tier matched without its alert
// condition holding.
type stageRule struct {
	name  string
	tier  int
	match func(t config.ThresholdConfig, v models.ImputedVitals, qsofa int) bool
	alert func(t config.ThresholdConfig, v models.ImputedVitals, qsofa int) string
}

// rules holds the tier checks in evaluation order. Alert order follows
// from the rule order: fever, hypotension, tachycardia, qSOFA, leukocytosis.
var rules = []stageRule{
	{
		name: "infection",
		tier: 1,
		match: func(t config.ThresholdConfig, v models.ImputedVitals, _ int) bool {
			return v.Temperature > t.TempHigh || v.RespiratoryRate > t.RespSIRS
		},
		alert: func(t config.ThresholdConfig, v models.ImputedVitals, _ int) string {
			if v.Temperature > t.TempHigh {
				return fmt.Sprintf("Fever detected: %g°C", v.Temperature)
			}
			return ""
		},
	},
	{
		name: "hemodynamic_bp",
		tier: 2,
		match: func(t config.ThresholdConfig, v models.ImputedVitals, _ int) bool {
			return v.SystolicBP <= t.SBPQSOFA || v.HeartRate > t.HRSIRS
		},
		alert: func(t config.ThresholdConfig, v models.ImputedVitals, _ int) string {
			if v.SystolicBP <= t.SBPQSOFA {
				return fmt.Sprintf("Hypotension: SBP %g mmHg", v.SystolicBP)
			}
			return ""
		},
	},
	{
		name: "hemodynamic_hr",
		tier: 2,
		match: func(t config.ThresholdConfig, v models.ImputedVitals, _ int) bool {
			return v.SystolicBP <= t.SBPQSOFA || v.HeartRate > t.HRSIRS
		},
		alert: func(t config.ThresholdConfig, v models.ImputedVitals, _ int) string {
			if v.HeartRate > t.HRCritical {
				return fmt.Sprintf("Tachycardia: HR %g bpm", v.HeartRate)
			}
			return ""
		},
	},
	{
		name: "severity_qsofa",
		tier: 3,
		match: func(t config.ThresholdConfig, v models.ImputedVitals, qsofa int) bool {
			return qsofa >= 2 || v.WBC > t.WBCHigh || v.WBC < t.WBCLow
		},
		alert: func(_ config.ThresholdConfig, _ models.ImputedVitals, qsofa int) string {
			if qsofa >= 2 {
				return "qSOFA >= 2: High sepsis risk"
			}
			return ""
		},
	},
	{
		name: "severity_wbc",
		tier: 3,
		match: func(t config.ThresholdConfig, v models.ImputedVitals, qsofa int) bool {
			return qsofa >= 2 || v.WBC > t.WBCHigh || v.WBC < t.WBCLow
		},
		alert: func(t config.ThresholdConfig, v models.ImputedVitals, _ int) string {
			if v.WBC > t.WBCHigh {
				return fmt.Sprintf("Leukocytosis: WBC %g", v.WBC)
			}
			return ""
		},
	},
}
