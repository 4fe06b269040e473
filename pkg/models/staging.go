package models

// Component rule names reported in StagingResult.Components
const (
	ComponentQSOFAResp = "qsofa_resp"
	ComponentQSOFASBP  = "qsofa_sbp"
	ComponentSIRSTemp  = "sirs_temp"
	ComponentSIRSHR    = "sirs_hr"
	ComponentSIRSResp  = "sirs_resp"
	ComponentSIRSWBC   = "sirs_wbc"
)

// StagingResult is the output of one staging engine evaluation
type StagingResult struct {
	QSOFAScore  int            `json:"qsofa_score"`
	SIRSScore   int            `json:"sirs_score"`
	ActiveStage int            `json:"active_stage"`
	Alerts      []string       `json:"alerts"`
	Components  map[string]int `json:"components"`
}

// ScreensPositive reports whether the strict screening criteria are met
// (qSOFA >= 2 or SIRS >= 2), the condition for the risk safety override.
func (r *StagingResult) ScreensPositive() bool {
	return r.QSOFAScore >= 2 || r.SIRSScore >= 2
}
