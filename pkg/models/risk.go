package models

import "time"

type RiskLevel string

const (
	RiskHigh  RiskLevel = "HIGH"
	RiskLow   RiskLevel = "LOW"
	RiskError RiskLevel = "ERROR"
)

// RiskThreshold is the fixed HIGH/LOW probability cut
const RiskThreshold = 0.5

// RiskLevelFor maps a fused probability to HIGH or LOW
func RiskLevelFor(probability float64) RiskLevel {
	if probability > RiskThreshold {
		return RiskHigh
	}
	return RiskLow
}

// ReasoningFeatures are the derived features echoed into the reasoning record
type ReasoningFeatures struct {
	ShockIndex float64 `json:"shock_index"`
	MAP        float64 `json:"map"`
	ICULOS     int     `json:"iculos"`
}

// Reasoning documents how an assessment was reached. On classifier failure
// only Error is populated.
type Reasoning struct {
	Probability float64           `json:"probability"`
	Threshold   float64           `json:"threshold"`
	Features    ReasoningFeatures `json:"features"`
	Model       string            `json:"model,omitempty"`
	Timestamp   string            `json:"timestamp,omitempty"`
	QSOFAScore  int               `json:"qsofa_score"`
	SIRSScore   int               `json:"sirs_score"`
	ActiveStage int               `json:"active_stage"`
	Alerts      []string          `json:"alerts"`
	Error       string            `json:"error,omitempty"`
}

// RiskAssessment is one scored evaluation of a vitals sample
type RiskAssessment struct {
	ID           int        `json:"id,omitempty"`
	VitalsID     string     `json:"vitals_id"`
	SimulationID string     `json:"simulation_id,omitempty"`
	Level        RiskLevel  `json:"risk_level"`
	Score        float64    `json:"risk_score"`
	Reasoning    *Reasoning `json:"reasoning,omitempty"`
	ActiveStage  int        `json:"active_stage"`
	QSOFAScore   int        `json:"qsofa_score"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (a *RiskAssessment) IsError() bool {
	return a.Level == RiskError
}
