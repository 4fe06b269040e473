package models

// ForecastStep is one simulated second of projected vitals. StepIndex is
// 1-based and strictly increasing within a simulation.
type ForecastStep struct {
	ID              int       `json:"id,omitempty"`
	VitalsID        string    `json:"vitals_id,omitempty"`
	SimulationID    string    `json:"simulation_id,omitempty"`
	StepIndex       int       `json:"sequence_index"`
	HeartRate       float64   `json:"hr_predicted"`
	RespiratoryRate float64   `json:"resp_predicted"`
	Temperature     float64   `json:"temp_predicted"`
	SystolicBP      float64   `json:"sbp_predicted"`
	SpO2            float64   `json:"o2sat_predicted"`
	RiskScore       float64   `json:"risk_score"`
	RiskLevel       RiskLevel `json:"risk_level"`
}
