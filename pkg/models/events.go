package models

import "time"

type EventType string

const (
	EventTypeVitalsReceived   EventType = "vitals_received"
	EventTypeRiskAssessed     EventType = "risk_assessed"
	EventTypeForecastComplete EventType = "forecast_complete"
	EventTypeClinicalAlert    EventType = "clinical_alert"
	EventTypeError            EventType = "error"
)

type EventSeverity string

const (
	SeverityInfo     EventSeverity = "info"
	SeverityWarning  EventSeverity = "warning"
	SeverityCritical EventSeverity = "critical"
)

// Event represents an internal system event
type Event struct {
	ID        string        `json:"id"`
	Type      EventType     `json:"type"`
	Severity  EventSeverity `json:"severity"`
	VitalsID  string        `json:"vitals_id,omitempty"`
	PatientID string        `json:"patient_id,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	Message   string        `json:"message"`
	Data      interface{}   `json:"data,omitempty"`
	TraceID   string        `json:"trace_id,omitempty"`
}

func NewEvent(eventType EventType, vitalsID, message string) *Event {
	return &Event{
		ID:        NewUUID(),
		Type:      eventType,
		Severity:  SeverityInfo,
		VitalsID:  vitalsID,
		Timestamp: time.Now(),
		Message:   message,
	}
}

func (e *Event) WithSeverity(severity EventSeverity) *Event {
	e.Severity = severity
	return e
}

func (e *Event) WithData(data interface{}) *Event {
	e.Data = data
	return e
}

func (e *Event) WithPatient(patientID string) *Event {
	e.PatientID = patientID
	return e
}
