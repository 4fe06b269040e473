package events

import (
	"github.com/OldStager01/sepsis-watcher/pkg/models"
)

type Publisher struct {
	bus     *EventBus
	traceID string
}

func NewPublisher(bus *EventBus) *Publisher {
	return &Publisher{bus: bus}
}

func (p *Publisher) WithTraceID(traceID string) *Publisher {
	return &Publisher{
		bus:     p.bus,
		traceID: traceID,
	}
}

func (p *Publisher) publish(event *models.Event) {
	if p.traceID != "" {
		event.TraceID = p.traceID
	}
	p.bus.Publish(event)
}

func (p *Publisher) VitalsReceived(row *models.VitalsRow) {
	event := models.NewEvent(models.EventTypeVitalsReceived, row.ID, "Vitals received").
		WithPatient(row.PatientID).
		WithData(row)
	p.publish(event)
}

func (p *Publisher) RiskAssessed(row *models.VitalsRow, assessment *models.RiskAssessment) {
	msg := "Risk assessed: " + string(assessment.Level)
	event := models.NewEvent(models.EventTypeRiskAssessed, row.ID, msg).
		WithPatient(row.PatientID).
		WithData(assessment)

	if assessment.Level == models.RiskHigh {
		event.WithSeverity(models.SeverityCritical)
	} else if assessment.IsError() {
		event.WithSeverity(models.SeverityWarning)
	}

	p.publish(event)
}

func (p *Publisher) ForecastComplete(row *models.VitalsRow, steps []*models.ForecastStep) {
	event := models.NewEvent(models.EventTypeForecastComplete, row.ID, "Forecast complete").
		WithPatient(row.PatientID).
		WithData(steps)
	p.publish(event)
}

func (p *Publisher) ClinicalAlert(row *models.VitalsRow, stage int, message string) {
	severity := models.SeverityWarning
	if stage >= 3 {
		severity = models.SeverityCritical
	}

	event := models.NewEvent(models.EventTypeClinicalAlert, row.ID, message).
		WithPatient(row.PatientID).
		WithSeverity(severity).
		WithData(map[string]interface{}{
			"stage": stage,
		})
	p.publish(event)
}

func (p *Publisher) Error(vitalsID string, message string, err error) {
	event := models.NewEvent(models.EventTypeError, vitalsID, message).
		WithSeverity(models.SeverityCritical).
		WithData(map[string]interface{}{
			"error": err.Error(),
		})
	p.publish(event)
}
