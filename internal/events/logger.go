package events

import (
	"context"
	"encoding/json"

	"github.com/OldStager01/sepsis-watcher/internal/logger"
	"github.com/OldStager01/sepsis-watcher/pkg/database/queries"
	"github.com/OldStager01/sepsis-watcher/pkg/models"
)

// EventLogger consumes the event stream, mirrors it into the
// structured log and persists clinical alerts for later review.
type EventLogger struct {
	alerts    *queries.AlertRepository
	eventChan <-chan *models.Event
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewEventLogger(alerts *queries.AlertRepository, eventChan <-chan *models.Event) *EventLogger {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventLogger{
		alerts:    alerts,
		eventChan: eventChan,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (l *EventLogger) Start() {
	go l.run()
}

func (l *EventLogger) Stop() {
	l.cancel()
}

func (l *EventLogger) run() {
	for {
		select {
		case <-l.ctx.Done():
			return
		case event, ok := <-l.eventChan:
			if !ok {
				return
			}
			l.processEvent(event)
		}
	}
}

func (l *EventLogger) processEvent(event *models.Event) {
	// Log to structured logger
	entry := logger.WithFields(map[string]interface{}{
		"event_type": event.Type,
		"vitals_id":  event.VitalsID,
		"severity":   event.Severity,
		"trace_id":   event.TraceID,
	})

	switch event.Severity {
	case models.SeverityCritical:
		entry.Error(event.Message)
	case models.SeverityWarning:
		entry.Warn(event.Message)
	default:
		entry.Info(event.Message)
	}

	if event.Type == models.EventTypeClinicalAlert {
		l.persistAlert(event)
	}
}

func (l *EventLogger) persistAlert(event *models.Event) {
	stage := 1
	if data, ok := event.Data.(map[string]interface{}); ok {
		if s, ok := data["stage"].(int); ok {
			stage = s
		}
	}

	alert := &queries.ClinicalAlert{
		VitalsID: event.VitalsID,
		Stage:    stage,
		Severity: string(event.Severity),
		Message:  event.Message,
	}

	if err := l.alerts.Insert(l.ctx, alert); err != nil {
		logger.Errorf("Failed to persist clinical alert: %v", err)
	}
}

func (l *EventLogger) LogToJSON(event *models.Event) string {
	data, _ := json.Marshal(event)
	return string(data)
}
