package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/OldStager01/sepsis-watcher/internal/logger"
	"github.com/OldStager01/sepsis-watcher/pkg/models"
)

// EventBridge forwards pipeline events to WebSocket clients so the
// bedside dashboard updates live.
type EventBridge struct {
	hub        *Hub
	eventsChan <-chan *models.Event
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewEventBridge(hub *Hub, eventsChan <-chan *models.Event) *EventBridge {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventBridge{
		hub:        hub,
		eventsChan: eventsChan,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (b *EventBridge) Start() {
	go b.run()
	logger.Info("WebSocket event bridge started")
}

func (b *EventBridge) Stop() {
	b.cancel()
	logger.Info("WebSocket event bridge stopped")
}

func (b *EventBridge) run() {
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-b.eventsChan:
			if !ok {
				logger.Info("Event channel closed, stopping bridge")
				return
			}
			b.forwardEvent(event)
		}
	}
}

// WebSocketEvent is the message format sent to WebSocket clients
type WebSocketEvent struct {
	Type      string      `json:"type"`
	VitalsID  string      `json:"vitals_id,omitempty"`
	PatientID string      `json:"patient_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Severity  string      `json:"severity,omitempty"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

func (b *EventBridge) forwardEvent(event *models.Event) {
	wsType := mapEventType(event.Type)
	if wsType == "" {
		return // Skip events we don't want to broadcast
	}

	wsMessage := &WebSocketEvent{
		Type:      wsType,
		VitalsID:  event.VitalsID,
		PatientID: event.PatientID,
		Timestamp: event.Timestamp,
		Severity:  string(event.Severity),
		Message:   event.Message,
		Data:      event.Data,
	}

	data, err := json.Marshal(wsMessage)
	if err != nil {
		logger.Errorf("Failed to marshal WebSocket message: %v", err)
		return
	}

	if event.PatientID != "" {
		b.hub.BroadcastForPatient(event.PatientID, data)
	} else {
		b.hub.Broadcast(data)
	}
}

func mapEventType(eventType models.EventType) string {
	switch eventType {
	case models.EventTypeVitalsReceived:
		return "vitals"
	case models.EventTypeRiskAssessed:
		return "risk_assessment"
	case models.EventTypeForecastComplete:
		return "forecast"
	case models.EventTypeClinicalAlert:
		return "alert"
	case models.EventTypeError:
		return "error"
	default:
		return ""
	}
}
