package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/sepsis-watcher/pkg/models"
)

func TestSubscribeReceivesMatchingType(t *testing.T) {
	bus := NewEventBus(10)
	ch := bus.Subscribe(models.EventTypeClinicalAlert)

	bus.Publish(models.NewEvent(models.EventTypeClinicalAlert, "v1", "Fever detected: 39.2°C"))
	bus.Publish(models.NewEvent(models.EventTypeVitalsReceived, "v2", "Vitals received"))

	select {
	case ev := <-ch:
		assert.Equal(t, models.EventTypeClinicalAlert, ev.Type)
		assert.Equal(t, "v1", ev.VitalsID)
	default:
		t.Fatal("expected a clinical alert event")
	}

	// The vitals event went to nobody subscribed here.
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event: %s", ev.Type)
	default:
	}
}

func TestSubscribeAllReceivesEveryType(t *testing.T) {
	bus := NewEventBus(10)
	ch := bus.SubscribeAll()

	bus.Publish(models.NewEvent(models.EventTypeVitalsReceived, "v1", "Vitals received"))
	bus.Publish(models.NewEvent(models.EventTypeRiskAssessed, "v1", "Risk assessed: HIGH"))
	bus.Publish(models.NewEvent(models.EventTypeForecastComplete, "v1", "Forecast complete"))
	bus.Publish(models.NewEvent(models.EventTypeClinicalAlert, "v1", "qSOFA >= 2: High sepsis risk"))
	bus.Publish(models.NewEvent(models.EventTypeError, "v1", "Pipeline failed"))

	for i := 0; i < 5; i++ {
		select {
		case <-ch:
		default:
			t.Fatalf("expected 5 events, got %d", i)
		}
	}
}

func TestPublishDropsWhenBufferFull(t *testing.T) {
	bus := NewEventBus(1)
	ch := bus.Subscribe(models.EventTypeError)

	bus.Publish(models.NewEvent(models.EventTypeError, "v1", "first"))
	bus.Publish(models.NewEvent(models.EventTypeError, "v2", "dropped"))

	ev := <-ch
	assert.Equal(t, "v1", ev.VitalsID)

	select {
	case ev := <-ch:
		t.Fatalf("expected second event to be dropped, got %s", ev.VitalsID)
	default:
	}
}

func TestCloseStopsDelivery(t *testing.T) {
	bus := NewEventBus(10)
	ch := bus.SubscribeAll()

	bus.Close()

	_, open := <-ch
	assert.False(t, open)

	// Publishing after close is a no-op, not a panic.
	bus.Publish(models.NewEvent(models.EventTypeError, "v1", "after close"))
	bus.Close()
}

func TestPublisherRiskAssessedSeverity(t *testing.T) {
	bus := NewEventBus(10)
	ch := bus.Subscribe(models.EventTypeRiskAssessed)
	pub := NewPublisher(bus)

	row := &models.VitalsRow{ID: "v1", PatientID: "P1"}

	pub.RiskAssessed(row, &models.RiskAssessment{Level: models.RiskHigh, Score: 0.85})
	pub.RiskAssessed(row, &models.RiskAssessment{Level: models.RiskLow, Score: 0.2})
	pub.RiskAssessed(row, &models.RiskAssessment{Level: models.RiskError})

	high := <-ch
	assert.Equal(t, models.SeverityCritical, high.Severity)
	assert.Equal(t, "Risk assessed: HIGH", high.Message)
	assert.Equal(t, "P1", high.PatientID)

	low := <-ch
	assert.Equal(t, models.SeverityInfo, low.Severity)

	errEv := <-ch
	assert.Equal(t, models.SeverityWarning, errEv.Severity)
}

func TestPublisherClinicalAlertSeverity(t *testing.T) {
	bus := NewEventBus(10)
	ch := bus.Subscribe(models.EventTypeClinicalAlert)
	pub := NewPublisher(bus)

	row := &models.VitalsRow{ID: "v1"}

	pub.ClinicalAlert(row, 2, "Hypotension: SBP 90 mmHg")
	pub.ClinicalAlert(row, 3, "qSOFA >= 2: High sepsis risk")

	warn := <-ch
	assert.Equal(t, models.SeverityWarning, warn.Severity)
	assert.Equal(t, "Hypotension: SBP 90 mmHg", warn.Message)

	crit := <-ch
	assert.Equal(t, models.SeverityCritical, crit.Severity)

	data, ok := crit.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 3, data["stage"])
}

func TestPublisherWithTraceID(t *testing.T) {
	bus := NewEventBus(10)
	ch := bus.Subscribe(models.EventTypeError)
	pub := NewPublisher(bus).WithTraceID("trace-123")

	pub.Error("v1", "Pipeline failed", errors.New("boom"))

	ev := <-ch
	assert.Equal(t, "trace-123", ev.TraceID)
	assert.Equal(t, models.SeverityCritical, ev.Severity)
}
