package telemetry

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/pentaplets/chamber-control/internal/actuator"
	"github.com/pentaplets/chamber-control/internal/sensor"
)

func TestFormatReadingPayload(t *testing.T) {
	r := sensor.Reading{
		ID:          "abc-123",
		DeviceID:    "chamber-01",
		Taken:       time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC),
		Temperature: 19.5,
		Humidity:    88.2,
		LightLux:    512,
		CO2PPM:      950,
	}

	data, err := FormatReadingPayload(r)
	if err != nil {
		t.Fatalf("FormatReadingPayload: %v", err)
	}

	var got ReadingPayload
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Reading.ID != "abc-123" {
		t.Errorf("expected id abc-123, got %s", got.Reading.ID)
	}
	if got.Reading.Timestamp != "2026-03-01T08:30:00Z" {
		t.Errorf("expected RFC3339 UTC timestamp, got %s", got.Reading.Timestamp)
	}
	if got.Reading.Humidity != 88.2 {
		t.Errorf("expected humidity 88.2, got %v", got.Reading.Humidity)
	}
}

func TestFormatActuatorPayload(t *testing.T) {
	st := actuator.State{
		On:             true,
		Reason:         actuator.ReasonManual,
		LastTransition: time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC),
	}

	data, err := FormatActuatorPayload(actuator.Fogger, st)
	if err != nil {
		t.Fatalf("FormatActuatorPayload: %v", err)
	}

	var got ActuatorPayload
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Actuator.Channel != "fogger" {
		t.Errorf("expected channel fogger, got %s", got.Actuator.Channel)
	}
	if got.Actuator.State != "ON" {
		t.Errorf("expected state ON, got %s", got.Actuator.State)
	}
	if got.Actuator.Reason != "manual" {
		t.Errorf("expected reason manual, got %s", got.Actuator.Reason)
	}
	if got.Actuator.Faulted {
		t.Error("faulted should be false")
	}
}

func TestFormatSystemPayload(t *testing.T) {
	data, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	})
	if err != nil {
		t.Fatalf("FormatSystemPayload: %v", err)
	}

	var got SystemPayload
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.System.Event != "SHUTDOWN" || got.System.Reason != "SIGTERM" {
		t.Errorf("unexpected payload: %+v", got.System)
	}
}

func TestFakePublisherRecords(t *testing.T) {
	f := NewFakePublisher()

	if err := f.PublishReading(sensor.Reading{ID: "r1"}); err != nil {
		t.Fatalf("PublishReading: %v", err)
	}
	if err := f.PublishActuator(actuator.Fan, actuator.State{On: true}); err != nil {
		t.Fatalf("PublishActuator: %v", err)
	}
	if err := f.PublishSystem(SystemEvent{Event: "STARTUP"}); err != nil {
		t.Fatalf("PublishSystem: %v", err)
	}

	if len(f.Readings) != 1 || f.Readings[0].ID != "r1" {
		t.Errorf("unexpected readings: %v", f.Readings)
	}
	if len(f.ActuatorEvents) != 1 || f.ActuatorEvents[0].Ch != actuator.Fan {
		t.Errorf("unexpected actuator events: %v", f.ActuatorEvents)
	}
	if len(f.SystemEvents) != 1 || f.SystemEvents[0].Event != "STARTUP" {
		t.Errorf("unexpected system events: %v", f.SystemEvents)
	}
}
