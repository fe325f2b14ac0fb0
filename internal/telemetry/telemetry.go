// Package telemetry publishes live chamber events over MQTT so the
// dashboard and any fleet collector can follow the chamber in real time.
package telemetry

import (
	"encoding/json"
	"time"

	"github.com/pentaplets/chamber-control/internal/actuator"
	"github.com/pentaplets/chamber-control/internal/sensor"
)

// Topic roots. The device ID is appended as the final segment.
const (
	TopicReadings  = "chamber/readings"
	TopicActuators = "chamber/actuators"
	TopicSystem    = "chamber/system"
)

// Publisher publishes chamber events.
type Publisher interface {
	// PublishReading sends a stored reading to the broker.
	// Returns error if publishing fails (should not crash the process).
	PublishReading(r sensor.Reading) error

	// PublishActuator sends an actuator transition to the broker.
	PublishActuator(ch actuator.Channel, st actuator.State) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown).
type SystemEvent struct {
	Timestamp time.Time
	Event     string // e.g., "STARTUP", "SHUTDOWN"
	Reason    string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	Retained  bool   // Whether the message should be retained by the broker
}

// ReadingPayload is the MQTT message payload for a reading.
type ReadingPayload struct {
	Reading ReadingInner `json:"reading"`
}

// ReadingInner contains the reading details.
type ReadingInner struct {
	ID          string  `json:"id"`
	DeviceID    string  `json:"device_id"`
	Timestamp   string  `json:"timestamp"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	LightLux    float64 `json:"light_lux"`
	CO2PPM      float64 `json:"co2_ppm"`
}

// FormatReadingPayload creates the JSON payload for a reading.
func FormatReadingPayload(r sensor.Reading) ([]byte, error) {
	payload := ReadingPayload{
		Reading: ReadingInner{
			ID:          r.ID,
			DeviceID:    r.DeviceID,
			Timestamp:   r.Taken.UTC().Format(time.RFC3339),
			Temperature: r.Temperature,
			Humidity:    r.Humidity,
			LightLux:    r.LightLux,
			CO2PPM:      r.CO2PPM,
		},
	}
	return json.Marshal(payload)
}

// ActuatorPayload is the MQTT message payload for an actuator transition.
type ActuatorPayload struct {
	Actuator ActuatorInner `json:"actuator"`
}

// ActuatorInner contains the transition details.
type ActuatorInner struct {
	Channel   string `json:"channel"`
	State     string `json:"state"`
	Reason    string `json:"reason"`
	Timestamp string `json:"timestamp"`
	Faulted   bool   `json:"faulted,omitempty"`
}

// FormatActuatorPayload creates the JSON payload for an actuator transition.
func FormatActuatorPayload(ch actuator.Channel, st actuator.State) ([]byte, error) {
	state := "OFF"
	if st.On {
		state = "ON"
	}
	payload := ActuatorPayload{
		Actuator: ActuatorInner{
			Channel:   string(ch),
			State:     state,
			Reason:    string(st.Reason),
			Timestamp: st.LastTransition.UTC().Format(time.RFC3339),
			Faulted:   st.Faulted,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload is the MQTT message payload for system events.
type SystemPayload struct {
	System SystemInner `json:"system"`
}

// SystemInner contains the system event details.
type SystemInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	payload := SystemPayload{
		System: SystemInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
