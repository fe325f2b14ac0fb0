package telemetry

import (
	"github.com/pentaplets/chamber-control/internal/actuator"
	"github.com/pentaplets/chamber-control/internal/sensor"
)

// ActuatorEvent records one published actuator transition.
type ActuatorEvent struct {
	Ch    actuator.Channel
	State actuator.State
}

// FakePublisher records published events for test assertions.
type FakePublisher struct {
	// Readings contains all readings that were published.
	Readings []sensor.Reading

	// ActuatorEvents contains all actuator transitions that were published.
	ActuatorEvents []ActuatorEvent

	// SystemEvents contains all system events that were published.
	SystemEvents []SystemEvent

	// PublishError, if set, will be returned by all Publish methods.
	PublishError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// PublishReading records the reading.
func (f *FakePublisher) PublishReading(r sensor.Reading) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	f.Readings = append(f.Readings, r)
	return nil
}

// PublishActuator records the transition.
func (f *FakePublisher) PublishActuator(ch actuator.Channel, st actuator.State) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	f.ActuatorEvents = append(f.ActuatorEvents, ActuatorEvent{Ch: ch, State: st})
	return nil
}

// PublishSystem records the system event.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	f.SystemEvents = append(f.SystemEvents, event)
	return nil
}

// IsConnected reports whether the fake publisher is "connected".
func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

// Reset clears recorded events.
func (f *FakePublisher) Reset() {
	f.Readings = nil
	f.ActuatorEvents = nil
	f.SystemEvents = nil
	f.PublishError = nil
	f.Closed = false
	f.Connected = false
}
