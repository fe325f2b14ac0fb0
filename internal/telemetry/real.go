package telemetry

import (
	"fmt"
	"log"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/pentaplets/chamber-control/internal/actuator"
	"github.com/pentaplets/chamber-control/internal/sensor"
)

// RealPublisher publishes to an actual MQTT broker.
type RealPublisher struct {
	client   paho.Client
	deviceID string
}

// NewRealPublisher creates a publisher for the given broker. A broker
// that is down at startup is not fatal: the client keeps retrying in the
// background and publishes fail with a bounded timeout until it connects.
func NewRealPublisher(broker, deviceID string) (*RealPublisher, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("chamber-control-" + deviceID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		log.Printf("telemetry: broker %s not reachable yet, retrying in background", broker)
	} else if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return &RealPublisher{client: client, deviceID: deviceID}, nil
}

// PublishReading sends a reading to the MQTT broker.
func (p *RealPublisher) PublishReading(r sensor.Reading) error {
	payload, err := FormatReadingPayload(r)
	if err != nil {
		return fmt.Errorf("format reading payload: %w", err)
	}
	// QoS 0 (at-most-once): readings are durable in the stores, the
	// live feed is best effort.
	return p.publish(TopicReadings+"/"+p.deviceID, 0, false, payload)
}

// PublishActuator sends an actuator transition to the MQTT broker.
func (p *RealPublisher) PublishActuator(ch actuator.Channel, st actuator.State) error {
	payload, err := FormatActuatorPayload(ch, st)
	if err != nil {
		return fmt.Errorf("format actuator payload: %w", err)
	}
	// QoS 1 and retained so a reconnecting dashboard sees current state.
	return p.publish(TopicActuators+"/"+p.deviceID+"/"+string(ch), 1, true, payload)
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	// QoS 1 (at-least-once) for lifecycle events - we want delivery.
	return p.publish(TopicSystem+"/"+p.deviceID, 1, event.Retained, payload)
}

// IsConnected reports whether the broker connection is up.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}

func (p *RealPublisher) publish(topic string, qos byte, retained bool, payload []byte) error {
	token := p.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}
