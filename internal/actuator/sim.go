package actuator

import "log"

// SimDriver logs transitions instead of driving hardware. It is the relay
// capability selected in simulation mode.
type SimDriver struct{}

// NewSimDriver creates a SimDriver.
func NewSimDriver() *SimDriver {
	return &SimDriver{}
}

// Set logs the transition.
func (s *SimDriver) Set(ch Channel, on bool) error {
	state := "OFF"
	if on {
		state = "ON"
	}
	log.Printf("actuator: %s -> %s (simulated)", ch, state)
	return nil
}

// Close is a no-op for the simulator.
func (s *SimDriver) Close() error {
	return nil
}
