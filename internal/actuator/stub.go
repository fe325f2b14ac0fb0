//go:build !linux

package actuator

import "errors"

// Relays is not available on non-Linux platforms.
type Relays struct{}

// NewRelays returns an error on non-Linux platforms.
func NewRelays(pins map[Channel]int) (*Relays, error) {
	return nil, errors.New("actuator: relays not supported on this platform (requires Linux)")
}

// Set is not implemented on non-Linux platforms.
func (r *Relays) Set(ch Channel, on bool) error {
	return errors.New("actuator: relays not supported")
}

// Close is not implemented on non-Linux platforms.
func (r *Relays) Close() error {
	return nil
}
