// Package actuator drives the chamber's relay channels with debounced,
// dwell-limited transitions. The real implementation uses the Linux GPIO
// character device; the fake implementation allows testing without relays.
package actuator

import (
	"fmt"
	"time"
)

// Channel identifies a controlled relay.
type Channel string

const (
	Fogger Channel = "fogger"
	Fan    Channel = "fan"
	Light  Channel = "light"
)

// Channels lists all controlled channels.
var Channels = []Channel{Fogger, Fan, Light}

// ParseChannel converts a channel name from the dashboard API.
func ParseChannel(name string) (Channel, error) {
	for _, c := range Channels {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown channel %q", name)
}

// Reason records what caused a transition.
type Reason string

const (
	ReasonAuto   Reason = "auto"
	ReasonManual Reason = "manual"
)

// State is the recorded logical state of one channel.
type State struct {
	On             bool
	Reason         Reason
	LastTransition time.Time

	// OverrideUntil, when non-zero and in the future, suspends Auto
	// control of this channel.
	OverrideUntil time.Time

	// Faulted marks that the last relay write failed: the recorded
	// logical state may diverge from the physical relay until the next
	// successful write.
	Faulted bool
}

// Overridden reports whether Auto control is suspended at the given time.
func (s State) Overridden(now time.Time) bool {
	return !s.OverrideUntil.IsZero() && now.Before(s.OverrideUntil)
}

// Driver sets physical relay states.
type Driver interface {
	// Set drives the relay for the channel. Failure is reported as a
	// channel fault; the coordinator keeps its logical state.
	Set(ch Channel, on bool) error

	// Close releases relay resources.
	Close() error
}

// Default BCM pin assignments for the relay board.
const (
	DefaultPinFogger = 18
	DefaultPinFan    = 19
	DefaultPinLight  = 21
)

// DefaultPins returns the stock channel-to-pin mapping.
func DefaultPins() map[Channel]int {
	return map[Channel]int{
		Fogger: DefaultPinFogger,
		Fan:    DefaultPinFan,
		Light:  DefaultPinLight,
	}
}
