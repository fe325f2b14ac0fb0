// Package sensor defines the chamber sensor capability and its Reading record.
// The chamber ships with a deterministic simulator as the default Reader;
// hardware drivers (SCD40, BH1750 and friends) plug in behind the same
// interface at composition time.
package sensor

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Reading is an immutable snapshot of the chamber environment.
// It is created once per poll cycle and never mutated afterwards.
type Reading struct {
	// ID uniquely identifies the reading so the primary store can
	// de-duplicate replays after a resync.
	ID       string `json:"id"`
	DeviceID string `json:"device_id"`
	// Taken carries both wall clock and, when produced by time.Now,
	// the monotonic reading for interval arithmetic.
	Taken       time.Time `json:"taken"`
	Temperature float64   `json:"temperature"` // °C
	Humidity    float64   `json:"humidity"`    // %RH
	LightLux    float64   `json:"light_lux"`   // lux
	CO2PPM      float64   `json:"co2_ppm"`     // ppm, advisory air-quality index
}

// NewID returns an identifier for a fresh reading.
func NewID() string {
	return uuid.NewString()
}

// Reader reads the chamber environment.
type Reader interface {
	// Read returns a measurement of the current environment. The call
	// must respect ctx: a deadline exceeded is reported as an error and
	// the caller skips the tick.
	Read(ctx context.Context) (Reading, error)

	// Close releases sensor resources.
	Close() error
}
