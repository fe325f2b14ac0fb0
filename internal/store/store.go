// Package store persists chamber readings to a primary (remote) and a
// fallback (local) target, with automatic failover and resynchronization.
package store

import (
	"context"

	"github.com/pentaplets/chamber-control/internal/sensor"
)

// Target is a persistence destination for readings.
type Target interface {
	// Append stores one reading. Appends are idempotent on reading ID so
	// a resync replay cannot duplicate rows.
	Append(ctx context.Context, r sensor.Reading) error

	// Available probes whether the target can currently accept writes.
	Available(ctx context.Context) bool

	// Name identifies the target in status reports.
	Name() string
}
