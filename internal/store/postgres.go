package store

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pentaplets/chamber-control/internal/sensor"
)

const readingsSchema = `
CREATE TABLE IF NOT EXISTS readings (
	id           uuid PRIMARY KEY,
	device_id    text NOT NULL,
	taken_at     timestamptz NOT NULL,
	temperature  double precision NOT NULL,
	humidity     double precision NOT NULL,
	light_lux    double precision NOT NULL,
	co2_ppm      double precision NOT NULL
);
CREATE INDEX IF NOT EXISTS readings_device_taken_idx ON readings (device_id, taken_at DESC);
`

const insertReading = `
INSERT INTO readings (id, device_id, taken_at, temperature, humidity, light_lux, co2_ppm)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO NOTHING
`

// Postgres is the primary, network-dependent target.
type Postgres struct {
	pool    *pgxpool.Pool
	timeout time.Duration

	mu          sync.Mutex
	schemaReady bool
}

// OpenPostgres creates the primary target. The pool is lazy: the database
// may be unreachable at startup and the failover manager will simply run
// on the fallback until a health check finds it.
func OpenPostgres(url string, timeout time.Duration) (*Postgres, error) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse postgres url: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}
	p := &Postgres{pool: pool, timeout: timeout}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := p.ensureSchema(ctx); err != nil {
		log.Printf("store: postgres schema not ready yet: %v", err)
	}
	return p, nil
}

// Append stores one reading. ON CONFLICT DO NOTHING makes resync replays
// idempotent on the reading ID.
func (p *Postgres) Append(ctx context.Context, r sensor.Reading) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	_, err := p.pool.Exec(ctx, insertReading,
		r.ID, r.DeviceID, r.Taken.UTC(), r.Temperature, r.Humidity, r.LightLux, r.CO2PPM)
	if err != nil {
		return fmt.Errorf("insert reading: %w", err)
	}
	return nil
}

// Available pings the database, creating the schema on first contact.
func (p *Postgres) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.pool.Ping(ctx); err != nil {
		return false
	}
	if err := p.ensureSchema(ctx); err != nil {
		log.Printf("store: postgres schema setup failed: %v", err)
		return false
	}
	return true
}

// Name identifies the target in status reports.
func (p *Postgres) Name() string {
	return "postgres"
}

// Close releases the connection pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

func (p *Postgres) ensureSchema(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.schemaReady {
		return nil
	}
	if _, err := p.pool.Exec(ctx, readingsSchema); err != nil {
		return err
	}
	p.schemaReady = true
	return nil
}
