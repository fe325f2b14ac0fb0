package store

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/pentaplets/chamber-control/internal/sensor"
)

var (
	readingsBucket = []byte("readings")
	metaBucket     = []byte("meta")
	phaseKey       = []byte("phase")
)

// Bolt is the local fallback target. It is assumed always available; an
// Append failure here means the disk itself is in trouble and is surfaced
// to the operator. It also serves history queries and holds the phase
// metadata, since it is the one store guaranteed to have the full series.
type Bolt struct {
	db *bolt.DB
}

// OpenBolt opens (creating if needed) the local reading store.
func OpenBolt(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt store: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(readingsBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(metaBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create buckets: %w", err)
	}
	return &Bolt{db: db}, nil
}

// Append stores the reading keyed by its timestamp, preserving series order.
func (b *Bolt) Append(ctx context.Context, r sensor.Reading) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	val, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode reading: %w", err)
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(readingsBucket).Put(readingKey(r), val)
	})
}

// Available always reports true; the fallback is the durability floor.
func (b *Bolt) Available(ctx context.Context) bool {
	return true
}

// Name identifies the target in status reports.
func (b *Bolt) Name() string {
	return "local"
}

// History returns readings taken at or after since, oldest first.
func (b *Bolt) History(ctx context.Context, since time.Time) ([]sensor.Reading, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []sensor.Reading
	err := b.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(readingsBucket).Cursor()
		seek := make([]byte, 8)
		binary.BigEndian.PutUint64(seek, uint64(since.UnixNano()))
		for k, v := c.Seek(seek); k != nil; k, v = c.Next() {
			var r sensor.Reading
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("decode reading %x: %w", k, err)
			}
			out = append(out, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// phaseRecord is the persisted phase state.
type phaseRecord struct {
	Phase       string    `json:"phase"`
	ActivatedAt time.Time `json:"activated_at"`
}

// LoadPhase implements phase.Store.
func (b *Bolt) LoadPhase() (string, time.Time, bool, error) {
	var rec phaseRecord
	var found bool
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(metaBucket).Get(phaseKey)
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &rec)
	})
	if err != nil {
		return "", time.Time{}, false, fmt.Errorf("load phase: %w", err)
	}
	return rec.Phase, rec.ActivatedAt, found, nil
}

// SavePhase implements phase.Store.
func (b *Bolt) SavePhase(name string, activatedAt time.Time) error {
	val, err := json.Marshal(phaseRecord{Phase: name, ActivatedAt: activatedAt})
	if err != nil {
		return fmt.Errorf("encode phase: %w", err)
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(metaBucket).Put(phaseKey, val)
	})
}

// Close releases the database file.
func (b *Bolt) Close() error {
	return b.db.Close()
}

// readingKey orders readings by time, with the ID as a tiebreaker for
// same-nanosecond entries.
func readingKey(r sensor.Reading) []byte {
	key := make([]byte, 8, 8+len(r.ID))
	binary.BigEndian.PutUint64(key, uint64(r.Taken.UnixNano()))
	return append(key, r.ID...)
}
