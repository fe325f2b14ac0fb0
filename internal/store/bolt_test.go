package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pentaplets/chamber-control/internal/sensor"
)

func openTestBolt(t *testing.T) *Bolt {
	t.Helper()
	b, err := OpenBolt(filepath.Join(t.TempDir(), "readings.db"))
	if err != nil {
		t.Fatalf("OpenBolt: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b
}

func TestBoltAppendAndHistoryOrder(t *testing.T) {
	b := openTestBolt(t)
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	// Append out of insertion order; the key is the timestamp.
	for _, i := range []int{2, 0, 1} {
		r := reading(i)
		r.Taken = base.Add(time.Duration(i) * 10 * time.Second)
		if err := b.Append(context.Background(), r); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := b.History(context.Background(), base)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 readings, got %d", len(got))
	}
	for i, r := range got {
		if r.ID != reading(i).ID {
			t.Errorf("entry %d: expected %s, got %s", i, reading(i).ID, r.ID)
		}
	}
}

func TestBoltHistorySinceFilters(t *testing.T) {
	b := openTestBolt(t)
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		r := reading(i)
		r.Taken = base.Add(time.Duration(i) * time.Minute)
		if err := b.Append(context.Background(), r); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := b.History(context.Background(), base.Add(3*time.Minute))
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 readings at or after cutoff, got %d", len(got))
	}
	if got[0].ID != reading(3).ID {
		t.Errorf("expected first entry r-3, got %s", got[0].ID)
	}
}

func TestBoltRoundTripsReadingFields(t *testing.T) {
	b := openTestBolt(t)
	want := sensor.Reading{
		ID:          "11111111-2222-3333-4444-555555555555",
		DeviceID:    "chamber-01",
		Taken:       time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
		Temperature: 19.5,
		Humidity:    88.2,
		LightLux:    512,
		CO2PPM:      950,
	}
	if err := b.Append(context.Background(), want); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := b.History(context.Background(), want.Taken.Add(-time.Second))
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 reading, got %d", len(got))
	}
	r := got[0]
	if r.ID != want.ID || r.DeviceID != want.DeviceID || !r.Taken.Equal(want.Taken) ||
		r.Temperature != want.Temperature || r.Humidity != want.Humidity ||
		r.LightLux != want.LightLux || r.CO2PPM != want.CO2PPM {
		t.Errorf("round trip mismatch: got %+v want %+v", r, want)
	}
}

func TestBoltPhasePersistence(t *testing.T) {
	b := openTestBolt(t)

	if _, _, ok, err := b.LoadPhase(); err != nil || ok {
		t.Fatalf("expected no persisted phase, ok=%v err=%v", ok, err)
	}

	at := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	if err := b.SavePhase("pinning", at); err != nil {
		t.Fatalf("SavePhase: %v", err)
	}

	name, got, ok, err := b.LoadPhase()
	if err != nil {
		t.Fatalf("LoadPhase: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted phase")
	}
	if name != "pinning" {
		t.Errorf("expected pinning, got %s", name)
	}
	if !got.Equal(at) {
		t.Errorf("expected activatedAt %v, got %v", at, got)
	}
}
