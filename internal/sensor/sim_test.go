package sensor

import (
	"context"
	"testing"
	"time"
)

func TestSimReadingBounds(t *testing.T) {
	noon := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	sim := NewSim("chamber-01", func() time.Time { return noon })

	r, err := sim.Read(context.Background())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if r.ID == "" || r.DeviceID != "chamber-01" {
		t.Errorf("identity not stamped: %+v", r)
	}
	if !r.Taken.Equal(noon) {
		t.Errorf("taken = %v, want %v", r.Taken, noon)
	}
	if r.Temperature < 18 || r.Temperature > 24 {
		t.Errorf("temperature %v outside simulated band", r.Temperature)
	}
	if r.Humidity < 75 || r.Humidity > 90 {
		t.Errorf("humidity %v outside simulated band", r.Humidity)
	}
	if r.CO2PPM < 550 || r.CO2PPM > 1050 {
		t.Errorf("co2 %v outside simulated band", r.CO2PPM)
	}
	if r.LightLux < 100 {
		t.Errorf("midday light %v too dim", r.LightLux)
	}
}

func TestSimDarkAtNight(t *testing.T) {
	midnight := time.Date(2026, 3, 14, 0, 30, 0, 0, time.UTC)
	sim := NewSim("chamber-01", func() time.Time { return midnight })

	r, err := sim.Read(context.Background())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if r.LightLux >= 50 {
		t.Errorf("night light %v, want < 50", r.LightLux)
	}
}

func TestSimHonorsContext(t *testing.T) {
	sim := NewSim("chamber-01", nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := sim.Read(ctx); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
