// Package phase tracks the cultivation lifecycle of the chamber.
// Phases are totally ordered; automatic advancement only ever moves
// forward, and a backward transition (starting a new cultivation cycle)
// requires an explicit force flag.
package phase

import (
	"fmt"

	"github.com/pentaplets/chamber-control/internal/logic"
)

// Phase is a named stage of the cultivation lifecycle.
type Phase int

const (
	Inoculation Phase = iota
	Colonization
	Pinning
	Fruiting
)

// All lists the phases in canonical order.
var All = []Phase{Inoculation, Colonization, Pinning, Fruiting}

func (p Phase) String() string {
	switch p {
	case Inoculation:
		return "inoculation"
	case Colonization:
		return "colonization"
	case Pinning:
		return "pinning"
	case Fruiting:
		return "fruiting"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Parse converts a phase name to a Phase.
func Parse(name string) (Phase, error) {
	for _, p := range All {
		if p.String() == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", name)
}

// Targets are the environmental targets and schedule of one phase.
type Targets struct {
	Ranges       logic.Ranges
	DurationDays int
}

// DefaultTargets returns the stock cultivation profile.
func DefaultTargets() map[Phase]Targets {
	return map[Phase]Targets{
		Inoculation: {
			Ranges:       logic.Ranges{TempMin: 20, TempMax: 22, HumidityMin: 60, HumidityMax: 70, LightOnHour: 6, LightOffHour: 18},
			DurationDays: 14,
		},
		Colonization: {
			Ranges:       logic.Ranges{TempMin: 22, TempMax: 24, HumidityMin: 70, HumidityMax: 80, LightOnHour: 6, LightOffHour: 18},
			DurationDays: 21,
		},
		Pinning: {
			Ranges:       logic.Ranges{TempMin: 18, TempMax: 20, HumidityMin: 85, HumidityMax: 95, LightRequired: true, LightOnHour: 6, LightOffHour: 18},
			DurationDays: 7,
		},
		Fruiting: {
			Ranges:       logic.Ranges{TempMin: 18, TempMax: 22, HumidityMin: 80, HumidityMax: 90, LightRequired: true, LightOnHour: 6, LightOffHour: 18},
			DurationDays: 14,
		},
	}
}
