//go:build linux

package actuator

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// Relays drives relay channels through the Linux GPIO character device.
type Relays struct {
	chip  *gpiocdev.Chip
	lines map[Channel]*gpiocdev.Line
}

// NewRelays requests the configured pins as outputs, all off.
func NewRelays(pins map[Channel]int) (*Relays, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	r := &Relays{chip: chip, lines: make(map[Channel]*gpiocdev.Line, len(pins))}
	for _, ch := range Channels {
		pin, ok := pins[ch]
		if !ok {
			r.Close()
			return nil, fmt.Errorf("no pin configured for channel %s", ch)
		}
		line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", ch, pin, err)
		}
		r.lines[ch] = line
	}
	return r, nil
}

// Set drives the relay line for the channel.
func (r *Relays) Set(ch Channel, on bool) error {
	line, ok := r.lines[ch]
	if !ok {
		return fmt.Errorf("unknown channel %s", ch)
	}
	v := 0
	if on {
		v = 1
	}
	if err := line.SetValue(v); err != nil {
		return fmt.Errorf("set %s: %w", ch, err)
	}
	return nil
}

// Close turns every relay off and releases GPIO resources.
func (r *Relays) Close() error {
	var errs []error
	for ch, line := range r.lines {
		if err := line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear %s: %w", ch, err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", ch, err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
