package sensor

import (
	"context"
	"errors"
)

// FakeReader is a test double that returns scripted readings.
type FakeReader struct {
	// Samples contains scripted readings to return.
	// Each call to Read() consumes the next sample.
	Samples []Reading

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples []Reading) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Read returns the next scripted reading.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeReader) Read(ctx context.Context) (Reading, error) {
	if f.ReadError != nil {
		return Reading{}, f.ReadError
	}
	if err := ctx.Err(); err != nil {
		return Reading{}, err
	}

	if len(f.Samples) == 0 {
		return Reading{}, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return sample, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the reader to the beginning of samples.
func (f *FakeReader) Reset() {
	f.index = 0
	f.Closed = false
}
