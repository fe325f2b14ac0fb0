package actuator

import "sync"

// Call records a single relay write.
type Call struct {
	Ch Channel
	On bool
}

// FakeDriver is a test double that records relay writes.
type FakeDriver struct {
	mu sync.Mutex

	// Calls contains every Set invocation in order.
	Calls []Call

	// SetError, if set, will be returned by Set.
	SetError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeDriver creates a FakeDriver for testing.
func NewFakeDriver() *FakeDriver {
	return &FakeDriver{}
}

// Set records the write.
func (f *FakeDriver) Set(ch Channel, on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SetError != nil {
		return f.SetError
	}
	f.Calls = append(f.Calls, Call{Ch: ch, On: on})
	return nil
}

// Close marks the driver as closed.
func (f *FakeDriver) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

// CallsFor returns the recorded writes for one channel.
func (f *FakeDriver) CallsFor(ch Channel) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Call
	for _, c := range f.Calls {
		if c.Ch == ch {
			out = append(out, c)
		}
	}
	return out
}

// Reset clears recorded calls.
func (f *FakeDriver) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = nil
	f.SetError = nil
	f.Closed = false
}
