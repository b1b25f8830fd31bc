package speech

import (
	"context"
	"sync"
	"time"
)

// Mock implements Backend for testing. It records utterances and can
// simulate latency or failure.
type Mock struct {
	// SpeakFunc, if set, overrides the default behavior.
	SpeakFunc func(ctx context.Context, text string) error

	// Delay simulates synthesis+playback time.
	Delay time.Duration

	mu     sync.Mutex
	spoken []string
	closed bool
}

// NewMock creates a mock backend.
func NewMock() *Mock {
	return &Mock{}
}

// Speak records the utterance (after the configured delay).
func (m *Mock) Speak(ctx context.Context, text string) error {
	if m.SpeakFunc != nil {
		return m.SpeakFunc(ctx, text)
	}

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.spoken = append(m.spoken, text)
	return nil
}

// Spoken returns a copy of everything spoken so far.
func (m *Mock) Spoken() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.spoken))
	copy(out, m.spoken)
	return out
}

// Closed reports whether Close was called.
func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Close marks the backend closed.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

var _ Backend = (*Mock)(nil)
