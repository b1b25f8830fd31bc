package pose

import "sync"

// MockDetector implements Detector for testing. It replays queued frames in
// order; once the queue is exhausted it reports "no person".
type MockDetector struct {
	// DetectFunc, if set, overrides the queued-frame behavior.
	DetectFunc func(jpeg []byte) (Frame, bool, error)

	mu     sync.Mutex
	queue  []Frame
	calls  int
	closed bool
}

// NewMockDetector creates a mock that replays the given frames.
func NewMockDetector(frames ...Frame) *MockDetector {
	return &MockDetector{queue: frames}
}

// Enqueue appends frames to the replay queue.
func (m *MockDetector) Enqueue(frames ...Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, frames...)
}

// Detect returns the next queued frame, or found=false when empty.
func (m *MockDetector) Detect(jpeg []byte) (Frame, bool, error) {
	if m.DetectFunc != nil {
		return m.DetectFunc(jpeg)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if len(m.queue) == 0 {
		return Frame{}, false, nil
	}
	f := m.queue[0]
	m.queue = m.queue[1:]
	return f, true, nil
}

// Calls returns how many times Detect was invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Close marks the detector closed.
func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Verify MockDetector implements Detector at compile time.
var _ Detector = (*MockDetector)(nil)
