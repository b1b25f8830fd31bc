package speech_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/teslashibe/go-coach/pkg/speech"
)

// waitFor polls until cond holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestDispatcherSpeaks(t *testing.T) {
	mock := speech.NewMock()
	d := speech.NewDispatcher(mock, speech.Config{QueueSize: 4, Timeout: time.Second})

	if err := d.Enqueue("s1", "hello"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	waitFor(t, func() bool { return len(mock.Spoken()) == 1 })

	if got := mock.Spoken()[0]; got != "hello" {
		t.Errorf("expected %q, got %q", "hello", got)
	}
	d.Stop()
}

func TestDispatcherEnqueueNeverBlocks(t *testing.T) {
	// A stuck backend must not stall producers.
	release := make(chan struct{})
	mock := speech.NewMock()
	mock.SpeakFunc = func(ctx context.Context, text string) error {
		select {
		case <-release:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	d := speech.NewDispatcher(mock, speech.Config{QueueSize: 1, Timeout: 10 * time.Second})
	defer func() {
		close(release)
		d.Stop()
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			d.Enqueue("s1", "line")
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
}

func TestDispatcherStop(t *testing.T) {
	mock := speech.NewMock()
	d := speech.NewDispatcher(mock, speech.Config{QueueSize: 4, Timeout: time.Second})

	d.Enqueue("s1", "before stop")
	d.Stop()

	if !mock.Closed() {
		t.Error("Stop should close the backend")
	}
	if err := d.Enqueue("s1", "after stop"); !errors.Is(err, speech.ErrStopped) {
		t.Errorf("expected ErrStopped after Stop, got %v", err)
	}

	// Queued work ahead of the sentinel was drained.
	if got := mock.Spoken(); len(got) != 1 || got[0] != "before stop" {
		t.Errorf("expected the queued line drained, got %v", got)
	}
}

func TestDispatcherStopIdempotent(t *testing.T) {
	d := speech.NewDispatcher(speech.NewMock(), speech.DefaultConfig())
	d.Stop()
	d.Stop() // must not panic or deadlock
}

func TestDispatcherThrottle(t *testing.T) {
	mock := speech.NewMock()
	d := speech.NewDispatcher(mock, speech.Config{
		QueueSize: 8,
		MinGap:    time.Hour,
		Timeout:   time.Second,
	})

	d.Enqueue("s1", "first")
	waitFor(t, func() bool { return len(mock.Spoken()) == 1 })

	// Everything inside the gap is dropped, not queued for later.
	d.Enqueue("s1", "second")
	d.Enqueue("s1", "third")
	d.Stop()

	if got := mock.Spoken(); len(got) != 1 {
		t.Errorf("expected throttled lines dropped, got %v", got)
	}
}

func TestDispatcherBackendFailureIsRecoverable(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	mock := speech.NewMock()
	mock.SpeakFunc = func(ctx context.Context, text string) error {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls == 1 {
			return errors.New("synthesis failed")
		}
		return nil
	}
	d := speech.NewDispatcher(mock, speech.Config{QueueSize: 4, Timeout: time.Second})

	d.Enqueue("s1", "fails")
	d.Enqueue("s1", "works")
	d.Stop()

	mu.Lock()
	defer mu.Unlock()
	if calls != 2 {
		t.Errorf("a failed utterance should not stop the worker, got %d calls", calls)
	}
}

func TestDispatcherEmptyTextIgnored(t *testing.T) {
	mock := speech.NewMock()
	d := speech.NewDispatcher(mock, speech.DefaultConfig())

	if err := d.Enqueue("s1", ""); err != nil {
		t.Fatalf("empty text should be a no-op, got %v", err)
	}
	d.Stop()
	if len(mock.Spoken()) != 0 {
		t.Errorf("nothing should be spoken, got %v", mock.Spoken())
	}
}
