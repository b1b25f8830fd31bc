package speech

import (
	"context"
	"sync"
	"time"

	"github.com/teslashibe/go-coach/internal/log"
)

// Request is one spoken-text request, tagged by originating session so a
// shared output device can serialize across sessions.
type Request struct {
	SessionID string
	Text      string

	stop bool // sentinel: worker exits after draining up to this point
}

// Dispatcher is the single-consumer speech queue. Multiple sessions may
// enqueue concurrently; one worker goroutine serializes utterances because
// a device can speak only one at a time.
type Dispatcher struct {
	backend Backend
	config  Config
	queue   chan Request

	mu      sync.Mutex
	stopped bool
	done    chan struct{}
}

// NewDispatcher creates a dispatcher over the given backend and starts its
// worker goroutine.
func NewDispatcher(backend Backend, config Config) *Dispatcher {
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultConfig().QueueSize
	}
	d := &Dispatcher{
		backend: backend,
		config:  config,
		queue:   make(chan Request, config.QueueSize),
		done:    make(chan struct{}),
	}
	go d.worker()
	return d
}

// Enqueue submits a speak request without blocking. Requests are dropped
// (with a debug log) when the queue is full or the dispatcher has stopped;
// the caller's screen text is unaffected either way.
func (d *Dispatcher) Enqueue(sessionID, text string) error {
	if text == "" {
		return nil
	}

	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return ErrStopped
	}
	d.mu.Unlock()

	select {
	case d.queue <- Request{SessionID: sessionID, Text: text}:
		return nil
	default:
		log.Debug("speech queue full, dropping", "session", sessionID, "text", text)
		return nil
	}
}

// Stop pushes the stop sentinel, waits for the worker to drain and exit,
// then closes the backend. Safe to call once.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	d.mu.Unlock()

	d.queue <- Request{stop: true}
	<-d.done

	if err := d.backend.Close(); err != nil {
		log.Warn("speech backend close failed", "error", err)
	}
}

// worker processes one request at a time. Requests that queued up while a
// previous utterance played are dropped if they would speak too soon after
// it: stale coaching spoken late is worse than silence.
func (d *Dispatcher) worker() {
	defer close(d.done)

	var lastSpoke time.Time
	for req := range d.queue {
		if req.stop {
			return
		}

		if !lastSpoke.IsZero() && time.Since(lastSpoke) < d.config.MinGap {
			log.Debug("speech throttled, dropping", "session", req.SessionID, "text", req.Text)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), d.config.Timeout)
		err := d.backend.Speak(ctx, req.Text)
		cancel()
		if err != nil {
			// Recoverable: the screen text already carried the message
			log.Warn("speech backend failed", "session", req.SessionID, "error", err)
			continue
		}
		lastSpoke = time.Now()
	}
}
