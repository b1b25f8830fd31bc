// Package speech provides asynchronous spoken feedback.
//
// The Dispatcher owns one worker goroutine and a bounded queue; enqueueing
// never blocks the frame-processing loop. Backends turn text into audible
// speech: Google Cloud TTS, the local say/espeak command, or a mock for
// tests. A speech failure is never fatal; feedback still renders on screen.
package speech

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for common conditions.
var (
	// ErrNoAPIKey is returned when a cloud backend is missing its key.
	ErrNoAPIKey = errors.New("speech: API key required")

	// ErrStopped is returned when enqueueing after Stop.
	ErrStopped = errors.New("speech: dispatcher stopped")

	// ErrBackendUnavailable is returned when no speech backend could be
	// constructed.
	ErrBackendUnavailable = errors.New("speech: no backend available")
)

// Backend synthesizes and plays one utterance. Implementations block until
// playback completes; only the dispatcher's worker calls them, so the
// frame loop never waits on synthesis.
type Backend interface {
	// Speak synthesizes text and plays it to completion.
	Speak(ctx context.Context, text string) error

	// Close releases backend resources.
	Close() error
}

// Config holds dispatcher configuration.
type Config struct {
	// QueueSize bounds the pending-request queue. When the producer-side
	// cooldown is respected the queue rarely exceeds depth 1.
	QueueSize int

	// MinGap is the dispatcher's own throttle, separate from the feedback
	// arbiter's cooldown: requests that arrive while a backlog would
	// cause delayed, out-of-context speech are dropped instead.
	MinGap time.Duration

	// Timeout bounds a single synthesis+playback call.
	Timeout time.Duration
}

// DefaultConfig returns sensible dispatcher defaults.
func DefaultConfig() Config {
	return Config{
		QueueSize: 16,
		MinGap:    2 * time.Second,
		Timeout:   15 * time.Second,
	}
}
