package speech

import (
	"context"
	"os/exec"
	"runtime"
)

// Local speaks through the native OS synthesizer command: say on macOS,
// espeak elsewhere. No API key, no network; the fallback when cloud TTS is
// not configured.
type Local struct {
	command string
}

// NewLocal creates a local command-line speech backend.
func NewLocal() *Local {
	cmd := "espeak"
	if runtime.GOOS == "darwin" {
		cmd = "say"
	}
	return &Local{command: cmd}
}

// Speak runs the synthesizer command and blocks until it exits.
func (l *Local) Speak(ctx context.Context, text string) error {
	return exec.CommandContext(ctx, l.command, text).Run()
}

// Close is a no-op.
func (l *Local) Close() error {
	return nil
}

var _ Backend = (*Local)(nil)
