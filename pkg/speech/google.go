package speech

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"google.golang.org/api/option"
	texttospeech "google.golang.org/api/texttospeech/v1"
)

const defaultGoogleVoice = "en-US-Neural2-F"

// Google synthesizes speech with the Google Cloud Text-to-Speech API and
// plays the result through a local player process.
type Google struct {
	service *texttospeech.Service
	voice   string
	player  string
}

// NewGoogle creates a Google TTS backend authenticated by API key.
func NewGoogle(ctx context.Context, apiKey string) (*Google, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	service, err := texttospeech.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create tts service: %w", err)
	}

	return &Google{
		service: service,
		voice:   defaultGoogleVoice,
		player:  defaultPlayer(),
	}, nil
}

// SetVoice overrides the default voice name.
func (g *Google) SetVoice(voice string) {
	g.voice = voice
}

// Speak synthesizes text and blocks until local playback completes.
func (g *Google) Speak(ctx context.Context, text string) error {
	req := &texttospeech.SynthesizeSpeechRequest{
		Input: &texttospeech.SynthesisInput{Text: text},
		Voice: &texttospeech.VoiceSelectionParams{
			LanguageCode: "en-US",
			Name:         g.voice,
		},
		AudioConfig: &texttospeech.AudioConfig{
			AudioEncoding: "MP3",
		},
	}

	resp, err := g.service.Text.Synthesize(req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("synthesize: %w", err)
	}

	audio, err := base64.StdEncoding.DecodeString(resp.AudioContent)
	if err != nil {
		return fmt.Errorf("decode audio: %w", err)
	}

	return playMP3(ctx, g.player, audio)
}

// Close releases backend resources. The HTTP-based service holds none.
func (g *Google) Close() error {
	return nil
}

// defaultPlayer picks a local MP3 player command for this platform.
func defaultPlayer() string {
	if runtime.GOOS == "darwin" {
		return "afplay"
	}
	return "mpg123"
}

// playMP3 writes the audio to a temp file and plays it with the given
// command, blocking until playback finishes.
func playMP3(ctx context.Context, player string, audio []byte) error {
	f, err := os.CreateTemp("", "coach-speech-*.mp3")
	if err != nil {
		return fmt.Errorf("temp audio file: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(audio); err != nil {
		f.Close()
		return fmt.Errorf("write audio: %w", err)
	}
	f.Close()

	cmd := exec.CommandContext(ctx, player, f.Name())
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("play audio: %w", err)
	}
	return nil
}

var _ Backend = (*Google)(nil)
