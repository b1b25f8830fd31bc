// Coach server - real-time exercise coaching over HTTP/websocket.
//
// Wires the pose detector, reference store, speech dispatcher, and session
// manager behind the web API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/teslashibe/go-coach/internal/config"
	"github.com/teslashibe/go-coach/internal/log"
	"github.com/teslashibe/go-coach/pkg/pose"
	"github.com/teslashibe/go-coach/pkg/reference"
	"github.com/teslashibe/go-coach/pkg/session"
	"github.com/teslashibe/go-coach/pkg/speech"
	"github.com/teslashibe/go-coach/pkg/web"
)

func main() {
	log.Init(config.LogLevel())

	// Pose detector
	detectorCfg := pose.DefaultDetectorConfig()
	detectorCfg.ModelPath = config.ModelPath()
	detector, err := pose.NewYOLO(detectorCfg)
	if err != nil {
		log.Fatal("load pose detector", "error", err)
	}
	defer detector.Close()
	log.Info("pose detector loaded", "model", detectorCfg.ModelPath)

	// Reference store: unavailable is fine, sessions fall back
	var store reference.Store
	if s, err := reference.OpenSQLite(config.ReferenceDB()); err != nil {
		log.Warn("reference store unavailable", "path", config.ReferenceDB(), "error", err)
	} else {
		store = s
		defer s.Close()
	}

	// Speech: Google TTS when a key is set, local synthesizer otherwise
	dispatcher := speech.NewDispatcher(newSpeechBackend(), speech.DefaultConfig())
	defer dispatcher.Stop()

	manager := session.NewManager(session.ManagerConfig{
		Store:      store,
		Dispatcher: dispatcher,
		Cooldown:   config.SpeechCooldown(),
	})

	server := web.NewServer(config.Port(), manager, detector)

	// Handle Ctrl+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("shutting down")
		server.Shutdown()
	}()

	log.Info("coach server listening", "port", config.Port())
	if err := server.Start(); err != nil {
		log.Fatal("server failed", "error", err)
	}
}

// newSpeechBackend picks the best available speech backend.
func newSpeechBackend() speech.Backend {
	if key := config.GoogleAPIKey(); key != "" {
		backend, err := speech.NewGoogle(context.Background(), key)
		if err == nil {
			log.Info("speech backend: google cloud tts")
			return backend
		}
		log.Warn("google tts unavailable, falling back to local", "error", err)
	}
	log.Info("speech backend: local synthesizer")
	return speech.NewLocal()
}
