// Package config provides configuration helpers for go-coach commands.
package config

import (
	"os"
	"strconv"
	"time"
)

// Defaults for the coach server.
const (
	DefaultPort        = "8080"
	DefaultModelPath   = "models/yolov8n-pose.onnx"
	DefaultReferenceDB = "data/reference.db"
)

// Port returns the HTTP port from COACH_PORT env var or the default.
func Port() string {
	if p := os.Getenv("COACH_PORT"); p != "" {
		return p
	}
	return DefaultPort
}

// ModelPath returns the pose model path from COACH_MODEL env var or the default.
func ModelPath() string {
	if p := os.Getenv("COACH_MODEL"); p != "" {
		return p
	}
	return DefaultModelPath
}

// ReferenceDB returns the reference store path from COACH_REFERENCE_DB env var
// or the default. A missing file is not an error; the comparator falls back to
// built-in reference angles.
func ReferenceDB() string {
	if p := os.Getenv("COACH_REFERENCE_DB"); p != "" {
		return p
	}
	return DefaultReferenceDB
}

// GoogleAPIKey returns the Google Cloud API key for TTS, if set.
func GoogleAPIKey() string {
	return os.Getenv("GOOGLE_API_KEY")
}

// LogLevel returns the log level from COACH_LOG_LEVEL env var or "info".
func LogLevel() string {
	if l := os.Getenv("COACH_LOG_LEVEL"); l != "" {
		return l
	}
	return "info"
}

// SpeechCooldown returns the feedback cooldown from COACH_SPEECH_COOLDOWN
// (seconds) or the default of 5s. Screen text is never throttled; this only
// gates spoken feedback.
func SpeechCooldown() time.Duration {
	if s := os.Getenv("COACH_SPEECH_COOLDOWN"); s != "" {
		if secs, err := strconv.ParseFloat(s, 64); err == nil && secs > 0 {
			return time.Duration(secs * float64(time.Second))
		}
	}
	return 5 * time.Second
}
