package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/teslashibe/go-coach/internal/log"
	"github.com/teslashibe/go-coach/pkg/exercise"
	"github.com/teslashibe/go-coach/pkg/feedback"
	"github.com/teslashibe/go-coach/pkg/reference"
	"github.com/teslashibe/go-coach/pkg/speech"
)

// ErrSessionNotFound is returned for unknown session handles.
var ErrSessionNotFound = errors.New("session: not found")

// ManagerConfig wires the manager's optional collaborators.
type ManagerConfig struct {
	// Store provides reference angles; nil or failing stores fall back
	// to built-in values.
	Store reference.Store

	// Dispatcher carries spoken feedback; nil disables voice.
	Dispatcher *speech.Dispatcher

	// Cooldown between spoken coaching messages.
	Cooldown time.Duration
}

// Manager owns the active sessions. It is the session control surface the
// web and CLI layers consume: start, lookup, end.
type Manager struct {
	config ManagerConfig

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewManager creates an empty session manager.
func NewManager(config ManagerConfig) *Manager {
	if config.Cooldown <= 0 {
		config.Cooldown = feedback.DefaultCooldown
	}
	return &Manager{
		config:   config,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Start creates a session for the named exercise profile and returns its
// handle. Reference data is loaded once here; an unreadable store logs a
// warning and falls back, never failing the start.
func (m *Manager) Start(exerciseName string) (*Session, error) {
	profile, err := exercise.ProfileByName(exerciseName)
	if err != nil {
		return nil, err
	}

	ref := m.loadReference(profile.Name)
	comparator := reference.NewComparator(ref, reference.DefaultTolerance)

	s := New(profile, comparator, m.config.Dispatcher, m.config.Cooldown)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	log.Info("session started", "id", s.ID, "exercise", profile.Name)
	return s, nil
}

// Get returns an active session by handle.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// End removes a session and returns its final repetition count.
func (m *Manager) End(id uuid.UUID) (int, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return 0, ErrSessionNotFound
	}

	final := s.RepCount()
	log.Info("session ended", "id", id, "exercise", s.Exercise.Name, "reps", final)
	return final, nil
}

// Active returns the number of active sessions.
func (m *Manager) Active() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// loadReference loads reference angles for a profile, falling back to the
// built-in values when the store is missing, unreadable, or incomplete.
func (m *Manager) loadReference(name string) reference.Profile {
	if m.config.Store == nil {
		return reference.FallbackProfile(name)
	}
	ref, err := m.config.Store.Load(name)
	if err != nil {
		log.Warn("reference store unavailable, using fallback", "exercise", name, "error", err)
		return reference.FallbackProfile(name)
	}
	return ref
}
