// Package session owns the per-session coaching pipeline: smoothing,
// kinematics, rep counting, form comparison, and feedback for one user.
//
// Every piece of mutable state lives on the Session; nothing is process
// global, so concurrent sessions are independent and tests need no teardown.
package session

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/teslashibe/go-coach/pkg/exercise"
	"github.com/teslashibe/go-coach/pkg/feedback"
	"github.com/teslashibe/go-coach/pkg/kinematics"
	"github.com/teslashibe/go-coach/pkg/pose"
	"github.com/teslashibe/go-coach/pkg/reference"
	"github.com/teslashibe/go-coach/pkg/speech"
)

// User-facing prompts for the recoverable per-frame conditions.
const (
	msgNoPerson        = "No person detected"
	msgEnterFrame      = "Please fully enter the frame"
	msgCannotCalibrate = "Shoulders not visible - cannot calibrate"
)

// ErrCannotCalibrate is returned when the calibration frame does not show
// both shoulders.
var ErrCannotCalibrate = errors.New("session: " + msgCannotCalibrate)

// FrameResult is the engine's answer for one processed frame.
type FrameResult struct {
	Success      bool               `json:"success"`
	Error        string             `json:"error,omitempty"`
	RepCount     int                `json:"rep_count"`
	RepCompleted bool               `json:"rep_completed,omitempty"`
	Feedback     feedback.Event     `json:"feedback"`
	Angles       map[string]float64 `json:"angles,omitempty"`
	Form         *reference.Result  `json:"form,omitempty"`
}

// Session is one active coaching session. Methods are safe for concurrent
// use, though frames are expected from a single driver loop.
type Session struct {
	ID        uuid.UUID
	Exercise  exercise.Profile
	StartedAt time.Time

	mu         sync.Mutex
	smoother   *pose.Smoother
	machine    exercise.Machine
	comparator *reference.Comparator
	arbiter    *feedback.Arbiter
	dispatcher *speech.Dispatcher
	threshold  float64

	repCount   int
	scale      float64
	calibrated bool
}

// New creates a session for an exercise profile. comparator and dispatcher
// may be nil: form scoring and voice output are optional collaborators and
// never gate rep counting.
func New(profile exercise.Profile, comparator *reference.Comparator, dispatcher *speech.Dispatcher, cooldown time.Duration) *Session {
	return &Session{
		ID:         uuid.New(),
		Exercise:   profile,
		StartedAt:  time.Now(),
		smoother:   pose.NewSmoother(pose.DefaultSmootherConfig()),
		machine:    profile.NewMachine(),
		comparator: comparator,
		arbiter:    feedback.NewArbiter(cooldown),
		dispatcher: dispatcher,
		threshold:  pose.DefaultConfidenceThreshold,
	}
}

// ProcessDetection handles one detector result. found=false (no person) is
// a first-class outcome: a prompt is returned and no state is mutated.
func (s *Session) ProcessDetection(frame pose.Frame, found bool) FrameResult {
	if !found {
		return FrameResult{
			Success:  false,
			Error:    msgNoPerson,
			RepCount: s.RepCount(),
			Feedback: feedback.Event{ScreenText: msgNoPerson, GeneratedAt: time.Now()},
		}
	}
	return s.ProcessFrame(frame)
}

// ProcessFrame runs the full pipeline for one raw keypoint frame:
// filter -> extract -> state machine -> comparator -> feedback -> voice.
func (s *Session) ProcessFrame(raw pose.Frame) FrameResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	smoothed, err := s.smoother.Update(raw)
	if err != nil {
		// Insufficient visibility: skip the frame, keep the history,
		// give the state machine no update.
		return FrameResult{
			Success:  false,
			Error:    msgEnterFrame,
			RepCount: s.repCount,
			Feedback: feedback.Event{ScreenText: msgEnterFrame, GeneratedAt: time.Now()},
		}
	}

	angles := kinematics.Extract(smoothed, s.threshold)
	sample := s.Exercise.SampleFor(angles)

	rep := s.machine.Update(sample)
	if rep {
		s.repCount++
		s.speak(feedback.RepLine(s.Exercise))
		s.arbiter.MarkSpoken()
	}

	result := FrameResult{
		Success:      true,
		RepCount:     s.repCount,
		RepCompleted: rep,
		Angles:       angles.Map(),
	}

	if s.comparator != nil {
		phase := reference.PhaseFor(angles.AvgKnee())
		form := s.comparator.Check(angles, phase)
		result.Form = &form
	}

	result.Feedback = s.arbiter.Evaluate(s.Exercise, angles)
	if result.Feedback.SpeakText != "" {
		s.speak(result.Feedback.SpeakText)
	}

	return result
}

// Calibrate captures the shoulder width from a raw frame as the session's
// scale reference. Optional: sessions without calibration use a per-frame
// fallback scale.
func (s *Session) Calibrate(raw pose.Frame) (float64, error) {
	if !raw.AllVisible(pose.DefaultConfidenceThreshold, pose.LeftShoulder, pose.RightShoulder) {
		return 0, ErrCannotCalibrate
	}

	dx := raw[pose.LeftShoulder].X - raw[pose.RightShoulder].X
	dy := raw[pose.LeftShoulder].Y - raw[pose.RightShoulder].Y
	scale := math.Hypot(dx, dy)

	s.mu.Lock()
	s.scale = scale
	s.calibrated = true
	s.mu.Unlock()
	return scale, nil
}

// Scale returns the calibrated shoulder-width scale, if captured.
func (s *Session) Scale() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scale, s.calibrated
}

// RepCount returns the current repetition count.
func (s *Session) RepCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repCount
}

// speak enqueues text on the shared dispatcher, tagged with this session.
func (s *Session) speak(text string) {
	if s.dispatcher == nil {
		return
	}
	// Enqueue never blocks; a full queue just drops.
	_ = s.dispatcher.Enqueue(s.ID.String(), text)
}
