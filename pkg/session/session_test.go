package session_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/teslashibe/go-coach/pkg/exercise"
	"github.com/teslashibe/go-coach/pkg/pose"
	"github.com/teslashibe/go-coach/pkg/reference"
	"github.com/teslashibe/go-coach/pkg/session"
	"github.com/teslashibe/go-coach/pkg/speech"
)

// poseFrame builds a full-visibility front-facing frame with the legs at the
// given knee angle. 180 = standing, 60 = deep squat.
func poseFrame(kneeDeg float64) pose.Frame {
	var f pose.Frame
	set := func(i int, x, y float64) {
		f[i] = pose.Keypoint{X: x, Y: y, Confidence: 0.9}
	}
	set(pose.Nose, 100, 20)
	set(pose.LeftEye, 95, 15)
	set(pose.RightEye, 105, 15)
	set(pose.LeftEar, 90, 18)
	set(pose.RightEar, 110, 18)
	set(pose.LeftShoulder, 70, 60)
	set(pose.RightShoulder, 130, 60)
	set(pose.LeftElbow, 65, 110)
	set(pose.RightElbow, 135, 110)
	set(pose.LeftWrist, 62, 160)
	set(pose.RightWrist, 138, 160)
	set(pose.LeftHip, 80, 160)
	set(pose.RightHip, 120, 160)
	set(pose.LeftKnee, 80, 240)
	set(pose.RightKnee, 120, 240)

	// Ankles rotate about the knees: straight down at 180, swung forward
	// as the angle closes.
	rad := (180 - kneeDeg) * math.Pi / 180
	dx := 80 * math.Sin(rad)
	dy := 80 * math.Cos(rad)
	set(pose.LeftAnkle, 80+dx, 240+dy)
	set(pose.RightAnkle, 120-dx, 240+dy)
	return f
}

// squatSequence is one full repetition as seen by the smoother: the poses are
// held long enough that the filtered angle crosses the thresholds for three
// consecutive frames.
func squatSequence() []pose.Frame {
	var frames []pose.Frame
	frames = append(frames, poseFrame(180))
	for i := 0; i < 7; i++ {
		frames = append(frames, poseFrame(60))
	}
	for i := 0; i < 5; i++ {
		frames = append(frames, poseFrame(180))
	}
	return frames
}

func newSquatSession(t *testing.T, dispatcher *speech.Dispatcher) *session.Session {
	t.Helper()
	comparator := reference.NewComparator(reference.FallbackProfile("squat"), reference.DefaultTolerance)
	return session.New(exercise.Squat, comparator, dispatcher, time.Second)
}

func TestSessionCountsSquatRep(t *testing.T) {
	sess := newSquatSession(t, nil)

	var lastRepFrame int
	for i, f := range squatSequence() {
		r := sess.ProcessFrame(f)
		if !r.Success {
			t.Fatalf("frame %d: unexpected failure %q", i+1, r.Error)
		}
		if r.RepCompleted {
			lastRepFrame = i + 1
		}
	}

	if got := sess.RepCount(); got != 1 {
		t.Fatalf("expected 1 rep, got %d", got)
	}
	if lastRepFrame == 0 {
		t.Fatal("RepCompleted never reported")
	}

	// Holding the stand afterward must not count again.
	for i := 0; i < 10; i++ {
		sess.ProcessFrame(poseFrame(180))
	}
	if got := sess.RepCount(); got != 1 {
		t.Errorf("held stand double-counted: %d reps", got)
	}
}

func TestSessionFrameResultContents(t *testing.T) {
	sess := newSquatSession(t, nil)

	r := sess.ProcessFrame(poseFrame(120))
	if !r.Success {
		t.Fatalf("unexpected failure: %q", r.Error)
	}
	if _, ok := r.Angles["left_knee"]; !ok {
		t.Error("expected left_knee in the angle map")
	}
	if r.Form == nil {
		t.Fatal("expected a form result with a comparator wired")
	}
	if r.Feedback.ScreenText == "" {
		t.Error("expected screen feedback every frame")
	}
}

func TestSessionNoPerson(t *testing.T) {
	sess := newSquatSession(t, nil)

	// Establish some state first.
	sess.ProcessFrame(poseFrame(180))
	before := sess.RepCount()

	r := sess.ProcessDetection(pose.Frame{}, false)
	if r.Success {
		t.Error("no person should not be a success")
	}
	if r.Error != "No person detected" {
		t.Errorf("unexpected error text %q", r.Error)
	}
	if r.RepCount != before {
		t.Errorf("no-person frame mutated the rep count: %d", r.RepCount)
	}
}

func TestSessionInsufficientVisibility(t *testing.T) {
	sess := newSquatSession(t, nil)

	sess.ProcessFrame(poseFrame(180))

	var occluded pose.Frame // zero confidence everywhere
	r := sess.ProcessFrame(occluded)
	if r.Success {
		t.Error("occluded frame should not be a success")
	}
	if r.Error != "Please fully enter the frame" {
		t.Errorf("unexpected error text %q", r.Error)
	}

	// The pipeline recovers on the next good frame.
	r = sess.ProcessFrame(poseFrame(180))
	if !r.Success {
		t.Errorf("expected recovery, got %q", r.Error)
	}
}

func TestSessionSpeaksRepLine(t *testing.T) {
	mock := speech.NewMock()
	dispatcher := speech.NewDispatcher(mock, speech.Config{QueueSize: 16, Timeout: time.Second})

	sess := newSquatSession(t, dispatcher)
	for _, f := range squatSequence() {
		sess.ProcessFrame(f)
	}
	dispatcher.Stop()

	found := false
	for _, line := range mock.Spoken() {
		if line == "Nice squat. Rep counted." {
			found = true
		}
	}
	if !found {
		t.Errorf("rep line never spoken, got %v", mock.Spoken())
	}
}

func TestSessionCalibrate(t *testing.T) {
	sess := newSquatSession(t, nil)

	t.Run("visible shoulders", func(t *testing.T) {
		scale, err := sess.Calibrate(poseFrame(180))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// Shoulders sit at x=70 and x=130.
		if scale != 60 {
			t.Errorf("expected scale 60, got %v", scale)
		}
		if got, ok := sess.Scale(); !ok || got != 60 {
			t.Errorf("scale not stored: %v %v", got, ok)
		}
	})

	t.Run("occluded shoulders", func(t *testing.T) {
		f := poseFrame(180)
		f[pose.LeftShoulder].Confidence = 0.1
		_, err := sess.Calibrate(f)
		if !errors.Is(err, session.ErrCannotCalibrate) {
			t.Errorf("expected ErrCannotCalibrate, got %v", err)
		}
	})
}

func TestManagerLifecycle(t *testing.T) {
	m := session.NewManager(session.ManagerConfig{})

	sess, err := m.Start("squat")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if m.Active() != 1 {
		t.Errorf("expected 1 active session, got %d", m.Active())
	}

	got, err := m.Get(sess.ID)
	if err != nil || got != sess {
		t.Fatalf("get returned %v, %v", got, err)
	}

	for _, f := range squatSequence() {
		sess.ProcessFrame(f)
	}

	final, err := m.End(sess.ID)
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if final != 1 {
		t.Errorf("expected final count 1, got %d", final)
	}
	if m.Active() != 0 {
		t.Errorf("expected 0 active sessions, got %d", m.Active())
	}

	if _, err := m.Get(sess.ID); !errors.Is(err, session.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after end, got %v", err)
	}
	if _, err := m.End(sess.ID); !errors.Is(err, session.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound on double end, got %v", err)
	}
}

func TestManagerUnknownExercise(t *testing.T) {
	m := session.NewManager(session.ManagerConfig{})
	if _, err := m.Start("handstand"); err == nil {
		t.Error("expected error for unknown exercise")
	}
}
