package pose_test

import (
	"errors"
	"math"
	"testing"

	"github.com/teslashibe/go-coach/pkg/pose"
)

// fullFrame builds a frame with every joint at (x, y) and the given confidence.
func fullFrame(x, y, conf float64) pose.Frame {
	var f pose.Frame
	for i := range f {
		f[i] = pose.Keypoint{X: x, Y: y, Confidence: conf}
	}
	return f
}

func TestSmootherFirstFrameAdoptedRaw(t *testing.T) {
	s := pose.NewSmoother(pose.DefaultSmootherConfig())

	raw := fullFrame(100, 200, 0.9)
	got, err := s.Update(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != raw {
		t.Errorf("first frame should be adopted unsmoothed, got %+v", got[0])
	}
}

func TestSmootherEWMA(t *testing.T) {
	cfg := pose.SmootherConfig{Alpha: 0.35, ConfidenceThreshold: 0.2, MinVisible: 12}
	s := pose.NewSmoother(cfg)

	if _, err := s.Update(fullFrame(0, 0, 0.9)); err != nil {
		t.Fatalf("seed frame: %v", err)
	}
	got, err := s.Update(fullFrame(100, 100, 0.9))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 0.35*100 + 0.65*0 = 35
	if math.Abs(got[pose.Nose].X-35) > 1e-9 {
		t.Errorf("expected smoothed X = 35, got %v", got[pose.Nose].X)
	}
	if math.Abs(got[pose.Nose].Y-35) > 1e-9 {
		t.Errorf("expected smoothed Y = 35, got %v", got[pose.Nose].Y)
	}
}

func TestSmootherConfidencePassThrough(t *testing.T) {
	s := pose.NewSmoother(pose.DefaultSmootherConfig())

	if _, err := s.Update(fullFrame(0, 0, 0.9)); err != nil {
		t.Fatalf("seed frame: %v", err)
	}
	got, err := s.Update(fullFrame(10, 10, 0.4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[pose.Nose].Confidence != 0.4 {
		t.Errorf("confidence should pass through unsmoothed, got %v", got[pose.Nose].Confidence)
	}
}

func TestSmootherRejectsLowVisibility(t *testing.T) {
	s := pose.NewSmoother(pose.DefaultSmootherConfig())

	// 11 visible joints is one short of the default minimum of 12.
	var f pose.Frame
	for i := 0; i < 11; i++ {
		f[i] = pose.Keypoint{X: 1, Y: 1, Confidence: 0.9}
	}

	_, err := s.Update(f)
	if !errors.Is(err, pose.ErrInsufficientVisibility) {
		t.Fatalf("expected ErrInsufficientVisibility, got %v", err)
	}
}

func TestSmootherRejectionPreservesHistory(t *testing.T) {
	s := pose.NewSmoother(pose.DefaultSmootherConfig())

	seed := fullFrame(50, 50, 0.9)
	if _, err := s.Update(seed); err != nil {
		t.Fatalf("seed frame: %v", err)
	}

	// Occluded frame: rejected, but must not disturb the history.
	if _, err := s.Update(pose.Frame{}); err == nil {
		t.Fatal("expected rejection of empty frame")
	}

	last, ok := s.Last()
	if !ok {
		t.Fatal("history should survive a rejected frame")
	}
	if last != seed {
		t.Errorf("history changed after rejection: %+v", last[0])
	}

	// The next good frame smooths against the pre-rejection state.
	got, err := s.Update(fullFrame(150, 50, 0.9))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 0.35*150 + 0.65*50
	if math.Abs(got[pose.Nose].X-want) > 1e-9 {
		t.Errorf("expected X = %v, got %v", want, got[pose.Nose].X)
	}
}

func TestSmootherReset(t *testing.T) {
	s := pose.NewSmoother(pose.DefaultSmootherConfig())

	if _, err := s.Update(fullFrame(10, 10, 0.9)); err != nil {
		t.Fatalf("seed frame: %v", err)
	}
	s.Reset()

	if _, ok := s.Last(); ok {
		t.Error("Reset should clear the history")
	}

	// After reset the next frame is adopted raw again.
	raw := fullFrame(99, 99, 0.9)
	got, err := s.Update(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != raw {
		t.Errorf("post-reset frame should be adopted raw, got %+v", got[0])
	}
}

func TestFrameVisibleCount(t *testing.T) {
	var f pose.Frame
	f[pose.Nose] = pose.Keypoint{Confidence: 0.5}
	f[pose.LeftHip] = pose.Keypoint{Confidence: 0.21}
	f[pose.RightHip] = pose.Keypoint{Confidence: 0.2} // at threshold, not above

	if got := f.VisibleCount(0.2); got != 2 {
		t.Errorf("expected 2 visible, got %d", got)
	}
	if f.AllVisible(0.2, pose.Nose, pose.LeftHip, pose.RightHip) {
		t.Error("RightHip at exactly the threshold should not count as visible")
	}
}
