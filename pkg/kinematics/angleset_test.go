package kinematics_test

import (
	"math"
	"testing"

	"github.com/teslashibe/go-coach/pkg/kinematics"
	"github.com/teslashibe/go-coach/pkg/pose"
)

// standingFrame builds a rough front-facing standing pose with every joint
// visible. Coordinates are image pixels, Y growing downward.
func standingFrame() pose.Frame {
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
	set(pose.LeftAnkle, 80, 320)
	set(pose.RightAnkle, 120, 320)
	return f
}

func TestExtractStanding(t *testing.T) {
	s := kinematics.Extract(standingFrame(), 0.2)

	t.Run("knees near straight", func(t *testing.T) {
		for name, m := range map[string]kinematics.Measurement{
			"left": s.LeftKnee, "right": s.RightKnee,
		} {
			if !m.Valid {
				t.Fatalf("%s knee should be valid", name)
			}
			if m.Deg < 170 {
				t.Errorf("%s knee should be near 180 standing, got %v", name, m.Deg)
			}
		}
	})

	t.Run("torso lean near zero", func(t *testing.T) {
		if !s.TorsoLean.Valid {
			t.Fatal("torso lean should be valid")
		}
		if s.TorsoLean.Deg > 5 {
			t.Errorf("standing torso lean should be near 0, got %v", s.TorsoLean.Deg)
		}
	})

	t.Run("midpoints derived", func(t *testing.T) {
		if !s.ShoulderCenter.Valid || !s.WristCenter.Valid {
			t.Fatal("midpoints should be valid with all joints visible")
		}
		if s.ShoulderCenter.Vec.X != 100 {
			t.Errorf("shoulder center X should be 100, got %v", s.ShoulderCenter.Vec.X)
		}
	})
}

func TestExtractOccludedJoint(t *testing.T) {
	f := standingFrame()
	f[pose.LeftAnkle].Confidence = 0.1

	s := kinematics.Extract(f, 0.2)
	if s.LeftKnee.Valid {
		t.Error("left knee should be invalid with the ankle occluded")
	}
	if !s.RightKnee.Valid {
		t.Error("right knee should be unaffected")
	}

	t.Run("invalid angle omitted from map", func(t *testing.T) {
		m := s.Map()
		if _, ok := m["left_knee"]; ok {
			t.Error("left_knee should be absent, not zero")
		}
		if _, ok := m["right_knee"]; !ok {
			t.Error("right_knee should be present")
		}
	})

	t.Run("average invalid when one side is", func(t *testing.T) {
		if s.AvgKnee().Valid {
			t.Error("AvgKnee should be invalid when one knee is")
		}
	})
}

func TestAvg(t *testing.T) {
	a := kinematics.Measurement{Deg: 100, Valid: true}
	b := kinematics.Measurement{Deg: 140, Valid: true}

	got := kinematics.Avg(a, b)
	if !got.Valid || math.Abs(got.Deg-120) > 1e-9 {
		t.Errorf("expected valid 120, got %+v", got)
	}

	if kinematics.Avg(a, kinematics.Measurement{}).Valid {
		t.Error("average with an invalid side should be invalid")
	}
}

func TestArmHeading(t *testing.T) {
	s := kinematics.Extract(standingFrame(), 0.2)
	h := s.ArmHeading()
	if !h.Valid {
		t.Fatal("arm heading should be valid")
	}
	// Wrists hang below the shoulders: heading is straight down, 90 in
	// image coordinates.
	if math.Abs(h.Deg-90) > 1 {
		t.Errorf("expected heading near 90, got %v", h.Deg)
	}

	var none kinematics.AngleSet
	if none.ArmHeading().Valid {
		t.Error("heading should be invalid without midpoints")
	}
}
