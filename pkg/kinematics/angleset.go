package kinematics

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/teslashibe/go-coach/pkg/pose"
)

// Measurement is a joint angle in degrees that may be unavailable for the
// current frame. A measurement whose joints fell below the confidence
// threshold is Invalid; it is never reported as zero or extrapolated.
type Measurement struct {
	Deg   float64
	Valid bool
}

// measure wraps a computed angle as a valid Measurement.
func measure(deg float64) Measurement {
	return Measurement{Deg: deg, Valid: true}
}

// Avg averages two measurements; invalid if either side is.
func Avg(a, b Measurement) Measurement {
	if !a.Valid || !b.Valid {
		return Measurement{}
	}
	return measure((a.Deg + b.Deg) / 2)
}

// Point is a derived 2D point (for example a shoulder midpoint) that may be
// unavailable when its source joints are occluded.
type Point struct {
	Vec   r2.Vec
	Valid bool
}

// AngleSet is the closed set of named joint angles derived from one smoothed
// frame. The key set is fixed so missing-measurement handling is explicit
// rather than a runtime map lookup.
type AngleSet struct {
	LeftKnee  Measurement
	RightKnee Measurement

	LeftElbow  Measurement
	RightElbow Measurement

	// ArmRaise is the hip-shoulder-wrist angle: 0 with the arm at the
	// side, ~90 at shoulder level. Drives the recovery arm-raise machine.
	LeftArmRaise  Measurement
	RightArmRaise Measurement

	// Torso is the shoulder-hip-knee angle averaged over both sides.
	Torso Measurement

	// TorsoLean is the hip-to-shoulder angle off vertical, used by the
	// form comparator.
	TorsoLean Measurement

	// Derived midpoints for rotation tracking.
	ShoulderCenter Point
	WristCenter    Point
}

// vec converts a keypoint to an r2 vector.
func vec(k pose.Keypoint) r2.Vec {
	return r2.Vec{X: k.X, Y: k.Y}
}

// triplet computes the interior angle for three joints, invalid if any joint
// is below the confidence threshold.
func triplet(f pose.Frame, threshold float64, a, b, c int) Measurement {
	if !f.AllVisible(threshold, a, b, c) {
		return Measurement{}
	}
	return measure(Angle(vec(f[a]), vec(f[b]), vec(f[c])))
}

// Extract derives the full angle set from a smoothed frame. Any angle whose
// required joints are below the confidence threshold comes back Invalid.
func Extract(f pose.Frame, threshold float64) AngleSet {
	var s AngleSet

	s.LeftKnee = triplet(f, threshold, pose.LeftHip, pose.LeftKnee, pose.LeftAnkle)
	s.RightKnee = triplet(f, threshold, pose.RightHip, pose.RightKnee, pose.RightAnkle)

	s.LeftElbow = triplet(f, threshold, pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist)
	s.RightElbow = triplet(f, threshold, pose.RightShoulder, pose.RightElbow, pose.RightWrist)

	s.LeftArmRaise = triplet(f, threshold, pose.LeftHip, pose.LeftShoulder, pose.LeftWrist)
	s.RightArmRaise = triplet(f, threshold, pose.RightHip, pose.RightShoulder, pose.RightWrist)

	left := triplet(f, threshold, pose.LeftShoulder, pose.LeftHip, pose.LeftKnee)
	right := triplet(f, threshold, pose.RightShoulder, pose.RightHip, pose.RightKnee)
	s.Torso = Avg(left, right)

	if f.AllVisible(threshold, pose.LeftShoulder, pose.RightShoulder, pose.LeftHip, pose.RightHip) {
		hip := Midpoint(vec(f[pose.LeftHip]), vec(f[pose.RightHip]))
		shoulder := Midpoint(vec(f[pose.LeftShoulder]), vec(f[pose.RightShoulder]))
		s.TorsoLean = measure(VerticalLean(hip, shoulder))
	}

	if f.AllVisible(threshold, pose.LeftShoulder, pose.RightShoulder) {
		s.ShoulderCenter = Point{
			Vec:   Midpoint(vec(f[pose.LeftShoulder]), vec(f[pose.RightShoulder])),
			Valid: true,
		}
	}
	if f.AllVisible(threshold, pose.LeftWrist, pose.RightWrist) {
		s.WristCenter = Point{
			Vec:   Midpoint(vec(f[pose.LeftWrist]), vec(f[pose.RightWrist])),
			Valid: true,
		}
	}

	return s
}

// AvgKnee averages left and right knee angles.
func (s AngleSet) AvgKnee() Measurement { return Avg(s.LeftKnee, s.RightKnee) }

// AvgElbow averages left and right elbow angles.
func (s AngleSet) AvgElbow() Measurement { return Avg(s.LeftElbow, s.RightElbow) }

// AvgArmRaise averages left and right arm-raise angles.
func (s AngleSet) AvgArmRaise() Measurement { return Avg(s.LeftArmRaise, s.RightArmRaise) }

// ArmHeading returns the signed heading of the shoulder-midpoint to
// wrist-midpoint vector, for rotation tracking. Invalid if either midpoint
// is unavailable.
func (s AngleSet) ArmHeading() Measurement {
	if !s.ShoulderCenter.Valid || !s.WristCenter.Valid {
		return Measurement{}
	}
	return measure(Heading(s.ShoulderCenter.Vec, s.WristCenter.Vec))
}

// Map flattens the valid angles into a name-to-degrees map for API output.
// Invalid angles are omitted entirely; consumers treat a missing key as
// "cannot currently measure".
func (s AngleSet) Map() map[string]float64 {
	out := make(map[string]float64, 8)
	put := func(name string, m Measurement) {
		if m.Valid {
			out[name] = m.Deg
		}
	}
	put("left_knee", s.LeftKnee)
	put("right_knee", s.RightKnee)
	put("left_elbow", s.LeftElbow)
	put("right_elbow", s.RightElbow)
	put("left_arm_angle", s.LeftArmRaise)
	put("right_arm_angle", s.RightArmRaise)
	put("torso", s.Torso)
	put("torso_lean", s.TorsoLean)
	return out
}
