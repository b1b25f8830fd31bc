// Package exercise implements the per-exercise repetition state machines and
// the data-driven profiles that parameterize them.
//
// Two machine families exist: a hysteresis (dead-band) automaton for
// threshold exercises like squats and recovery arm raises, and a rotation
// accumulator for continuous movements like arm circles. The source material
// disagrees on thresholds and direction-of-rest for some nominal exercises;
// those are distinct profiles here, selected by name, never guessed.
package exercise

import (
	"fmt"

	"github.com/teslashibe/go-coach/pkg/kinematics"
)

// MachineKind selects the state-machine family for a profile.
type MachineKind int

const (
	// KindHysteresis is the two-state dead-band automaton.
	KindHysteresis MachineKind = iota
	// KindAccumulator is the continuous rotation counter.
	KindAccumulator
)

// Metric identifies which measurement drives a profile's machine.
type Metric int

const (
	// MetricAvgKnee averages left and right knee angles.
	MetricAvgKnee Metric = iota
	// MetricAvgArmRaise averages left and right hip-shoulder-wrist angles.
	MetricAvgArmRaise
	// MetricArmHeading is the signed heading of the shoulder-to-wrist
	// midpoint vector, for rotation tracking.
	MetricArmHeading
)

// Sample is one per-frame measurement fed to a machine. Invalid samples
// (missing joints) never confirm a transition.
type Sample struct {
	Value float64
	Valid bool
}

// Machine is a repetition state machine. Update is evaluated once per
// processed frame and returns true exactly on the frame a repetition
// completes. Machines are deterministic and side-effect-free apart from
// their own stored state.
type Machine interface {
	Update(s Sample) bool
	Reset()
}

// Profile parameterizes one exercise: which machine family, which
// measurement, and the thresholds tuned for a nominal 30 fps source. All
// frame counts are configuration, not hardcoded.
type Profile struct {
	Name    string
	Machine MachineKind
	Metric  Metric

	// Hysteresis parameters. Low < High; the gap is the dead band.
	Low           float64
	High          float64
	ConfirmFrames int

	// DescendFirst: the rest state exits on a reading below Low (squat);
	// otherwise on a reading above High (arm raise, where "down" is rest
	// and the rep completes on the return to down).
	DescendFirst bool

	// RotationThreshold is the cumulative degrees for one accumulator
	// rep. Deliberately short of 360 to tolerate imperfect circles.
	RotationThreshold float64
}

// Built-in profiles.
var (
	// Squat counts reps with the permissive band: knees below 80 count
	// as down even though the reference ideal is 56.
	Squat = Profile{
		Name: "squat", Machine: KindHysteresis, Metric: MetricAvgKnee,
		Low: 80, High: 150, ConfirmFrames: 3, DescendFirst: true,
	}

	// SquatClassic is the earlier, stricter band.
	SquatClassic = Profile{
		Name: "squat_classic", Machine: KindHysteresis, Metric: MetricAvgKnee,
		Low: 100, High: 160, ConfirmFrames: 3, DescendFirst: true,
	}

	// ArmRaise is the stage-1 recovery exercise: arms rise to shoulder
	// level and the rep completes on the return to the sides.
	ArmRaise = Profile{
		Name: "arm_raise", Machine: KindHysteresis, Metric: MetricAvgArmRaise,
		Low: 20, High: 80, ConfirmFrames: 3, DescendFirst: false,
	}

	// ArmCircle counts unconstrained full rotations of the arms.
	ArmCircle = Profile{
		Name: "arm_circle", Machine: KindAccumulator, Metric: MetricArmHeading,
		RotationThreshold: 300,
	}
)

// Profiles lists every built-in profile.
func Profiles() []Profile {
	return []Profile{Squat, SquatClassic, ArmRaise, ArmCircle}
}

// ProfileByName looks up a built-in profile.
func ProfileByName(name string) (Profile, error) {
	for _, p := range Profiles() {
		if p.Name == name {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("exercise: unknown profile %q", name)
}

// NewMachine builds the state machine for this profile.
func (p Profile) NewMachine() Machine {
	switch p.Machine {
	case KindAccumulator:
		return NewAccumulator(p.RotationThreshold)
	default:
		return NewHysteresis(p.Low, p.High, p.ConfirmFrames, p.DescendFirst)
	}
}

// SampleFor extracts the profile's driving measurement from an angle set.
func (p Profile) SampleFor(angles kinematics.AngleSet) Sample {
	var m kinematics.Measurement
	switch p.Metric {
	case MetricAvgArmRaise:
		m = angles.AvgArmRaise()
	case MetricArmHeading:
		m = angles.ArmHeading()
	default:
		m = angles.AvgKnee()
	}
	return Sample{Value: m.Deg, Valid: m.Valid}
}
