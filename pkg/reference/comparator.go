package reference

import (
	"fmt"
	"math"

	"github.com/teslashibe/go-coach/pkg/kinematics"
)

// DefaultTolerance is the acceptable per-joint deviation in degrees.
const DefaultTolerance = 15.0

// acceptableScore is the score at and above which form counts as correct.
const acceptableScore = 70.0

// Result is one form check against the reference profile.
type Result struct {
	// Deviations maps check label to signed deviation in degrees
	// (current minus reference).
	Deviations map[string]float64 `json:"deviations"`

	// Feedback holds human-readable lines, one per check.
	Feedback []string `json:"feedback"`

	// Score is 0-100; 100 = perfect match, 50 = nothing measurable.
	Score float64 `json:"score"`

	// Acceptable is true when Score clears the acceptance bar.
	Acceptable bool `json:"acceptable"`

	// Phase is the reference phase the angles were compared against.
	Phase string `json:"phase"`
}

// Comparator scores live angle sets against one exercise's reference
// profile. It never fails: absence of data yields indifference (a neutral
// score), not an error.
type Comparator struct {
	profile   Profile
	tolerance float64
}

// NewComparator creates a comparator over a loaded profile. A nil or empty
// profile is allowed and produces neutral results.
func NewComparator(profile Profile, tolerance float64) *Comparator {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Comparator{profile: profile, tolerance: tolerance}
}

// PhaseFor bands the primary tracked angle into a phase label. Used to pick
// which reference entry to compare against.
func PhaseFor(primary kinematics.Measurement) string {
	switch {
	case !primary.Valid:
		return PhaseMid
	case primary.Deg <= 100:
		return PhaseDown
	case primary.Deg >= 130:
		return PhaseUp
	default:
		return PhaseMid
	}
}

// Check compares the current angles against the reference for the given
// phase. Only jointly-available checks contribute; with no checks possible
// the score defaults to a neutral 50.
func (c *Comparator) Check(angles kinematics.AngleSet, phase string) Result {
	ref := c.referenceFor(phase)
	result := Result{
		Deviations: map[string]float64{},
		Phase:      phase,
	}

	check := func(label string, refJoint string, m kinematics.Measurement) {
		target, ok := ref[refJoint]
		if !ok || !m.Valid {
			return
		}
		dev := m.Deg - target
		result.Deviations[label] = dev
		switch {
		case math.Abs(dev) <= c.tolerance:
			result.Feedback = append(result.Feedback,
				fmt.Sprintf("Good %s angle (%.0f°)", label, m.Deg))
		case dev > 0 && label == "knee":
			result.Feedback = append(result.Feedback,
				fmt.Sprintf("Go deeper! Knees are %.0f° too straight, target %.0f°", math.Abs(dev), target))
		default:
			result.Feedback = append(result.Feedback,
				fmt.Sprintf("Adjust %s: %.0f° vs target %.0f°", label, m.Deg, target))
		}
	}

	check("knee", JointAvgKnee, angles.AvgKnee())
	check("hip", JointAvgHip, angles.Torso)
	check("lean", JointTorsoLean, angles.TorsoLean)

	// Left/right balance is checked against symmetry, not the reference.
	if angles.LeftKnee.Valid && angles.RightKnee.Valid {
		diff := math.Abs(angles.LeftKnee.Deg - angles.RightKnee.Deg)
		result.Deviations["balance"] = diff
		if diff > 10 {
			result.Feedback = append(result.Feedback,
				fmt.Sprintf("Uneven: L%.0f° vs R%.0f° - balance your weight",
					angles.LeftKnee.Deg, angles.RightKnee.Deg))
		} else {
			result.Feedback = append(result.Feedback, "Good balance between legs")
		}
	}

	result.Score = score(result.Deviations)
	result.Acceptable = result.Score >= acceptableScore
	return result
}

// referenceFor returns the reference entry for a phase, falling back to the
// down phase when the requested one is absent.
func (c *Comparator) referenceFor(phase string) map[string]float64 {
	if ref, ok := c.profile[phase]; ok {
		return ref
	}
	return c.profile[PhaseDown]
}

// score maps mean absolute deviation to 0-100; no checks yields neutral 50.
func score(deviations map[string]float64) float64 {
	if len(deviations) == 0 {
		return 50
	}
	total := 0.0
	for _, dev := range deviations {
		total += math.Abs(dev)
	}
	avg := total / float64(len(deviations))
	penalty := avg / 30.0 * 100
	if penalty > 100 {
		penalty = 100
	}
	return 100 - penalty
}
