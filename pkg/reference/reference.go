// Package reference scores live joint angles against stored ideal-form
// reference angles.
//
// Reference data is keyed by movement phase ("down", "up", ...) and loaded
// once per session from a read-only store. The comparator is deliberately
// soft: missing or malformed reference data falls back to built-in values or
// a neutral score, and is never a hard dependency for rep counting.
package reference

import "errors"

// ErrNotFound is returned when a store has no reference data for an exercise.
var ErrNotFound = errors.New("reference: no data for exercise")

// Profile maps phase label -> joint label -> mean reference angle in degrees.
type Profile map[string]map[string]float64

// Phase labels used by the built-in profiles.
const (
	PhaseDown = "down"
	PhaseMid  = "mid"
	PhaseUp   = "up"
)

// Joint labels used in reference profiles.
const (
	JointAvgKnee   = "avg_knee"
	JointAvgHip    = "avg_hip"
	JointTorsoLean = "torso_lean"
)

// Store is the read boundary to reference data. Implementations must
// tolerate missing or malformed data by returning an error; callers
// substitute FallbackProfile and continue.
type Store interface {
	// Load returns the reference profile for an exercise.
	Load(exercise string) (Profile, error)

	// Close releases store resources.
	Close() error
}

// FallbackProfile returns the hardcoded reference angles used when no store
// data is available. Values were extracted from correct-form squat images.
func FallbackProfile(exercise string) Profile {
	switch exercise {
	case "squat", "squat_classic":
		return Profile{
			PhaseDown: {JointAvgKnee: 56, JointAvgHip: 52, JointTorsoLean: 29},
			PhaseUp:   {JointAvgKnee: 166, JointAvgHip: 175, JointTorsoLean: 3},
		}
	default:
		// No reference material for this exercise; the comparator
		// yields a neutral score.
		return Profile{}
	}
}
