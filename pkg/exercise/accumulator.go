package exercise

import (
	"math"

	"github.com/teslashibe/go-coach/pkg/kinematics"
)

// Accumulator counts continuous rotation: it sums the absolute wrapped
// heading delta frame to frame and emits a rep each time the cumulative
// rotation crosses the threshold. Both directions of rotation count.
type Accumulator struct {
	threshold float64

	cumulative  float64
	prevHeading float64
	hasPrev     bool
}

// NewAccumulator creates a rotation accumulator with the given threshold in
// degrees.
func NewAccumulator(threshold float64) *Accumulator {
	return &Accumulator{threshold: threshold}
}

// Update advances the accumulator with one heading sample in degrees.
//
// An invalid sample (midpoint unavailable) clears the previous heading so
// that a large spurious delta is not accumulated when tracking resumes. The
// first valid sample after a gap only seeds the heading.
func (a *Accumulator) Update(s Sample) bool {
	if !s.Valid {
		a.hasPrev = false
		return false
	}

	if !a.hasPrev {
		a.prevHeading = s.Value
		a.hasPrev = true
		return false
	}

	delta := kinematics.WrapDeg(s.Value - a.prevHeading)
	a.cumulative += math.Abs(delta)
	a.prevHeading = s.Value

	if a.cumulative >= a.threshold {
		a.cumulative = 0
		return true
	}
	return false
}

// Cumulative returns the rotation accumulated toward the next rep.
func (a *Accumulator) Cumulative() float64 {
	return a.cumulative
}

// Reset returns the accumulator to its initial state.
func (a *Accumulator) Reset() {
	a.cumulative = 0
	a.hasPrev = false
}

var _ Machine = (*Accumulator)(nil)
