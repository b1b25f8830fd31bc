package exercise

// Phase labels for the hysteresis machine.
const (
	PhaseRest    = "rest"
	PhaseEngaged = "engaged"
)

// Hysteresis is a two-state dead-band automaton with consecutive-frame
// confirmation: a Schmitt trigger for joint angles. The gap between the low
// and high thresholds plus the confirm count rejects single-frame noise
// spikes without a cadence-tuned filter.
//
// With DescendFirst (squat): rest exits when the angle dips below Low, and
// the rep completes when it climbs back above High. Without (arm raise):
// rest exits above High and the rep completes on the return below Low.
type Hysteresis struct {
	low          float64
	high         float64
	confirm      int
	descendFirst bool

	engaged bool
	counter int
}

// NewHysteresis creates a hysteresis machine. low must be less than high;
// confirm must be at least 1.
func NewHysteresis(low, high float64, confirm int, descendFirst bool) *Hysteresis {
	if confirm < 1 {
		confirm = 1
	}
	return &Hysteresis{low: low, high: high, confirm: confirm, descendFirst: descendFirst}
}

// Update advances the machine with one measurement. Returns true exactly on
// the frame a repetition completes.
//
// An invalid sample resets the confirm counter and never transitions:
// a missing measurement is non-confirming, not a phase change.
func (h *Hysteresis) Update(s Sample) bool {
	if !s.Valid {
		h.counter = 0
		return false
	}

	if !h.engaged {
		if h.exitsRest(s.Value) {
			h.counter++
			if h.counter >= h.confirm {
				h.engaged = true
				h.counter = 0
			}
		} else {
			h.counter = 0
		}
		return false
	}

	if h.returnsToRest(s.Value) {
		h.counter++
		if h.counter >= h.confirm {
			h.engaged = false
			h.counter = 0
			return true
		}
	} else {
		h.counter = 0
	}
	return false
}

func (h *Hysteresis) exitsRest(v float64) bool {
	if h.descendFirst {
		return v < h.low
	}
	return v > h.high
}

func (h *Hysteresis) returnsToRest(v float64) bool {
	if h.descendFirst {
		return v > h.high
	}
	return v < h.low
}

// Phase returns the current phase label.
func (h *Hysteresis) Phase() string {
	if h.engaged {
		return PhaseEngaged
	}
	return PhaseRest
}

// Reset returns the machine to its initial state.
func (h *Hysteresis) Reset() {
	h.engaged = false
	h.counter = 0
}

var _ Machine = (*Hysteresis)(nil)
