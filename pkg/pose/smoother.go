package pose

import "errors"

// ErrInsufficientVisibility is returned when too few joints clear the
// confidence threshold for a frame to be usable. The smoothing history is
// preserved; callers skip downstream processing for that frame only.
var ErrInsufficientVisibility = errors.New("pose: insufficient visible keypoints")

// SmootherConfig holds the keypoint filter parameters.
type SmootherConfig struct {
	// Alpha is the EWMA weight on the newest sample (0 < Alpha <= 1).
	// Alpha = 1 disables smoothing.
	Alpha float64

	// ConfidenceThreshold is the minimum confidence for a joint to count
	// as visible.
	ConfidenceThreshold float64

	// MinVisible is the minimum number of visible joints required to
	// accept a frame.
	MinVisible int
}

// DefaultSmootherConfig returns the tuning used by the live coach:
// moderate smoothing, 12 of 17 joints required at confidence 0.2.
func DefaultSmootherConfig() SmootherConfig {
	return SmootherConfig{
		Alpha:               0.35,
		ConfidenceThreshold: DefaultConfidenceThreshold,
		MinVisible:          12,
	}
}

// Smoother applies exponential smoothing to raw keypoint frames. Each session
// owns one Smoother; there is no shared state between sessions.
//
// Coordinates are smoothed; confidence is passed through from the newest
// frame, since filtering confidence would mask momentary occlusion.
type Smoother struct {
	config  SmootherConfig
	prev    Frame
	hasPrev bool
}

// NewSmoother creates a smoother with the given config.
func NewSmoother(config SmootherConfig) *Smoother {
	return &Smoother{config: config}
}

// Update filters a raw frame and returns the new smoothed frame.
//
// A frame with fewer than MinVisible confident joints is rejected with
// ErrInsufficientVisibility. Rejection does not touch the smoothing history:
// one bad frame must not discard the temporal state. Only the first frame
// ever is adopted raw.
func (s *Smoother) Update(raw Frame) (Frame, error) {
	if raw.VisibleCount(s.config.ConfidenceThreshold) < s.config.MinVisible {
		return Frame{}, ErrInsufficientVisibility
	}

	if !s.hasPrev {
		s.prev = raw
		s.hasPrev = true
		return raw, nil
	}

	a := s.config.Alpha
	var out Frame
	for i := range raw {
		out[i] = Keypoint{
			X:          a*raw[i].X + (1-a)*s.prev[i].X,
			Y:          a*raw[i].Y + (1-a)*s.prev[i].Y,
			Confidence: raw[i].Confidence,
		}
	}
	s.prev = out
	return out, nil
}

// Last returns the most recent smoothed frame, if any.
func (s *Smoother) Last() (Frame, bool) {
	return s.prev, s.hasPrev
}

// Reset clears the smoothing history. Used when a session restarts, never on
// a rejected frame.
func (s *Smoother) Reset() {
	s.prev = Frame{}
	s.hasPrev = false
}
