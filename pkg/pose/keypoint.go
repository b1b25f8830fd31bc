// Package pose defines the keypoint data model for the coaching engine and
// the boundary to pose-estimation backends.
//
// A Frame is a fixed array of 17 keypoints in COCO order. The engine never
// runs pose estimation itself; it consumes frames from a Detector (gocv DNN,
// a remote service, or a replayed recording) and stabilizes them with the
// Smoother before any kinematics are computed.
package pose

// COCO-17 keypoint indices, matching YOLOv8-pose output order.
const (
	Nose = iota
	LeftEye
	RightEye
	LeftEar
	RightEar
	LeftShoulder
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle

	// NumKeypoints is the COCO-17 joint count.
	NumKeypoints = 17
)

// DefaultConfidenceThreshold is the minimum detector confidence for a joint
// to count as visible.
const DefaultConfidenceThreshold = 0.2

// Keypoint is a single tracked body landmark: 2D position in pixels plus the
// detector's confidence score in [0,1].
type Keypoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
}

// Visible reports whether the keypoint's confidence clears the threshold.
func (k Keypoint) Visible(threshold float64) bool {
	return k.Confidence > threshold
}

// Frame is one pose observation: all 17 COCO joints for a single person.
// Frames are value types; the smoother produces new frames rather than
// mutating previous ones.
type Frame [NumKeypoints]Keypoint

// VisibleCount returns how many joints clear the confidence threshold.
func (f Frame) VisibleCount(threshold float64) int {
	n := 0
	for _, k := range f {
		if k.Visible(threshold) {
			n++
		}
	}
	return n
}

// AllVisible reports whether every listed joint clears the threshold.
func (f Frame) AllVisible(threshold float64, joints ...int) bool {
	for _, j := range joints {
		if !f[j].Visible(threshold) {
			return false
		}
	}
	return true
}
