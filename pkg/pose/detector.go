package pose

// Detector is the interface for pose-estimation backends.
//
// Detect returns the keypoints for the best person in the image, or
// found=false when no person is present. An empty frame is a first-class
// result, not an error; errors are reserved for backend failures (bad image
// data, model inference failure).
type Detector interface {
	// Detect finds a person in the JPEG image and returns their keypoints.
	Detect(jpeg []byte) (frame Frame, found bool, err error)

	// Close releases resources.
	Close() error
}

// DetectorConfig holds pose detector configuration.
type DetectorConfig struct {
	ModelPath        string  // Path to ONNX model
	ConfidenceThresh float64 // Minimum person box confidence (default 0.5)
	InputWidth       int     // Model input width
	InputHeight      int     // Model input height
}

// DefaultDetectorConfig returns production defaults for YOLOv8n-pose.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		ModelPath:        "models/yolov8n-pose.onnx",
		ConfidenceThresh: 0.5,
		InputWidth:       640,
		InputHeight:      640,
	}
}
