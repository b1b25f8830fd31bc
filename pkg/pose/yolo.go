package pose

import (
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// YOLODetector runs YOLOv8-pose via OpenCV DNN.
type YOLODetector struct {
	net       gocv.Net
	config    DetectorConfig
	mu        sync.Mutex // Protects inference
	inputSize image.Point
}

// NewYOLO creates a new YOLOv8-pose detector.
func NewYOLO(cfg DetectorConfig) (*YOLODetector, error) {
	// Check if model file exists
	if _, err := os.Stat(cfg.ModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", cfg.ModelPath)
	}

	// Load ONNX model
	net := gocv.ReadNetFromONNX(cfg.ModelPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load pose model from %s", cfg.ModelPath)
	}

	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	return &YOLODetector{
		net:       net,
		config:    cfg,
		inputSize: image.Pt(cfg.InputWidth, cfg.InputHeight),
	}, nil
}

// Detect finds the most confident person in the JPEG image and returns their
// keypoints. found=false when no person clears the confidence threshold.
func (d *YOLODetector) Detect(jpeg []byte) (Frame, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Decode JPEG to Mat
	img, err := gocv.IMDecode(jpeg, gocv.IMReadColor)
	if err != nil {
		return Frame{}, false, fmt.Errorf("decode image: %w", err)
	}
	defer img.Close()

	if img.Empty() {
		return Frame{}, false, fmt.Errorf("empty image")
	}

	imgW := float32(img.Cols())
	imgH := float32(img.Rows())

	// Create blob from image
	blob := gocv.BlobFromImage(img, 1.0/255.0, d.inputSize, gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")

	output := d.net.Forward("")
	defer output.Close()

	// Parse YOLOv8-pose output
	// Output shape: [1, 56, 8400] - 56 = 4 bbox + 1 person score + 17*3 keypoints
	return d.parsePoseOutput(output, imgW, imgH)
}

// parsePoseOutput picks the highest-scoring person candidate and decodes
// their 17 keypoints back to source-image pixel coordinates.
func (d *YOLODetector) parsePoseOutput(output gocv.Mat, imgW, imgH float32) (Frame, bool, error) {
	// YOLOv8-pose emits [1, 56, 8400], transposed relative to detection
	// models: column c of candidate i lives at data[c*rows+i].
	rows := output.Cols() // 8400 candidates
	cols := output.Rows() // 56 values per candidate

	data, err := output.DataPtrFloat32()
	if err != nil {
		return Frame{}, false, fmt.Errorf("read output tensor: %w", err)
	}

	bestScore := float32(d.config.ConfidenceThresh)
	bestIdx := -1
	for i := 0; i < rows; i++ {
		score := data[4*rows+i]
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	if bestIdx < 0 {
		// No person found: a normal result, not an error
		return Frame{}, false, nil
	}

	scaleX := imgW / float32(d.config.InputWidth)
	scaleY := imgH / float32(d.config.InputHeight)

	var frame Frame
	for j := 0; j < NumKeypoints && 5+j*3+2 < cols; j++ {
		base := 5 + j*3
		frame[j] = Keypoint{
			X:          float64(data[base*rows+bestIdx] * scaleX),
			Y:          float64(data[(base+1)*rows+bestIdx] * scaleY),
			Confidence: float64(data[(base+2)*rows+bestIdx]),
		}
	}

	return frame, true, nil
}

// Close releases the detector resources.
func (d *YOLODetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.net.Close()
	return nil
}

// Verify YOLODetector implements Detector at compile time.
var _ Detector = (*YOLODetector)(nil)
