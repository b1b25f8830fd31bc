// Replay driver - feeds recorded keypoint frames through a coaching session
// without a camera or pose model.
//
// Input is JSONL: one frame per line, each an array of 17 [x, y, confidence]
// triples in COCO order.
//
// Usage:
//
//	go run ./cmd/replay -exercise squat frames.jsonl
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/teslashibe/go-coach/internal/config"
	"github.com/teslashibe/go-coach/internal/log"
	"github.com/teslashibe/go-coach/pkg/pose"
	"github.com/teslashibe/go-coach/pkg/session"
)

func main() {
	exerciseName := flag.String("exercise", "squat", "exercise profile name")
	verbose := flag.Bool("v", false, "print every frame result")
	flag.Parse()

	log.Init(config.LogLevel())

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: replay [-exercise name] [-v] frames.jsonl")
		os.Exit(1)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal("open frames file", "error", err)
	}
	defer f.Close()

	// No reference store and no voice: the engine runs fine without both
	manager := session.NewManager(session.ManagerConfig{})
	sess, err := manager.Start(*exerciseName)
	if err != nil {
		log.Fatal("start session", "error", err)
	}

	frames := 0
	skipped := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		frame, err := parseFrame(line)
		if err != nil {
			log.Warn("bad frame line, skipping", "line", frames+skipped+1, "error", err)
			skipped++
			continue
		}

		result := sess.ProcessFrame(frame)
		frames++

		if result.RepCompleted {
			fmt.Printf("rep #%d at frame %d\n", result.RepCount, frames)
		}
		if *verbose {
			fmt.Printf("frame %d: %s\n", frames, result.Feedback.ScreenText)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatal("read frames", "error", err)
	}

	final, _ := manager.End(sess.ID)
	fmt.Printf("\n%s: %d reps over %d frames (%d skipped)\n",
		*exerciseName, final, frames, skipped)
}

// parseFrame decodes one JSONL line into a pose frame.
func parseFrame(line []byte) (pose.Frame, error) {
	var triples [][3]float64
	if err := json.Unmarshal(line, &triples); err != nil {
		return pose.Frame{}, err
	}
	if len(triples) != pose.NumKeypoints {
		return pose.Frame{}, fmt.Errorf("expected %d keypoints, got %d", pose.NumKeypoints, len(triples))
	}

	var frame pose.Frame
	for i, t := range triples {
		frame[i] = pose.Keypoint{X: t[0], Y: t[1], Confidence: t[2]}
	}
	return frame, nil
}
