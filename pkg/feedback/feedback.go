// Package feedback turns the current angle set into coaching messages.
//
// Screen text is produced every frame, even when the only honest message is
// "reposition". Spoken text is gated by a cooldown so the coach does not
// talk over itself; the cooldown never applies to screen text.
package feedback

import (
	"fmt"
	"strings"
	"time"

	"github.com/teslashibe/go-coach/pkg/exercise"
	"github.com/teslashibe/go-coach/pkg/kinematics"
)

// DefaultCooldown is the minimum gap between spoken messages.
const DefaultCooldown = 5 * time.Second

// Event is one frame's coaching output. SpeakText is empty when there is
// nothing to say (or the cooldown has not elapsed).
type Event struct {
	ScreenText  string    `json:"screen_text"`
	SpeakText   string    `json:"speak_text,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Arbiter selects at most one message per frame via ordered rule
// evaluation, first matching rule per exercise wins.
type Arbiter struct {
	cooldown   time.Duration
	lastSpoken time.Time

	// now is swappable for tests.
	now func() time.Time
}

// NewArbiter creates an arbiter with the given spoken-feedback cooldown.
func NewArbiter(cooldown time.Duration) *Arbiter {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Arbiter{cooldown: cooldown, now: time.Now}
}

// MarkSpoken records that something was just spoken outside the arbiter
// (for example a rep-completion line), restarting the cooldown window.
func (a *Arbiter) MarkSpoken() {
	a.lastSpoken = a.now()
}

// Evaluate produces the coaching event for the current frame.
func (a *Arbiter) Evaluate(profile exercise.Profile, angles kinematics.AngleSet) Event {
	var screen []string
	var speak string

	switch profile.Metric {
	case exercise.MetricAvgKnee:
		screen, speak = squatRules(angles)
	case exercise.MetricAvgArmRaise:
		screen, speak = armRaiseRules(angles)
	case exercise.MetricArmHeading:
		screen, speak = armCircleRules(angles)
	default:
		screen = []string{"No exercise detected."}
	}

	now := a.now()
	ev := Event{
		ScreenText:  strings.Join(screen, " | "),
		GeneratedAt: now,
	}

	if speak != "" && now.Sub(a.lastSpoken) > a.cooldown {
		ev.SpeakText = speak
		a.lastSpoken = now
	}
	return ev
}

// squatRules: depth bands on the average knee angle.
func squatRules(angles kinematics.AngleSet) ([]string, string) {
	lk, rk := angles.LeftKnee, angles.RightKnee
	if !lk.Valid || !rk.Valid {
		return []string{"Can't measure squat - reposition"}, ""
	}

	avg := (lk.Deg + rk.Deg) / 2
	screen := []string{fmt.Sprintf("Knees: L%d° R%d°", int(lk.Deg), int(rk.Deg))}

	switch {
	case avg > 140:
		screen = append(screen, "Try going deeper.")
		return screen, "Try lowering a bit more to hit full depth."
	case avg < 75:
		screen = append(screen, "Nice depth, control the movement.")
		return screen, "Good depth. Keep control on the way up."
	default:
		screen = append(screen, "Good squat depth.")
		return screen, "Good squat. Keep your chest up."
	}
}

// armRaiseRules: straightness, height band, and left/right symmetry for the
// recovery arm raise.
func armRaiseRules(angles kinematics.AngleSet) ([]string, string) {
	le, re := angles.LeftElbow, angles.RightElbow
	la, ra := angles.LeftArmRaise, angles.RightArmRaise
	if !le.Valid || !re.Valid || !la.Valid || !ra.Valid {
		return []string{"Can't measure arms - reposition"}, ""
	}

	avgElbow := (le.Deg + re.Deg) / 2
	avgArm := (la.Deg + ra.Deg) / 2
	screen := []string{fmt.Sprintf("Arms: L%d° R%d°", int(la.Deg), int(ra.Deg))}
	speak := ""

	if avgElbow < 160 {
		screen = append(screen, fmt.Sprintf("Keep arms straight! (Elbows: %d°)", int(avgElbow)))
		speak = "Keep your arms straight."
	} else {
		screen = append(screen, "Arms straight")
	}

	switch {
	case avgArm < 70:
		screen = append(screen, "Raise arms higher to shoulder level")
		if speak == "" {
			speak = "Raise your arms up to shoulder level."
		}
	case avgArm > 100:
		screen = append(screen, "Don't raise too high! Risk of injury")
		if speak == "" {
			speak = "Don't raise your arms above shoulder level."
		}
	default:
		screen = append(screen, "Good height (shoulder level)")
	}

	if diff := la.Deg - ra.Deg; diff > 15 || diff < -15 {
		screen = append(screen, "Uneven arms! Keep them level")
		if speak == "" {
			speak = "Keep your arms level with each other."
		}
	} else {
		screen = append(screen, "Good balance")
	}

	if speak == "" {
		speak = "Nice controlled movement."
	}
	return screen, speak
}

// armCircleRules: elbow softness during continuous rotation.
func armCircleRules(angles kinematics.AngleSet) ([]string, string) {
	le, re := angles.LeftElbow, angles.RightElbow
	if !le.Valid || !re.Valid {
		return []string{"Can't measure arms - reposition"}, ""
	}

	screen := []string{fmt.Sprintf("Elbows: L%d° R%d°", int(le.Deg), int(re.Deg))}
	if le.Deg > 170 && re.Deg > 170 {
		screen = append(screen, "Soften your elbows a little.")
		return screen, "Bend your elbows slightly so your shoulders aren't strained."
	}
	screen = append(screen, "Nice arm circle.")
	return screen, "Nice rotation, keep a smooth pace."
}

// RepLine returns the spoken line for a completed repetition.
func RepLine(profile exercise.Profile) string {
	switch profile.Metric {
	case exercise.MetricArmHeading:
		return "Nice circle. Rep counted."
	case exercise.MetricAvgArmRaise:
		return "Good raise. Rep counted."
	default:
		return "Nice squat. Rep counted."
	}
}
