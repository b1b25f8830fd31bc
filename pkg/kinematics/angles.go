// Package kinematics converts smoothed keypoint frames into named joint
// angles and the derived vectors used by rotation tracking.
package kinematics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// epsilon guards the angle denominator so coincident points yield a finite
// angle instead of NaN.
const epsilon = 1e-8

// Angle returns the interior angle at vertex b formed by points a-b-c, in
// degrees [0,180]. 180 = fully extended, 0 = fully folded.
func Angle(a, b, c r2.Vec) float64 {
	ba := r2.Sub(a, b)
	bc := r2.Sub(c, b)
	denom := r2.Norm(ba)*r2.Norm(bc) + epsilon
	cos := r2.Dot(ba, bc) / denom
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

// WrapDeg normalizes an angle to (-180,180]. Used when comparing headings
// across frames, so a crossing of the ±180 boundary does not register as a
// near-360 jump.
func WrapDeg(a float64) float64 {
	w := math.Mod(a, 360)
	if w <= -180 {
		w += 360
	} else if w > 180 {
		w -= 360
	}
	return w
}

// Heading returns the signed direction of the vector from p to q in degrees
// (-180,180], via atan2.
func Heading(from, to r2.Vec) float64 {
	d := r2.Sub(to, from)
	return WrapDeg(math.Atan2(d.Y, d.X) * 180 / math.Pi)
}

// VerticalLean returns the angle in degrees between the vector from hip to
// shoulder and the canonical "up" direction. Image coordinates grow downward,
// so up is (0,-1). 0 = perfectly upright.
func VerticalLean(hip, shoulder r2.Vec) float64 {
	up := r2.Vec{X: 0, Y: -1}
	return Angle(r2.Add(hip, up), hip, shoulder)
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b r2.Vec) r2.Vec {
	return r2.Scale(0.5, r2.Add(a, b))
}
