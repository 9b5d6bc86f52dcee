// Package chain implements the constrained-chain follower: a head steered
// toward a target and a linked run of segments that trail it at a fixed link
// distance with a bounded turn at every joint.
package chain

import (
	"math"

	"github.com/golang/geo/r2"
)

// degenerateEpsilon is the length below which a vector has no usable direction.
const degenerateEpsilon = 1e-9

// NormalizeOrZero returns the unit vector along v, or the zero vector when v
// is too short to carry a direction.
func NormalizeOrZero(v r2.Point) r2.Point {
	n := v.Norm()
	if n < degenerateEpsilon || math.IsNaN(n) {
		return r2.Point{}
	}
	return v.Mul(1 / n)
}

// Rotate rotates v by angle radians, counter-clockwise positive.
func Rotate(v r2.Point, angle float64) r2.Point {
	sin, cos := math.Sincos(angle)
	return r2.Point{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// AngleBetween returns the signed angle in (-π, π] that rotates a onto b.
// Counter-clockwise is positive. Degenerate inputs give 0.
func AngleBetween(a, b r2.Point) float64 {
	if a.Norm() < degenerateEpsilon || b.Norm() < degenerateEpsilon {
		return 0
	}
	return math.Atan2(a.Cross(b), a.Dot(b))
}

// Heading returns the facing angle of v measured from the +X axis.
func Heading(v r2.Point) float64 {
	return math.Atan2(v.Y, v.X)
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
