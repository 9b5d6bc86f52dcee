package chain

import "github.com/golang/geo/r2"

// ClampTurn limits the bend at one joint.
//
// current is the direction from the segment toward its anchor, previous is
// the anchor's own direction toward its anchor. When the signed angle from
// previous to current lies outside [-maxAngle, maxAngle], the joint is bent
// exactly maxAngle and the returned position sits prevDistance behind
// prevPosition along the clamped direction. Otherwise ok is false and the
// caller keeps its distance-constrained position.
func ClampTurn(current, previous, prevPosition r2.Point, prevDistance, maxAngle float64) (pos r2.Point, ok bool) {
	angle := AngleBetween(previous, current)
	if angle >= -maxAngle && angle <= maxAngle {
		return r2.Point{}, false
	}

	clamped := clampf(angle, -maxAngle, maxAngle)
	// The joint direction points head-ward, so the segment lies on the
	// opposite side of the anchor.
	back := Rotate(NormalizeOrZero(previous), clamped).Mul(-1)
	return prevPosition.Add(back.Mul(prevDistance)), true
}
