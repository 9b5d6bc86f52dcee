package chain

import (
	"math"

	"github.com/golang/geo/r2"
)

// StopReason says why the head did not move on a tick.
type StopReason int

const (
	StopNone    StopReason = iota // head moved
	StopReached                   // within the stop radius of the target
	StopNoTime                    // dt <= 0, NaN, or zero speed
	StopNoTarget                  // target missing or not a finite point
)

func (r StopReason) String() string {
	switch r {
	case StopNone:
		return "none"
	case StopReached:
		return "reached"
	case StopNoTime:
		return "no_time"
	case StopNoTarget:
		return "no_target"
	default:
		return "unknown"
	}
}

// SteerParams are the head's fixed movement settings.
type SteerParams struct {
	Speed      float64 // world units per second
	MaxSteer   float64 // radians the heading may turn per tick
	StopRadius float64 // head rests when this close to the target
}

// SteerResult is the head's state after one steering step.
type SteerResult struct {
	Position  r2.Point
	Direction r2.Point // unit; zero when the head did not move
	Facing    float64
	Moved     bool
	Reason    StopReason
}

// Steer advances the head from position toward target.
//
// hint is the chain's current heading (head minus its successor). When
// hasHint is set the head turns from the hint toward the target by at most
// p.MaxSteer, which keeps it from snapping onto the cursor.
func Steer(position, target, hint r2.Point, hasHint bool, p SteerParams, dt float64) SteerResult {
	stay := SteerResult{Position: position}
	if !finite(target.X) || !finite(target.Y) {
		stay.Reason = StopNoTarget
		return stay
	}

	raw := target.Sub(position)
	if raw.Dot(raw) <= p.StopRadius*p.StopRadius {
		stay.Reason = StopReached
		return stay
	}
	if !(dt > 0) || p.Speed <= 0 || math.IsInf(dt, 0) {
		stay.Reason = StopNoTime
		return stay
	}

	direction := raw
	if hasHint && hint.Norm() >= degenerateEpsilon {
		angle := clampf(AngleBetween(hint, raw), -p.MaxSteer, p.MaxSteer)
		direction = Rotate(hint, angle)
	}
	direction = NormalizeOrZero(direction)

	return SteerResult{
		Position:  position.Add(direction.Mul(p.Speed * dt)),
		Direction: direction,
		Facing:    Heading(direction),
		Moved:     true,
	}
}
