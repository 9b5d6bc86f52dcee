package chain

import (
	"fmt"

	"github.com/golang/geo/r2"
)

// DegeneratePolicy selects what Constrain does when a segment sits on top of
// its anchor and the pull direction is undefined.
type DegeneratePolicy int

const (
	// DegenerateSkip leaves the segment where it is for this tick.
	DegenerateSkip DegeneratePolicy = iota
	// DegenerateSnap collapses the segment onto its anchor.
	DegenerateSnap
)

func (p DegeneratePolicy) String() string {
	switch p {
	case DegenerateSkip:
		return "skip"
	case DegenerateSnap:
		return "snap"
	default:
		return fmt.Sprintf("DegeneratePolicy(%d)", int(p))
	}
}

// ParseDegeneratePolicy maps "skip" / "snap" to a policy.
func ParseDegeneratePolicy(s string) (DegeneratePolicy, error) {
	switch s {
	case "skip":
		return DegenerateSkip, nil
	case "snap":
		return DegenerateSnap, nil
	}
	return 0, fmt.Errorf("%w: unknown degenerate policy %q", ErrInvalidConfig, s)
}

// Constrain pulls or pushes position along the line to anchor until it is
// exactly distance away. The bool is false only when the policy is
// DegenerateSkip and position coincides with anchor; position is then
// returned unchanged.
func Constrain(position, anchor r2.Point, distance float64, policy DegeneratePolicy) (r2.Point, bool) {
	offset := position.Sub(anchor)
	if offset.Norm() < degenerateEpsilon {
		if policy == DegenerateSkip {
			return position, false
		}
		return anchor, true
	}
	return anchor.Add(NormalizeOrZero(offset).Mul(distance)), true
}
