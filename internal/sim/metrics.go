package sim

import (
	"math"

	"github.com/Garsondee/Snake-Sense/internal/chain"
)

// ChainMetrics measures how well a chain currently honours its constraints.
// Only segments reachable from the head are measured.
type ChainMetrics struct {
	Reachable      int
	MaxLinkError   float64 // largest |link length - configured distance|
	MaxJointAngle  float64 // largest bend at any joint, radians
	MaxJointExcess float64 // largest bend beyond the limit, radians (0 when honoured)
	HeadToTarget   float64
}

// Measure computes ChainMetrics for c.
func Measure(c *chain.Chain) ChainMetrics {
	cfg := c.Config()
	pos := c.Positions()
	m := ChainMetrics{Reachable: len(pos)}
	if len(pos) == 0 {
		return m
	}
	m.HeadToTarget = c.Target().Sub(pos[0]).Norm()

	prev := c.Direction()
	for i := 1; i < len(pos); i++ {
		joint := pos[i-1].Sub(pos[i])
		if e := math.Abs(joint.Norm() - cfg.LinkDistance); e > m.MaxLinkError {
			m.MaxLinkError = e
		}
		a := math.Abs(chain.AngleBetween(prev, joint))
		if a > m.MaxJointAngle {
			m.MaxJointAngle = a
		}
		if ex := a - cfg.MaxTurnAngle; ex > m.MaxJointExcess {
			m.MaxJointExcess = ex
		}
		prev = joint
	}
	return m
}

// Violation is one broken constraint found by CheckLinkDistances or
// CheckJointAngles.
type Violation struct {
	Joint int // index of the trailing segment, 1-based from the head
	Value float64
	Limit float64
}

// CheckLinkDistances reports links whose length differs from the configured
// distance by more than eps.
func CheckLinkDistances(c *chain.Chain, eps float64) []Violation {
	var out []Violation
	want := c.Config().LinkDistance
	pos := c.Positions()
	for i := 1; i < len(pos); i++ {
		d := pos[i-1].Sub(pos[i]).Norm()
		if math.Abs(d-want) > eps {
			out = append(out, Violation{Joint: i, Value: d, Limit: want})
		}
	}
	return out
}

// CheckJointAngles reports joints bent past the configured limit by more
// than eps radians.
func CheckJointAngles(c *chain.Chain, eps float64) []Violation {
	var out []Violation
	limit := c.Config().MaxTurnAngle
	pos := c.Positions()
	prev := c.Direction()
	for i := 1; i < len(pos); i++ {
		joint := pos[i-1].Sub(pos[i])
		if a := math.Abs(chain.AngleBetween(prev, joint)); a > limit+eps {
			out = append(out, Violation{Joint: i, Value: a, Limit: limit})
		}
		prev = joint
	}
	return out
}
