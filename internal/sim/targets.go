package sim

import (
	"math"

	"github.com/golang/geo/r2"
)

// TargetFunc supplies the target for a tick. ok=false means no target is
// available (cursor off the viewport) and the tick is skipped.
type TargetFunc func(tick int) (target r2.Point, ok bool)

// NoTarget never yields a target.
func NoTarget(int) (r2.Point, bool) { return r2.Point{}, false }

// FixedTarget always yields p.
func FixedTarget(p r2.Point) TargetFunc {
	return func(int) (r2.Point, bool) { return p, true }
}

// CircleTarget sweeps a circle of the given radius around centre once every
// period ticks.
func CircleTarget(centre r2.Point, radius float64, period int) TargetFunc {
	if period <= 0 {
		period = 1
	}
	return func(tick int) (r2.Point, bool) {
		a := 2 * math.Pi * float64(tick%period) / float64(period)
		return centre.Add(r2.Point{X: radius * math.Cos(a), Y: radius * math.Sin(a)}), true
	}
}

// ZigzagTarget marches along +X at speed units per tick while flipping
// between +amplitude and -amplitude on Y every flip ticks.
func ZigzagTarget(start r2.Point, speed, amplitude float64, flip int) TargetFunc {
	if flip <= 0 {
		flip = 1
	}
	return func(tick int) (r2.Point, bool) {
		y := amplitude
		if (tick/flip)%2 == 1 {
			y = -amplitude
		}
		return start.Add(r2.Point{X: speed * float64(tick), Y: y}), true
	}
}

// IntermittentTarget wraps fn and drops the target for off ticks out of
// every on+off, modelling a cursor that leaves the viewport.
func IntermittentTarget(fn TargetFunc, on, off int) TargetFunc {
	cycle := on + off
	if on <= 0 || cycle <= 0 {
		return NoTarget
	}
	return func(tick int) (r2.Point, bool) {
		if tick%cycle >= on {
			return r2.Point{}, false
		}
		return fn(tick)
	}
}
