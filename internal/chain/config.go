package chain

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is wrapped by every configuration rejection.
var ErrInvalidConfig = errors.New("invalid chain config")

// Config is fixed when a chain is built. Angles are in radians.
type Config struct {
	Segments     int     // total segments including the head
	LinkDistance float64 // distance between neighbouring segments
	MaxTurnAngle float64 // largest bend allowed at any joint
	Speed        float64 // head speed, world units per second
	MaxSteer     float64 // largest head turn per tick
	StopRadius   float64 // head rests within this distance of the target
	Degenerate   DegeneratePolicy
}

// DefaultConfig returns the tuning the game ships with.
func DefaultConfig() Config {
	return Config{
		Segments:     40,
		LinkDistance: 20,
		MaxTurnAngle: Radians(20),
		Speed:        500,
		MaxSteer:     Radians(20),
		StopRadius:   10,
		Degenerate:   DegenerateSkip,
	}
}

// Validate rejects settings that would produce NaN positions or a chain
// without a head.
func (c Config) Validate() error {
	if c.Segments < 1 {
		return fmt.Errorf("%w: segments must be >= 1, got %d", ErrInvalidConfig, c.Segments)
	}
	if !finite(c.LinkDistance) || c.LinkDistance <= 0 {
		return fmt.Errorf("%w: link distance must be > 0, got %v", ErrInvalidConfig, c.LinkDistance)
	}
	if !finite(c.MaxTurnAngle) || c.MaxTurnAngle < 0 || c.MaxTurnAngle > math.Pi {
		return fmt.Errorf("%w: max turn angle must be in [0, π], got %v", ErrInvalidConfig, c.MaxTurnAngle)
	}
	if !finite(c.Speed) || c.Speed < 0 {
		return fmt.Errorf("%w: speed must be >= 0, got %v", ErrInvalidConfig, c.Speed)
	}
	if !finite(c.MaxSteer) || c.MaxSteer < 0 || c.MaxSteer > math.Pi {
		return fmt.Errorf("%w: max steer must be in [0, π], got %v", ErrInvalidConfig, c.MaxSteer)
	}
	if !finite(c.StopRadius) || c.StopRadius < 0 {
		return fmt.Errorf("%w: stop radius must be >= 0, got %v", ErrInvalidConfig, c.StopRadius)
	}
	if c.Degenerate != DegenerateSkip && c.Degenerate != DegenerateSnap {
		return fmt.Errorf("%w: unknown degenerate policy %v", ErrInvalidConfig, c.Degenerate)
	}
	return nil
}

// SteerParams extracts the head movement settings.
func (c Config) SteerParams() SteerParams {
	return SteerParams{Speed: c.Speed, MaxSteer: c.MaxSteer, StopRadius: c.StopRadius}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
