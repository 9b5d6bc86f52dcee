package config

import (
	"flag"

	"github.com/Garsondee/Snake-Sense/internal/chain"
)

// Overrides holds optional command-line values. Nil fields leave the loaded
// setting alone.
type Overrides struct {
	Segments     *int
	LinkDistance *float64
	MaxTurnDeg   *float64
	Speed        *float64
	MaxSteerDeg  *float64
	StopRadius   *float64
	Snakes       *int
	Audio        *bool
}

// Apply returns base with every non-nil override applied, validated.
func (o Overrides) Apply(base Settings) (Settings, error) {
	if o.Segments != nil {
		base.Chain.Segments = *o.Segments
	}
	if o.LinkDistance != nil {
		base.Chain.LinkDistance = *o.LinkDistance
	}
	if o.MaxTurnDeg != nil {
		base.Chain.MaxTurnAngle = chain.Radians(*o.MaxTurnDeg)
	}
	if o.Speed != nil {
		base.Chain.Speed = *o.Speed
	}
	if o.MaxSteerDeg != nil {
		base.Chain.MaxSteer = chain.Radians(*o.MaxSteerDeg)
	}
	if o.StopRadius != nil {
		base.Chain.StopRadius = *o.StopRadius
	}
	if o.Snakes != nil {
		base.Snakes = *o.Snakes
	}
	if o.Audio != nil {
		base.Audio = *o.Audio
	}
	if err := base.Validate(); err != nil {
		return Settings{}, err
	}
	return base, nil
}

// RegisterFlags binds the override fields to fs. Only flags the user actually
// sets end up non-nil; call Collect after fs.Parse.
func RegisterFlags(fs *flag.FlagSet) *FlagSet {
	f := &FlagSet{fs: fs}
	f.segments = fs.Int("segments", 0, "override segment count")
	f.link = fs.Float64("link", 0, "override link distance")
	f.turn = fs.Float64("turn-deg", 0, "override max joint bend (degrees)")
	f.speed = fs.Float64("speed", 0, "override head speed (units/s)")
	f.steer = fs.Float64("steer-deg", 0, "override max head turn per tick (degrees)")
	f.stop = fs.Float64("stop-radius", 0, "override stop radius")
	f.snakes = fs.Int("snakes", 0, "override snake count")
	f.audio = fs.Bool("audio", true, "enable audio cues")
	return f
}

// FlagSet is the parsed form of RegisterFlags.
type FlagSet struct {
	fs       *flag.FlagSet
	segments *int
	link     *float64
	turn     *float64
	speed    *float64
	steer    *float64
	stop     *float64
	snakes   *int
	audio    *bool
}

// Collect turns explicitly set flags into Overrides.
func (f *FlagSet) Collect() Overrides {
	var o Overrides
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "segments":
			o.Segments = f.segments
		case "link":
			o.LinkDistance = f.link
		case "turn-deg":
			o.MaxTurnDeg = f.turn
		case "speed":
			o.Speed = f.speed
		case "steer-deg":
			o.MaxSteerDeg = f.steer
		case "stop-radius":
			o.StopRadius = f.stop
		case "snakes":
			o.Snakes = f.snakes
		case "audio":
			o.Audio = f.audio
		}
	})
	return o
}
