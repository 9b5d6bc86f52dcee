// Package config loads runtime settings from an optional .env file and
// SNAKE_* environment variables. Angles are given in degrees here and stored
// in radians on chain.Config.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Garsondee/Snake-Sense/internal/chain"
)

// DefaultEnvFile is read by Load when no path is given.
const DefaultEnvFile = ".env"

// Environment keys.
const (
	EnvSegments     = "SNAKE_SEGMENTS"
	EnvLinkDistance = "SNAKE_LINK_DISTANCE"
	EnvMaxTurnDeg   = "SNAKE_MAX_TURN_DEG"
	EnvSpeed        = "SNAKE_SPEED"
	EnvMaxSteerDeg  = "SNAKE_MAX_STEER_DEG"
	EnvStopRadius   = "SNAKE_STOP_RADIUS"
	EnvDegenerate   = "SNAKE_DEGENERATE"
	EnvCameraSpeed  = "SNAKE_CAMERA_SPEED"
	EnvSnakes       = "SNAKE_COUNT"
	EnvTPS          = "SNAKE_TPS"
	EnvAudio        = "SNAKE_AUDIO"
)

// Settings is everything a frontend needs to start.
type Settings struct {
	Chain       chain.Config
	CameraSpeed float64 // world units per second
	Snakes      int
	TPS         int
	Audio       bool
}

// Defaults returns the shipped settings.
func Defaults() Settings {
	return Settings{
		Chain:       chain.DefaultConfig(),
		CameraSpeed: 500,
		Snakes:      1,
		TPS:         60,
		Audio:       true,
	}
}

// Validate checks the chain config plus the frontend fields.
func (s Settings) Validate() error {
	if err := s.Chain.Validate(); err != nil {
		return err
	}
	if s.CameraSpeed < 0 {
		return fmt.Errorf("%w: camera speed must be >= 0, got %v", chain.ErrInvalidConfig, s.CameraSpeed)
	}
	if s.Snakes < 1 {
		return fmt.Errorf("%w: snake count must be >= 1, got %d", chain.ErrInvalidConfig, s.Snakes)
	}
	if s.TPS < 1 {
		return fmt.Errorf("%w: tps must be >= 1, got %d", chain.ErrInvalidConfig, s.TPS)
	}
	return nil
}

// Load returns Defaults overlaid with values from the env file at path and
// then the process environment, which wins. A missing file is not an error.
// An empty path means DefaultEnvFile.
func Load(path string) (Settings, error) {
	if path == "" {
		path = DefaultEnvFile
	}
	file, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, fmt.Errorf("read %s: %w", path, err)
		}
		file = nil
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := file[key]
		return v, ok
	}
	return FromLookup(lookup)
}

// FromLookup builds Settings from an arbitrary key source.
func FromLookup(lookup func(string) (string, bool)) (Settings, error) {
	s := Defaults()
	p := parser{lookup: lookup}

	p.int(EnvSegments, &s.Chain.Segments)
	p.float(EnvLinkDistance, &s.Chain.LinkDistance)
	p.degrees(EnvMaxTurnDeg, &s.Chain.MaxTurnAngle)
	p.float(EnvSpeed, &s.Chain.Speed)
	p.degrees(EnvMaxSteerDeg, &s.Chain.MaxSteer)
	p.float(EnvStopRadius, &s.Chain.StopRadius)
	if v, ok := p.get(EnvDegenerate); ok && p.err == nil {
		pol, err := chain.ParseDegeneratePolicy(v)
		if err != nil {
			p.err = fmt.Errorf("%s: %w", EnvDegenerate, err)
		}
		s.Chain.Degenerate = pol
	}
	p.float(EnvCameraSpeed, &s.CameraSpeed)
	p.int(EnvSnakes, &s.Snakes)
	p.int(EnvTPS, &s.TPS)
	p.bool(EnvAudio, &s.Audio)

	if p.err != nil {
		return Settings{}, p.err
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// parser keeps the first error so the field list above stays flat.
type parser struct {
	lookup func(string) (string, bool)
	err    error
}

func (p *parser) get(key string) (string, bool) {
	v, ok := p.lookup(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func (p *parser) float(key string, dst *float64) {
	v, ok := p.get(key)
	if !ok || p.err != nil {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.err = fmt.Errorf("%s: %w", key, err)
		return
	}
	*dst = f
}

func (p *parser) degrees(key string, dst *float64) {
	if _, ok := p.get(key); !ok {
		return
	}
	var deg float64
	p.float(key, &deg)
	if p.err == nil {
		*dst = chain.Radians(deg)
	}
}

func (p *parser) int(key string, dst *int) {
	v, ok := p.get(key)
	if !ok || p.err != nil {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.err = fmt.Errorf("%s: %w", key, err)
		return
	}
	*dst = n
}

func (p *parser) bool(key string, dst *bool) {
	v, ok := p.get(key)
	if !ok || p.err != nil {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.err = fmt.Errorf("%s: %w", key, err)
		return
	}
	*dst = b
}
