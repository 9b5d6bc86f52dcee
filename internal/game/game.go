// Package game is the ebiten frontend: a camera over one or more chains that
// chase the mouse cursor.
package game

import (
	"context"
	"fmt"

	"github.com/golang/geo/r2"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Snake-Sense/internal/config"
	"github.com/Garsondee/Snake-Sense/internal/sim"
)

const (
	screenW = 1600
	screenH = 900

	// The window may shrink to this before the playfield stops following.
	minScreenW = logPanelWidth + 320
	minScreenH = 240

	// Spawned snakes sit this far apart along X.
	snakeSpacing = 120.0
)

// Game implements ebiten.Game.
type Game struct {
	width     int
	height    int
	gameWidth int // playfield width (log panel takes the rest)

	settings config.Settings
	sim      *sim.Sim
	camera   *Camera
	eventLog *EventLog
	logSeen  int // SimLog entries already forwarded to eventLog

	showHUD     bool
	showOverlay bool

	inspector Inspector
	inspBuf   *ebiten.Image

	// Simulation speed control.
	simSpeed  float64 // multiplier: 0=paused, 0.5, 1, 2, 4
	tickAccum float64
}

// New builds a game from loaded settings.
func New(settings config.Settings) (*Game, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	opts := []sim.Option{
		sim.WithConfig(settings.Chain),
		sim.WithDT(1 / float64(settings.TPS)),
		sim.WithParallel(settings.Snakes > 1),
	}
	x0 := -snakeSpacing * float64(settings.Snakes-1) / 2
	for i := 0; i < settings.Snakes; i++ {
		opts = append(opts, sim.WithSnake(r2.Point{X: x0 + snakeSpacing*float64(i)}, r2.Point{Y: 1}))
	}
	s, err := sim.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("build sim: %w", err)
	}

	g := &Game{
		width:     screenW,
		height:    screenH,
		gameWidth: screenW - logPanelWidth,
		settings:  settings,
		sim:       s,
		eventLog:  NewEventLog(),
		showHUD:   true,
		simSpeed:  1,
	}
	g.camera = NewCamera(g.gameWidth, g.height, settings.CameraSpeed, settings.TPS)
	g.forwardLog()
	return g, nil
}

func (g *Game) Update() error {
	g.handleInput()
	g.camera.Update()

	if g.simSpeed <= 0 {
		return nil
	}
	g.tickAccum += g.simSpeed
	for g.tickAccum >= 1.0 {
		g.tickAccum -= 1.0
		mx, my := ebiten.CursorPosition()
		target, ok := g.camera.CursorWorld(mx, my)
		if err := g.simTick(target, ok); err != nil {
			return err
		}
	}
	return nil
}

// simTick advances every chain one tick toward target. With ok=false the
// cursor is off the playfield and nothing moves.
func (g *Game) simTick(target r2.Point, ok bool) error {
	if _, err := g.sim.StepWith(context.Background(), target, ok, g.sim.DT()); err != nil {
		return err
	}
	g.forwardLog()
	return nil
}

// forwardLog copies new SimLog entries into the on-screen panel.
func (g *Game) forwardLog() {
	entries := g.sim.SimLog.Entries()
	for _, e := range entries[g.logSeen:] {
		g.eventLog.AddSimEntry(e)
	}
	g.logSeen = len(entries)
}

// Layout follows the window size; the log panel keeps its width and the
// playfield takes the rest.
func (g *Game) Layout(outsideW, outsideH int) (int, int) {
	w, h := max(outsideW, minScreenW), max(outsideH, minScreenH)
	if w != g.width || h != g.height {
		g.width, g.height = w, h
		g.gameWidth = w - logPanelWidth
		g.camera.Resize(g.gameWidth, h)
	}
	return g.width, g.height
}
