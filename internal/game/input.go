package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var simSpeeds = []float64{0, 0.5, 1, 2, 4}

// handleInput reads held keys for panning and edge-triggered keys for
// toggles.
func (g *Game) handleInput() {
	dir := DirectionFromKeys(
		ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight),
	)
	g.camera.Pan(dir, 1/float64(ebiten.TPS()))

	if _, wy := ebiten.Wheel(); wy > 0 {
		g.camera.ZoomIn()
	} else if wy < 0 {
		g.camera.ZoomOut()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		g.camera.ZoomIn()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		g.camera.ZoomOut()
	}
	if inpututil.IsKeyJustPressed(ebiten.Key0) {
		g.camera.SetZoomTarget(1)
	}

	// Sim speed controls: P=pause/resume, ,=slower, .=faster.
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		if g.simSpeed > 0 {
			g.simSpeed = 0
		} else {
			g.simSpeed = 1
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyComma) {
		g.simSpeed = slowerSpeed(g.simSpeed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPeriod) {
		g.simSpeed = fasterSpeed(g.simSpeed)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		g.showOverlay = !g.showOverlay
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyI) {
		g.inspector.chainView = !g.inspector.chainView
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyDebugReport()
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		g.handleInspectorClick(mx, my)
	}
}

func slowerSpeed(cur float64) float64 {
	for i := len(simSpeeds) - 1; i >= 0; i-- {
		if simSpeeds[i] < cur {
			return simSpeeds[i]
		}
	}
	return simSpeeds[0]
}

func fasterSpeed(cur float64) float64 {
	for _, s := range simSpeeds {
		if s > cur {
			return s
		}
	}
	return simSpeeds[len(simSpeeds)-1]
}
