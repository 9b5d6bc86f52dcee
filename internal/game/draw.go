package game

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/golang/geo/r2"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/Garsondee/Snake-Sense/internal/chain"
)

const (
	gridSpacing = 100.0 // world units
	rimWidth    = 4.0   // world units of black outline around each segment
)

var (
	colBackground = color.RGBA{R: 38, G: 36, B: 44, A: 255}
	colGrid       = color.RGBA{R: 60, G: 56, B: 70, A: 255}
	colBody       = colornames.Purple
	colRim        = colornames.Black
	colSelected   = colornames.Gold
	colLink       = colornames.Lightgray
	colClamped    = colornames.Orangered
	colTarget     = colornames.Limegreen
)

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colBackground)

	play := screen.SubImage(image.Rect(0, 0, g.gameWidth, g.height)).(*ebiten.Image)
	g.drawGrid(play)
	g.drawSnakes(play)
	if g.showOverlay {
		g.drawOverlay(play)
	}
	g.drawTarget(play)

	g.eventLog.Draw(screen, g.gameWidth, g.height)
	if g.showHUD {
		g.drawHUD(screen)
	}
	g.drawInspector(screen)
}

// drawGrid draws world-aligned grid lines across the visible playfield.
func (g *Game) drawGrid(screen *ebiten.Image) {
	cam := g.camera
	tl := cam.ScreenToWorld(r2.Point{})
	br := cam.ScreenToWorld(r2.Point{X: float64(g.gameWidth), Y: float64(g.height)})
	minX, maxX := math.Min(tl.X, br.X), math.Max(tl.X, br.X)
	minY, maxY := math.Min(tl.Y, br.Y), math.Max(tl.Y, br.Y)

	for x := math.Floor(minX/gridSpacing) * gridSpacing; x <= maxX; x += gridSpacing {
		a := cam.WorldToScreen(r2.Point{X: x, Y: minY})
		b := cam.WorldToScreen(r2.Point{X: x, Y: maxY})
		vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 1, colGrid, false)
	}
	for y := math.Floor(minY/gridSpacing) * gridSpacing; y <= maxY; y += gridSpacing {
		a := cam.WorldToScreen(r2.Point{X: minX, Y: y})
		b := cam.WorldToScreen(r2.Point{X: maxX, Y: y})
		vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 1, colGrid, false)
	}
}

// drawSnakes draws each segment as a filled circle with a dark rim, tail
// first so the head ends up on top.
func (g *Game) drawSnakes(screen *ebiten.Image) {
	zoom := g.camera.Zoom()
	for si, sn := range g.sim.Snakes {
		radius := sn.Chain.Config().LinkDistance
		poses := sn.Chain.Poses()
		for i := len(poses) - 1; i >= 0; i-- {
			p := poses[i]
			s := g.camera.WorldToScreen(p.Position)
			x, y := float32(s.X), float32(s.Y)
			vector.FillCircle(screen, x, y, float32((radius+rimWidth)*zoom), colRim, true)
			vector.FillCircle(screen, x, y, float32(radius*zoom), colBody, true)

			if g.inspector.selected && g.inspector.snake == si && g.inspector.segment == p.ID {
				vector.StrokeCircle(screen, x, y, float32((radius+rimWidth)*zoom)+2, 2, colSelected, true)
			}
		}
		if len(poses) > 0 {
			g.drawFacing(screen, poses[0], radius)
		}
	}
}

// drawFacing marks the head's facing with a short line.
func (g *Game) drawFacing(screen *ebiten.Image, head chain.Pose, radius float64) {
	tip := head.Position.Add(chain.Rotate(r2.Point{X: radius}, head.Facing))
	a := g.camera.WorldToScreen(head.Position)
	b := g.camera.WorldToScreen(tip)
	vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 2, colRim, true)
}

// drawOverlay shows link lines and marks joints that sit at their bend limit.
func (g *Game) drawOverlay(screen *ebiten.Image) {
	for _, sn := range g.sim.Snakes {
		c := sn.Chain
		limit := c.Config().MaxTurnAngle
		pos := c.Positions()
		prev := c.Direction()
		for i := 1; i < len(pos); i++ {
			joint := pos[i-1].Sub(pos[i])
			a := g.camera.WorldToScreen(pos[i-1])
			b := g.camera.WorldToScreen(pos[i])
			col := colLink
			if math.Abs(chain.AngleBetween(prev, joint)) >= limit-1e-6 {
				col = colClamped
			}
			vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 1.5, col, true)
			vector.FillCircle(screen, float32(b.X), float32(b.Y), 2.5, col, true)
			prev = joint
		}
		if last := sn.LastResult(); last.Broken && len(pos) > 0 {
			end := g.camera.WorldToScreen(pos[len(pos)-1])
			ebitenutil.DebugPrintAt(screen, "BROKEN", int(end.X)+8, int(end.Y)-8)
		}
	}
}

// drawTarget draws the cursor target and the stop radius around it.
func (g *Game) drawTarget(screen *ebiten.Image) {
	target, ok := g.sim.Target()
	if !ok {
		return
	}
	s := g.camera.WorldToScreen(target)
	r := float32(g.settings.Chain.StopRadius * g.camera.Zoom())
	vector.StrokeCircle(screen, float32(s.X), float32(s.Y), max(r, 3), 1, colTarget, true)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	speed := "PAUSED"
	if g.simSpeed > 0 {
		speed = fmt.Sprintf("%gx", g.simSpeed)
	}
	lines := []string{
		fmt.Sprintf("SIM: %s  T=%d  P=pause  ,/. speed", speed, g.sim.CurrentTick()),
		fmt.Sprintf("snakes=%d  segments=%d  TPS=%.0f", len(g.sim.Snakes), g.settings.Chain.Segments, ebiten.ActualTPS()),
		"WASD/arrows=pan  scroll or =/- zoom  0=reset",
		fmt.Sprintf("zoom: %.2fx→%.2fx  click=inspect  C=copy report", g.camera.Zoom(), g.camera.ZoomTarget()),
		"[O] overlay  [H] toggle HUD",
	}

	const lineH = 12
	const charW = 6
	const pad = 5
	maxLen := 0
	for _, l := range lines {
		maxLen = max(maxLen, len(l))
	}
	boxW := float32(maxLen*charW + pad*2)
	boxH := float32(len(lines)*lineH + pad*2)
	bx := float32(4)
	by := float32(g.height) - boxH - 4

	vector.FillRect(screen, bx, by, boxW, boxH, color.RGBA{R: 10, G: 6, B: 14, A: 210}, false)
	vector.StrokeRect(screen, bx, by, boxW, boxH, 1.0, colornames.Indigo, false)
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, int(bx)+pad, int(by)+pad+i*lineH)
	}
}
