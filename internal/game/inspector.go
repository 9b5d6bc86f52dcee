package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/golang/geo/r2"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/Garsondee/Snake-Sense/internal/chain"
	"github.com/Garsondee/Snake-Sense/internal/sim"
)

// Inspector panel is rendered into an offscreen buffer at 1× then blitted at inspScale.
const (
	inspScale = 2
	inspBufW  = 240
	inspBufH  = 150
	inspPad   = 4
	inspLineH = 13

	pickRadiusPx = 16.0
)

// Inspector holds the selected segment and view toggle state.
type Inspector struct {
	selected  bool
	snake     int
	segment   chain.SegmentID
	chainView bool // false = segment detail, true = whole-chain metrics
}

// pickSegment returns the segment closest to p within radius.
func pickSegment(snaps []sim.SnakeSnapshot, p r2.Point, radius float64) (snake int, id chain.SegmentID, ok bool) {
	best2 := radius * radius
	for si, sn := range snaps {
		for _, pose := range sn.Poses {
			d := pose.Position.Sub(p)
			d2 := d.Dot(d)
			if d2 <= best2 {
				best2 = d2
				snake, id, ok = si, pose.ID, true
			}
		}
	}
	return snake, id, ok
}

// handleInspectorClick selects the segment under the cursor, or clears the
// selection on empty space.
func (g *Game) handleInspectorClick(mx, my int) bool {
	world, ok := g.camera.CursorWorld(mx, my)
	if !ok {
		return false
	}
	radius := math.Max(pickRadiusPx/g.camera.Zoom(), g.settings.Chain.LinkDistance)
	snake, id, hit := pickSegment(g.sim.Snapshot(), world, radius)
	g.inspector.selected = hit
	g.inspector.snake = snake
	g.inspector.segment = id
	return hit
}

// inspectorLines builds the panel text, or nil if the selection is gone.
func (g *Game) inspectorLines() []string {
	in := g.inspector
	if !in.selected || in.snake >= len(g.sim.Snakes) {
		return nil
	}
	sn := g.sim.Snakes[in.snake]
	c := sn.Chain

	if in.chainView {
		m := sim.Measure(c)
		last := sn.LastResult()
		return []string{
			fmt.Sprintf("[ %s chain ]", sn.Label),
			fmt.Sprintf("reachable %d/%d", m.Reachable, c.Len()),
			fmt.Sprintf("head->target %.1f", m.HeadToTarget),
			fmt.Sprintf("max link err %.2e", m.MaxLinkError),
			fmt.Sprintf("max bend %.2f deg", chain.Degrees(m.MaxJointAngle)),
			fmt.Sprintf("clamped total %d", sn.TotalClamped()),
			fmt.Sprintf("last: upd=%d clp=%d skp=%d", last.Updated, last.Clamped, last.Skipped),
			fmt.Sprintf("broken ticks %d", sn.BrokenTicks()),
		}
	}

	var (
		found  bool
		lines  []string
		prev   chain.Pose
		prevOK bool
	)
	dir := c.Direction()
	c.Walk(func(i int, id chain.SegmentID, s chain.Segment) bool {
		pose := chain.Pose{ID: id, Index: i, Position: s.Position, Facing: s.Facing}
		if id == in.segment {
			found = true
			lines = []string{
				fmt.Sprintf("[ %s seg %02d %s ]", sn.Label, i, id),
				fmt.Sprintf("pos (%.1f, %.1f)", s.Position.X, s.Position.Y),
				fmt.Sprintf("facing %.1f deg", chain.Degrees(s.Facing)),
				fmt.Sprintf("limit %.1f deg  link %.1f", chain.Degrees(s.MaxTurnAngle()), s.LinkDistance()),
			}
			if prevOK {
				joint := prev.Position.Sub(s.Position)
				lines = append(lines,
					fmt.Sprintf("link now %.3f", joint.Norm()),
					fmt.Sprintf("bend %.2f deg", chain.Degrees(chain.AngleBetween(dir, joint))))
			} else {
				lines = append(lines, "head")
			}
			if s.IsTail() {
				lines = append(lines, "tail")
			}
			return false
		}
		if prevOK {
			dir = prev.Position.Sub(s.Position)
		}
		prev, prevOK = pose, true
		return true
	})
	if !found {
		return []string{fmt.Sprintf("[ %s ]", sn.Label), "segment unreachable"}
	}
	return lines
}

// drawInspector renders the inspector panel into an offscreen buffer at 1×,
// then blits it onto the screen at inspScale for readability.
func (g *Game) drawInspector(screen *ebiten.Image) {
	lines := g.inspectorLines()
	if lines == nil {
		return
	}
	if g.inspBuf == nil {
		g.inspBuf = ebiten.NewImage(inspBufW, inspBufH)
	}
	buf := g.inspBuf
	buf.Clear()

	bw, bh := float32(inspBufW), float32(inspBufH)
	vector.FillRect(buf, 0, 0, bw, bh, color.RGBA{R: 16, G: 12, B: 22, A: 230}, false)
	vector.StrokeRect(buf, 0, 0, bw, bh, 1.0, colornames.Darkorchid, false)

	ly := inspPad
	for i, line := range lines {
		ebitenutil.DebugPrintAt(buf, line, inspPad, ly)
		ly += inspLineH
		if i == 0 {
			vector.StrokeLine(buf, inspPad, float32(ly), bw-inspPad, float32(ly), 1.0, colornames.Darkorchid, false)
			ly += 3
		}
	}
	ebitenutil.DebugPrintAt(buf, "[I] chain/segment", inspPad, inspBufH-inspLineH-inspPad)

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(inspScale, inspScale)
	opts.GeoM.Translate(8, 8)
	screen.DrawImage(buf, opts)
}
