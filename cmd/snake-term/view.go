package main

import (
	"math"

	"github.com/golang/geo/r2"
)

// view maps terminal cells onto the Y-up world. Terminal rows are roughly
// twice as tall as columns are wide, so one row covers two cells of X.
type view struct {
	width, height int
	scale         float64 // world units per column
}

func (v view) cellToWorld(cx, cy int) r2.Point {
	return r2.Point{
		X: (float64(cx) - float64(v.width)/2) * v.scale,
		Y: -(float64(cy) - float64(v.height)/2) * 2 * v.scale,
	}
}

func (v view) worldToCell(p r2.Point) (int, int) {
	cx := int(math.Round(p.X/v.scale + float64(v.width)/2))
	cy := int(math.Round(-p.Y/(2*v.scale) + float64(v.height)/2))
	return cx, cy
}

func (v view) contains(cx, cy int) bool {
	return cx >= 0 && cy >= 0 && cx < v.width && cy < v.height
}

// glyphFor picks a body glyph that roughly follows the segment's facing.
func glyphFor(facing float64) rune {
	// Eight compass sectors, 0 = +X.
	sector := int(math.Round(facing/(math.Pi/4))) & 7
	return []rune{'─', '╱', '│', '╲', '─', '╱', '│', '╲'}[sector]
}
