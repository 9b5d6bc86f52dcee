package main

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"

	"github.com/Garsondee/Snake-Sense/internal/config"
)

func TestView_CentreCellIsOrigin(t *testing.T) {
	v := view{width: 80, height: 24, scale: 10}
	if p := v.cellToWorld(40, 12); p != (r2.Point{}) {
		t.Fatalf("centre cell maps to %v, want origin", p)
	}
}

func TestView_RowsAreDoubleHeightAndYUp(t *testing.T) {
	v := view{width: 80, height: 24, scale: 10}
	p := v.cellToWorld(41, 11)
	if p.X != 10 || p.Y != 20 {
		t.Fatalf("cell (41,11) maps to %v, want (10,20)", p)
	}
}

func TestView_RoundTrip(t *testing.T) {
	v := view{width: 120, height: 40, scale: 7.5}
	for cy := 0; cy < v.height; cy += 3 {
		for cx := 0; cx < v.width; cx += 7 {
			gx, gy := v.worldToCell(v.cellToWorld(cx, cy))
			if gx != cx || gy != cy {
				t.Fatalf("cell (%d,%d) round-tripped to (%d,%d)", cx, cy, gx, gy)
			}
		}
	}
}

func TestView_Contains(t *testing.T) {
	v := view{width: 10, height: 5, scale: 1}
	cases := []struct {
		x, y int
		want bool
	}{
		{0, 0, true},
		{9, 4, true},
		{10, 4, false},
		{-1, 0, false},
		{3, 5, false},
	}
	for _, c := range cases {
		if got := v.contains(c.x, c.y); got != c.want {
			t.Errorf("contains(%d,%d) = %t, want %t", c.x, c.y, got, c.want)
		}
	}
}

func TestGlyphFor(t *testing.T) {
	cases := []struct {
		facing float64
		want   rune
	}{
		{0, '─'},
		{math.Pi / 2, '│'},
		{math.Pi / 4, '╱'},
		{-math.Pi / 4, '╲'},
		{math.Pi, '─'},
		{-math.Pi / 2, '│'},
	}
	for _, c := range cases {
		if got := glyphFor(c.facing); got != c.want {
			t.Errorf("glyphFor(%.3f) = %q, want %q", c.facing, got, c.want)
		}
	}
}

func TestSpawn_CentresSnakes(t *testing.T) {
	settings := config.Defaults()
	settings.Snakes = 3
	settings.Chain.Segments = 5
	s, err := spawn(settings)
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if len(s.Snakes) != 3 {
		t.Fatalf("expected 3 snakes, got %d", len(s.Snakes))
	}
	sum := 0.0
	for _, sn := range s.Snakes {
		sum += sn.Chain.Positions()[0].X
	}
	if math.Abs(sum) > 1e-9 {
		t.Fatalf("heads not centred on X, sum=%v", sum)
	}
}

func TestChime_DisabledIsSilent(t *testing.T) {
	c, err := newChime(false)
	if err != nil {
		t.Fatalf("newChime(false): %v", err)
	}
	c.play()
	c.close()
}
