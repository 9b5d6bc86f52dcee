package game

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
)

func nearPt(a, b r2.Point, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps
}

func TestDirectionFromKeys(t *testing.T) {
	d := 1 / math.Sqrt2
	tests := []struct {
		name                  string
		up, down, left, right bool
		want                  r2.Point
	}{
		{"none", false, false, false, false, r2.Point{}},
		{"up", true, false, false, false, r2.Point{Y: 1}},
		{"down", false, true, false, false, r2.Point{Y: -1}},
		{"left", false, false, true, false, r2.Point{X: -1}},
		{"right", false, false, false, true, r2.Point{X: 1}},
		{"up-right", true, false, false, true, r2.Point{X: d, Y: d}},
		{"down-left", false, true, true, false, r2.Point{X: -d, Y: -d}},
		{"opposed", true, true, true, true, r2.Point{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := DirectionFromKeys(tc.up, tc.down, tc.left, tc.right)
			if !nearPt(got, tc.want, 1e-12) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCamera_RoundTrip(t *testing.T) {
	cam := NewCamera(800, 600, 500, 60)
	cam.Center = r2.Point{X: 120, Y: -45}
	cam.SetZoomTarget(2)
	for i := 0; i < 10; i++ {
		cam.Update()
	}
	for _, p := range []r2.Point{{}, {X: 10, Y: 20}, {X: -300, Y: 77.5}, {X: 1e4, Y: -1e4}} {
		back := cam.ScreenToWorld(cam.WorldToScreen(p))
		if !nearPt(back, p, 1e-6) {
			t.Errorf("round trip of %v gave %v", p, back)
		}
	}
}

func TestCamera_CentreAndYFlip(t *testing.T) {
	cam := NewCamera(800, 600, 500, 60)
	cam.Center = r2.Point{X: 50, Y: 50}
	if s := cam.WorldToScreen(cam.Center); !nearPt(s, r2.Point{X: 400, Y: 300}, 1e-9) {
		t.Fatalf("centre should project to viewport centre, got %v", s)
	}
	// World up is screen up.
	if s := cam.WorldToScreen(r2.Point{X: 50, Y: 60}); !nearPt(s, r2.Point{X: 400, Y: 290}, 1e-9) {
		t.Fatalf("expected +Y world to move up on screen, got %v", s)
	}
}

func TestCamera_CursorOutsideViewport(t *testing.T) {
	cam := NewCamera(800, 600, 500, 60)
	for _, c := range [][2]int{{-1, 10}, {10, -1}, {800, 10}, {10, 600}} {
		if _, ok := cam.CursorWorld(c[0], c[1]); ok {
			t.Errorf("cursor %v should give no target", c)
		}
	}
	p, ok := cam.CursorWorld(400, 300)
	if !ok || !nearPt(p, r2.Point{}, 1e-9) {
		t.Fatalf("viewport centre should map to the origin, got %v %t", p, ok)
	}
}

func TestCamera_PanUsesSpeedAndDT(t *testing.T) {
	cam := NewCamera(800, 600, 500, 60)
	cam.Pan(DirectionFromKeys(true, false, false, true), 0.1)
	d := 50 / math.Sqrt2
	if !nearPt(cam.Center, r2.Point{X: d, Y: d}, 1e-9) {
		t.Fatalf("unexpected centre after pan: %v", cam.Center)
	}
}

func TestCamera_ZoomSpringSettles(t *testing.T) {
	cam := NewCamera(800, 600, 500, 60)
	cam.ZoomIn()
	cam.ZoomIn()
	want := zoomStep * zoomStep
	if math.Abs(cam.ZoomTarget()-want) > 1e-12 {
		t.Fatalf("zoom target %v, want %v", cam.ZoomTarget(), want)
	}
	for i := 0; i < 180; i++ {
		cam.Update()
		if cam.Zoom() > want+1e-6 {
			t.Fatalf("critically damped zoom overshot: %v", cam.Zoom())
		}
	}
	if math.Abs(cam.Zoom()-want) > 1e-3 {
		t.Fatalf("zoom did not settle: %v", cam.Zoom())
	}

	cam.SetZoomTarget(100)
	if cam.ZoomTarget() != zoomMax {
		t.Fatalf("zoom target not clamped: %v", cam.ZoomTarget())
	}
}
