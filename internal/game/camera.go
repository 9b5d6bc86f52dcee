package game

import (
	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r2"

	"github.com/Garsondee/Snake-Sense/internal/chain"
)

const (
	zoomMin = 0.25
	zoomMax = 4.0

	zoomStep        = 1.25
	zoomFrequency   = 6.0
	zoomDampingRate = 1.0 // critically damped: no overshoot past the target
)

// Camera maps the Y-up world onto the Y-down playfield. The centre pans
// directly; zoom eases toward its target on a spring.
type Camera struct {
	Center r2.Point
	Speed  float64 // world units per second

	zoom       float64
	zoomVel    float64
	zoomTarget float64
	spring     harmonica.Spring

	viewW, viewH float64
}

// NewCamera returns a camera centred on the world origin at 1x zoom.
func NewCamera(viewW, viewH int, speed float64, tps int) *Camera {
	if tps <= 0 {
		tps = 60
	}
	return &Camera{
		Speed:      speed,
		zoom:       1,
		zoomTarget: 1,
		spring:     harmonica.NewSpring(harmonica.FPS(tps), zoomFrequency, zoomDampingRate),
		viewW:      float64(viewW),
		viewH:      float64(viewH),
	}
}

// DirectionFromKeys turns four held-key booleans into a unit pan direction.
// Opposing keys cancel; diagonals are normalised.
func DirectionFromKeys(up, down, left, right bool) r2.Point {
	var d r2.Point
	if up {
		d.Y++
	}
	if down {
		d.Y--
	}
	if left {
		d.X--
	}
	if right {
		d.X++
	}
	return chain.NormalizeOrZero(d)
}

// Pan moves the centre along dir at Speed for dt seconds.
func (c *Camera) Pan(dir r2.Point, dt float64) {
	c.Center = c.Center.Add(chain.NormalizeOrZero(dir).Mul(c.Speed * dt))
}

// Zoom returns the current, eased zoom factor.
func (c *Camera) Zoom() float64 { return c.zoom }

// ZoomTarget returns the zoom the spring is heading for.
func (c *Camera) ZoomTarget() float64 { return c.zoomTarget }

// SetZoomTarget clamps z to the allowed range and makes it the new target.
func (c *Camera) SetZoomTarget(z float64) {
	c.zoomTarget = min(max(z, zoomMin), zoomMax)
}

// ZoomIn and ZoomOut step the target by zoomStep.
func (c *Camera) ZoomIn()  { c.SetZoomTarget(c.zoomTarget * zoomStep) }
func (c *Camera) ZoomOut() { c.SetZoomTarget(c.zoomTarget / zoomStep) }

// Update advances the zoom spring one frame.
func (c *Camera) Update() {
	c.zoom, c.zoomVel = c.spring.Update(c.zoom, c.zoomVel, c.zoomTarget)
	if c.zoom < zoomMin/2 {
		// Matrix must stay invertible.
		c.zoom = zoomMin / 2
	}
}

// Resize updates the viewport size in pixels.
func (c *Camera) Resize(viewW, viewH int) {
	c.viewW, c.viewH = float64(viewW), float64(viewH)
}

// Matrix is the world-to-screen transform:
//
//	screen = T(view/2) · S(zoom, -zoom) · T(-center) · world
func (c *Camera) Matrix() mgl64.Mat3 {
	return mgl64.Translate2D(c.viewW/2, c.viewH/2).
		Mul3(mgl64.Scale2D(c.zoom, -c.zoom)).
		Mul3(mgl64.Translate2D(-c.Center.X, -c.Center.Y))
}

// WorldToScreen projects a world point into playfield pixels.
func (c *Camera) WorldToScreen(p r2.Point) r2.Point {
	v := c.Matrix().Mul3x1(mgl64.Vec3{p.X, p.Y, 1})
	return r2.Point{X: v[0], Y: v[1]}
}

// ScreenToWorld is the inverse of WorldToScreen.
func (c *Camera) ScreenToWorld(p r2.Point) r2.Point {
	v := c.Matrix().Inv().Mul3x1(mgl64.Vec3{p.X, p.Y, 1})
	return r2.Point{X: v[0], Y: v[1]}
}

// CursorWorld resolves a cursor position to a world point. ok is false when
// the cursor is outside the viewport, in which case there is no target.
func (c *Camera) CursorWorld(x, y int) (r2.Point, bool) {
	fx, fy := float64(x), float64(y)
	if fx < 0 || fy < 0 || fx >= c.viewW || fy >= c.viewH {
		return r2.Point{}, false
	}
	return c.ScreenToWorld(r2.Point{X: fx, Y: fy}), true
}
