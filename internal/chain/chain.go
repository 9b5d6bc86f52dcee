package chain

import (
	"fmt"

	"github.com/golang/geo/r2"
)

// Chain owns a head and the segments trailing it. It is not safe for
// concurrent use; distinct chains share nothing and may be stepped in
// parallel.
type Chain struct {
	cfg   Config
	arena arena
	head  SegmentID

	target    r2.Point
	direction r2.Point // head movement direction, unit length
	tick      int
}

// Pose is the per-segment output handed to renderers.
type Pose struct {
	ID       SegmentID
	Index    int // 0 is the head
	Position r2.Point
	Facing   float64
}

// New spawns a straight chain with its head at origin, pointing along
// heading, the body trailing behind. A zero heading means +Y.
func New(cfg Config, origin, heading r2.Point) (*Chain, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dir := NormalizeOrZero(heading)
	if dir == (r2.Point{}) {
		dir = r2.Point{X: 0, Y: 1}
	}
	c := &Chain{
		cfg:       cfg,
		arena:     newArena(cfg.Segments),
		target:    origin,
		direction: dir,
	}
	facing := Heading(dir)

	// Spawn tail first so every segment can link to the one behind it.
	next := NoSegment
	for i := cfg.Segments - 1; i >= 0; i-- {
		next = c.arena.insert(Segment{
			Position:     origin.Sub(dir.Mul(cfg.LinkDistance * float64(i))),
			Facing:       facing,
			linkDistance: cfg.LinkDistance,
			maxTurnAngle: cfg.MaxTurnAngle,
			next:         next,
		})
	}
	c.head = next
	return c, nil
}

// MustNew is New for callers with a known-good config.
func MustNew(cfg Config, origin, heading r2.Point) *Chain {
	c, err := New(cfg, origin, heading)
	if err != nil {
		panic(fmt.Sprintf("chain.MustNew: %v", err))
	}
	return c
}

// Config returns the settings the chain was built with.
func (c *Chain) Config() Config { return c.cfg }

// Head returns the head segment's ID.
func (c *Chain) Head() SegmentID { return c.head }

// Len is the number of live segments.
func (c *Chain) Len() int { return c.arena.len() }

// Tick is the number of propagation passes run so far.
func (c *Chain) Tick() int { return c.tick }

// Target is the last point the head steered toward.
func (c *Chain) Target() r2.Point { return c.target }

// Direction is the head's current movement direction.
func (c *Chain) Direction() r2.Point { return c.direction }

// Segment returns a copy of the segment addressed by id.
func (c *Chain) Segment(id SegmentID) (Segment, bool) {
	s, ok := c.arena.get(id)
	if !ok {
		return Segment{}, false
	}
	return *s, true
}

// Remove drops a segment from the chain's storage. Links that pointed at it
// become broken; propagation stops there until the chain is rebuilt.
func (c *Chain) Remove(id SegmentID) bool {
	return c.arena.remove(id)
}

// Walk visits segments head to tail and stops early when fn returns false,
// at a link that does not resolve, or at a segment already visited (a
// cycle). Each reachable segment is visited at most once.
func (c *Chain) Walk(fn func(i int, id SegmentID, s Segment) bool) {
	c.arena.beginWalk()
	id := c.head
	for i := 0; ; i++ {
		s, ok := c.arena.get(id)
		if !ok || !c.arena.visit(id) {
			return
		}
		if !fn(i, id, *s) || s.IsTail() {
			return
		}
		id = s.next
	}
}

// Poses returns position and facing for every reachable segment.
func (c *Chain) Poses() []Pose {
	out := make([]Pose, 0, c.arena.len())
	c.Walk(func(i int, id SegmentID, s Segment) bool {
		out = append(out, Pose{ID: id, Index: i, Position: s.Position, Facing: s.Facing})
		return true
	})
	return out
}

// Positions returns just the reachable segment positions, head first.
func (c *Chain) Positions() []r2.Point {
	out := make([]r2.Point, 0, c.arena.len())
	c.Walk(func(_ int, _ SegmentID, s Segment) bool {
		out = append(out, s.Position)
		return true
	})
	return out
}
