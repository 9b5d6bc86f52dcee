package chain

import "github.com/golang/geo/r2"

// TickResult describes what one propagation pass did.
type TickResult struct {
	Tick    int
	Moved   bool       // false means no segment changed
	Stop    StopReason // why the head stayed put
	Updated int        // trailing segments repositioned
	Clamped int        // joints bent back to their limit
	Skipped int        // degenerate segments left in place

	// Broken is set when the walk stopped at a link that did not resolve or
	// at a cycle. Segments past the break keep their previous state.
	Broken      bool
	Cycle       bool
	BrokenAfter SegmentID // last segment reached
	BrokenRef   SegmentID // the reference that failed to resolve
}

// Propagate runs one tick: the head steers toward target and every trailing
// segment is re-solved against the segment ahead of it, strictly head to
// tail. A head that does not move leaves the whole chain untouched.
func (c *Chain) Propagate(target r2.Point, dt float64) TickResult {
	c.tick++
	res := TickResult{Tick: c.tick}
	if finite(target.X) && finite(target.Y) {
		c.target = target
	}

	head, ok := c.arena.get(c.head)
	if !ok {
		res.Broken = true
		res.BrokenRef = c.head
		return res
	}

	var hint r2.Point
	next, hasHint := c.arena.get(head.next)
	if hasHint {
		hint = head.Position.Sub(next.Position)
	}
	st := Steer(head.Position, target, hint, hasHint, c.cfg.SteerParams(), dt)
	if !st.Moved {
		res.Stop = st.Reason
		return res
	}
	head.Position = st.Position
	head.Facing = st.Facing
	c.direction = st.Direction
	res.Moved = true

	anchor := head.Position
	anchorDir := c.direction
	anchorDist := head.linkDistance
	prevID, nextID := c.head, head.next
	c.arena.beginWalk()
	c.arena.visit(c.head)

	for nextID.Valid() {
		seg, ok := c.arena.get(nextID)
		if !ok {
			res.Broken = true
			res.BrokenAfter, res.BrokenRef = prevID, nextID
			break
		}
		if !c.arena.visit(nextID) {
			res.Broken, res.Cycle = true, true
			res.BrokenAfter, res.BrokenRef = prevID, nextID
			break
		}

		old := seg.Position
		pos, solved := Constrain(old, anchor, seg.linkDistance, c.cfg.Degenerate)
		if !solved {
			res.Skipped++
		} else {
			if clamped, bent := ClampTurn(anchor.Sub(old), anchorDir, anchor, anchorDist, seg.maxTurnAngle); bent {
				pos = clamped
				res.Clamped++
			}
			res.Updated++
		}

		joint := anchor.Sub(pos)
		seg.Position = pos
		if joint.Norm() >= degenerateEpsilon {
			seg.Facing = Heading(joint)
		}

		anchor = pos
		anchorDir = joint
		anchorDist = seg.linkDistance
		prevID, nextID = nextID, seg.next
	}
	return res
}
