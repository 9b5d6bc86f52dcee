package chain

import (
	"fmt"

	"github.com/golang/geo/r2"
)

// SegmentID addresses a segment in its chain's arena. IDs stay valid until
// the segment is removed; a removed slot's generation is bumped so stale IDs
// never resolve to a newer occupant.
type SegmentID struct {
	index uint32
	gen   uint32 // 0 is never issued
}

// NoSegment is the zero SegmentID; it never resolves.
var NoSegment SegmentID

// Valid reports whether id was issued by an arena (it may still be stale).
func (id SegmentID) Valid() bool { return id.gen != 0 }

func (id SegmentID) String() string {
	if !id.Valid() {
		return "seg(none)"
	}
	return fmt.Sprintf("seg(%d:%d)", id.index, id.gen)
}

// Segment is one rigid link. Position and Facing change every tick; link
// distance, turn limit and the next link are fixed at spawn.
type Segment struct {
	Position r2.Point
	Facing   float64

	linkDistance float64
	maxTurnAngle float64
	next         SegmentID
}

// LinkDistance is the distance this segment keeps from its neighbours.
func (s Segment) LinkDistance() float64 { return s.linkDistance }

// MaxTurnAngle is the largest bend allowed at this segment's joint.
func (s Segment) MaxTurnAngle() float64 { return s.maxTurnAngle }

// Next is the following segment toward the tail, or NoSegment at the tail.
func (s Segment) Next() SegmentID { return s.next }

// IsTail reports whether nothing follows this segment.
func (s Segment) IsTail() bool { return !s.next.Valid() }

type slot struct {
	seg   Segment
	gen   uint32
	live  bool
	visit uint32 // walk stamp of the last walk that reached this slot
}

// arena is a generational slot map of segments.
type arena struct {
	slots []slot
	free  []uint32
	live  int
	walk  uint32
}

func newArena(capacity int) arena {
	return arena{slots: make([]slot, 0, capacity)}
}

func (a *arena) insert(s Segment) SegmentID {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, slot{})
	}
	sl := &a.slots[idx]
	sl.gen++
	if sl.gen == 0 {
		sl.gen = 1
	}
	sl.seg = s
	sl.live = true
	a.live++
	return SegmentID{index: idx, gen: sl.gen}
}

func (a *arena) get(id SegmentID) (*Segment, bool) {
	if !id.Valid() || int(id.index) >= len(a.slots) {
		return nil, false
	}
	sl := &a.slots[id.index]
	if !sl.live || sl.gen != id.gen {
		return nil, false
	}
	return &sl.seg, true
}

func (a *arena) remove(id SegmentID) bool {
	if _, ok := a.get(id); !ok {
		return false
	}
	sl := &a.slots[id.index]
	sl.live = false
	sl.seg = Segment{}
	a.free = append(a.free, id.index)
	a.live--
	return true
}

func (a *arena) len() int { return a.live }

// beginWalk starts a new visit stamp.
func (a *arena) beginWalk() {
	a.walk++
	if a.walk == 0 {
		for i := range a.slots {
			a.slots[i].visit = 0
		}
		a.walk = 1
	}
}

// visit marks a resolved id as reached in the current walk and reports
// whether this is the first time.
func (a *arena) visit(id SegmentID) bool {
	sl := &a.slots[id.index]
	if sl.visit == a.walk {
		return false
	}
	sl.visit = a.walk
	return true
}
