package chain

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
)

const dt60 = 1.0 / 60

// checkLinkDistances verifies every trailing segment sits exactly one link
// behind the segment ahead of it.
func checkLinkDistances(t *testing.T, c *Chain, eps float64) {
	t.Helper()
	pos := c.Positions()
	for i := 1; i < len(pos); i++ {
		d := pos[i].Sub(pos[i-1]).Norm()
		if !near(d, c.Config().LinkDistance, eps) {
			t.Fatalf("tick %d: link %d length %.6f, want %.6f", c.Tick(), i, d, c.Config().LinkDistance)
		}
	}
}

// checkJointAngles verifies no joint bends past the configured limit.
func checkJointAngles(t *testing.T, c *Chain, eps float64) {
	t.Helper()
	pos := c.Positions()
	prev := c.Direction()
	for i := 1; i < len(pos); i++ {
		joint := pos[i-1].Sub(pos[i])
		if a := math.Abs(AngleBetween(prev, joint)); a > c.Config().MaxTurnAngle+eps {
			t.Fatalf("tick %d: joint %d bends %.4f°, limit %.4f°",
				c.Tick(), i, Degrees(a), Degrees(c.Config().MaxTurnAngle))
		}
		prev = joint
	}
}

func TestPropagate_ConcreteScenario(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Segments = 2
	c := MustNew(cfg, r2.Point{}, r2.Point{Y: 1})

	res := c.Propagate(r2.Point{Y: 100}, 0.1)
	if !res.Moved || res.Updated != 1 || res.Clamped != 0 || res.Broken {
		t.Fatalf("unexpected tick result: %+v", res)
	}
	pos := c.Positions()
	if !nearPt(pos[0], r2.Point{Y: 50}, 1e-9) {
		t.Fatalf("head expected at (0,50), got %v", pos[0])
	}
	if !nearPt(pos[1], r2.Point{Y: 30}, 1e-9) {
		t.Fatalf("trailing segment expected at (0,30), got %v", pos[1])
	}
	if c.Target() != (r2.Point{Y: 100}) {
		t.Fatalf("target not recorded: %v", c.Target())
	}
}

func TestPropagate_IdempotentWithoutTime(t *testing.T) {
	c := MustNew(testConfig(8), r2.Point{}, r2.Point{Y: 1})
	for i := 0; i < 30; i++ {
		c.Propagate(r2.Point{X: 300, Y: 200}, dt60)
	}
	before := c.Positions()
	res := c.Propagate(r2.Point{X: -500, Y: 40}, 0)
	if res.Moved || res.Stop != StopNoTime {
		t.Fatalf("dt=0 should be a no-op, got %+v", res)
	}
	after := c.Positions()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("segment %d moved on a dt=0 tick: %v → %v", i, before[i], after[i])
		}
	}
}

func TestPropagate_IdempotentInsideStopRadius(t *testing.T) {
	c := MustNew(testConfig(6), r2.Point{}, r2.Point{Y: 1})
	before := c.Positions()
	res := c.Propagate(r2.Point{X: 3, Y: 3}, dt60)
	if res.Moved || res.Stop != StopReached {
		t.Fatalf("expected stop at radius, got %+v", res)
	}
	after := c.Positions()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("segment %d moved inside stop radius", i)
		}
	}
}

func TestPropagate_NaNTargetLeavesChainAlone(t *testing.T) {
	c := MustNew(testConfig(4), r2.Point{}, r2.Point{Y: 1})
	c.Propagate(r2.Point{X: 300}, dt60)
	before := c.Positions()
	dir := c.Direction()

	res := c.Propagate(r2.Point{X: math.NaN(), Y: 5}, dt60)
	if res.Moved || res.Stop != StopNoTarget {
		t.Fatalf("expected an unmoved StopNoTarget tick, got %+v", res)
	}
	after := c.Positions()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("segment %d moved on a NaN target: %v → %v", i, before[i], after[i])
		}
	}
	if c.Direction() != dir || c.Target() != (r2.Point{X: 300}) {
		t.Fatalf("direction/target changed: %v %v", c.Direction(), c.Target())
	}
}

func TestPropagate_InvariantsWhileCircling(t *testing.T) {
	c := MustNew(testConfig(40), r2.Point{}, r2.Point{Y: 1})
	for tick := 0; tick < 1200; tick++ {
		a := float64(tick) * 0.05
		target := r2.Point{X: 300 * math.Cos(a), Y: 300 * math.Sin(a*1.3)}
		res := c.Propagate(target, dt60)
		if res.Broken {
			t.Fatalf("tick %d: unexpected broken chain %+v", tick, res)
		}
		checkLinkDistances(t, c, 1e-4)
		checkJointAngles(t, c, 1e-4)
	}
}

func TestPropagate_TightTurnsClampJoints(t *testing.T) {
	cfg := testConfig(12)
	cfg.MaxTurnAngle = Radians(5)
	cfg.MaxSteer = Radians(90)
	c := MustNew(cfg, r2.Point{}, r2.Point{Y: 1})

	clamped := 0
	for tick := 0; tick < 240; tick++ {
		// Target flips side to side every 20 ticks.
		x := 400.0
		if (tick/20)%2 == 1 {
			x = -400
		}
		res := c.Propagate(r2.Point{X: x, Y: 50}, dt60)
		clamped += res.Clamped
		checkLinkDistances(t, c, 1e-4)
		checkJointAngles(t, c, 1e-4)
	}
	if clamped == 0 {
		t.Fatal("expected the 5° joint limit to engage during hard turns")
	}
}

func TestPropagate_StraightLineConverges(t *testing.T) {
	c := MustNew(testConfig(5), r2.Point{}, r2.Point{Y: 1})
	target := r2.Point{X: 1e6}
	for i := 0; i < 600; i++ {
		c.Propagate(target, dt60)
	}
	dir := c.Direction()
	pos := c.Positions()
	for i := 1; i < len(pos); i++ {
		joint := pos[i-1].Sub(pos[i])
		if a := math.Abs(AngleBetween(dir, joint)); a > 1e-3 {
			t.Errorf("joint %d still off the head's line by %.5f rad", i, a)
		}
		want := pos[0].Sub(dir.Mul(20 * float64(i)))
		if !nearPt(pos[i], want, 1e-2) {
			t.Errorf("segment %d at %v, want %v", i, pos[i], want)
		}
	}
}

func TestPropagate_BrokenLinkContainment(t *testing.T) {
	c := MustNew(testConfig(5), r2.Point{}, r2.Point{Y: 1})
	ids := make([]SegmentID, 0, 5)
	for _, p := range c.Poses() {
		ids = append(ids, p.ID)
	}
	// Segment 3's next no longer resolves.
	third, _ := c.arena.get(ids[2])
	bogus := SegmentID{index: 99, gen: 4}
	third.next = bogus

	before := c.Positions()
	res := c.Propagate(r2.Point{X: 200, Y: 200}, dt60)
	if !res.Broken || res.Cycle {
		t.Fatalf("expected a broken (non-cycle) link, got %+v", res)
	}
	if res.BrokenAfter != ids[2] || res.BrokenRef != bogus {
		t.Fatalf("break reported at %v→%v, want %v→%v", res.BrokenAfter, res.BrokenRef, ids[2], bogus)
	}
	if res.Updated != 2 {
		t.Fatalf("expected segments 2 and 3 updated, got %d", res.Updated)
	}
	for i := 0; i < 3; i++ {
		s, _ := c.Segment(ids[i])
		if s.Position == before[i] {
			t.Errorf("segment %d should have moved", i+1)
		}
	}
	for i := 3; i < 5; i++ {
		s, _ := c.Segment(ids[i])
		if s.Position != before[i] {
			t.Errorf("segment %d past the break moved: %v → %v", i+1, before[i], s.Position)
		}
	}
}

func TestPropagate_RemovedSegmentBreaksChain(t *testing.T) {
	c := MustNew(testConfig(5), r2.Point{}, r2.Point{Y: 1})
	poses := c.Poses()
	c.Remove(poses[3].ID)
	res := c.Propagate(r2.Point{Y: 500}, dt60)
	if !res.Broken || res.BrokenAfter != poses[2].ID {
		t.Fatalf("expected break after segment 3, got %+v", res)
	}
	if len(c.Poses()) != 3 {
		t.Fatalf("only 3 segments should be reachable, got %d", len(c.Poses()))
	}
}

func TestPropagate_RemovedTailIsBrokenNotCycle(t *testing.T) {
	c := MustNew(testConfig(5), r2.Point{}, r2.Point{Y: 1})
	poses := c.Poses()
	c.Remove(poses[4].ID)
	res := c.Propagate(r2.Point{Y: 500}, dt60)
	if !res.Broken || res.Cycle {
		t.Fatalf("a stale tail reference is a broken link, not a cycle: %+v", res)
	}
	if res.BrokenAfter != poses[3].ID || res.BrokenRef != poses[4].ID {
		t.Fatalf("break reported at %v→%v, want %v→%v", res.BrokenAfter, res.BrokenRef, poses[3].ID, poses[4].ID)
	}
	if res.Updated != 3 {
		t.Fatalf("all 3 live successors should be solved, got %d", res.Updated)
	}
	if n := len(c.Poses()); n != 4 {
		t.Fatalf("expected 4 reachable segments, got %d", n)
	}
}

func TestPropagate_RemovedHead(t *testing.T) {
	c := MustNew(testConfig(3), r2.Point{}, r2.Point{Y: 1})
	c.Remove(c.Head())
	res := c.Propagate(r2.Point{Y: 500}, dt60)
	if !res.Broken || res.Moved {
		t.Fatalf("expected a broken, unmoved tick, got %+v", res)
	}
}

func TestPropagate_CycleDetected(t *testing.T) {
	c := MustNew(testConfig(4), r2.Point{}, r2.Point{Y: 1})
	tail, _ := c.arena.get(c.Poses()[3].ID)
	tail.next = c.Head()
	res := c.Propagate(r2.Point{Y: 500}, dt60)
	if !res.Broken || !res.Cycle {
		t.Fatalf("expected cycle detection, got %+v", res)
	}
	if res.Updated != 3 {
		t.Fatalf("every segment should still be solved once, got %d", res.Updated)
	}
}

func TestPropagate_CycleIntoMiddleStopsAtFirstRevisit(t *testing.T) {
	c := MustNew(testConfig(5), r2.Point{}, r2.Point{Y: 1})
	poses := c.Poses()
	fourth, _ := c.arena.get(poses[3].ID)
	fourth.next = poses[1].ID
	res := c.Propagate(r2.Point{Y: 500}, dt60)
	if !res.Broken || !res.Cycle {
		t.Fatalf("expected cycle detection, got %+v", res)
	}
	if res.BrokenAfter != poses[3].ID || res.BrokenRef != poses[1].ID {
		t.Fatalf("cycle reported at %v→%v, want %v→%v", res.BrokenAfter, res.BrokenRef, poses[3].ID, poses[1].ID)
	}
	if res.Updated != 3 {
		t.Fatalf("no segment may be solved twice in a tick, got %d updates", res.Updated)
	}
}

func TestPropagate_DegeneratePolicies(t *testing.T) {
	for _, policy := range []DegeneratePolicy{DegenerateSkip, DegenerateSnap} {
		cfg := testConfig(4)
		cfg.Degenerate = policy
		c := MustNew(cfg, r2.Point{}, r2.Point{Y: 1})
		var ids []SegmentID
		for _, p := range c.Poses() {
			ids = append(ids, p.ID)
		}
		// Park segment 3 exactly where segment 2 will land this tick.
		third, _ := c.arena.get(ids[2])
		third.Position = r2.Point{Y: 30}

		res := c.Propagate(r2.Point{Y: 100}, 0.1)
		want := []r2.Point{{Y: 50}, {Y: 30}, {Y: 30}, {Y: 10}}
		for i, id := range ids {
			s, _ := c.Segment(id)
			if !nearPt(s.Position, want[i], 1e-9) {
				t.Fatalf("%s: segment %d at %v, want %v", policy, i+1, s.Position, want[i])
			}
			if math.IsNaN(s.Facing) {
				t.Fatalf("%s: segment %d has NaN facing", policy, i+1)
			}
		}
		switch policy {
		case DegenerateSkip:
			if res.Skipped != 1 || res.Updated != 2 {
				t.Fatalf("skip: expected 1 skipped, 2 updated, got %+v", res)
			}
		case DegenerateSnap:
			if res.Skipped != 0 || res.Updated != 3 {
				t.Fatalf("snap: expected 0 skipped, 3 updated, got %+v", res)
			}
		}
	}
}

func TestPropagate_TickCounter(t *testing.T) {
	c := MustNew(testConfig(2), r2.Point{}, r2.Point{Y: 1})
	for i := 0; i < 7; i++ {
		c.Propagate(r2.Point{Y: 100}, dt60)
	}
	if c.Tick() != 7 {
		t.Fatalf("expected tick 7, got %d", c.Tick())
	}
}
