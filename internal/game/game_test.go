package game

import (
	"errors"
	"strings"
	"testing"

	"github.com/golang/geo/r2"

	"github.com/Garsondee/Snake-Sense/internal/chain"
	"github.com/Garsondee/Snake-Sense/internal/config"
)

func newTestGame(t *testing.T, snakes, segments int) *Game {
	t.Helper()
	s := config.Defaults()
	s.Snakes = snakes
	s.Chain.Segments = segments
	g, err := New(s)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func TestNew_SpawnsSnakesCentred(t *testing.T) {
	g := newTestGame(t, 3, 5)
	if len(g.sim.Snakes) != 3 {
		t.Fatalf("expected 3 snakes, got %d", len(g.sim.Snakes))
	}
	var sumX float64
	for _, sn := range g.sim.Snakes {
		sumX += sn.Chain.Positions()[0].X
	}
	if sumX != 0 {
		t.Fatalf("snakes should be centred on the origin, sum of X = %v", sumX)
	}
	// Spawn events reach the on-screen log.
	if g.eventLog.Len() != 3 {
		t.Fatalf("expected 3 spawn entries in the event log, got %d", g.eventLog.Len())
	}
}

func TestNew_RejectsInvalidSettings(t *testing.T) {
	s := config.Defaults()
	s.Chain.LinkDistance = -1
	if _, err := New(s); !errors.Is(err, chain.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestSimTick_NoTargetLeavesChainAlone(t *testing.T) {
	g := newTestGame(t, 1, 6)
	before := g.sim.Snakes[0].Chain.Positions()
	for i := 0; i < 20; i++ {
		if err := g.simTick(r2.Point{}, false); err != nil {
			t.Fatalf("simTick: %v", err)
		}
	}
	after := g.sim.Snakes[0].Chain.Positions()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("segment %d moved with the cursor off-screen", i)
		}
	}
}

func TestSimTick_ChasesCursor(t *testing.T) {
	g := newTestGame(t, 1, 6)
	target, ok := g.camera.CursorWorld(g.gameWidth/2, 10) // straight up from the origin
	if !ok {
		t.Fatal("cursor inside the playfield should resolve")
	}
	start := g.sim.Snakes[0].Chain.Positions()[0]
	for i := 0; i < 10; i++ {
		if err := g.simTick(target, true); err != nil {
			t.Fatalf("simTick: %v", err)
		}
	}
	head := g.sim.Snakes[0].Chain.Positions()[0]
	if head.Sub(target).Norm() >= start.Sub(target).Norm() {
		t.Fatalf("head did not approach the target: %v → %v (target %v)", start, head, target)
	}
}

func TestPickSegment(t *testing.T) {
	g := newTestGame(t, 2, 4)
	snaps := g.sim.Snapshot()
	want := snaps[1].Poses[2]

	snake, id, ok := pickSegment(snaps, want.Position.Add(r2.Point{X: 3}), 10)
	if !ok || snake != 1 || id != want.ID {
		t.Fatalf("picked snake %d %v (ok=%t), want snake 1 %v", snake, id, ok, want.ID)
	}
	if _, _, ok := pickSegment(snaps, r2.Point{X: 5000, Y: 5000}, 10); ok {
		t.Fatal("empty space should not pick anything")
	}
}

func TestInspectorLines(t *testing.T) {
	g := newTestGame(t, 1, 4)
	if g.inspectorLines() != nil {
		t.Fatal("no selection should give no panel")
	}
	poses := g.sim.Snakes[0].Chain.Poses()
	g.inspector = Inspector{selected: true, snake: 0, segment: poses[2].ID}
	lines := strings.Join(g.inspectorLines(), "\n")
	if !strings.Contains(lines, "seg 02") || !strings.Contains(lines, "link now 20.000") {
		t.Fatalf("unexpected segment panel:\n%s", lines)
	}

	g.inspector.chainView = true
	lines = strings.Join(g.inspectorLines(), "\n")
	if !strings.Contains(lines, "reachable 4/4") {
		t.Fatalf("unexpected chain panel:\n%s", lines)
	}

	g.sim.Snakes[0].Chain.Remove(poses[1].ID)
	g.inspector.chainView = false
	lines = strings.Join(g.inspectorLines(), "\n")
	if !strings.Contains(lines, "unreachable") {
		t.Fatalf("removed link should leave the selection unreachable:\n%s", lines)
	}
}

func TestSimSpeedSteps(t *testing.T) {
	if got := fasterSpeed(1); got != 2 {
		t.Fatalf("faster(1) = %v", got)
	}
	if got := fasterSpeed(4); got != 4 {
		t.Fatalf("faster(4) = %v", got)
	}
	if got := slowerSpeed(1); got != 0.5 {
		t.Fatalf("slower(1) = %v", got)
	}
	if got := slowerSpeed(0); got != 0 {
		t.Fatalf("slower(0) = %v", got)
	}
}

func TestCopyDebugReport(t *testing.T) {
	var copied string
	orig := setClipboardText
	setClipboardText = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { setClipboardText = orig })

	g := newTestGame(t, 2, 3)
	g.inspector = Inspector{selected: true, snake: 1}
	g.copyDebugReport()
	if !strings.Contains(copied, "snake=S1") {
		t.Fatalf("expected S1's report on the clipboard, got:\n%s", copied)
	}
	last := g.eventLog.Recent()[g.eventLog.Len()-1]
	if last.Message != "debug report copied" {
		t.Fatalf("unexpected log entry: %+v", last)
	}

	setClipboardText = func(string) error { return errors.New("no display") }
	g.copyDebugReport()
	last = g.eventLog.Recent()[g.eventLog.Len()-1]
	if !strings.Contains(last.Message, "no display") {
		t.Fatalf("clipboard failure should be logged: %+v", last)
	}
}

func TestLayout_FollowsWindow(t *testing.T) {
	g := newTestGame(t, 1, 3)
	if w, h := g.Layout(screenW, screenH); w != screenW || h != screenH {
		t.Fatalf("default layout %dx%d", w, h)
	}

	w, h := g.Layout(1200, 700)
	if w != 1200 || h != 700 || g.gameWidth != 1200-logPanelWidth {
		t.Fatalf("layout %dx%d playfield %d", w, h, g.gameWidth)
	}
	centre := g.camera.WorldToScreen(g.camera.Center)
	if !nearPt(centre, r2.Point{X: float64(g.gameWidth) / 2, Y: 350}, 1e-9) {
		t.Fatalf("camera centre should sit mid-playfield after resize, got %v", centre)
	}

	if w, h := g.Layout(100, 100); w != minScreenW || h != minScreenH {
		t.Fatalf("tiny window should clamp to %dx%d, got %dx%d", minScreenW, minScreenH, w, h)
	}
}
