package sim

import (
	"fmt"
	"strings"

	"github.com/Garsondee/Snake-Sense/internal/chain"
)

// DebugReport renders one snake's state plus the last lastTicks of its log
// as plain text, suitable for pasting into a bug report.
func (s *Sim) DebugReport(snakeIdx, lastTicks int) string {
	if snakeIdx < 0 || snakeIdx >= len(s.Snakes) {
		return ""
	}
	if lastTicks <= 0 {
		lastTicks = 120
	}
	sn := s.Snakes[snakeIdx]
	c := sn.Chain
	cfg := c.Config()

	toTick := s.tick
	fromTick := toTick - lastTicks + 1
	if fromTick < 0 {
		fromTick = 0
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- SnakeSense debug report ---\n")
	fmt.Fprintf(&b, "snake=%s tick=%d tick_range=[%d..%d]\n", sn.Label, toTick, fromTick, toTick)
	fmt.Fprintf(&b, "config: segments=%d link=%.2f turn=%.2f° speed=%.1f steer=%.2f° stop=%.2f degenerate=%s\n",
		cfg.Segments, cfg.LinkDistance, chain.Degrees(cfg.MaxTurnAngle), cfg.Speed,
		chain.Degrees(cfg.MaxSteer), cfg.StopRadius, cfg.Degenerate)

	target := c.Target()
	dir := c.Direction()
	fmt.Fprintf(&b, "target=(%.2f,%.2f) direction=(%.3f,%.3f) resting=%t\n",
		target.X, target.Y, dir.X, dir.Y, sn.resting)

	last := sn.lastResult
	fmt.Fprintf(&b, "last tick: moved=%t stop=%s updated=%d clamped=%d skipped=%d",
		last.Moved, last.Stop, last.Updated, last.Clamped, last.Skipped)
	if last.Broken {
		fmt.Fprintf(&b, " broken=%s→%s cycle=%t", last.BrokenAfter, last.BrokenRef, last.Cycle)
	}
	b.WriteByte('\n')

	m := Measure(c)
	fmt.Fprintf(&b, "reachable=%d/%d maxLinkErr=%.3e maxJoint=%.2f° excess=%.3e clampedTotal=%d brokenTicks=%d\n\n",
		m.Reachable, c.Len(), m.MaxLinkError, chain.Degrees(m.MaxJointAngle), m.MaxJointExcess,
		sn.totalClamped, sn.brokenTicks)

	b.WriteString("== segments ==\n")
	prev := dir
	var prevPos *chain.Pose
	for _, p := range c.Poses() {
		fmt.Fprintf(&b, "  %02d %-12s pos=(%8.2f,%8.2f) facing=%7.2f°", p.Index, p.ID, p.Position.X, p.Position.Y, chain.Degrees(p.Facing))
		if prevPos != nil {
			joint := prevPos.Position.Sub(p.Position)
			fmt.Fprintf(&b, " link=%6.2f bend=%6.2f°", joint.Norm(), chain.Degrees(chain.AngleBetween(prev, joint)))
			prev = joint
		}
		b.WriteByte('\n')
		pp := p
		prevPos = &pp
	}

	b.WriteString("\n== events ==\n")
	events := s.SimLog.Select(Query{Snake: sn.Label, WithGlobal: true, From: fromTick, To: toTick})
	if len(events) == 0 {
		b.WriteString("(no events in range)\n")
	} else {
		b.WriteString(Format(events))
	}

	b.WriteString("\n== report ==\n")
	b.WriteString(s.Reporter.FormatLatest())
	return b.String()
}
