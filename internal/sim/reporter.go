package sim

import (
	"fmt"
	"strings"

	"github.com/golang/geo/r2"

	"github.com/Garsondee/Snake-Sense/internal/chain"
)

// reportWindowTicks is the default sliding window for recent-behaviour reports (~10s at 60TPS).
const reportWindowTicks = 600

// --- Snapshot types ---

// SnakeReport captures a single snake's state at one point in time.
type SnakeReport struct {
	Label         string
	Head          r2.Point
	TargetDist    float64
	Reachable     int
	Live          int
	MaxLinkError  float64
	MaxJointAngle float64 // radians
	JointExcess   float64 // radians past the limit, 0 when honoured
	Clamped       int     // clamps since the previous report
	BrokenTicks   int     // cumulative
	Resting       bool
}

// SimReport is a full snapshot of the simulation at one tick.
type SimReport struct {
	Tick      int
	HasTarget bool
	Target    r2.Point
	Snakes    []SnakeReport
}

// --- Reporter ---

// Reporter collects periodic reports from the simulation and can produce
// summaries over sliding time windows.
type Reporter struct {
	history     []SimReport
	windowTicks int
	lastClamped map[string]int
}

// NewReporter creates a reporter with the given window size.
func NewReporter(windowTicks int) *Reporter {
	if windowTicks <= 0 {
		windowTicks = reportWindowTicks
	}
	return &Reporter{
		windowTicks: windowTicks,
		lastClamped: make(map[string]int),
	}
}

// Collect gathers a snapshot from the current simulation state.
func (r *Reporter) Collect(tick int, target r2.Point, hasTarget bool, snakes []*Snake) {
	report := SimReport{Tick: tick, HasTarget: hasTarget, Target: target}
	for _, sn := range snakes {
		m := Measure(sn.Chain)
		var head r2.Point
		if pos := sn.Chain.Positions(); len(pos) > 0 {
			head = pos[0]
		}
		report.Snakes = append(report.Snakes, SnakeReport{
			Label:         sn.Label,
			Head:          head,
			TargetDist:    m.HeadToTarget,
			Reachable:     m.Reachable,
			Live:          sn.Chain.Len(),
			MaxLinkError:  m.MaxLinkError,
			MaxJointAngle: m.MaxJointAngle,
			JointExcess:   m.MaxJointExcess,
			Clamped:       sn.totalClamped - r.lastClamped[sn.Label],
			BrokenTicks:   sn.brokenTicks,
			Resting:       sn.resting,
		})
		r.lastClamped[sn.Label] = sn.totalClamped
	}
	r.history = append(r.history, report)

	// Prune old history beyond 2x window to prevent unbounded growth.
	maxKeep := r.windowTicks / 60 * 2
	if maxKeep < 100 {
		maxKeep = 100
	}
	if len(r.history) > maxKeep {
		r.history = r.history[len(r.history)-maxKeep:]
	}
}

// Latest returns the most recent report, or nil if none collected yet.
func (r *Reporter) Latest() *SimReport {
	if len(r.history) == 0 {
		return nil
	}
	return &r.history[len(r.history)-1]
}

// WindowReport is an aggregated summary over a time window.
type WindowReport struct {
	FromTick, ToTick int
	SampleCount      int

	// Averages over the window, across all snakes.
	AvgTargetDist  float64
	AvgRestingFrac float64

	// Worst values seen anywhere in the window.
	WorstLinkError  float64
	WorstJointAngle float64
	WorstExcess     float64

	// Cumulative.
	TotalClamped    int
	MaxBrokenTicks  int
	MinReachableLen int
}

// WindowSummary returns an aggregated summary over the recent time window.
func (r *Reporter) WindowSummary() *WindowReport {
	if len(r.history) == 0 {
		return nil
	}

	latestTick := r.history[len(r.history)-1].Tick
	cutoff := latestTick - r.windowTicks
	var window []SimReport
	for i := len(r.history) - 1; i >= 0; i-- {
		if r.history[i].Tick < cutoff {
			break
		}
		window = append(window, r.history[i])
	}
	if len(window) == 0 {
		return nil
	}

	wr := &WindowReport{
		FromTick:        window[len(window)-1].Tick,
		ToTick:          window[0].Tick,
		SampleCount:     len(window),
		MinReachableLen: -1,
	}
	samples := 0
	for _, rpt := range window {
		for _, sr := range rpt.Snakes {
			samples++
			wr.AvgTargetDist += sr.TargetDist
			if sr.Resting {
				wr.AvgRestingFrac++
			}
			wr.WorstLinkError = max(wr.WorstLinkError, sr.MaxLinkError)
			wr.WorstJointAngle = max(wr.WorstJointAngle, sr.MaxJointAngle)
			wr.WorstExcess = max(wr.WorstExcess, sr.JointExcess)
			wr.TotalClamped += sr.Clamped
			wr.MaxBrokenTicks = max(wr.MaxBrokenTicks, sr.BrokenTicks)
			if wr.MinReachableLen < 0 || sr.Reachable < wr.MinReachableLen {
				wr.MinReachableLen = sr.Reachable
			}
		}
	}
	if samples > 0 {
		wr.AvgTargetDist /= float64(samples)
		wr.AvgRestingFrac /= float64(samples)
	}
	if wr.MinReachableLen < 0 {
		wr.MinReachableLen = 0
	}
	return wr
}

// Healthy reports whether no link or joint in the window broke its
// constraint by more than eps and no chain was ever cut short.
func (wr *WindowReport) Healthy(eps float64) bool {
	if wr == nil {
		return false
	}
	return wr.WorstLinkError <= eps && wr.WorstExcess <= eps && wr.MaxBrokenTicks == 0
}

// Format returns a human-readable multi-line string of the window summary.
func (wr *WindowReport) Format() string {
	if wr == nil {
		return "No data collected yet.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Chain Report (T=%d..%d, %d samples) ===\n",
		wr.FromTick, wr.ToTick, wr.SampleCount)

	sb.WriteString("\n--- Constraints ---\n")
	fmt.Fprintf(&sb, "  worst link error=%.2e  worst joint=%.2f°  worst excess=%.2e rad\n",
		wr.WorstLinkError, chain.Degrees(wr.WorstJointAngle), wr.WorstExcess)
	fmt.Fprintf(&sb, "  joints clamped=%d\n", wr.TotalClamped)

	sb.WriteString("\n--- Pursuit ---\n")
	fmt.Fprintf(&sb, "  avg head→target=%.1f  resting=%.0f%%\n",
		wr.AvgTargetDist, wr.AvgRestingFrac*100)

	sb.WriteString("\n--- Integrity ---\n")
	fmt.Fprintf(&sb, "  min reachable=%d  broken ticks=%d\n", wr.MinReachableLen, wr.MaxBrokenTicks)
	return sb.String()
}

// FormatLatest returns a concise snapshot of the most recent collected report.
func (r *Reporter) FormatLatest() string {
	rpt := r.Latest()
	if rpt == nil {
		return "No data.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Snapshot T=%d ---\n", rpt.Tick)
	if rpt.HasTarget {
		fmt.Fprintf(&sb, "target=(%.1f,%.1f)\n", rpt.Target.X, rpt.Target.Y)
	} else {
		sb.WriteString("target=none\n")
	}
	for _, sr := range rpt.Snakes {
		state := "chasing"
		if sr.Resting {
			state = "resting"
		}
		fmt.Fprintf(&sb, "%-4s head=(%.1f,%.1f) dist=%.1f %s reach=%d/%d linkErr=%.1e joint=%.1f° clamped=%d broken=%d\n",
			sr.Label, sr.Head.X, sr.Head.Y, sr.TargetDist, state,
			sr.Reachable, sr.Live, sr.MaxLinkError, chain.Degrees(sr.MaxJointAngle),
			sr.Clamped, sr.BrokenTicks)
	}
	return sb.String()
}
