package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strings"

	"github.com/golang/geo/r2"

	"github.com/Garsondee/Snake-Sense/internal/chain"
	"github.com/Garsondee/Snake-Sense/internal/config"
	"github.com/Garsondee/Snake-Sense/internal/sim"
)

// invariantEps is the tolerance for link length and joint bend checks.
const invariantEps = 1e-6

var scenarios = []string{"chase", "circle", "zigzag", "intermittent", "broken"}

type runStats struct {
	runIndex int
	seed     int64
	snakes   int

	firstStopTick  int
	clampTotal     int
	brokenEvents   int
	cycleEvents    int
	skipEvents     int
	violationTicks int // ticks on which any check failed

	maxLinkError   float64
	maxJointExcess float64
	minReachable   int

	windowSummary *sim.WindowReport
	events        []sim.SimLogEntry // full log, verbose runs only
}

func main() {
	fs := flag.NewFlagSet("headless-report", flag.ExitOnError)
	runs := fs.Int("runs", 5, "number of headless simulation runs")
	ticks := fs.Int("ticks", 3600, "ticks per run")
	seedBase := fs.Int64("seed-base", 42, "base RNG seed for run 1")
	seedStep := fs.Int64("seed-step", 1, "seed increment between runs")
	scenario := fs.String("scenario", "chase", "scenario name ("+strings.Join(scenarios, ", ")+")")
	envFile := fs.String("env", "", "optional .env file with SNAKE_* settings")
	parallel := fs.Bool("parallel", true, "propagate snakes concurrently")
	verbose := fs.Bool("verbose", false, "record per-tick events and print the full log per run")
	reportEvery := fs.Int("report-every", 60, "ticks between reporter samples")
	overrides := config.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	if *runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		os.Exit(2)
	}
	if *ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		os.Exit(2)
	}
	if !knownScenario(*scenario) {
		fmt.Printf("error: unsupported scenario %q (supported: %s)\n", *scenario, strings.Join(scenarios, ", "))
		os.Exit(2)
	}
	settings, err := config.Load(*envFile)
	if err == nil {
		settings, err = overrides.Collect().Apply(settings)
	}
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(2)
	}

	fmt.Printf("=== Headless Chain Report ===\n")
	fmt.Printf("scenario=%s runs=%d ticks=%d seed_base=%d seed_step=%d snakes=%d segments=%d\n\n",
		*scenario, *runs, *ticks, *seedBase, *seedStep, settings.Snakes, settings.Chain.Segments)

	ctx := context.Background()
	all := make([]runStats, 0, *runs)
	for i := 0; i < *runs; i++ {
		seed := *seedBase + int64(i)*(*seedStep)
		rs, err := runScenario(ctx, *scenario, settings, i+1, seed, *ticks, *parallel,
			sim.WithVerbose(*verbose), sim.WithReportEvery(*reportEvery))
		if err != nil {
			fmt.Printf("error: run %d: %v\n", i+1, err)
			os.Exit(1)
		}
		all = append(all, rs)
		printRun(rs)
	}

	pass := printAggregate(*scenario, all)
	if !pass {
		os.Exit(1)
	}
}

func knownScenario(name string) bool {
	for _, s := range scenarios {
		if s == name {
			return true
		}
	}
	return false
}

// buildSim lays out the snakes and target path for a scenario. The seed
// varies headings and target geometry between runs.
func buildSim(scenario string, settings config.Settings, seed int64, parallel bool, extra ...sim.Option) (*sim.Sim, error) {
	rng := rand.New(rand.NewSource(seed))
	opts := []sim.Option{
		sim.WithConfig(settings.Chain),
		sim.WithDT(1 / float64(settings.TPS)),
		sim.WithParallel(parallel),
	}
	opts = append(opts, extra...)

	switch scenario {
	case "chase", "broken":
		a := rng.Float64() * 2 * math.Pi
		d := 300 + rng.Float64()*500
		opts = append(opts, sim.WithTarget(r2.Point{X: d * math.Cos(a), Y: d * math.Sin(a)}))
	case "circle":
		radius := 150 + rng.Float64()*200
		period := 240 + rng.Intn(240)
		opts = append(opts, sim.WithTargetPath(sim.CircleTarget(r2.Point{}, radius, period)))
	case "intermittent":
		// A circling cursor that leaves the viewport for part of each lap.
		radius := 150 + rng.Float64()*200
		on := 60 + rng.Intn(60)
		path := sim.CircleTarget(r2.Point{}, radius, 300)
		opts = append(opts, sim.WithTargetPath(sim.IntermittentTarget(path, on, 30)))
	case "zigzag":
		speed := 4 + rng.Float64()*4
		amp := 100 + rng.Float64()*150
		flip := 30 + rng.Intn(30)
		opts = append(opts, sim.WithTargetPath(sim.ZigzagTarget(r2.Point{}, speed, amp, flip)))
	default:
		return nil, fmt.Errorf("unknown scenario %q", scenario)
	}

	for i := 0; i < settings.Snakes; i++ {
		h := rng.Float64() * 2 * math.Pi
		origin := r2.Point{X: float64(i) * 2 * settings.Chain.LinkDistance, Y: 0}
		opts = append(opts, sim.WithSnake(origin, r2.Point{X: math.Cos(h), Y: math.Sin(h)}))
	}
	s, err := sim.New(opts...)
	if err != nil {
		return nil, err
	}

	if scenario == "broken" {
		// Cut the first snake behind its middle segment.
		c := s.Snakes[0].Chain
		if poses := c.Poses(); len(poses) >= 3 {
			c.Remove(poses[len(poses)/2].ID)
		}
	}
	return s, nil
}

func runScenario(ctx context.Context, scenario string, settings config.Settings, runIndex int, seed int64, ticks int, parallel bool, extra ...sim.Option) (runStats, error) {
	s, err := buildSim(scenario, settings, seed, parallel, extra...)
	if err != nil {
		return runStats{}, err
	}

	rs := runStats{
		runIndex:      runIndex,
		seed:          seed,
		snakes:        len(s.Snakes),
		firstStopTick: -1,
		minReachable:  -1,
	}
	for t := 0; t < ticks; t++ {
		if _, err := s.Step(ctx); err != nil {
			return rs, err
		}
		violated := false
		for _, sn := range s.Snakes {
			c := sn.Chain
			m := sim.Measure(c)
			rs.maxLinkError = math.Max(rs.maxLinkError, m.MaxLinkError)
			rs.maxJointExcess = math.Max(rs.maxJointExcess, m.MaxJointExcess)
			if rs.minReachable < 0 || m.Reachable < rs.minReachable {
				rs.minReachable = m.Reachable
			}
			if len(sim.CheckLinkDistances(c, invariantEps)) > 0 || len(sim.CheckJointAngles(c, invariantEps)) > 0 {
				violated = true
			}
		}
		if violated {
			rs.violationTicks++
		}
	}

	for _, sn := range s.Snakes {
		rs.clampTotal += sn.TotalClamped()
	}
	tally := s.SimLog.Tally()
	rs.firstStopTick = tally.FirstReached
	rs.brokenEvents = tally.BrokenLinks
	rs.cycleEvents = tally.Cycles
	rs.skipEvents = tally.DegenerateSkip
	rs.windowSummary = s.Reporter.WindowSummary()
	if s.SimLog.Verbose() {
		rs.events = s.SimLog.Entries()
	}
	return rs, nil
}

// verdict decides whether a run behaved. Every scenario must keep link
// lengths and joint bends within tolerance on the reachable part of each
// chain. "broken" must also report its cut; every other scenario must report
// no cut and end on a healthy reporter window.
func verdict(scenario string, rs runStats) (bool, string) {
	var problems []string
	if rs.maxLinkError > invariantEps {
		problems = append(problems, fmt.Sprintf("link_error=%.2e", rs.maxLinkError))
	}
	if rs.maxJointExcess > invariantEps {
		problems = append(problems, fmt.Sprintf("joint_excess=%.2e", rs.maxJointExcess))
	}
	if rs.cycleEvents > 0 {
		problems = append(problems, fmt.Sprintf("cycles=%d", rs.cycleEvents))
	}
	switch scenario {
	case "broken":
		if rs.brokenEvents == 0 {
			problems = append(problems, "cut_not_reported")
		}
	default:
		if rs.brokenEvents > 0 {
			problems = append(problems, fmt.Sprintf("unexpected_breaks=%d", rs.brokenEvents))
		}
		if rs.windowSummary != nil && !rs.windowSummary.Healthy(invariantEps) {
			problems = append(problems, "window_unhealthy")
		}
	}
	if len(problems) == 0 {
		return true, "ok"
	}
	return false, strings.Join(problems, " ")
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("phase_markers: first_stop=%d\n", rs.firstStopTick)
	fmt.Printf("event_totals: clamped=%d broken_link=%d cycle=%d degenerate_skip=%d violation_ticks=%d\n",
		rs.clampTotal, rs.brokenEvents, rs.cycleEvents, rs.skipEvents, rs.violationTicks)
	fmt.Printf("constraints: max_link_error=%.3e max_joint_excess=%.3e min_reachable=%d\n",
		rs.maxLinkError, rs.maxJointExcess, rs.minReachable)
	fmt.Print(rs.windowSummary.Format())
	if len(rs.events) > 0 {
		fmt.Println("--- Event log ---")
		fmt.Print(sim.Format(rs.events))
	}
	fmt.Println()
}

// printAggregate prints totals across runs and the overall verdict.
func printAggregate(scenario string, all []runStats) bool {
	totalClamped := 0
	totalBroken := 0
	worstLink := 0.0
	worstExcess := 0.0
	stopTicks := make([]int, 0, len(all))
	failed := 0

	for _, rs := range all {
		totalClamped += rs.clampTotal
		totalBroken += rs.brokenEvents
		worstLink = math.Max(worstLink, rs.maxLinkError)
		worstExcess = math.Max(worstExcess, rs.maxJointExcess)
		if rs.firstStopTick >= 0 {
			stopTicks = append(stopTicks, rs.firstStopTick)
		}
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d\n", len(all))
	fmt.Printf("avg_per_run: clamped=%.1f broken_link=%.1f\n", avg(totalClamped, len(all)), avg(totalBroken, len(all)))
	fmt.Printf("worst: link_error=%.3e joint_excess=%.3e (%.4f°)\n", worstLink, worstExcess, chain.Degrees(worstExcess))
	fmt.Printf("phase_marker_avg_ticks: first_stop=%s\n", avgTickString(stopTicks))

	for _, rs := range all {
		ok, reason := verdict(scenario, rs)
		if !ok {
			failed++
			fmt.Printf("  run %d FAIL: %s\n", rs.runIndex, reason)
		}
	}
	if failed > 0 {
		fmt.Printf("VERDICT: FAIL (%d/%d runs)\n", failed, len(all))
		return false
	}
	fmt.Println("VERDICT: PASS")
	return true
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}
