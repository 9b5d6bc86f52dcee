// Package sim drives one or more chains tick by tick without a window. It is
// the harness behind the tests, the headless report and both frontends.
package sim

import (
	"context"
	"fmt"

	"github.com/golang/geo/r2"
	"golang.org/x/sync/errgroup"

	"github.com/Garsondee/Snake-Sense/internal/chain"
)

// defaultReportEvery is how often the reporter samples (~1s at 60TPS).
const defaultReportEvery = 60

// Snake is one chain plus the bookkeeping the harness logs against.
type Snake struct {
	ID    int
	Label string
	Chain *chain.Chain

	resting      bool
	lastBreak    chain.SegmentID
	totalClamped int
	brokenTicks  int
	lastResult   chain.TickResult
}

// Resting reports whether the head is parked inside the stop radius.
func (s *Snake) Resting() bool { return s.resting }

// TotalClamped is the number of joint clamps applied so far.
func (s *Snake) TotalClamped() int { return s.totalClamped }

// BrokenTicks counts ticks whose propagation stopped at a broken link.
func (s *Snake) BrokenTicks() int { return s.brokenTicks }

// LastResult is the outcome of the snake's most recent propagation.
func (s *Snake) LastResult() chain.TickResult { return s.lastResult }

// Sim is a deterministic simulation of independent chains chasing a shared
// target.
type Sim struct {
	Snakes   []*Snake
	SimLog   *SimLog
	Reporter *Reporter

	cfg         chain.Config
	dt          float64
	target      TargetFunc
	parallel    bool
	reportEvery int
	tick        int
	lastTarget  r2.Point
	hasTarget   bool
	err         error
}

// optionKind controls the pass in which an option is applied.
type optionKind int

const (
	optInfra optionKind = iota // applied first
	optSnake                   // spawn chains once config is final
)

// Option is a builder function applied to a Sim during construction.
type Option struct {
	kind optionKind
	fn   func(*Sim)
}

// WithConfig sets the chain configuration used by WithSnake.
func WithConfig(cfg chain.Config) Option {
	return Option{optInfra, func(s *Sim) { s.cfg = cfg }}
}

// WithDT sets the fixed tick duration in seconds.
func WithDT(dt float64) Option {
	return Option{optInfra, func(s *Sim) { s.dt = dt }}
}

// WithTarget steers every snake toward a fixed point.
func WithTarget(p r2.Point) Option {
	return Option{optInfra, func(s *Sim) { s.target = FixedTarget(p) }}
}

// WithTargetPath supplies a per-tick target.
func WithTargetPath(fn TargetFunc) Option {
	return Option{optInfra, func(s *Sim) { s.target = fn }}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) Option {
	return Option{optInfra, func(s *Sim) { s.SimLog = NewSimLog(v) }}
}

// WithParallel propagates independent snakes concurrently.
func WithParallel(p bool) Option {
	return Option{optInfra, func(s *Sim) { s.parallel = p }}
}

// WithReportEvery sets the reporter sampling interval in ticks.
func WithReportEvery(ticks int) Option {
	return Option{optInfra, func(s *Sim) { s.reportEvery = ticks }}
}

// WithSnake spawns a snake with the sim's config, head at origin, body
// trailing opposite heading.
func WithSnake(origin, heading r2.Point) Option {
	return Option{optSnake, func(s *Sim) { s.addSnake(s.cfg, origin, heading) }}
}

// WithSnakeConfig spawns a snake with its own config.
func WithSnakeConfig(cfg chain.Config, origin, heading r2.Point) Option {
	return Option{optSnake, func(s *Sim) { s.addSnake(cfg, origin, heading) }}
}

// New constructs a Sim in two ordered passes: infrastructure, then snakes.
// Any snake whose config is rejected fails construction.
func New(opts ...Option) (*Sim, error) {
	s := &Sim{
		SimLog:      NewSimLog(false),
		cfg:         chain.DefaultConfig(),
		dt:          1.0 / 60,
		target:      NoTarget,
		reportEvery: defaultReportEvery,
	}
	for _, o := range opts {
		if o.kind == optInfra {
			o.fn(s)
		}
	}
	if s.reportEvery <= 0 {
		s.reportEvery = defaultReportEvery
	}
	s.Reporter = NewReporter(s.reportEvery * 10)
	for _, o := range opts {
		if o.kind == optSnake {
			o.fn(s)
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s, nil
}

func (s *Sim) addSnake(cfg chain.Config, origin, heading r2.Point) {
	if s.err != nil {
		return
	}
	id := len(s.Snakes)
	label := fmt.Sprintf("S%d", id)
	c, err := chain.New(cfg, origin, heading)
	if err != nil {
		s.err = fmt.Errorf("snake %s: %w", label, err)
		return
	}
	s.Snakes = append(s.Snakes, &Snake{ID: id, Label: label, Chain: c})
	s.SimLog.Add(0, label, CatConfig, KeySpawn,
		fmt.Sprintf("segments=%d link=%.1f turn=%.1f° speed=%.0f at (%.1f,%.1f)",
			cfg.Segments, cfg.LinkDistance, chain.Degrees(cfg.MaxTurnAngle), cfg.Speed, origin.X, origin.Y),
		float64(cfg.Segments))
}

// Config returns the default chain config of the sim.
func (s *Sim) Config() chain.Config { return s.cfg }

// DT returns the fixed tick duration.
func (s *Sim) DT() float64 { return s.dt }

// CurrentTick returns the current simulation tick.
func (s *Sim) CurrentTick() int { return s.tick }

// Target returns the last target seen and whether the last tick had one.
func (s *Sim) Target() (r2.Point, bool) { return s.lastTarget, s.hasTarget }

// StepResult is the outcome of one Sim tick.
type StepResult struct {
	Tick      int
	HasTarget bool
	Target    r2.Point
	Results   []chain.TickResult // one per snake; nil when the tick was skipped
}

// Step advances the simulation one tick using the configured target path.
func (s *Sim) Step(ctx context.Context) (StepResult, error) {
	target, ok := s.target(s.tick + 1)
	return s.StepWith(ctx, target, ok, s.dt)
}

// StepWith advances one tick with an explicit target and dt. Frontends call
// this with the cursor position they resolved this frame; ok=false skips
// movement entirely.
func (s *Sim) StepWith(ctx context.Context, target r2.Point, ok bool, dt float64) (StepResult, error) {
	s.tick++
	res := StepResult{Tick: s.tick, HasTarget: ok, Target: target}
	s.hasTarget = ok
	if !ok {
		s.SimLog.AddVerbose(s.tick, Global, CatHead, KeyNoTarget, "tick skipped", 0)
		s.collect()
		return res, nil
	}
	s.lastTarget = target

	chains := make([]*chain.Chain, len(s.Snakes))
	for i, sn := range s.Snakes {
		chains[i] = sn.Chain
	}
	results, err := PropagateAll(ctx, chains, target, dt, s.parallel)
	if err != nil {
		return res, err
	}
	res.Results = results
	for i, sn := range s.Snakes {
		s.record(sn, results[i])
	}
	s.collect()
	return res, nil
}

func (s *Sim) collect() {
	if s.tick%s.reportEvery == 0 {
		s.Reporter.Collect(s.tick, s.lastTarget, s.hasTarget, s.Snakes)
	}
}

// RunTicks advances the simulation n ticks.
func (s *Sim) RunTicks(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		if _, err := s.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}

// RunUntil advances the simulation up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (s *Sim) RunUntil(ctx context.Context, predicate func(*Sim) bool, maxTicks int) (int, error) {
	for i := 0; i < maxTicks; i++ {
		if _, err := s.Step(ctx); err != nil {
			return -1, err
		}
		if predicate(s) {
			return s.tick, nil
		}
	}
	return -1, nil
}

// PropagateAll runs one propagation pass on every chain. Chains share no
// state, so with parallel set each gets its own goroutine; results keep the
// order of chains either way. ctx is only checked between chains.
func PropagateAll(ctx context.Context, chains []*chain.Chain, target r2.Point, dt float64, parallel bool) ([]chain.TickResult, error) {
	results := make([]chain.TickResult, len(chains))
	if !parallel || len(chains) < 2 {
		for i, c := range chains {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = c.Propagate(target, dt)
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range chains {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = c.Propagate(target, dt)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// record logs the interesting transitions of one snake's tick.
func (s *Sim) record(sn *Snake, res chain.TickResult) {
	tick := s.tick
	sn.lastResult = res
	sn.totalClamped += res.Clamped

	switch {
	case res.Moved && sn.resting:
		sn.resting = false
		s.SimLog.Add(tick, sn.Label, CatHead, KeyResume, "target moved out of stop radius", 0)
	case !res.Moved && res.Stop == chain.StopReached && !sn.resting:
		sn.resting = true
		head := sn.Chain.Positions()
		if len(head) > 0 {
			s.SimLog.Add(tick, sn.Label, CatHead, KeyReached,
				fmt.Sprintf("at (%.1f,%.1f)", head[0].X, head[0].Y), 0)
		}
	}

	if res.Broken {
		sn.brokenTicks++
		if res.BrokenRef != sn.lastBreak {
			kind := KeyBrokenLink
			if res.Cycle {
				kind = KeyCycle
			}
			s.SimLog.Add(tick, sn.Label, CatChain, kind,
				fmt.Sprintf("after %s → %s (%d updated)", res.BrokenAfter, res.BrokenRef, res.Updated),
				float64(res.Updated))
			sn.lastBreak = res.BrokenRef
		}
	}
	if res.Skipped > 0 {
		s.SimLog.Add(tick, sn.Label, CatChain, KeyDegenerateSkip,
			fmt.Sprintf("%d segment(s) left in place", res.Skipped), float64(res.Skipped))
	}
	if res.Clamped > 0 {
		s.SimLog.AddVerbose(tick, sn.Label, CatClamp, KeyJoints,
			fmt.Sprintf("%d joint(s) clamped", res.Clamped), float64(res.Clamped))
	}
	if s.SimLog.Verbose() {
		if pos := sn.Chain.Positions(); len(pos) > 0 {
			s.SimLog.AddVerbose(tick, sn.Label, CatMove, KeyPosition,
				fmt.Sprintf("(%.1f,%.1f)", pos[0].X, pos[0].Y), 0)
		}
	}
}

// SnakeSnapshot is a copy of one snake's render output at a tick.
type SnakeSnapshot struct {
	Label string
	Poses []chain.Pose
}

// Snapshot returns the poses of every snake.
func (s *Sim) Snapshot() []SnakeSnapshot {
	out := make([]SnakeSnapshot, 0, len(s.Snakes))
	for _, sn := range s.Snakes {
		out = append(out, SnakeSnapshot{Label: sn.Label, Poses: sn.Chain.Poses()})
	}
	return out
}
