package sim

import (
	"fmt"
	"strings"
)

// Global is the snake label for events that belong to the whole sim.
const Global = "--"

// Event categories and keys recorded by the sim.
const (
	CatConfig = "config"
	CatHead   = "head"
	CatChain  = "chain"
	CatClamp  = "clamp"
	CatMove   = "move"

	KeySpawn          = "spawn"
	KeyReached        = "reached"
	KeyResume         = "resume"
	KeyNoTarget       = "no_target"
	KeyBrokenLink     = "broken_link"
	KeyCycle          = "cycle"
	KeyDegenerateSkip = "degenerate_skip"
	KeyJoints         = "joints"
	KeyPosition       = "position"
)

// SimLogEntry is one recorded event.
type SimLogEntry struct {
	Tick     int
	Snake    string // "S0", "S1", ... or Global
	Category string
	Key      string
	Value    string
	NumVal   float64
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] S0   chain     broken_link      after seg(2:1) → seg(3:1)
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-4s %-9s %-16s %s",
		e.Tick, e.Snake, e.Category, e.Key, e.Value)
}

// SimLog is the unbounded event record of a run. The on-screen event panel
// keeps its own ring buffer fed from here.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates a SimLog. Verbose logs also keep per-tick head
// positions, clamp counts and skipped ticks.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

func (sl *SimLog) Verbose() bool { return sl.verbose }

func (sl *SimLog) Add(tick int, snake, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Tick: tick, Snake: snake, Category: category, Key: key, Value: value, NumVal: numVal,
	})
}

// AddVerbose is Add that only records in verbose mode.
func (sl *SimLog) AddVerbose(tick int, snake, category, key, value string, numVal float64) {
	if sl.verbose {
		sl.Add(tick, snake, category, key, value, numVal)
	}
}

func (sl *SimLog) Entries() []SimLogEntry { return sl.entries }

// Query selects log entries. Zero fields match anything; To == 0 means no
// upper tick bound.
type Query struct {
	Snake       string // also matches Global events when WithGlobal is set
	WithGlobal  bool
	Category    string
	Key         string
	From, To    int
	ValueSubstr string
}

func (q Query) match(e SimLogEntry) bool {
	if q.Snake != "" && e.Snake != q.Snake && !(q.WithGlobal && e.Snake == Global) {
		return false
	}
	if q.Category != "" && e.Category != q.Category {
		return false
	}
	if q.Key != "" && e.Key != q.Key {
		return false
	}
	if e.Tick < q.From || (q.To > 0 && e.Tick > q.To) {
		return false
	}
	return q.ValueSubstr == "" || strings.Contains(e.Value, q.ValueSubstr)
}

// Select returns the entries matching q in recording order.
func (sl *SimLog) Select(q Query) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if q.match(e) {
			out = append(out, e)
		}
	}
	return out
}

// EventTally counts the chain events of a run across all snakes.
type EventTally struct {
	Reached        int
	Resumed        int
	BrokenLinks    int
	Cycles         int
	DegenerateSkip int
	FirstReached   int // tick, -1 if no head ever came to rest
}

// Tally counts head and chain events in one pass.
func (sl *SimLog) Tally() EventTally {
	t := EventTally{FirstReached: -1}
	for _, e := range sl.entries {
		switch {
		case e.Category == CatHead && e.Key == KeyReached:
			t.Reached++
			if t.FirstReached < 0 {
				t.FirstReached = e.Tick
			}
		case e.Category == CatHead && e.Key == KeyResume:
			t.Resumed++
		case e.Category == CatChain && e.Key == KeyBrokenLink:
			t.BrokenLinks++
		case e.Category == CatChain && e.Key == KeyCycle:
			t.Cycles++
		case e.Category == CatChain && e.Key == KeyDegenerateSkip:
			t.DegenerateSkip++
		}
	}
	return t
}

// Format renders entries one per line, for t.Log and debug reports.
func Format(entries []SimLogEntry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
