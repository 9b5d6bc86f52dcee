package game

import (
	"github.com/atotto/clipboard"

	"github.com/Garsondee/Snake-Sense/internal/sim"
)

// setClipboardText is a variable so tests can capture writes without a
// display server.
var setClipboardText = func(text string) error {
	if text == "" {
		text = " "
	}
	return clipboard.WriteAll(text)
}

// copyDebugReport puts the selected (or first) snake's report on the
// clipboard and reports the outcome in the event log.
func (g *Game) copyDebugReport() {
	idx := 0
	if g.inspector.selected {
		idx = g.inspector.snake
	}
	report := g.sim.DebugReport(idx, 240)
	if report == "" {
		return
	}
	tick := g.sim.CurrentTick()
	if err := setClipboardText(report); err != nil {
		g.eventLog.Add(tick, sim.Global, sim.CatConfig, "clipboard: "+err.Error())
		return
	}
	g.eventLog.Add(tick, g.sim.Snakes[idx].Label, sim.CatConfig, "debug report copied")
}
