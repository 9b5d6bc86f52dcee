// Command snake-term runs the chain follower in a terminal. The head of
// each snake chases the mouse cursor.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"log"
	"math"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/golang/geo/r2"
	"golang.org/x/image/colornames"

	"github.com/Garsondee/Snake-Sense/internal/config"
	"github.com/Garsondee/Snake-Sense/internal/sim"
)

const maxFrameDT = 0.1

var (
	styleHead   = styleFor(colornames.Gold)
	styleBody   = styleFor(colornames.Mediumpurple)
	styleBroken = styleFor(colornames.Dimgray)
	styleTarget = styleFor(colornames.Limegreen)
	styleStatus = styleFor(colornames.Lightgray)
)

func styleFor(c color.RGBA) tcell.Style {
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
}

type app struct {
	screen tcell.Screen
	sim    *sim.Sim
	view   view
	chime  chime

	mouse    r2.Point
	hasMouse bool
	resting  []bool
}

func main() {
	fs := flag.NewFlagSet("snake-term", flag.ExitOnError)
	envFile := fs.String("env", config.DefaultEnvFile, "optional .env file with SNAKE_* settings")
	overrides := config.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	settings, err := config.Load(*envFile)
	if err == nil {
		settings, err = overrides.Collect().Apply(settings)
	}
	if err != nil {
		log.Fatal(err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("create screen: %v", err)
	}
	a, err := newApp(settings, screen)
	if err != nil {
		log.Fatal(err)
	}
	err = a.run(context.Background())
	a.cleanup()
	if err != nil {
		log.Fatal(err)
	}
}

func newApp(settings config.Settings, screen tcell.Screen) (*app, error) {
	s, err := spawn(settings)
	if err != nil {
		return nil, err
	}

	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	screen.EnableMouse()
	screen.EnableFocus()
	screen.HideCursor()

	w, h := screen.Size()
	a := &app{
		screen:  screen,
		sim:     s,
		view:    view{width: w, height: h, scale: settings.Chain.LinkDistance / 2},
		resting: make([]bool, len(s.Snakes)),
	}

	// Audio is optional; a terminal without a sound device still runs.
	c, err := newChime(settings.Audio)
	if err != nil {
		log.Printf("audio disabled: %v", err)
	}
	a.chime = c
	return a, nil
}

// spawn lays the snakes out side by side along X, heads pointing up.
func spawn(settings config.Settings) (*sim.Sim, error) {
	opts := []sim.Option{
		sim.WithConfig(settings.Chain),
		sim.WithDT(1 / float64(settings.TPS)),
	}
	spacing := 3 * settings.Chain.LinkDistance
	first := -spacing * float64(settings.Snakes-1) / 2
	for i := 0; i < settings.Snakes; i++ {
		origin := r2.Point{X: first + float64(i)*spacing}
		opts = append(opts, sim.WithSnake(origin, r2.Point{Y: 1}))
	}
	return sim.New(opts...)
}

func (a *app) cleanup() {
	a.chime.close()
	a.screen.Fini()
}

func (a *app) run(ctx context.Context) error {
	eventChan := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case ev := <-eventChan:
			if quit := a.handleEvent(ev); quit {
				return nil
			}
		case now := <-ticker.C:
			dt := math.Min(now.Sub(last).Seconds(), maxFrameDT)
			last = now
			if _, err := a.sim.StepWith(ctx, a.mouse, a.hasMouse, dt); err != nil {
				return err
			}
			a.chimeOnArrival()
			a.draw()
		}
	}
}

func (a *app) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return true
		}
		if ev.Key() == tcell.KeyRune && ev.Rune() == 'q' {
			return true
		}
	case *tcell.EventMouse:
		cx, cy := ev.Position()
		a.hasMouse = a.view.contains(cx, cy)
		if a.hasMouse {
			a.mouse = a.view.cellToWorld(cx, cy)
		}
	case *tcell.EventFocus:
		if !ev.Focused {
			a.hasMouse = false
		}
	case *tcell.EventResize:
		a.view.width, a.view.height = a.screen.Size()
		a.screen.Sync()
	}
	return false
}

func (a *app) chimeOnArrival() {
	for i, sn := range a.sim.Snakes {
		if sn.Resting() && !a.resting[i] {
			a.chime.play()
		}
		a.resting[i] = sn.Resting()
	}
}

func (a *app) draw() {
	a.screen.Clear()

	if target, ok := a.sim.Target(); ok {
		if cx, cy := a.view.worldToCell(target); a.view.contains(cx, cy) {
			a.screen.SetContent(cx, cy, '+', nil, styleTarget)
		}
	}

	for _, sn := range a.sim.Snakes {
		broken := sn.LastResult().Broken
		poses := sn.Chain.Poses()
		// Tail first so heads stay on top where snakes overlap.
		for i := len(poses) - 1; i >= 0; i-- {
			p := poses[i]
			cx, cy := a.view.worldToCell(p.Position)
			if !a.view.contains(cx, cy) {
				continue
			}
			style, r := styleBody, glyphFor(p.Facing)
			switch {
			case i == 0:
				style, r = styleHead, '@'
			case broken && i == len(poses)-1:
				style, r = styleBroken, 'x'
			}
			a.screen.SetContent(cx, cy, r, nil, style)
		}
	}

	status := fmt.Sprintf(" tick %d  snakes %d  q/esc quit ", a.sim.CurrentTick(), len(a.sim.Snakes))
	for i, r := range status {
		if i >= a.view.width {
			break
		}
		a.screen.SetContent(i, a.view.height-1, r, nil, styleStatus)
	}
	a.screen.Show()
}
