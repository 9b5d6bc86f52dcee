package main

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)
	chimeFreq  = 660
	chimeLen   = 80 * time.Millisecond
)

// chime plays a short tone when a head comes to rest. A zero chime (audio
// off or speaker init failed) is silent.
type chime struct {
	enabled bool
}

func newChime(enabled bool) (chime, error) {
	if !enabled {
		return chime{}, nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return chime{}, err
	}
	return chime{enabled: true}, nil
}

func (c chime) play() {
	if !c.enabled {
		return
	}
	sine, err := generators.SineTone(sampleRate, chimeFreq)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(chimeLen), sine))
}

func (c chime) close() {
	if c.enabled {
		speaker.Close()
	}
}
