package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Snake-Sense/internal/config"
	"github.com/Garsondee/Snake-Sense/internal/game"
)

func main() {
	fs := flag.NewFlagSet("game", flag.ExitOnError)
	envFile := fs.String("env", config.DefaultEnvFile, "optional .env file with SNAKE_* settings")
	overrides := config.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	settings, err := config.Load(*envFile)
	if err != nil {
		log.Fatal(err)
	}
	settings, err = overrides.Collect().Apply(settings)
	if err != nil {
		log.Fatal(err)
	}

	g, err := game.New(settings)
	if err != nil {
		log.Fatal(err)
	}
	ebiten.SetWindowTitle("Snake Sense")
	ebiten.SetWindowSize(1600, 900)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(settings.TPS)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
