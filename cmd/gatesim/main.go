// Command gatesim runs the gate-level 2A03/RP2C02 simulator against a
// cartridge image, either under ebiten's video output or the
// interactive node-level debugger.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/bdwalton/gatesim/display"
	"github.com/bdwalton/gatesim/internal/debug"
	"github.com/bdwalton/gatesim/nes"
	"github.com/bdwalton/gatesim/telemetry"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	dataDir = flag.String("data_dir", "data", "Directory holding the network's static text tables.")
	romFile = flag.String("nes_rom", "", "Path to the NES ROM to run.")
	debugOn = flag.Bool("debug", false, "Run the interactive node-level debugger instead of the video window.")
)

func main() {
	flag.Parse()

	log := telemetry.New(os.Stderr)

	sim, err := nes.New(*dataDir)
	if err != nil {
		log.BuildFailed(err)
	}
	log.Milestone("network built", map[string]any{"data_dir": *dataDir})

	sim.Init(false)
	log.Milestone("power-on complete", nil)

	if *romFile != "" {
		f, err := os.Open(*romFile)
		if err != nil {
			log.ROMLoadFailed(*romFile, err)
		}
		defer f.Close()

		if err := sim.LoadROM(f); err != nil {
			log.ROMLoadFailed(*romFile, err)
		}
		log.Milestone("rom loaded", map[string]any{"rom": *romFile})
	}

	defer func() {
		if r := recover(); r != nil {
			log.InvariantViolation(r)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *debugOn {
		debug.New(sim).Run(ctx)
		return
	}

	game := display.New(sim)
	go game.Run(ctx)

	if err := ebiten.RunGame(game); err != nil {
		cancel()
		os.Exit(1)
	}
}
