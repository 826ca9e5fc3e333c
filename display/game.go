// Package display adapts a running nes.Simulator to ebiten's Game
// interface: a window that blits the simulator's framebuffer once per
// host frame while the simulator itself runs on its own goroutine
// (spec.md §4.8, §5).
package display

import (
	"context"
	"image/color"

	"github.com/bdwalton/gatesim/nes"
	"github.com/hajimehoshi/ebiten/v2"
)

const (
	frameWidth  = 256
	frameHeight = 240
)

// Game implements ebiten.Game over a *nes.Simulator. It never mutates
// simulator state itself; Draw only reads the framebuffer the
// simulator's own driving goroutine writes into (spec.md §5's
// "swapped, not mutated in place" contract for concurrent access —
// callers wanting a hard guarantee should add their own lock around
// Simulator).
type Game struct {
	sim *nes.Simulator
}

// New wires sim into an ebiten window sized to twice the NES's native
// 256x240 resolution, matching the teacher's window-setup idiom.
func New(sim *nes.Simulator) *Game {
	ebiten.SetWindowSize(frameWidth*2, frameHeight*2)
	ebiten.SetWindowTitle("gatesim")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return &Game{sim: sim}
}

// Layout returns the constant NES resolution so ebiten scales the
// display on window resize rather than letting the game logic see a
// different coordinate space.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return frameWidth, frameHeight
}

// Draw blits the simulator's current framebuffer into screen.
func (g *Game) Draw(screen *ebiten.Image) {
	fb := g.sim.Framebuffer()
	for y := 0; y < frameHeight; y++ {
		for x := 0; x < frameWidth; x++ {
			argb := fb[y*frameWidth+x]
			screen.Set(x, y, argbColor(argb))
		}
	}
}

// Update is required by ebiten.Game but does no work: the simulator
// advances on its own goroutine (see Run), decoupled from ebiten's
// 60Hz callback, the same split the teacher's Bus.Run/RunGame used.
func (g *Game) Update() error {
	return nil
}

// Run drives the simulator's half-step loop until ctx is cancelled.
// Call this in its own goroutine before handing Game to ebiten.RunGame.
func (g *Game) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			g.sim.HalfStep()
		}
	}
}

func argbColor(argb uint32) color.RGBA {
	return color.RGBA{
		A: uint8(argb >> 24),
		R: uint8(argb >> 16),
		G: uint8(argb >> 8),
		B: uint8(argb),
	}
}
