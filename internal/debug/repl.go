// Package debug implements an interactive REPL over a running
// nes.Simulator, in the teacher's BIOS-console idiom, for manual
// inspection: step half-cycles, set breakpoints on the CPU address
// bus, dump node state. Not required by any spec.md invariant; a
// supplementary feature carried over in spirit from the original's
// debugging affordances (SPEC_FULL.md §2).
package debug

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bdwalton/gatesim/nes"
)

// halfStepsPerCPUCycle mirrors the reference trace's M=12 half-cycles
// per CPU cycle (spec.md §8's reference-trace property).
const halfStepsPerCPUCycle = 12

// REPL drives a *nes.Simulator from stdin/stdout.
type REPL struct {
	sim    *nes.Simulator
	breaks map[uint16]struct{}
}

// New returns a REPL over sim.
func New(sim *nes.Simulator) *REPL {
	return &REPL{sim: sim, breaks: make(map[uint16]struct{})}
}

func readAddress(prompt string) uint16 {
	var a uint16
	fmt.Print(prompt)
	fmt.Scanf("%04x\n", &a)
	return a
}

// Run prints the menu and dispatches commands until the user quits or
// ctx is cancelled.
func (r *REPL) Run(ctx context.Context) {
	sigQuit := make(chan os.Signal, 1)
	signal.Notify(sigQuit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigQuit)

	for {
		fmt.Printf("cpu_ab=%04x ppu_ab=%04x\n\n", r.sim.ReadCPUAddressBus(), r.sim.ReadPPUAddressBus())
		fmt.Println("(B)reak - add a CPU address-bus breakpoint")
		fmt.Println("(C)lear - clear breakpoints")
		fmt.Println("(R)un - run to the next breakpoint")
		fmt.Println("(S)tep - advance one CPU cycle (12 half-steps)")
		fmt.Println("(H)alf - advance one half-step")
		fmt.Println("R(e)set - soft reset")
		fmt.Println("(N)ode - read a node's logical level")
		fmt.Println("(Q)uit - exit the debugger")
		fmt.Print("Choice: ")

		var in rune
		fmt.Scanf("%c\n", &in)

		switch in {
		case 'b', 'B':
			r.breaks[readAddress("Breakpoint (eg: ff15): ")] = struct{}{}
		case 'c', 'C':
			r.breaks = make(map[uint16]struct{})
		case 'q', 'Q':
			return
		case 'r', 'R':
			cctx, cancel := context.WithCancel(ctx)
			go func() {
				select {
				case <-sigQuit:
					cancel()
				case <-cctx.Done():
				}
			}()
			r.runToBreakpoint(cctx)
			cancel()
		case 's', 'S':
			for i := 0; i < halfStepsPerCPUCycle; i++ {
				r.sim.HalfStep()
			}
		case 'h', 'H':
			r.sim.HalfStep()
		case 'e', 'E':
			r.sim.Init(true)
		case 'n', 'N':
			id := readAddress("Node number (hex, eg 0304): ")
			fmt.Printf("node %d is_high=%v\n\n", id, r.sim.IsHigh(id))
		}
	}
}

func (r *REPL) runToBreakpoint(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			r.sim.HalfStep()
			if _, hit := r.breaks[r.sim.ReadCPUAddressBus()]; hit {
				return
			}
		}
	}
}
