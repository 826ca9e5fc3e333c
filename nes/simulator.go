// Package nes drives the gate-level network as a running console: the
// half-step clock driver, the external memory model cartridges and RAM
// present to the die, and the Simulator facade cmd/gatesim and display
// wire up (spec.md §4.6, §6).
package nes

import (
	"fmt"
	"io"

	"github.com/bdwalton/gatesim/engine"
	"github.com/bdwalton/gatesim/network"
	"github.com/bdwalton/gatesim/rom"
)

const (
	frameWidth  = 256
	frameHeight = 240
)

// Simulator is a single running NES: the built topology, its live
// engine state, the external memory model, and the half-step driver's
// own scratch (edge snapshots, the IO-CE down-counter, the video
// sampler's framebuffer). Not safe for concurrent use (spec.md §5);
// callers needing concurrent access must add their own lock.
type Simulator struct {
	topo *network.Topology
	s    *engine.State
	mem  *memory

	stepCycleCount int
	prevALE        bool
	prevRD         bool
	prevWR         bool
	chrAddress     uint16

	prevHPos int

	framebuffer [frameWidth * frameHeight]uint32
}

// New builds the static topology from dataDir and returns an
// un-powered Simulator. Call Init before driving it.
func New(dataDir string) (*Simulator, error) {
	topo, err := network.Build(dataDir)
	if err != nil {
		return nil, fmt.Errorf("nes: %w", err)
	}
	return newWithTopology(topo), nil
}

// newWithTopology wraps an already-built topology, for tests.
func newWithTopology(topo *network.Topology) *Simulator {
	return &Simulator{
		topo:     topo,
		s:        engine.New(topo),
		mem:      newMemory(),
		prevHPos: -1,
	}
}

// LoadROM parses r as an iNES image and wires its PRG/CHR banks and
// mirroring mode into the external memory model (spec.md §4.7).
func (sim *Simulator) LoadROM(r io.Reader) error {
	img, err := rom.Parse(r)
	if err != nil {
		return fmt.Errorf("nes: %w", err)
	}
	sim.mem.loadCartridge(img)
	return nil
}

// Init powers the network on, or drives a soft reset if softReset is
// true (spec.md §4.5).
func (sim *Simulator) Init(softReset bool) {
	if softReset {
		sim.s.SoftReset()
		return
	}

	sim.mem.cpuRAM = [0x800]uint8{}
	sim.mem.nametable = [0x800]uint8{}
	sim.s.PowerOn()
	sim.prevHPos = -1
}

// Framebuffer returns the current 256x240 ARGB32 frame. The half-step
// driver writes individual pixels into this buffer in place; callers
// sampling it from another goroutine must synchronize with the
// Simulator's driving goroutine themselves (spec.md §5).
func (sim *Simulator) Framebuffer() *[frameWidth * frameHeight]uint32 {
	return &sim.framebuffer
}

// IsHigh exposes a node's current level, for tests and internal/debug.
func (sim *Simulator) IsHigh(node uint16) bool {
	return sim.s.IsHigh(node)
}

// ReadCPUAddressBus reads the 16-bit CPU address bus's current value.
func (sim *Simulator) ReadCPUAddressBus() uint16 {
	return uint16(sim.s.ReadByte(network.CPUAB[:]))
}

// ReadPPUAddressBus reads the 14-bit PPU address bus's current value.
func (sim *Simulator) ReadPPUAddressBus() uint16 {
	return uint16(sim.s.ReadByte(network.AB[:]))
}

// HalfStep advances the simulation by one master-clock edge,
// implementing every step of spec.md §4.6 in order.
func (sim *Simulator) HalfStep() {
	prevCPUClk := sim.s.IsHigh(network.CPUClk0)
	prevClk := sim.s.IsHigh(network.Clk0)

	if prevClk {
		sim.s.SetLow(network.Clk0)
	} else {
		sim.s.SetHigh(network.Clk0)
	}

	sim.stepIOCE()
	sim.stepCartridgeBus()
	sim.stepCPUBus(prevCPUClk)
	sim.stepVideoSampler()
}

// stepIOCE emulates the 74139 IO-chip-enable decoder: a down-counter
// that holds io-ce low for 11 half-steps after the CPU addresses the
// $2000-$3FFF window (A13 high, A14 and A15 low) (spec.md §4.6 step 3).
func (sim *Simulator) stepIOCE() {
	if sim.stepCycleCount > 0 {
		sim.stepCycleCount--
		if sim.stepCycleCount == 0 {
			sim.s.SetHigh(network.IOCE)
		}
		return
	}

	ab13 := sim.s.IsHigh(network.CPUAB[13])
	ab14 := sim.s.IsHigh(network.CPUAB[14])
	ab15 := sim.s.IsHigh(network.CPUAB[15])
	cpuClk := sim.s.IsHigh(network.CPUClk0)

	if ab13 && !ab14 && !ab15 && cpuClk {
		sim.s.SetLow(network.IOCE)
		sim.stepCycleCount = 11
	}
}

// stepCartridgeBus handles CHR-bus ALE/RD/WR edges against the PPU-
// visible memory model (spec.md §4.6 step 4).
func (sim *Simulator) stepCartridgeBus() {
	ale := sim.s.IsHigh(network.ALE)
	rd := sim.s.IsHigh(network.RD)
	wr := sim.s.IsHigh(network.WR)

	if ale && !sim.prevALE {
		sim.chrAddress = uint16(sim.s.ReadByte(network.AB[:])) & 0x3FFF
	}
	if !rd && sim.prevRD {
		sim.s.WriteByte(network.DB, sim.mem.ppuRead(sim.chrAddress))
	}
	if rd && !sim.prevRD {
		sim.s.FloatByte(network.DB)
	}
	if wr && !sim.prevWR {
		sim.mem.ppuWrite(sim.chrAddress, uint8(sim.s.ReadByte(network.DB[:])))
	}
	if !rd || !wr {
		sim.mem.lastPPUDB = uint8(sim.s.ReadByte(network.DB[:]))
	}

	sim.prevALE, sim.prevRD, sim.prevWR = ale, rd, wr
}

// stepCPUBus handles a CPU-clock edge against the CPU-visible memory
// model (spec.md §4.6 step 5).
func (sim *Simulator) stepCPUBus(prevCPUClk bool) {
	curCPUClk := sim.s.IsHigh(network.CPUClk0)
	if curCPUClk == prevCPUClk {
		return
	}

	if prevCPUClk {
		// Falling edge.
		if sim.s.IsHigh(network.CPURW) {
			addr := uint16(sim.s.ReadByte(network.CPUAB[:]))
			val, openBus := sim.mem.cpuRead(addr)
			if openBus {
				sim.s.FloatByte(network.CPUDB)
			} else {
				sim.s.WriteByte(network.CPUDB, val)
			}
		}
		return
	}

	// Rising edge.
	if !sim.s.IsHigh(network.CPURW) {
		addr := uint16(sim.s.ReadByte(network.CPUAB[:]))
		val := uint8(sim.s.ReadByte(network.CPUDB[:]))
		sim.mem.cpuWrite(addr, val)
	}
}

// stepVideoSampler assembles one pixel into the framebuffer whenever
// pclk1 is high and the beam lands inside the visible 256x240 raster
// (spec.md §4.6 step 6).
func (sim *Simulator) stepVideoSampler() {
	if !sim.s.IsHigh(network.PCLK1) {
		return
	}

	hpos := int(sim.s.ReadByte(network.HPos[:])) - 2
	vpos := int(sim.s.ReadByte(network.VPos[:]))

	if hpos != sim.prevHPos && hpos >= 0 && hpos < frameWidth && vpos < frameHeight {
		idx := sim.s.ReadByte(network.PalDOut[:]) & 0x3F
		sim.framebuffer[vpos*frameWidth+hpos] = network.PaletteARGB[idx]
	}

	sim.prevHPos = hpos
}
