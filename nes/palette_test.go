package nes

import (
	"testing"

	"github.com/bdwalton/gatesim/network"
)

// paletteTestTopology wires PaletteNodes[0][b] = (dummy, PalDOut[b])
// for each of the 6 palette bits, so that a palette-RAM write directly
// forces the corresponding PalDOut node to the written bit (spec.md
// §8's named palette-write boundary scenario).
func paletteTestTopology() *network.Topology {
	maxID := uint16(0)
	for _, id := range network.PalDOut {
		if id > maxID {
			maxID = id
		}
	}
	dummyBase := maxID + 1

	nodes := make([]network.Node, int(dummyBase)+6)
	for i := range nodes {
		nodes[i].Num = network.EmptyNode
	}
	for _, id := range network.PalDOut {
		nodes[id] = network.Node{Num: id, Area: 1}
	}
	for b := 0; b < 6; b++ {
		nodes[int(dummyBase)+b] = network.Node{Num: dummyBase + uint16(b), Area: 1}
	}
	nodes[network.GND] = network.Node{Num: network.GND}
	nodes[network.PWR] = network.Node{Num: network.PWR}

	var row [6][2]int32
	for b := 0; b < 6; b++ {
		row[b] = [2]int32{int32(dummyBase) + int32(b), int32(network.PalDOut[b])}
	}

	return &network.Topology{
		Nodes:        nodes,
		PaletteNodes: [][6][2]int32{row},
	}
}

func TestWritePaletteByteRoundTrips(t *testing.T) {
	sim := newWithTopology(paletteTestTopology())

	sim.WritePaletteByte(0, 0x3F)

	if got := uint8(sim.s.ReadByte(network.PalDOut[:])); got != 0x3F {
		t.Errorf("palette RAM index 0 read back %#x after writing 0x3F, want 0x3f", got)
	}
}
