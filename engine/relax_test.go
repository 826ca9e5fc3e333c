package engine

import (
	"testing"

	"github.com/bdwalton/gatesim/network"
)

// inverterTopology builds a one-transistor inverter: node 10 is the
// input gate, node 11 is the output, pulled up weakly and grounded
// through the transistor when the gate is high. The node slice is padded
// (with empty nodes) to cover every well-known node id PowerOn drives.
func inverterTopology() *network.Topology {
	size := 12
	for _, id := range []uint16{network.Reset, network.Clk0, network.IOCE, network.Int, network.CPUSO, network.CPUIRQ, network.CPUNMI} {
		if int(id)+1 > size {
			size = int(id) + 1
		}
	}
	nodes := make([]network.Node, size)
	for i := range nodes {
		nodes[i].Num = network.EmptyNode
	}
	nodes[network.GND] = network.Node{Num: network.GND}
	nodes[network.PWR] = network.Node{Num: network.PWR}
	nodes[10] = network.Node{Num: 10, Gates: []uint16{0}}
	nodes[11] = network.Node{Num: 11, Pullup: true, Channels: []uint16{0}}

	return &network.Topology{
		Nodes: nodes,
		Transistors: []network.Transistor{
			{C1: 11, C2: network.GND, Gate: 10},
		},
		AllRecalcNodes: []uint16{10, 11},
	}
}

func TestRelaxInverterTracksInput(t *testing.T) {
	s := New(inverterTopology())
	s.PowerOn()

	s.SetLow(10)
	if s.IsHigh(11) != true {
		t.Errorf("output should be pulled high when input is low")
	}

	s.SetHigh(10)
	if s.IsHigh(11) != false {
		t.Errorf("output should be pulled low when input is high")
	}
	if !s.TransistorOn(0) {
		t.Errorf("transistor should conduct when gate is high")
	}

	// Re-asserting the same input level must be idempotent.
	s.SetHigh(10)
	if s.IsHigh(11) != false {
		t.Errorf("output changed on a repeated SetHigh of the same input")
	}
}

func TestRelaxInverterPowerOn(t *testing.T) {
	s := New(inverterTopology())
	s.PowerOn()

	if s.IsHigh(10) {
		t.Errorf("power-on should leave the floating input low")
	}
	if !s.IsHigh(11) {
		t.Errorf("power-on output should settle high via its pull-up")
	}
}

// twoNodeOscillatorTopology wires two transistors so that driving node
// 3 high starts a perpetual feedback loop: 3 -> 4 (via PWR) -> 3 (via
// GND), which never reaches a fixed point. It exercises the iteration
// cap in Relax.
func twoNodeOscillatorTopology() *network.Topology {
	nodes := make([]network.Node, 5)
	for i := range nodes {
		nodes[i].Num = network.EmptyNode
	}
	nodes[network.PWR] = network.Node{Num: network.PWR}
	nodes[network.GND] = network.Node{Num: network.GND}
	nodes[3] = network.Node{Num: 3, Gates: []uint16{0}, Channels: []uint16{1}}
	nodes[4] = network.Node{Num: 4, Gates: []uint16{1}, Channels: []uint16{0}}

	return &network.Topology{
		Nodes: nodes,
		Transistors: []network.Transistor{
			{C1: 4, C2: network.PWR, Gate: 3}, // T0: node 3 high -> node 4 pulled to PWR
			{C1: 3, C2: network.GND, Gate: 4}, // T1: node 4 high -> node 3 pulled to GND
		},
		AllRecalcNodes: []uint16{3, 4},
	}
}

func TestRelaxPanicsWhenNoFixedPoint(t *testing.T) {
	s := New(twoNodeOscillatorTopology())

	defer func() {
		if recover() == nil {
			t.Fatalf("want panic from an unreachable fixed point, got none")
		}
	}()
	s.SetHigh(3)
}

func TestSoftResetTogglesClockOddNumberOfTimes(t *testing.T) {
	topo := &network.Topology{
		Nodes: []network.Node{
			{Num: network.EmptyNode},
			{Num: network.PWR},
			{Num: network.GND},
		},
		AllRecalcNodes: nil,
	}
	// Pad out to cover every well-known node id referenced by SoftReset.
	maxID := network.Clk0
	if network.Reset > maxID {
		maxID = network.Reset
	}
	nodes := make([]network.Node, int(maxID)+1)
	for i := range nodes {
		nodes[i].Num = network.EmptyNode
	}
	nodes[network.GND] = network.Node{Num: network.GND}
	nodes[network.PWR] = network.Node{Num: network.PWR}
	topo.Nodes = nodes

	s := New(topo)
	before := s.IsHigh(network.Clk0)
	s.SoftReset()
	after := s.IsHigh(network.Clk0)

	if before == after {
		t.Errorf("193 toggles should flip the clock's final level, got before=%v after=%v", before, after)
	}
	if !s.IsHigh(network.Reset) {
		t.Errorf("soft reset must leave reset driven high")
	}
}
