// Package engine holds the mutable node/transistor state of a built
// network.Topology and the solver that relaxes it to a fixed point:
// the group collector (§4.3), the value resolver (§4.4) and the
// relaxation driver (§4.5) of the gate-level simulator spec.
package engine

import (
	"fmt"

	"github.com/bdwalton/gatesim/network"
)

// maxIterations bounds a single Relax call. Reaching it indicates a
// logic error in either the static data or the solver (spec.md §4.5,
// §7) and is unrecoverable.
const maxIterations = 99

// State is the mutable half of the simulated network: per-node logical
// level and drive flags, per-transistor on/off, and the scratch buffers
// the solver reuses across calls. It is not safe for concurrent use;
// spec.md §5 assumes one simulator instance driven serially.
type State struct {
	topo *network.Topology

	level    []bool
	pullup   []bool
	pulldown []bool
	floating []bool

	on []bool // per-transistor

	// group scratch, owned by the solver; does not outlive one Relax
	// iteration's inner loop.
	group     []uint16
	hasGround bool
	hasPower  bool

	// worklist pair: cur/next alternate on every pass so a node
	// enqueued mid-pass is only ever processed on the next one
	// (spec.md §4.5's rationale for double-buffering).
	worklist [2][]uint16
	queued   *queuedSet

	weakDrive map[uint16]struct{}
}

// New allocates engine state sized to topo. Every node starts low with
// only its build-time pull-up set and its floating flag clear; call
// PowerOn before driving the network.
func New(topo *network.Topology) *State {
	n := len(topo.Nodes)
	s := &State{
		topo:     topo,
		level:    make([]bool, n),
		pullup:   make([]bool, n),
		pulldown: make([]bool, n),
		floating: make([]bool, n),
		on:       make([]bool, len(topo.Transistors)),
		group:    make([]uint16, 0, 64),
		worklist: [2][]uint16{
			make([]uint16, 0, 4096),
			make([]uint16, 0, 4096),
		},
		queued:    newQueuedSet(n),
		weakDrive: weakDriveSet(),
	}

	for _, nd := range topo.Nodes {
		if nd.Num == network.EmptyNode {
			continue
		}
		s.pullup[nd.Num] = nd.Pullup
	}

	return s
}

func weakDriveSet() map[uint16]struct{} {
	m := make(map[uint16]struct{}, len(network.WeakDriveNodes))
	for _, n := range network.WeakDriveNodes {
		m[n] = struct{}{}
	}
	return m
}

// IsHigh reports node's current logical level.
func (s *State) IsHigh(node uint16) bool {
	return s.level[node]
}

// TransistorOn reports whether transistor i currently conducts. Exposed
// for tests and debugging; spec.md's invariant `t.on == state(t.gate)`
// always holds after a public operation returns.
func (s *State) TransistorOn(i uint16) bool {
	return s.on[i]
}

// SetHigh drives node with a pull-up and relaxes the network seeded at
// node (spec.md §4.2).
func (s *State) SetHigh(node uint16) {
	s.pullup[node] = true
	s.pulldown[node] = false
	s.Relax([]uint16{node})
}

// SetLow drives node with a pull-down and relaxes the network seeded at
// node (spec.md §4.2).
func (s *State) SetLow(node uint16) {
	s.pullup[node] = false
	s.pulldown[node] = true
	s.Relax([]uint16{node})
}

// SetBit forces every transistor gated by nA on and every transistor
// gated by nB off, then sets nA high and nB low and relaxes. Negative
// identifiers mean "absent latch bit" and make this a no-op; used only
// by palette/sprite-RAM writes (spec.md §4.2).
func (s *State) SetBit(nA, nB int32) {
	if nA < 0 || nB < 0 {
		return
	}

	a, b := uint16(nA), uint16(nB)

	for _, t := range s.topo.Nodes[a].Gates {
		s.on[t] = true
	}
	for _, t := range s.topo.Nodes[b].Gates {
		s.on[t] = false
	}

	s.level[a] = true
	s.level[b] = false

	s.Relax([]uint16{a, b})
}

// WriteByte drives each of the 8 listed nodes to a pull-up or pull-down
// matching the corresponding bit of val, LSB first, then relaxes seeded
// with all 8 (spec.md §4.2).
func (s *State) WriteByte(nodes [8]uint16, val uint8) {
	for i, n := range nodes {
		bit := (val >> i) & 1
		s.pullup[n] = bit == 1
		s.pulldown[n] = bit == 0
	}
	s.Relax(nodes[:])
}

// FloatByte clears both pulls on each of the 8 listed nodes, then
// relaxes seeded with all 8 (spec.md §4.2).
func (s *State) FloatByte(nodes [8]uint16) {
	for _, n := range nodes {
		s.pullup[n] = false
		s.pulldown[n] = false
	}
	s.Relax(nodes[:])
}

// ReadByte assembles is_high(nodes[i]) into an integer, LSB first
// (spec.md §4.2). nodes may be any length up to 16 bits' worth.
func (s *State) ReadByte(nodes []uint16) uint32 {
	var v uint32
	for i, n := range nodes {
		if s.level[n] {
			v |= 1 << uint(i)
		}
	}
	return v
}

func (s *State) invariantViolation(seed uint16) {
	panic(fmt.Sprintf("engine: relax seeded at node %d did not reach a fixed point within %d iterations", seed, maxIterations))
}
