package engine

import "github.com/bdwalton/gatesim/network"

// Relax repeatedly resolves the groups reachable from seeds, toggling
// the transistors gated by any wire that changes level and enqueuing
// newly-disturbed wires, until the network reaches a fixed point
// (spec.md §4.5). It returns only once settled; reaching the iteration
// cap is an unrecoverable invariant violation.
//
// The two worklist buffers always start as (seeds, empty) on entry:
// every call owns its own pass from the caller's perspective, matching
// the original die simulator's RecalcSwapList.init/reset-per-call
// design (recalc_swap_list.rs in the original source).
func (s *State) Relax(seeds []uint16) {
	const cur, next = 0, 1

	s.worklist[cur] = append(s.worklist[cur][:0], seeds...)
	s.worklist[next] = s.worklist[next][:0]

	curBuf, nextBuf := cur, next

	for iter := 0; ; iter++ {
		if iter >= maxIterations {
			var seed uint16
			if len(seeds) > 0 {
				seed = seeds[0]
			}
			s.invariantViolation(seed)
		}

		for _, node := range s.worklist[curBuf] {
			if node == network.GND || node == network.PWR {
				continue
			}

			s.collectGroup(node)
			newLevel := s.resolveValue()

			for _, m := range s.group {
				if s.level[m] == newLevel {
					continue
				}
				s.level[m] = newLevel

				for _, ti := range s.topo.Nodes[m].Gates {
					if newLevel {
						s.turnTransistorOn(ti, nextBuf)
					} else {
						s.turnTransistorOff(ti, nextBuf)
					}
				}
			}
		}

		if len(s.worklist[nextBuf]) == 0 {
			return
		}

		s.queued.clear(s.worklist[nextBuf])
		curBuf, nextBuf = nextBuf, curBuf
		s.worklist[nextBuf] = s.worklist[nextBuf][:0]
	}
}

func (s *State) turnTransistorOn(ti uint16, nextBuf int) {
	if s.on[ti] {
		return
	}
	s.on[ti] = true
	s.addRecalcNode(s.topo.Transistors[ti].C1, nextBuf)
}

func (s *State) turnTransistorOff(ti uint16, nextBuf int) {
	if !s.on[ti] {
		return
	}
	s.on[ti] = false
	t := s.topo.Transistors[ti]
	s.addRecalcNode(t.C1, nextBuf)
	s.addRecalcNode(t.C2, nextBuf)
}

func (s *State) addRecalcNode(node uint16, nextBuf int) {
	if node == network.GND || node == network.PWR {
		return
	}
	if s.queued.contains(node) {
		return
	}
	s.worklist[nextBuf] = append(s.worklist[nextBuf], node)
	s.queued.set(node)
}

// PowerOn resets every node and transistor to the die's power-on state
// and settles the whole network (spec.md §4.5). Callers that also own
// RAM-backed buffers (nes.Simulator) must zero those themselves before
// calling PowerOn; this method only ever touches node/transistor state.
func (s *State) PowerOn() {
	for i := range s.level {
		s.level[i] = false
		s.floating[i] = true
	}

	s.level[network.GND] = false
	s.floating[network.GND] = false
	s.level[network.PWR] = true
	s.floating[network.PWR] = false

	for i, t := range s.topo.Transistors {
		s.on[i] = t.InitialOn
	}

	s.SetLow(network.Reset)
	s.SetLow(network.Clk0)
	s.SetHigh(network.IOCE)
	s.SetHigh(network.Int)

	for i := 0; i < 6; i++ {
		s.SetHigh(network.Clk0)
		s.SetLow(network.Clk0)
	}

	s.SetLow(network.CPUSO)
	s.SetHigh(network.CPUIRQ)
	s.SetHigh(network.CPUNMI)

	s.Relax(s.topo.AllRecalcNodes)

	for i := 0; i < 12*8; i++ {
		s.SetHigh(network.Clk0)
		s.SetLow(network.Clk0)
	}

	s.SetHigh(network.Reset)
}

// SoftReset drives reset low, toggles the master clock 193 times and
// raises reset again (spec.md §4.5).
func (s *State) SoftReset() {
	s.SetLow(network.Reset)

	for i := 0; i < 12*8*2+1; i++ {
		if s.IsHigh(network.Clk0) {
			s.SetLow(network.Clk0)
		} else {
			s.SetHigh(network.Clk0)
		}
	}

	s.SetHigh(network.Reset)
}

// Floating reports node's floating flag (accessor for tests/debug;
// spec.md §3's floating flag). PowerOn sets the flag on every node except
// the rails; no other operation updates it, so it does not follow later
// pull-up/pull-down changes.
func (s *State) Floating(node uint16) bool {
	return s.floating[node]
}
