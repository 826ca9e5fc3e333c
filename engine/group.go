package engine

import "github.com/bdwalton/gatesim/network"

// collectGroup walks every node reachable from seed through currently
// conducting transistors, populating s.group and setting s.hasGround /
// s.hasPower when the walk reaches a rail (spec.md §4.3). Rails
// themselves are never added to s.group.
func (s *State) collectGroup(seed uint16) {
	s.hasGround = false
	s.hasPower = false
	s.group = s.group[:0]
	s.addToGroup(seed)
}

// addToGroup is the recursive step. Groups are small for this die
// (spec.md §9 notes <~50 nodes), so plain recursion and a linear
// membership scan over s.group are both acceptable; an implementation
// targeting a constrained stack should convert this to an explicit
// stack instead.
func (s *State) addToGroup(node uint16) {
	if node == network.GND {
		s.hasGround = true
		return
	}
	if node == network.PWR {
		s.hasPower = true
		return
	}

	for _, m := range s.group {
		if m == node {
			return
		}
	}
	s.group = append(s.group, node)

	for _, ti := range s.topo.Nodes[node].Channels {
		if !s.on[ti] {
			continue
		}
		t := s.topo.Transistors[ti]
		var other uint16
		if t.C1 == node {
			other = t.C2
		} else {
			other = t.C1
		}
		s.addToGroup(other)
	}
}
