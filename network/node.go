package network

// Node is an equipotential wire on the die. Num, Area, Gates and Channels
// are fixed at build time and never mutated afterwards; Pullup records the
// segment definition's initial pull so that engine.New can seed each
// node's pull-up without re-running the build.
type Node struct {
	Num uint16

	// Pullup is the initial pull recorded by the first segment record
	// naming this node; ground and power never set it.
	Pullup bool

	// Area is the shoelace-derived polygon weight used by the value
	// resolver's capacitance tie-break. Zero for ground and power.
	Area uint64

	// Gates lists the transistor indices whose gate terminal is this
	// node.
	Gates []uint16

	// Channels lists the transistor indices whose c1 or c2 terminal
	// touches this node. Rails never populate Channels.
	Channels []uint16
}

// Transistor is a bidirectional NMOS switch. C1 and C2 are canonicalized
// at build time so that a rail, if present, is always C2.
type Transistor struct {
	C1, C2 uint16
	Gate   uint16

	// InitialOn is captured once at build time: true iff Gate == PWR.
	// engine.State.PowerOn uses this to seed transistor state without
	// re-deriving it from node state, matching spec.md §4.5.
	InitialOn bool
}
