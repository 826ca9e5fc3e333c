package nes

// WritePaletteByte forces palette RAM byte addr to val by driving the
// die's internal palette-RAM flip-flops directly, bypassing the bus
// simulation entirely. This is how save-state loads and test fixtures
// seed palette RAM on the real die's gate-level model; ordinary
// $2007-mediated PPU writes reach the same flip-flops through the
// simulated network instead (spec.md §4.2, §8).
func (sim *Simulator) WritePaletteByte(addr int, val uint8) {
	writeLatchByte(sim, sim.topo.PaletteNodes[addr][:], val)
}

// WriteSpriteByte is WritePaletteByte for sprite (OAM) RAM.
func (sim *Simulator) WriteSpriteByte(addr int, val uint8) {
	writeLatchByte(sim, sim.topo.SpriteNodes[addr][:], val)
}

// writeLatchByte drives one bit's flip-flop pair per entry in pairs:
// bit set forces n1 high/n0 low, bit clear forces n0 high/n1 low
// (spec.md §4.2's set_bit semantics).
func writeLatchByte(sim *Simulator, pairs [][2]int32, val uint8) {
	for b, pair := range pairs {
		n0, n1 := pair[0], pair[1]
		if val&(1<<uint(b)) != 0 {
			sim.s.SetBit(n1, n0)
		} else {
			sim.s.SetBit(n0, n1)
		}
	}
}
