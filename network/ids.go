// Package network builds the static transistor-level topology of the
// 2A03/RP2C02 pair from the five text tables described in the original
// die extraction and exposes the well-known node numbers the rest of the
// simulator addresses by name.
package network

// EmptyNode marks an index in Topology.Nodes that has no segment
// definition. Node.Num equals its own slice index everywhere else.
const EmptyNode uint16 = 65535

// Rail node numbers. Infinite drive strength; never appear in a Group.
const (
	GND uint16 = 2
	PWR uint16 = 1
)

// cpuOffset is added to every identifier that originates in the CPU-side
// text tables so that the CPU and PPU halves of the die share one address
// space after the build's identifier remap.
const cpuOffset uint16 = 13000

// Well-known node numbers, preserved verbatim from the die extraction
// (nessim/src/consts.rs in the original project). CPU-side ids here
// already include cpuOffset and the identifier remap.
const (
	Clk0    uint16 = 772
	Reset   uint16 = 1934
	IOCE    uint16 = 5
	Int     uint16 = 1031
	ALE     uint16 = 1611
	RD      uint16 = 2428
	WR      uint16 = 2087
	CPUSO   uint16 = 24246
	CPUIRQ  uint16 = 23488
	CPUNMI  uint16 = 1031
	CPUClk0 uint16 = 24235
	CPURW   uint16 = 1224
	PCLK1   uint16 = 58
)

// CPU and PPU address-bus nodes, bit 0 first.
var AB = [14]uint16{1991, 2370, 2650, 2776, 2775, 2774, 2773, 2772, 2771, 2770, 2769, 2768, 2767, 2649}

var CPUAB = [16]uint16{
	23020, 23019, 23030, 23091, 23335, 23489, 23727, 24521,
	24628, 24817, 24965, 25055, 25084, 25083, 25085, 25086,
}

// CPU and PPU data-bus nodes, bit 0 first.
var DB = [8]uint16{1991, 2370, 2650, 2776, 2775, 2774, 2773, 2772}

var CPUDB = [8]uint16{24819, 24966, 25056, 25091, 25090, 25089, 25088, 25087}

// Palette output bits, LSB first.
var PalDOut = [6]uint16{1215, 6565, 6566, 6567, 6564, 6568}

// H/V position counter bits, LSB first (nessim/src/consts.rs).
var HPos = [9]uint16{209, 260, 310, 376, 428, 495, 544, 584, 631}
var VPos = [9]uint16{210, 259, 311, 377, 429, 496, 543, 588, 632}

// WeakDriveNodes lists the chip-internal nodes known to tolerate a
// simultaneous ground/power conflict in a settled group (spec.md §4.4).
// Unexplained in the source; must be carried forward verbatim to match
// the reference trace.
var WeakDriveNodes = [8]uint16{359, 566, 691, 818, 856, 864, 870, 871}

// PaletteARGB is the fixed 64-entry NES palette, ARGB32 with alpha
// always 0xFF.
var PaletteARGB = [64]uint32{
	0xFF666666, 0xFF002A88, 0xFF1412A7, 0xFF3B00A4, 0xFF5C007E, 0xFF6E0040, 0xFF6C0600, 0xFF561D00,
	0xFF333500, 0xFF0B4800, 0xFF005200, 0xFF004F08, 0xFF00404D, 0xFF000000, 0xFF000000, 0xFF000000,
	0xFFADADAD, 0xFF155FD9, 0xFF4240FF, 0xFF7527FE, 0xFFA01ACC, 0xFFB71E7B, 0xFFB53120, 0xFF994E00,
	0xFF6B6D00, 0xFF388700, 0xFF0C9300, 0xFF008F32, 0xFF007C8D, 0xFF000000, 0xFF000000, 0xFF000000,
	0xFFFFFEFF, 0xFF64B0FF, 0xFF9290FF, 0xFFC676FF, 0xFFF36AFF, 0xFFFE6ECC, 0xFFFE8170, 0xFFEA9E22,
	0xFFBCBE00, 0xFF88D800, 0xFF5CE430, 0xFF45E082, 0xFF48CDDE, 0xFF4F4F4F, 0xFF000000, 0xFF000000,
	0xFFFFFEFF, 0xFFC0DFFF, 0xFFD3D2FF, 0xFFE8C8FF, 0xFFFBC2FF, 0xFFFEC4EA, 0xFFFECCC5, 0xFFF7D8A5,
	0xFFE4E594, 0xFFCFEF96, 0xFFBDF4AB, 0xFFB3F3CC, 0xFFB5EBF2, 0xFFB8B8B8, 0xFF000000, 0xFF000000,
}

// idConversionTable merges the handful of wires the CPU and PPU halves
// share: some CPU-side identifiers (pre-offset) are rewritten onto their
// PPU-side equivalents, and the PPU's io_db/io_ab pins are rewritten onto
// the CPU's data/address bus nodes. Carried verbatim from the die
// extraction's preprocessor.
func idConversionTable() map[uint16]uint16 {
	return map[uint16]uint16{
		10000 + cpuOffset: 1,    // vcc
		10001 + cpuOffset: 2,    // vss
		10004 + cpuOffset: 1934, // reset

		11669 + cpuOffset: 772, // cpu_clk_in -> clk0

		1013: 11819 + cpuOffset, // io_db0 -> cpu_db0
		765:  11966 + cpuOffset, // db1
		431:  12056 + cpuOffset, // db2
		87:   12091 + cpuOffset, // db3
		11:   12090 + cpuOffset, // db4
		10:   12089 + cpuOffset, // db5
		9:    12088 + cpuOffset, // db6
		8:    12087 + cpuOffset, // db7

		12: 10020 + cpuOffset, // io_ab0 -> cpu_ab0
		6:  10019 + cpuOffset, // io_ab1 -> cpu_ab1
		7:  10030 + cpuOffset, // io_ab2 -> cpu_ab2

		10331 + cpuOffset: 1031, // nmi -> int
		10092 + cpuOffset: 1224, // cpu_rw -> io_rw
	}
}

func convertID(id uint16, table map[uint16]uint16) uint16 {
	if v, ok := table[id]; ok {
		return v
	}
	return id
}
