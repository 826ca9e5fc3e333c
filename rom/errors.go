// Package rom parses iNES cartridge images and exposes the CPU/PPU
// visible banks the nes package wires into its external memory model.
package rom

import "errors"

var (
	// ErrMalformedHeader is returned when the 16-byte iNES header is
	// missing its "NES\x1A" magic or the file is shorter than the
	// header plus the banks it declares.
	ErrMalformedHeader = errors.New("rom: malformed iNES header")

	// ErrUnsupportedMapper is returned for any mapper number other
	// than 0 (NROM); spec.md's die only implements the NROM memory
	// map, so anything else can't be wired to a real bus.
	ErrUnsupportedMapper = errors.New("rom: unsupported mapper, only NROM (mapper 0) is implemented")

	// ErrUnsupportedMirroring is returned for the four-screen mirroring
	// flag; the die's nametable mirroring logic supports it only as a
	// stub (spec.md's FourScreen mode, which needs cartridge-supplied
	// extra VRAM this package does not model).
	ErrUnsupportedMirroring = errors.New("rom: four-screen mirroring requires extra cartridge VRAM, not supported")
)
