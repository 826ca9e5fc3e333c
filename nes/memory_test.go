package nes

import (
	"bytes"
	"testing"

	"github.com/bdwalton/gatesim/rom"
)

func makeROM(t *testing.T, prgBanks, chrBanks int, flags6 byte) *rom.ROM {
	t.Helper()
	h := make([]byte, 16)
	copy(h, "NES\x1a")
	h[4] = byte(prgBanks)
	h[5] = byte(chrBanks)
	h[6] = flags6

	buf := append([]byte{}, h...)
	buf = append(buf, make([]byte, prgBanks*16*1024)...)
	buf = append(buf, make([]byte, chrBanks*8*1024)...)

	r, err := rom.Parse(bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("rom.Parse: %v", err)
	}
	return r
}

func TestMemoryCPURAMMirroring(t *testing.T) {
	m := newMemory()
	m.cpuWrite(0x0042, 0x7A)

	for _, addr := range []uint16{0x0042, 0x0842, 0x1042, 0x1842} {
		v, openBus := m.cpuRead(addr)
		if openBus || v != 0x7A {
			t.Errorf("cpuRead(%#x) = %#x, openBus=%v; want 0x7a, false", addr, v, openBus)
		}
	}
}

func TestMemoryOpenBus(t *testing.T) {
	m := newMemory()
	m.cpuWrite(0x0000, 0x55) // drives lastCPUDB

	v, openBus := m.cpuRead(0x4000)
	if !openBus || v != 0x55 {
		t.Errorf("cpuRead(0x4000) = %#x, openBus=%v; want last-driven value, true", v, openBus)
	}
}

func TestMemoryPRGMirroring(t *testing.T) {
	m := newMemory()
	m.loadCartridge(makeROM(t, 1, 1, 0))

	v, openBus := m.cpuRead(0x8000)
	if openBus {
		t.Fatalf("0x8000 should be mapped once a cartridge is loaded")
	}
	if v != 0 {
		t.Fatalf("fresh ROM should read zero, got %#x", v)
	}

	v2, _ := m.cpuRead(0xC000)
	if v2 != v {
		t.Errorf("single 16K PRG bank should mirror at 0xC000")
	}
}

func TestMemoryHorizontalMirroring(t *testing.T) {
	m := newMemory()
	m.loadCartridge(makeROM(t, 1, 1, 0))

	m.ppuWrite(0x2000, 0x11)
	if got := m.ppuRead(0x2400); got != 0x11 {
		t.Errorf("horizontal mirroring: ppuRead(0x2400) = %#x, want 0x11", got)
	}
	if got := m.ppuRead(0x2800); got == 0x11 {
		t.Errorf("horizontal mirroring: ppuRead(0x2800) should not match 0x2000's table")
	}
}

func TestMemoryVerticalMirroring(t *testing.T) {
	m := newMemory()
	m.loadCartridge(makeROM(t, 1, 1, flag6MirroringForTest))

	m.ppuWrite(0x2000, 0x22)
	if got := m.ppuRead(0x2800); got != 0x22 {
		t.Errorf("vertical mirroring: ppuRead(0x2800) = %#x, want 0x22", got)
	}
	if got := m.ppuRead(0x2400); got == 0x22 {
		t.Errorf("vertical mirroring: ppuRead(0x2400) should not match 0x2000's table")
	}
}

func TestMemoryCHRRAMWriteThrough(t *testing.T) {
	m := newMemory()
	m.loadCartridge(makeROM(t, 1, 0, 0))

	m.ppuWrite(0x0005, 0x9A)
	if got := m.ppuRead(0x0005); got != 0x9A {
		t.Errorf("CHR RAM write-through failed: got %#x, want 0x9a", got)
	}
}

const flag6MirroringForTest = 1 << 0
