package network

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// Topology is the immutable static network produced once at startup.
// Nothing in this package or its callers mutates a Topology after Build
// returns.
type Topology struct {
	Nodes       []Node
	Transistors []Transistor

	// NameToID maps every name in nodenames.txt/cpunodenames.txt (the
	// latter prefixed "cpu_") onto its post-remap node number.
	NameToID map[string]uint16

	// AllRecalcNodes lists every non-rail, non-empty node, in build
	// order. engine.State.PowerOn seeds the full-network relax with this.
	AllRecalcNodes []uint16

	// PaletteNodes[addr][bit] and SpriteNodes[addr][bit] give the
	// (n0, n1) flip-flop node pair used by set_bit when writing
	// palette/sprite RAM (spec.md §4.2).
	PaletteNodes [][6][2]int32
	SpriteNodes  [][8][2]int32
}

// BuildError reports a malformed static-data file. The engine never
// re-enters the build; a BuildError is always fatal to the caller.
type BuildError struct {
	File string
	Line int
	Err  error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("network: %s:%d: %v", e.File, e.Line, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// Build reads the five text tables (segdefs, transdefs, nodenames, plus
// their cpu-prefixed counterparts, plus palettenodes/spritenodes) from
// dataDir and constructs the static topology (spec.md §4.1).
func Build(dataDir string) (*Topology, error) {
	return BuildFS(os.DirFS(dataDir))
}

// BuildFS is Build against an arbitrary fs.FS, so tests can exercise the
// pipeline against small synthetic fixtures instead of the full die.
func BuildFS(fsys fs.FS) (*Topology, error) {
	table := idConversionTable()

	segDefs, err := loadSegDefs(fsys, "segdefs.txt", 0, table)
	if err != nil {
		return nil, err
	}
	cpuSegDefs, err := loadSegDefs(fsys, "cpusegdefs.txt", cpuOffset, table)
	if err != nil {
		return nil, err
	}
	segDefs = append(segDefs, cpuSegDefs...)

	transDefs, err := loadTransDefs(fsys, "transdefs.txt", "", 0, table)
	if err != nil {
		return nil, err
	}
	cpuTransDefs, err := loadTransDefs(fsys, "cputransdefs.txt", "cpu_", cpuOffset, table)
	if err != nil {
		return nil, err
	}
	transDefs = append(transDefs, cpuTransDefs...)

	nodes, err := setupNodes(segDefs)
	if err != nil {
		return nil, err
	}

	allRecalc := make([]uint16, 0, len(nodes))
	for i := range nodes {
		if nodes[i].Num == EmptyNode {
			continue
		}
		if nodes[i].Num == GND || nodes[i].Num == PWR {
			continue
		}
		allRecalc = append(allRecalc, nodes[i].Num)
	}

	transistors := setupTransistors(nodes, transDefs)

	names, err := loadNodeNames(fsys, "nodenames.txt", "", 0, table)
	if err != nil {
		return nil, err
	}
	cpuNames, err := loadNodeNames(fsys, "cpunodenames.txt", "cpu_", cpuOffset, table)
	if err != nil {
		return nil, err
	}
	for k, v := range cpuNames {
		names[k] = v
	}

	palette, err := loadPairTable(fsys, "palettenodes.txt", 6)
	if err != nil {
		return nil, err
	}
	sprite, err := loadPairTable(fsys, "spritenodes.txt", 8)
	if err != nil {
		return nil, err
	}

	return &Topology{
		Nodes:          nodes,
		Transistors:    transistors,
		NameToID:       names,
		AllRecalcNodes: allRecalc,
		PaletteNodes:   palette6(palette),
		SpriteNodes:    palette8(sprite),
	}, nil
}

type segDef struct {
	values []uint16 // [id, pullup, ?, x0, y0, x1, y1, ...]
}

type transDef struct {
	name           string
	gate, c1, c2 uint16
}

func eachLine(fsys fs.FS, name string, fn func(lineNo int, line string) error) error {
	f, err := fsys.Open(name)
	if err != nil {
		return &BuildError{File: name, Line: 0, Err: err}
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		if err := fn(lineNo, line); err != nil {
			return &BuildError{File: name, Line: lineNo, Err: err}
		}
	}
	if err := sc.Err(); err != nil && err != io.EOF {
		return &BuildError{File: name, Line: lineNo, Err: err}
	}
	return nil
}

func loadSegDefs(fsys fs.FS, name string, offset uint16, table map[uint16]uint16) ([]segDef, error) {
	var defs []segDef
	err := eachLine(fsys, name, func(_ int, line string) error {
		fields := strings.Split(line, ",")
		values := make([]uint16, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseUint(strings.TrimSpace(f), 10, 16)
			if err != nil {
				return fmt.Errorf("malformed segment field %q: %w", f, err)
			}
			values[i] = uint16(v)
		}
		values[0] = convertID(values[0]+offset, table)
		defs = append(defs, segDef{values: values})
		return nil
	})
	return defs, err
}

func loadTransDefs(fsys fs.FS, name, namePrefix string, offset uint16, table map[uint16]uint16) ([]transDef, error) {
	var defs []transDef
	err := eachLine(fsys, name, func(_ int, line string) error {
		fields := strings.Split(line, ",")
		if len(fields) != 4 {
			return fmt.Errorf("want 4 fields, got %d", len(fields))
		}
		gate, err := parseOffsetID(fields[1], offset, table)
		if err != nil {
			return err
		}
		c1, err := parseOffsetID(fields[2], offset, table)
		if err != nil {
			return err
		}
		c2, err := parseOffsetID(fields[3], offset, table)
		if err != nil {
			return err
		}
		defs = append(defs, transDef{
			name: namePrefix + strings.TrimSpace(fields[0]),
			gate: gate,
			c1:   c1,
			c2:   c2,
		})
		return nil
	})
	return defs, err
}

func parseOffsetID(field string, offset uint16, table map[uint16]uint16) (uint16, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(field), 10, 16)
	if err != nil {
		return 0, fmt.Errorf("malformed node id %q: %w", field, err)
	}
	return convertID(uint16(v)+offset, table), nil
}

func loadNodeNames(fsys fs.FS, name, namePrefix string, offset uint16, table map[uint16]uint16) (map[string]uint16, error) {
	names := make(map[string]uint16)
	err := eachLine(fsys, name, func(_ int, line string) error {
		fields := strings.Split(line, ",")
		if len(fields) != 2 {
			return fmt.Errorf("want 2 fields, got %d", len(fields))
		}
		id, err := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 64)
		if err != nil {
			return fmt.Errorf("malformed node id %q: %w", fields[1], err)
		}
		names[namePrefix+strings.TrimSpace(fields[0])] = convertID(uint16(id)+offset, table)
		return nil
	})
	return names, err
}

// loadPairTable parses one line per RAM byte, each line a comma-separated
// list of bitsPerByte "n0|n1" pairs.
func loadPairTable(fsys fs.FS, name string, bitsPerByte int) ([][][2]int32, error) {
	var rows [][][2]int32
	err := eachLine(fsys, name, func(_ int, line string) error {
		fields := strings.Split(line, ",")
		if len(fields) != bitsPerByte {
			return fmt.Errorf("want %d fields, got %d", bitsPerByte, len(fields))
		}
		row := make([][2]int32, bitsPerByte)
		for i, f := range fields {
			parts := strings.Split(f, "|")
			if len(parts) != 2 {
				return fmt.Errorf("malformed pair %q", f)
			}
			n0, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 32)
			if err != nil {
				return fmt.Errorf("malformed pair node %q: %w", parts[0], err)
			}
			n1, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 32)
			if err != nil {
				return fmt.Errorf("malformed pair node %q: %w", parts[1], err)
			}
			row[i] = [2]int32{int32(n0), int32(n1)}
		}
		rows = append(rows, row)
		return nil
	})
	return rows, err
}

func palette6(rows [][][2]int32) [][6][2]int32 {
	out := make([][6][2]int32, len(rows))
	for i, r := range rows {
		copy(out[i][:], r)
	}
	return out
}

func palette8(rows [][][2]int32) [][8][2]int32 {
	out := make([][8][2]int32, len(rows))
	for i, r := range rows {
		copy(out[i][:], r)
	}
	return out
}

// setupNodes constructs the dense node array. For each segment record,
// the node at the record's head identifier takes its Pullup from the
// first occurrence; its Area accumulates the shoelace polygon area of
// every occurrence (spec.md §4.1).
func setupNodes(segDefs []segDef) ([]Node, error) {
	if len(segDefs) == 0 {
		return nil, fmt.Errorf("network: empty segment list")
	}

	maxID := uint16(0)
	for _, s := range segDefs {
		if s.values[0] > maxID {
			maxID = s.values[0]
		}
	}

	nodes := make([]Node, int(maxID)+1)
	for i := range nodes {
		nodes[i].Num = EmptyNode
	}

	for _, s := range segDefs {
		v := s.values
		w := v[0]

		if nodes[w].Num == EmptyNode {
			nodes[w].Num = w
			if len(v) > 1 {
				nodes[w].Pullup = v[1] == 1
			}
		}

		if w == GND || w == PWR {
			continue
		}

		nodes[w].Area += shoelaceArea(v)
	}

	return nodes, nil
}

// shoelaceArea sums the signed area contributions of the (x,y) vertex
// pairs straddling indices 3..len-1 and returns the absolute value,
// widened to int64 per spec.md §9 (32-bit accumulators overflow on the
// largest polygons in the source data).
func shoelaceArea(seg []uint16) uint64 {
	n := len(seg)
	if n < 6 {
		return 0
	}

	area := int64(seg[n-2])*int64(seg[4]) - int64(seg[3])*int64(seg[n-1])
	for j := 3; j+4 < n; j += 2 {
		area += int64(seg[j])*int64(seg[j+3]) - int64(seg[j+2])*int64(seg[j+1])
	}

	if area < 0 {
		area = -area
	}
	return uint64(area)
}

// setupTransistors canonicalizes rails into c2, builds each transistor's
// Gates/Channels back-references, and captures each transistor's
// power-on state (spec.md §4.1, §4.5).
func setupTransistors(nodes []Node, defs []transDef) []Transistor {
	transistors := make([]Transistor, len(defs))

	for i, d := range defs {
		c1, c2 := d.c1, d.c2

		if c1 == GND {
			c1, c2 = c2, GND
		}
		if c1 == PWR {
			c1, c2 = c2, PWR
		}

		nodes[d.gate].Gates = append(nodes[d.gate].Gates, uint16(i))

		if c1 != PWR && c1 != GND {
			nodes[c1].Channels = append(nodes[c1].Channels, uint16(i))
		}
		if c2 != PWR && c2 != GND {
			nodes[c2].Channels = append(nodes[c2].Channels, uint16(i))
		}

		transistors[i] = Transistor{
			C1:        c1,
			C2:        c2,
			Gate:      d.gate,
			InitialOn: d.gate == PWR,
		}
	}

	return transistors
}
