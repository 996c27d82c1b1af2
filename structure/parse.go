package structure

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrShortRecord is returned for HETATM records that end before the
// B-factor column.
var ErrShortRecord = errors.New("record shorter than 66 columns")

// ParseError reports a malformed record.
type ParseError struct {
	Line  int
	Field string
	cause error
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("structure: line %d: %v", e.Line, e.cause)
	}
	return fmt.Sprintf("structure: line %d: bad %s: %v", e.Line, e.Field, e.cause)
}

func (e *ParseError) Unwrap() error { return e.cause }

// waterResidues are the residue names treated as water. DOD is heavy water
// and is treated as HOH.
var waterResidues = map[string]bool{"HOH": true, "DOD": true, "WAT": true}

// Parse reads the water oxygens of key's chain from a PDB-formatted stream.
//
// Only HETATM records are considered. Hydrogens/deuteriums, alternate
// locations other than the first one and other chains are skipped. A
// repeated serial keeps the first atom and is recorded in
// Structure.Collisions. Atoms keep file order.
func Parse(r io.Reader, key Key) (*Structure, error) {
	s := &Structure{Key: key}
	seen := make(map[int]bool)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024), 1<<20)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) < 6 || !bytes.Equal(line[0:6], []byte("HETATM")) {
			continue
		}
		atom, ok, err := parseHetatm(line, key)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Line = lineNo
				return nil, pe
			}
			return nil, &ParseError{Line: lineNo, cause: err}
		}
		if !ok {
			continue
		}
		if seen[atom.Serial] {
			s.Collisions = append(s.Collisions, atom.Serial)
			continue
		}
		seen[atom.Serial] = true
		s.Waters = append(s.Waters, atom)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("structure: read %s: %w", key, err)
	}
	return s, nil
}

// parseHetatm decodes one HETATM record. ok is false for records that are
// well-formed but not a water oxygen of the wanted chain.
func parseHetatm(line []byte, key Key) (WaterAtom, bool, error) {
	if len(line) < 66 {
		// Short non-water records are irrelevant.
		if len(line) >= 20 && !waterResidues[field(line, 17, 20)] {
			return WaterAtom{}, false, nil
		}
		return WaterAtom{}, false, ErrShortRecord
	}
	if !waterResidues[field(line, 17, 20)] {
		return WaterAtom{}, false, nil
	}
	if key.Chain != "" && field(line, 21, 22) != key.Chain {
		return WaterAtom{}, false, nil
	}
	if !primaryAltLoc(line) {
		return WaterAtom{}, false, nil
	}
	if !isOxygen(line) {
		return WaterAtom{}, false, nil
	}

	serial, err := parseSerial(line)
	if err != nil {
		return WaterAtom{}, false, &ParseError{Field: "serial", cause: err}
	}

	a := WaterAtom{Key: key, Serial: serial}
	cols := [3][2]int{{30, 38}, {38, 46}, {46, 54}}
	names := [3]string{"x", "y", "z"}
	for i, c := range cols {
		if a.Coord[i], err = parseFloat(line, c[0], c[1]); err != nil {
			return WaterAtom{}, false, &ParseError{Field: names[i], cause: err}
		}
	}
	if a.Occupancy, err = parseFloat(line, 54, 60); err != nil {
		return WaterAtom{}, false, &ParseError{Field: "occupancy", cause: err}
	}
	if a.BFactor, err = parseFloat(line, 60, 66); err != nil {
		return WaterAtom{}, false, &ParseError{Field: "b-factor", cause: err}
	}
	return a, true, nil
}

// parseSerial reads columns 23-30. Files with an insertion code in column
// 27 fall back to the residue number in columns 23-26.
func parseSerial(line []byte) (int, error) {
	n, err := strconv.Atoi(field(line, 22, 30))
	if err == nil {
		return n, nil
	}
	return strconv.Atoi(field(line, 22, 26))
}

// primaryAltLoc reports whether the alternate location (column 17) is blank
// or the first one.
func primaryAltLoc(line []byte) bool {
	if len(line) <= 16 {
		return true
	}
	alt := line[16]
	return alt == ' ' || alt == 'A'
}

func isOxygen(line []byte) bool {
	if len(line) >= 78 {
		if el := field(line, 76, 78); el != "" {
			return el == "O"
		}
	}
	name := field(line, 12, 16)
	return name == "O" || name == "OW"
}

func parseFloat(line []byte, start, end int) (float64, error) {
	return strconv.ParseFloat(field(line, start, end), 64)
}

func field(line []byte, start, end int) string {
	if end > len(line) {
		end = len(line)
	}
	if start >= end {
		return ""
	}
	return strings.TrimSpace(string(line[start:end]))
}

// WaterLine identifies the water residue a HETATM or ANISOU record belongs
// to.
type WaterLine struct {
	Chain string
	// Serial is -1 when it cannot be read.
	Serial int
	// Primary is false for alternate locations other than the first one.
	// Parse never reads such records.
	Primary bool
}

// WaterRecord reports whether line is a HETATM or ANISOU record of a water
// residue and describes it.
func WaterRecord(line []byte) (WaterLine, bool) {
	if len(line) < 20 {
		return WaterLine{}, false
	}
	rec := string(line[0:6])
	if rec != "HETATM" && rec != "ANISOU" {
		return WaterLine{}, false
	}
	if !waterResidues[field(line, 17, 20)] {
		return WaterLine{}, false
	}
	serial, err := parseSerial(line)
	if err != nil {
		serial = -1
	}
	return WaterLine{Chain: field(line, 21, 22), Serial: serial, Primary: primaryAltLoc(line)}, true
}
