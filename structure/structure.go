package structure

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	idPattern    = regexp.MustCompile(`^[a-z0-9]{4}$`)
	chainPattern = regexp.MustCompile(`^[A-Z0-9]$`)
)

// Key identifies one chain of one PDB entry.
type Key struct {
	ID    string
	Chain string
}

// NewKey normalizes id to lower case and chain to upper case.
func NewKey(id, chain string) Key {
	return Key{
		ID:    strings.ToLower(strings.TrimSpace(id)),
		Chain: strings.ToUpper(strings.TrimSpace(chain)),
	}
}

// ParseKey parses "1abc_A", "1abc:A" or "1abc.A".
func ParseKey(s string) (Key, error) {
	s = strings.TrimSpace(s)
	i := strings.IndexAny(s, "_:.")
	if i < 0 {
		return Key{}, fmt.Errorf("structure: %q is not of the form xxxx_x", s)
	}
	k := NewKey(s[:i], s[i+1:])
	if err := k.Validate(); err != nil {
		return Key{}, err
	}
	return k, nil
}

// Validate checks the id and chain formats.
func (k Key) Validate() error {
	if !idPattern.MatchString(k.ID) {
		return fmt.Errorf("structure: invalid PDB id %q", k.ID)
	}
	if !chainPattern.MatchString(k.Chain) {
		return fmt.Errorf("structure: invalid chain id %q", k.Chain)
	}
	return nil
}

// String returns "1abc_A".
func (k Key) String() string {
	return k.ID + "_" + k.Chain
}

// AtomID returns the run-wide stable identifier of a water atom.
func (k Key) AtomID(serial int) string {
	return fmt.Sprintf("%s_%s_%d", k.ID, k.Chain, serial)
}

// WaterAtom is one water oxygen read from a structure file.
type WaterAtom struct {
	Key       Key
	Serial    int
	Coord     [3]float64
	Occupancy float64
	BFactor   float64
}

// ID returns the stable atom identifier.
func (a WaterAtom) ID() string {
	return a.Key.AtomID(a.Serial)
}

// Structure is a chain and its ordered water oxygens.
type Structure struct {
	Key    Key
	Waters []WaterAtom

	// Raw holds the undecoded file contents when the structure was loaded
	// with KeepRaw. It is only needed to render annotated output.
	Raw []byte

	// Collisions lists the serials of water oxygens that were skipped
	// because an earlier record had the same serial, for example residues
	// that only differ in their insertion code.
	Collisions []int
}

// WithWaters returns a shallow copy of s that owns waters.
func (s *Structure) WithWaters(waters []WaterAtom) *Structure {
	return &Structure{Key: s.Key, Waters: waters, Raw: s.Raw}
}

// Len returns the number of water atoms.
func (s *Structure) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Waters)
}
