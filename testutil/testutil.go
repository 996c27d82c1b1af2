package testutil

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// UniformPoints returns n points uniformly spread in a cube of the given edge.
func (r *RNG) UniformPoints(n int, edge float64) [][3]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	pts := make([][3]float64, n)
	for i := range pts {
		for d := 0; d < 3; d++ {
			pts[i][d] = r.rand.Float64() * edge
		}
	}
	return pts
}

// Jitter returns a copy of sites with each coordinate displaced by at most
// spread in either direction. It models the same water seen in another,
// superimposed structure.
func (r *RNG) Jitter(sites [][3]float64, spread float64) [][3]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][3]float64, len(sites))
	for i, s := range sites {
		for d := 0; d < 3; d++ {
			out[i][d] = s[d] + (r.rand.Float64()*2-1)*spread
		}
	}
	return out
}

// Water describes one HETATM water oxygen record.
type Water struct {
	Serial    int
	Chain     string
	X, Y, Z   float64
	Occupancy float64
	BFactor   float64
}

// HETATM formats w as a fixed-width PDB HETATM record. The serial is
// written into the residue sequence column, which is what the parser reads.
func HETATM(w Water) string {
	chain := w.Chain
	if chain == "" {
		chain = "A"
	}
	return fmt.Sprintf("HETATM%5d  O   HOH %1s%4d    %8.3f%8.3f%8.3f%6.2f%6.2f           O",
		w.Serial%100000, chain, w.Serial%10000, w.X, w.Y, w.Z, w.Occupancy, w.BFactor)
}

// PDB renders a minimal structure file: one protein ATOM record followed by
// the given waters and an END record.
func PDB(waters ...Water) string {
	var b strings.Builder
	b.WriteString("ATOM      1  CA  ALA A   1      11.104   6.134  -6.504  1.00 20.00           C\n")
	for _, w := range waters {
		b.WriteString(HETATM(w))
		b.WriteByte('\n')
	}
	b.WriteString("END\n")
	return b.String()
}
