package refine

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/hupe1980/cwater/structure"
)

// ErrDegenerateStatistics is returned when the population statistics of a
// structure cannot normalize its atoms.
var ErrDegenerateStatistics = errors.New("degenerate water statistics")

const (
	// DefaultMobilityCutoff is the mobility at or above which a water is removed.
	DefaultMobilityCutoff = 2.0
	// DefaultNormalizedBCutoff is the normalized B-factor at or above which a water is removed.
	DefaultNormalizedBCutoff = 1.0
)

// Mode selects the refinement heuristic.
type Mode int

const (
	None Mode = iota
	Mobility
	NormalizedBFactor
)

func (m Mode) String() string {
	switch m {
	case None:
		return "none"
	case Mobility:
		return "mobility"
	case NormalizedBFactor:
		return "normalized-bfactor"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// ParseMode accepts the canonical names as well as the labels used by the
// original plugin forms ("Mobility", "Normalized B-factor", "No refinement").
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "no refinement", "":
		return None, nil
	case "mobility":
		return Mobility, nil
	case "normalized-bfactor", "normalized b-factor", "bfactor", "b-factor":
		return NormalizedBFactor, nil
	default:
		return None, fmt.Errorf("refine: unknown mode %q", s)
	}
}

// Config selects the heuristic and its cutoff. A zero Cutoff means the
// mode's default.
type Config struct {
	Mode   Mode
	Cutoff float64
}

// EffectiveCutoff returns the cutoff applied for c.Mode.
func (c Config) EffectiveCutoff() float64 {
	if c.Cutoff > 0 {
		return c.Cutoff
	}
	switch c.Mode {
	case Mobility:
		return DefaultMobilityCutoff
	case NormalizedBFactor:
		return DefaultNormalizedBCutoff
	default:
		return 0
	}
}

// Stats are the population statistics of one structure's waters.
type Stats struct {
	MeanB         float64
	MeanOccupancy float64
	StdDevB       float64 // population standard deviation
}

// ComputeStats computes the statistics of atoms.
func ComputeStats(atoms []structure.WaterAtom) Stats {
	n := float64(len(atoms))
	if n == 0 {
		return Stats{}
	}
	var sumB, sumO float64
	for _, a := range atoms {
		sumB += a.BFactor
		sumO += a.Occupancy
	}
	s := Stats{MeanB: sumB / n, MeanOccupancy: sumO / n}
	var ss float64
	for _, a := range atoms {
		d := a.BFactor - s.MeanB
		ss += d * d
	}
	s.StdDevB = math.Sqrt(ss / n)
	return s
}

// Scores returns the per-atom heuristic value for mode, in atom order.
// It returns ErrDegenerateStatistics when the population cannot be
// normalized. An atom with zero occupancy has infinite mobility.
func Scores(atoms []structure.WaterAtom, mode Mode) ([]float64, error) {
	if len(atoms) == 0 || mode == None {
		return nil, nil
	}
	st := ComputeStats(atoms)
	scores := make([]float64, len(atoms))

	switch mode {
	case Mobility:
		if st.MeanB == 0 || st.MeanOccupancy == 0 {
			return nil, ErrDegenerateStatistics
		}
		for i, a := range atoms {
			if a.Occupancy == 0 {
				scores[i] = math.Inf(1)
				continue
			}
			scores[i] = (a.BFactor / st.MeanB) / (a.Occupancy / st.MeanOccupancy)
		}
	case NormalizedBFactor:
		if st.StdDevB == 0 {
			return nil, ErrDegenerateStatistics
		}
		for i, a := range atoms {
			scores[i] = (a.BFactor - st.MeanB) / st.StdDevB
		}
	default:
		return nil, fmt.Errorf("refine: unknown mode %v", mode)
	}
	return scores, nil
}

// Outcome is the result of filtering one structure.
type Outcome struct {
	// Kept holds the surviving atoms in their original order. It is nil
	// when the structure is excluded.
	Kept []structure.WaterAtom

	Total   int
	Removed int

	// Excluded is set when more than half of the waters were removed and
	// the structure is not the query.
	Excluded bool

	// Degenerate is set when filtering was skipped because the statistics
	// could not normalize the population.
	Degenerate bool
}

// Apply filters atoms. The input slice is never modified.
func Apply(atoms []structure.WaterAtom, cfg Config, isQuery bool) (Outcome, error) {
	out := Outcome{Total: len(atoms)}

	scores, err := Scores(atoms, cfg.Mode)
	if errors.Is(err, ErrDegenerateStatistics) {
		out.Degenerate = true
		out.Kept = append([]structure.WaterAtom(nil), atoms...)
		return out, nil
	}
	if err != nil {
		return Outcome{}, err
	}
	if scores == nil {
		out.Kept = append([]structure.WaterAtom(nil), atoms...)
		return out, nil
	}

	cutoff := cfg.EffectiveCutoff()
	kept := make([]structure.WaterAtom, 0, len(atoms))
	for i, a := range atoms {
		if scores[i] >= cutoff {
			out.Removed++
			continue
		}
		kept = append(kept, a)
	}

	if 2*out.Removed > out.Total && !isQuery {
		out.Excluded = true
		return out, nil
	}
	out.Kept = kept
	return out, nil
}
