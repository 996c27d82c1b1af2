// Package collect merges the surviving waters of all structures into one
// flat point set in canonical structure order.
package collect

import (
	"fmt"

	"github.com/hupe1980/cwater/distance"
	"github.com/hupe1980/cwater/structure"
)

// DefaultLimit is the merged point count at which a run is aborted.
const DefaultLimit = 50000

// LimitError is returned when the merged point count reaches the limit.
type LimitError struct {
	Count int
	Limit int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("collect: %d water atoms reach the limit of %d", e.Count, e.Limit)
}

// PointSet is the merged, ordered set of water oxygens of one run.
//
// Points of a structure are contiguous and keep the structure's insertion
// order; structures follow the canonical order given to Collect.
type PointSet struct {
	Keys    []structure.Key
	Points  []distance.Point
	IDs     []string
	Serials []int
	Owner   []int // index into Keys
}

// Len returns the number of points.
func (ps *PointSet) Len() int { return len(ps.Points) }

// StructureCount returns the number of structures, including those that
// contribute no waters.
func (ps *PointSet) StructureCount() int { return len(ps.Keys) }

// Count returns the merged point count without building a point set.
func Count(structures []*structure.Structure) int {
	n := 0
	for _, s := range structures {
		n += s.Len()
	}
	return n
}

// Collect merges structures in the order given. It fails with *LimitError
// before allocating anything when the merged count reaches limit
// (DefaultLimit if limit <= 0).
func Collect(structures []*structure.Structure, limit int) (*PointSet, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	n := Count(structures)
	if n >= limit {
		return nil, &LimitError{Count: n, Limit: limit}
	}

	ps := &PointSet{
		Keys:    make([]structure.Key, len(structures)),
		Points:  make([]distance.Point, 0, n),
		IDs:     make([]string, 0, n),
		Serials: make([]int, 0, n),
		Owner:   make([]int, 0, n),
	}
	for si, s := range structures {
		ps.Keys[si] = s.Key
		for _, a := range s.Waters {
			ps.Points = append(ps.Points, a.Coord)
			ps.IDs = append(ps.IDs, s.Key.AtomID(a.Serial))
			ps.Serials = append(ps.Serials, a.Serial)
			ps.Owner = append(ps.Owner, si)
		}
	}
	return ps, nil
}
