package cwater

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/cwater/internal/conserve"
	"github.com/hupe1980/cwater/structure"
)

type (
	// PresenceRow is one row of the presence matrix: the score of an
	// accepted cluster and, per structure, its member serial or no water.
	PresenceRow = conserve.PresenceRow
	// PresenceCell is one cell of a PresenceRow.
	PresenceCell = conserve.Cell
	// ConservedWater is a conserved water of the query structure.
	ConservedWater = conserve.Water
)

// Exclusion records a structure dropped from a run.
type Exclusion struct {
	Key    structure.Key `json:"structure"`
	Reason string        `json:"reason"`
	Err    string        `json:"error,omitempty"`
}

// Exclusion reasons.
const (
	ReasonMissing    = "missing"
	ReasonParse      = "parse"
	ReasonRefinement = "refinement"
)

// Result is the outcome of a run.
type Result struct {
	Query  structure.Key
	Params Params
	Strict bool
	Status Status

	// Structures lists the structures that took part in clustering, query
	// first, in canonical order.
	Structures []structure.Key
	Excluded   []Exclusion

	// Waters is the merged water count, Clusters the number of flat
	// clusters and Accepted the number of clusters that met the probability.
	Waters   int
	Clusters int
	Accepted int

	// Scores maps query atom ids ("1abc_A_301") to conservation scores. It
	// is empty, never nil.
	Scores map[string]float64
	// Retained holds the serials of the conserved query waters.
	Retained  *roaring.Bitmap
	Presence  []PresenceRow
	Conserved []ConservedWater

	query *structure.Structure
}

func newResult(query structure.Key, params Params, strict bool) *Result {
	return &Result{
		Query:    query,
		Params:   params,
		Strict:   strict,
		Scores:   make(map[string]float64),
		Retained: roaring.New(),
	}
}

// StructureNames returns the names of Structures ("1abc_A").
func (r *Result) StructureNames() []string {
	names := make([]string, len(r.Structures))
	for i, k := range r.Structures {
		names[i] = k.String()
	}
	return names
}

// SerialScores maps the serial of every conserved query water to its score.
func (r *Result) SerialScores() map[int]float64 {
	m := make(map[int]float64, len(r.Conserved))
	for _, w := range r.Conserved {
		m[w.Serial] = w.Score
	}
	return m
}

// QueryStructure returns the query structure as loaded, including its raw
// file contents when it was loaded by Run. It may be nil.
func (r *Result) QueryStructure() *structure.Structure { return r.query }
