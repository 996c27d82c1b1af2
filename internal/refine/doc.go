// Package refine removes poorly refined water oxygens from a structure.
//
// Two heuristics are supported:
//
//   - Mobility: (B/meanB) / (O/meanO), removed when >= cutoff (default 2.0)
//   - Normalized B-factor: (B-meanB) / stddevB, removed when >= cutoff (default 1.0)
//
// A structure that loses more than half of its waters is excluded unless it
// is the query structure. Populations whose statistics are degenerate
// (zero B-factor variance, zero mean B-factor or occupancy) are left
// unfiltered.
package refine
