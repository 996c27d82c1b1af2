package cwater

import (
	"fmt"

	"github.com/hupe1980/cwater/structure"
)

// Status classifies the outcome of a run. Every status other than
// StatusConserved is an expected outcome, not an error.
type Status int

const (
	// StatusConserved means at least one query water is conserved.
	StatusConserved Status = iota
	// StatusNoConserved means no accepted cluster contains a query water.
	StatusNoConserved
	// StatusTooFewStructures means fewer than two structures survived
	// loading and refinement.
	StatusTooFewStructures
	// StatusNoWaters means the refined structures contain no waters.
	StatusNoWaters
	// StatusSingleWater means only one water is left, so nothing clusters.
	StatusSingleWater
)

func (s Status) String() string {
	switch s {
	case StatusConserved:
		return "conserved"
	case StatusNoConserved:
		return "no-conserved"
	case StatusTooFewStructures:
		return "too-few-structures"
	case StatusNoWaters:
		return "no-waters"
	case StatusSingleWater:
		return "single-water"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Message is a human readable explanation of s for query.
func (s Status) Message(query structure.Key) string {
	switch s {
	case StatusConserved:
		return fmt.Sprintf("%s has conserved waters", query)
	case StatusNoConserved:
		return fmt.Sprintf("%s has no conserved waters", query)
	case StatusTooFewStructures:
		return "at least 2 structures are needed after refinement"
	case StatusNoWaters:
		return "no water molecules left after refinement"
	case StatusSingleWater:
		return "only one water molecule left, nothing to cluster"
	default:
		return s.String()
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
