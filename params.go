package cwater

import (
	"math"
	"strings"

	"github.com/hupe1980/cwater/internal/hcluster"
	"github.com/hupe1980/cwater/internal/refine"
	"github.com/hupe1980/cwater/structure"
)

// Refinement selects how waters are filtered before clustering.
type Refinement string

const (
	RefineMobility          Refinement = "mobility"
	RefineNormalizedBFactor Refinement = "normalized-bfactor"
	RefineNone              Refinement = "none"
)

func (r Refinement) mode() (refine.Mode, error) { return refine.ParseMode(string(r)) }

// Linkage selects the inter-cluster distance of the hierarchical clustering.
type Linkage string

const (
	LinkageSingle   Linkage = "single"
	LinkageComplete Linkage = "complete"
	LinkageAverage  Linkage = "average"
)

func (l Linkage) method() (hcluster.Method, error) { return hcluster.ParseMethod(string(l)) }

// Parameter domains.
const (
	MaxInconsistency = 2.8
	MinProbability   = 0.4
	MaxProbability   = 1.0
	MaxResolution    = 3.0
	MinStructures    = 2
)

// SeqIdentities are the accepted sequence identity cutoffs in percent.
var SeqIdentities = []int{30, 40, 50, 70, 90, 95, 100}

// Params are the clustering parameters of a run.
type Params struct {
	Refinement Refinement `json:"refinement"`
	Linkage    Linkage    `json:"linkage"`
	// Inconsistency is the distance at which the dendrogram is cut.
	Inconsistency float64 `json:"inconsistency"`
	// Probability is the minimum conservation score of a cluster.
	Probability float64 `json:"probability"`
}

// DefaultParams returns mobility refinement, complete linkage, a cut at 2.0
// and a probability of 0.7.
func DefaultParams() Params {
	return Params{
		Refinement:    RefineMobility,
		Linkage:       LinkageComplete,
		Inconsistency: 2.0,
		Probability:   0.7,
	}
}

// Validate checks every parameter against its domain.
func (p Params) Validate() error {
	if _, err := p.Refinement.mode(); err != nil {
		return &InputValidationError{Field: "refinement", Value: p.Refinement, Reason: "must be mobility, normalized-bfactor or none", cause: err}
	}
	if _, err := p.Linkage.method(); err != nil {
		return &InputValidationError{Field: "linkage", Value: p.Linkage, Reason: "must be single, complete or average", cause: err}
	}
	if math.IsNaN(p.Inconsistency) || p.Inconsistency < 0 || p.Inconsistency > MaxInconsistency {
		return invalid("inconsistency", p.Inconsistency, "must be between 0 and 2.8")
	}
	if math.IsNaN(p.Probability) || p.Probability < MinProbability || p.Probability > MaxProbability {
		return invalid("probability", p.Probability, "must be between 0.4 and 1.0")
	}
	return nil
}

// Request is a complete invocation: the query chain, how to find its
// homologs and the clustering parameters.
type Request struct {
	Query structure.Key
	// SeqIdentity and Resolution are handed to the ChainSource. They are
	// ignored when Structures is set.
	SeqIdentity int
	Resolution  float64
	// Structures is an optional custom list that replaces the ChainSource.
	Structures []structure.Key
	Params
}

// DefaultRequest returns a request for query with 95% sequence identity,
// 2.0 Å resolution and DefaultParams.
func DefaultRequest(query structure.Key) Request {
	return Request{
		Query:       query,
		SeqIdentity: 95,
		Resolution:  2.0,
		Params:      DefaultParams(),
	}
}

// Validate checks the request before any I/O.
func (r Request) Validate() error {
	if err := r.Query.Validate(); err != nil {
		return &InputValidationError{Field: "query", Value: r.Query.String(), Reason: "must be a 4 character PDB id and a 1 character chain", cause: err}
	}
	if len(r.Structures) > 0 {
		if len(r.Structures) < MinStructures {
			return invalid("structures", len(r.Structures), "a custom list needs at least 2 entries")
		}
		for _, k := range r.Structures {
			if err := k.Validate(); err != nil {
				return &InputValidationError{Field: "structures", Value: k.String(), Reason: "entries must be of the form xxxx_x", cause: err}
			}
		}
	} else {
		if !validSeqIdentity(r.SeqIdentity) {
			return invalid("seq identity", r.SeqIdentity, "must be one of 30, 40, 50, 70, 90, 95, 100")
		}
		if math.IsNaN(r.Resolution) || r.Resolution <= 0 || r.Resolution > MaxResolution {
			return invalid("resolution", r.Resolution, "must be greater than 0 and at most 3.0")
		}
	}
	return r.Params.Validate()
}

func validSeqIdentity(v int) bool {
	for _, s := range SeqIdentities {
		if v == s {
			return true
		}
	}
	return false
}

// ParseStructureList parses a comma separated list such as "1abc_A,2xyz_B".
func ParseStructureList(s string) ([]structure.Key, error) {
	var keys []structure.Key
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, err := structure.ParseKey(part)
		if err != nil {
			return nil, &InputValidationError{Field: "structures", Value: part, Reason: "entries must be of the form xxxx_x", cause: err}
		}
		keys = append(keys, k)
	}
	if len(keys) < MinStructures {
		return nil, invalid("structures", s, "a custom list needs at least 2 entries")
	}
	return keys, nil
}
