package report

import (
	"github.com/hupe1980/cwater/codec"
)

// Parameters echoes the clustering parameters of a run.
type Parameters struct {
	Refinement    string  `json:"refinement"`
	Linkage       string  `json:"linkage"`
	Inconsistency float64 `json:"inconsistency"`
	Probability   float64 `json:"probability"`
	Strict        bool    `json:"strict,omitempty"`
}

// Excluded is a structure dropped from a run.
type Excluded struct {
	Structure string `json:"structure"`
	Reason    string `json:"reason"`
	Error     string `json:"error,omitempty"`
}

// Summary is the machine readable outcome of a run.
type Summary struct {
	Query      string             `json:"query"`
	Status     string             `json:"status"`
	Message    string             `json:"message"`
	Parameters Parameters         `json:"parameters"`
	Structures []string           `json:"structures"`
	Excluded   []Excluded         `json:"excluded,omitempty"`
	Waters     int                `json:"waters"`
	Clusters   int                `json:"clusters"`
	Accepted   int                `json:"accepted"`
	Scores     map[string]float64 `json:"scores"`
	Codec      string             `json:"codec"`
}

// EncodeSummary encodes s as indented JSON and records the codec name.
func EncodeSummary(c codec.Codec, s Summary) ([]byte, error) {
	if c == nil {
		c = codec.Default
	}
	s.Codec = c.Name()
	if s.Scores == nil {
		s.Scores = map[string]float64{}
	}
	return codec.Marshal(c, s)
}

// DecodeSummary decodes a summary written by EncodeSummary with any codec.
func DecodeSummary(c codec.Codec, data []byte) (Summary, error) {
	if c == nil {
		c = codec.Default
	}
	var s Summary
	err := c.Unmarshal(data, &s)
	return s, err
}
