package conserve

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Record is a scored cluster.
type Record struct {
	Label   int
	Score   float64
	Members []int

	// Structures holds the indices of the contributing structures.
	Structures *roaring.Bitmap
}

// Score computes distinctStructures/total for every cluster. total is the
// number of structures taking part in the run, including those without
// waters.
func Score(clusters []Cluster, owner []int, total int) []Record {
	records := make([]Record, len(clusters))
	for i, c := range clusters {
		bm := roaring.New()
		for _, m := range c.Members {
			bm.Add(uint32(owner[m]))
		}
		score := 0.0
		if total > 0 {
			score = float64(bm.GetCardinality()) / float64(total)
		}
		records[i] = Record{Label: c.Label, Score: score, Members: c.Members, Structures: bm}
	}
	return records
}

// Threshold is the acceptance rule for a conservation score.
type Threshold struct {
	Probability float64
	// Strict selects score > Probability instead of score >= Probability.
	Strict bool
}

// Accepts reports whether score passes the threshold.
func (t Threshold) Accepts(score float64) bool {
	if t.Strict {
		return score > t.Probability
	}
	return score >= t.Probability
}

// Accept returns the records passing t, in input order.
func Accept(records []Record, t Threshold) []Record {
	var out []Record
	for _, r := range records {
		if t.Accepts(r.Score) {
			out = append(out, r)
		}
	}
	return out
}

// Cell is one structure's entry in a presence row.
type Cell struct {
	Serial  int
	Present bool
}

// PresenceRow is the audit row of an accepted cluster.
type PresenceRow struct {
	Score float64
	Cells []Cell // one per structure, canonical order
}

// Presence builds the row for r. serials maps point index to atom serial.
// r must be resolved.
func Presence(r Record, owner, serials []int, structures int) PresenceRow {
	row := PresenceRow{Score: r.Score, Cells: make([]Cell, structures)}
	for _, m := range r.Members {
		row.Cells[owner[m]] = Cell{Serial: serials[m], Present: true}
	}
	return row
}
