package conserve

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
)

// Water is a conserved water of the query structure.
type Water struct {
	ID     string
	Serial int
	Point  int // index in the point set
	Score  float64
	Label  int
}

// Extraction is the projection of accepted clusters onto the query.
type Extraction struct {
	// Scores maps query atom id to conservation score. It is empty, not
	// nil, when no accepted cluster contains the query.
	Scores map[string]float64

	// Retained holds the serials of the conserved query waters.
	Retained *roaring.Bitmap

	// Waters lists the conserved query waters in query order.
	Waters []Water
}

// Extract keeps the accepted records that contain an atom of structure
// query and maps those atoms to the record's score.
func Extract(accepted []Record, owner, serials []int, ids []string, query int) Extraction {
	ex := Extraction{
		Scores:   make(map[string]float64),
		Retained: roaring.New(),
	}
	for _, r := range accepted {
		if !r.Structures.Contains(uint32(query)) {
			continue
		}
		for _, m := range r.Members {
			if owner[m] != query {
				continue
			}
			ex.Scores[ids[m]] = r.Score
			if serials[m] >= 0 {
				ex.Retained.Add(uint32(serials[m]))
			}
			ex.Waters = append(ex.Waters, Water{ID: ids[m], Serial: serials[m], Point: m, Score: r.Score, Label: r.Label})
		}
	}
	sort.Slice(ex.Waters, func(i, j int) bool { return ex.Waters[i].Point < ex.Waters[j].Point })
	return ex
}
