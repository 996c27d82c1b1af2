package conserve

import "sort"

// Cluster is a set of point indices sharing a flat cluster label. Members
// are sorted by point index, which is canonical structure order followed by
// each structure's insertion order.
type Cluster struct {
	Label   int
	Members []int
}

// Group builds one cluster per distinct label, ordered by label.
func Group(labels []int) []Cluster {
	byLabel := make(map[int]int)
	var clusters []Cluster
	for i, l := range labels {
		ci, ok := byLabel[l]
		if !ok {
			ci = len(clusters)
			byLabel[l] = ci
			clusters = append(clusters, Cluster{Label: l})
		}
		clusters[ci].Members = append(clusters[ci].Members, i)
	}
	sort.Slice(clusters, func(i, j int) bool { return clusters[i].Label < clusters[j].Label })
	return clusters
}

// Resolve drops duplicate structures from each cluster. For a structure
// contributing several atoms, the atom that comes first in that structure's
// own order is kept. owner maps a point index to its structure index.
// dropped counts the removed members.
func Resolve(clusters []Cluster, owner []int) (resolved []Cluster, dropped int) {
	resolved = make([]Cluster, len(clusters))
	for ci, c := range clusters {
		members := append([]int(nil), c.Members...)
		sort.Ints(members)

		seen := make(map[int]bool, len(members))
		kept := members[:0]
		for _, m := range members {
			if seen[owner[m]] {
				dropped++
				continue
			}
			seen[owner[m]] = true
			kept = append(kept, m)
		}
		resolved[ci] = Cluster{Label: c.Label, Members: kept}
	}
	return resolved, dropped
}
