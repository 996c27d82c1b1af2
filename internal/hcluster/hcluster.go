package hcluster

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/hupe1980/cwater/distance"
)

// Method is the linkage criterion.
type Method int

const (
	Single Method = iota
	Complete
	Average
)

func (m Method) String() string {
	switch m {
	case Single:
		return "single"
	case Complete:
		return "complete"
	case Average:
		return "average"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// ParseMethod parses "single", "complete" or "average".
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single":
		return Single, nil
	case "complete", "":
		return Complete, nil
	case "average":
		return Average, nil
	default:
		return Single, fmt.Errorf("hcluster: unknown linkage method %q", s)
	}
}

// Merge is one row of the linkage matrix.
type Merge struct {
	Left, Right int
	Distance    float64
	Size        int
}

// Dendrogram is the result of Linkage.
type Dendrogram struct {
	n      int
	Merges []Merge
}

// N returns the number of observations.
func (d *Dendrogram) N() int { return d.n }

// checkEvery is the number of merges between context checks.
const checkEvery = 1024

type rawMerge struct {
	a, b int
	dist float64
}

// Linkage builds the dendrogram of the points behind m. The matrix is
// overwritten with cluster distances and must not be reused.
func Linkage(ctx context.Context, m *distance.Condensed, method Method) (*Dendrogram, error) {
	if method < Single || method > Average {
		return nil, fmt.Errorf("hcluster: unknown linkage method %v", method)
	}
	n := m.N()
	active := make([]bool, n)
	size := make([]int, n)
	for i := range active {
		active[i] = true
		size[i] = 1
	}

	raw := make([]rawMerge, 0, n-1)
	chain := make([]int, 0, n)

	for len(raw) < n-1 {
		if len(raw)%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		if len(chain) == 0 {
			for i := 0; i < n; i++ {
				if active[i] {
					chain = append(chain, i)
					break
				}
			}
		}

		var a, b int
		var minD float64
		for {
			a = chain[len(chain)-1]
			b = -1
			minD = math.Inf(1)
			if len(chain) >= 2 {
				// Prefer the predecessor on ties so the chain cannot cycle.
				b = chain[len(chain)-2]
				minD = m.At(a, b)
			}
			for x := 0; x < n; x++ {
				if !active[x] || x == a {
					continue
				}
				if d := m.At(a, x); d < minD {
					minD = d
					b = x
				}
			}
			if len(chain) >= 2 && b == chain[len(chain)-2] {
				break
			}
			chain = append(chain, b)
		}
		chain = chain[:len(chain)-2]

		if a > b {
			a, b = b, a
		}
		raw = append(raw, rawMerge{a: a, b: b, dist: minD})

		// The merged cluster lives on in slot a.
		na, nb := size[a], size[b]
		for x := 0; x < n; x++ {
			if !active[x] || x == a || x == b {
				continue
			}
			m.Set(x, a, update(method, m.At(x, a), m.At(x, b), na, nb))
		}
		active[b] = false
		size[a] = na + nb
	}

	return &Dendrogram{n: n, Merges: relabel(n, raw)}, nil
}

// update is the Lance-Williams recurrence for the supported methods.
func update(method Method, da, db float64, na, nb int) float64 {
	switch method {
	case Single:
		return math.Min(da, db)
	case Complete:
		return math.Max(da, db)
	default:
		return (float64(na)*da + float64(nb)*db) / float64(na+nb)
	}
}

// relabel sorts merges by height (stable, so ties keep discovery order) and
// numbers the clusters the way a linkage matrix does.
func relabel(n int, raw []rawMerge) []Merge {
	sort.SliceStable(raw, func(i, j int) bool { return raw[i].dist < raw[j].dist })

	uf := newUnionFind(n)
	id := make([]int, n)
	for i := range id {
		id[i] = i
	}

	merges := make([]Merge, len(raw))
	for i, r := range raw {
		ra, rb := uf.find(r.a), uf.find(r.b)
		left, right := id[ra], id[rb]
		if left > right {
			left, right = right, left
		}
		root := uf.union(ra, rb)
		merges[i] = Merge{Left: left, Right: right, Distance: r.dist, Size: uf.size[root]}
		id[root] = n + i
	}
	return merges
}

// Cut assigns each observation a flat cluster label so that observations
// joined by merges of height <= t share a label. Labels start at 1 and are
// numbered by each cluster's lowest observation index.
func (d *Dendrogram) Cut(t float64) []int {
	rep := make([]int, d.n+len(d.Merges))
	for i := 0; i < d.n; i++ {
		rep[i] = i
	}
	uf := newUnionFind(d.n)
	for i, mg := range d.Merges {
		rep[d.n+i] = rep[mg.Left]
		if mg.Distance <= t {
			uf.union(rep[mg.Left], rep[mg.Right])
		}
	}

	labels := make([]int, d.n)
	byRoot := make(map[int]int)
	for i := 0; i < d.n; i++ {
		root := uf.find(i)
		l, ok := byRoot[root]
		if !ok {
			l = len(byRoot) + 1
			byRoot[root] = l
		}
		labels[i] = l
	}
	return labels
}

// FCluster computes pairwise distances, builds the dendrogram and cuts it at
// t. Fewer than two points yield one label per point without clustering.
func FCluster(ctx context.Context, points []distance.Point, method Method, t float64) ([]int, error) {
	if len(points) < 2 {
		labels := make([]int, len(points))
		for i := range labels {
			labels[i] = i + 1
		}
		return labels, nil
	}
	m, err := distance.Pairwise(points)
	if err != nil {
		return nil, err
	}
	dg, err := Linkage(ctx, m, method)
	if err != nil {
		return nil, err
	}
	return dg.Cut(t), nil
}

type unionFind struct {
	parent []int
	size   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), size: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
		uf.size[i] = 1
	}
	return uf
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) int {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return ra
	}
	if u.size[ra] < u.size[rb] {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	u.size[ra] += u.size[rb]
	return ra
}
