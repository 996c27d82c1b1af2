package cwater

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/cwater/distance"
	"github.com/hupe1980/cwater/structure"
	"github.com/hupe1980/cwater/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func water(key structure.Key, serial int, x, y, z float64) structure.WaterAtom {
	return structure.WaterAtom{Key: key, Serial: serial, Coord: [3]float64{x, y, z}, Occupancy: 1, BFactor: 20}
}

func newStructure(id string, atoms ...structure.WaterAtom) *structure.Structure {
	key := structure.NewKey(id, "A")
	for i := range atoms {
		atoms[i].Key = key
	}
	return &structure.Structure{Key: key, Waters: atoms}
}

func scenarioParams() Params {
	return Params{
		Refinement:    RefineNone,
		Linkage:       LinkageAverage,
		Inconsistency: 1.0,
		Probability:   0.5,
	}
}

func TestFind_ScenarioA(t *testing.T) {
	a := newStructure("1aaa", water(structure.Key{}, 1, 0, 0, 0))
	b := newStructure("2bbb", water(structure.Key{}, 1, 0.1, 0.1, 0.1))
	c := newStructure("3ccc", water(structure.Key{}, 1, 10, 10, 10))

	res, err := New().Find(context.Background(), a.Key, []*structure.Structure{a, b, c}, scenarioParams())
	require.NoError(t, err)

	assert.Equal(t, StatusConserved, res.Status)
	assert.Equal(t, 3, res.Waters)
	assert.Equal(t, 2, res.Clusters)
	assert.Equal(t, 1, res.Accepted)
	require.Len(t, res.Scores, 1)
	assert.InDelta(t, 2.0/3.0, res.Scores["1aaa_A_1"], 1e-12)
	assert.Equal(t, []uint32{1}, res.Retained.ToArray())

	require.Len(t, res.Presence, 1)
	assert.Equal(t, []PresenceCell{{Serial: 1, Present: true}, {Serial: 1, Present: true}, {}}, res.Presence[0].Cells)
}

func TestFind_ScenarioB(t *testing.T) {
	a := newStructure("1aaa", water(structure.Key{}, 1, 0, 0, 0))
	b := newStructure("2bbb", water(structure.Key{}, 1, 0.1, 0.1, 0.1))
	c := newStructure("3ccc", water(structure.Key{}, 7, 10, 10, 10))

	res, err := New().Find(context.Background(), c.Key, []*structure.Structure{a, b, c}, scenarioParams())
	require.NoError(t, err)

	assert.Equal(t, StatusNoConserved, res.Status)
	require.NotNil(t, res.Scores)
	assert.Empty(t, res.Scores)
	assert.True(t, res.Retained.IsEmpty())
	// The query is moved to the front of the canonical order.
	assert.Equal(t, []string{"3ccc_A", "1aaa_A", "2bbb_A"}, res.StructureNames())
	require.Len(t, res.Presence, 1)
	assert.Equal(t, []PresenceCell{{}, {Serial: 1, Present: true}, {Serial: 1, Present: true}}, res.Presence[0].Cells)
}

func TestFind_ScenarioC(t *testing.T) {
	rng := testutil.NewRNG(7)
	build := func(id string, n int) *structure.Structure {
		s := newStructure(id)
		key := s.Key
		for i, p := range rng.UniformPoints(n, 100) {
			s.Waters = append(s.Waters, structure.WaterAtom{Key: key, Serial: i + 1, Coord: p, Occupancy: 1, BFactor: 20})
		}
		return s
	}
	a, b := build("1aaa", 30000), build("2bbb", 30000)

	metrics := &BasicMetricsCollector{}
	res, err := New(WithMetricsCollector(metrics)).Find(context.Background(), a.Key, []*structure.Structure{a, b}, scenarioParams())
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrResourceExhausted)

	var re *ResourceExhaustionError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, 60000, re.Count)
	assert.Equal(t, 50000, re.Limit)
	assert.Zero(t, re.Bytes)

	stats := metrics.GetStats()
	assert.Zero(t, stats.Runs, "clustering must not start")
	assert.Equal(t, int64(1), stats.StageErrors)
}

func TestFind_MaxWaters(t *testing.T) {
	a := newStructure("1aaa", water(structure.Key{}, 1, 0, 0, 0), water(structure.Key{}, 2, 5, 5, 5))
	b := newStructure("2bbb", water(structure.Key{}, 1, 0.1, 0.1, 0.1))

	_, err := New(WithMaxWaters(3)).Find(context.Background(), a.Key, []*structure.Structure{a, b}, scenarioParams())
	assert.ErrorIs(t, err, ErrResourceExhausted)

	res, err := New(WithMaxWaters(4)).Find(context.Background(), a.Key, []*structure.Structure{a, b}, scenarioParams())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Waters)
}

func TestFind_MemoryLimit(t *testing.T) {
	a := newStructure("1aaa", water(structure.Key{}, 1, 0, 0, 0))
	b := newStructure("2bbb", water(structure.Key{}, 1, 0.1, 0.1, 0.1))
	c := newStructure("3ccc", water(structure.Key{}, 1, 10, 10, 10))

	_, err := New(WithMemoryLimit(1)).Find(context.Background(), a.Key, []*structure.Structure{a, b, c}, scenarioParams())
	require.ErrorIs(t, err, ErrResourceExhausted)

	var re *ResourceExhaustionError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, 3, re.Count)
	assert.Equal(t, distance.Bytes(3), re.Bytes)

	res, err := New(WithMemoryLimit(distance.Bytes(3))).Find(context.Background(), a.Key, []*structure.Structure{a, b, c}, scenarioParams())
	require.NoError(t, err)
	assert.Equal(t, StatusConserved, res.Status)
}

func TestFind_InsufficientData(t *testing.T) {
	ctx := context.Background()
	f := New()

	t.Run("TooFewStructures", func(t *testing.T) {
		a := newStructure("1aaa", water(structure.Key{}, 1, 0, 0, 0))
		res, err := f.Find(ctx, a.Key, []*structure.Structure{a}, scenarioParams())
		require.NoError(t, err)
		assert.Equal(t, StatusTooFewStructures, res.Status)
		assert.NotNil(t, res.Scores)
		assert.Empty(t, res.Scores)
	})

	t.Run("NoWaters", func(t *testing.T) {
		a, b := newStructure("1aaa"), newStructure("2bbb")
		res, err := f.Find(ctx, a.Key, []*structure.Structure{a, b}, scenarioParams())
		require.NoError(t, err)
		assert.Equal(t, StatusNoWaters, res.Status)
		assert.Empty(t, res.Scores)
	})

	t.Run("SingleWater", func(t *testing.T) {
		a, b := newStructure("1aaa", water(structure.Key{}, 1, 0, 0, 0)), newStructure("2bbb")
		res, err := f.Find(ctx, a.Key, []*structure.Structure{a, b}, scenarioParams())
		require.NoError(t, err)
		assert.Equal(t, StatusSingleWater, res.Status)
		assert.Equal(t, 1, res.Waters)
	})
}

// mobile returns four waters of which the last three have a mobility of 3.25.
func mobile() []structure.WaterAtom {
	atoms := []structure.WaterAtom{
		water(structure.Key{}, 1, 0, 0, 0),
		water(structure.Key{}, 2, 5, 0, 0),
		water(structure.Key{}, 3, 0, 5, 0),
		water(structure.Key{}, 4, 0, 0, 5),
	}
	for i := 1; i < 4; i++ {
		atoms[i].Occupancy = 0.1
	}
	return atoms
}

func TestFind_RefinementExclusion(t *testing.T) {
	q := newStructure("1aaa", mobile()...)
	other := newStructure("2bbb", mobile()...)
	params := scenarioParams()
	params.Refinement = RefineMobility

	res, err := New().Find(context.Background(), q.Key, []*structure.Structure{q, other}, params)
	require.NoError(t, err)

	// The query keeps every water; the homolog is excluded.
	assert.Equal(t, StatusTooFewStructures, res.Status)
	assert.Equal(t, []string{"1aaa_A"}, res.StructureNames())
	assert.Equal(t, []Exclusion{{Key: other.Key, Reason: ReasonRefinement}}, res.Excluded)
	assert.Len(t, res.QueryStructure().Waters, 4, "input must not be modified")
}

// mobileQuery returns a query whose first water has a mobility of 7.75 and
// whose other waters are far apart and immobile.
func mobileQuery() *structure.Structure {
	q := newStructure("1aaa",
		water(structure.Key{}, 1, 0, 0, 0),
		water(structure.Key{}, 2, 10, 0, 0),
		water(structure.Key{}, 3, 0, 10, 0),
		water(structure.Key{}, 4, 0, 0, 10),
	)
	q.Waters[0].Occupancy = 0.1
	return q
}

func TestFind_QueryNotRefined(t *testing.T) {
	q := mobileQuery()
	other := newStructure("2bbb", water(structure.Key{}, 9, 0.1, 0, 0))
	params := scenarioParams()
	params.Refinement = RefineMobility

	res, err := New().Find(context.Background(), q.Key, []*structure.Structure{q, other}, params)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Waters)
	assert.Equal(t, map[string]float64{
		"1aaa_A_1": 1.0,
		"1aaa_A_2": 0.5,
		"1aaa_A_3": 0.5,
		"1aaa_A_4": 0.5,
	}, res.Scores)
}

func TestFind_QueryRefinement(t *testing.T) {
	q := mobileQuery()
	other := newStructure("2bbb", water(structure.Key{}, 9, 0.1, 0, 0))
	params := scenarioParams()
	params.Refinement = RefineMobility

	res, err := New(WithQueryRefinement()).Find(context.Background(), q.Key, []*structure.Structure{q, other}, params)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Waters)
	assert.NotContains(t, res.Scores, "1aaa_A_1")
	assert.Len(t, res.Scores, 3)

	// A refined query that loses most of its waters is still kept.
	res, err = New(WithQueryRefinement()).Find(context.Background(), q.Key,
		[]*structure.Structure{newStructure("1aaa", mobile()...), other}, params)
	require.NoError(t, err)
	assert.Equal(t, []string{"1aaa_A", "2bbb_A"}, res.StructureNames())
	assert.Equal(t, 2, res.Waters)
}

func TestFind_StrictThreshold(t *testing.T) {
	a := newStructure("1aaa", water(structure.Key{}, 1, 0, 0, 0), water(structure.Key{}, 2, 10, 10, 10))
	b := newStructure("2bbb", water(structure.Key{}, 1, 0.1, 0.1, 0.1))
	structures := []*structure.Structure{a, b}

	res, err := New().Find(context.Background(), a.Key, structures, scenarioParams())
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"1aaa_A_1": 1.0, "1aaa_A_2": 0.5}, res.Scores)

	res, err = New(WithStrictThreshold()).Find(context.Background(), a.Key, structures, scenarioParams())
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"1aaa_A_1": 1.0}, res.Scores)
	assert.True(t, res.Strict)
}

func TestFind_DuplicateStructureAtoms(t *testing.T) {
	// Both query waters fall into one cluster; only the first one counts.
	a := newStructure("1aaa", water(structure.Key{}, 5, 0, 0, 0), water(structure.Key{}, 3, 0.2, 0, 0))
	b := newStructure("2bbb", water(structure.Key{}, 1, 0.1, 0, 0))

	res, err := New().Find(context.Background(), a.Key, []*structure.Structure{a, b}, scenarioParams())
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"1aaa_A_5": 1.0}, res.Scores)
	require.Len(t, res.Presence, 1)
	assert.Equal(t, []PresenceCell{{Serial: 5, Present: true}, {Serial: 1, Present: true}}, res.Presence[0].Cells)
}

func TestFind_QueryMissing(t *testing.T) {
	a := newStructure("1aaa", water(structure.Key{}, 1, 0, 0, 0))
	_, err := New().Find(context.Background(), structure.NewKey("9zzz", "A"), []*structure.Structure{a}, scenarioParams())
	assert.ErrorIs(t, err, ErrQueryUnavailable)
}

func TestFind_InvalidParams(t *testing.T) {
	a := newStructure("1aaa", water(structure.Key{}, 1, 0, 0, 0))
	params := scenarioParams()
	params.Probability = 0.1

	_, err := New().Find(context.Background(), a.Key, []*structure.Structure{a}, params)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFind_Canceled(t *testing.T) {
	a := newStructure("1aaa", water(structure.Key{}, 1, 0, 0, 0))
	b := newStructure("2bbb", water(structure.Key{}, 1, 0.1, 0.1, 0.1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Find(ctx, a.Key, []*structure.Structure{a, b}, scenarioParams())
	assert.ErrorIs(t, err, context.Canceled)
}

func cloud(seed int64, structures, sites int) []*structure.Structure {
	rng := testutil.NewRNG(seed)
	centers := rng.UniformPoints(sites, 30)
	ids := []string{"1aaa", "2bbb", "3ccc", "4ddd", "5eee", "6fff", "7ggg", "8hhh"}
	out := make([]*structure.Structure, structures)
	for s := 0; s < structures; s++ {
		st := newStructure(ids[s])
		for i, p := range rng.Jitter(centers, 0.3) {
			// Every structure misses a different site.
			if i == s {
				continue
			}
			st.Waters = append(st.Waters, structure.WaterAtom{Key: st.Key, Serial: 100 + i, Coord: p, Occupancy: 1, BFactor: 20})
		}
		out[s] = st
	}
	return out
}

func TestFind_Deterministic(t *testing.T) {
	structures := cloud(42, 6, 20)
	params := DefaultParams()
	params.Refinement = RefineNone

	first, err := New(WithConcurrency(1)).Find(context.Background(), structures[0].Key, structures, params)
	require.NoError(t, err)
	second, err := New(WithConcurrency(8)).Find(context.Background(), structures[0].Key, structures, params)
	require.NoError(t, err)

	assert.Equal(t, StatusConserved, first.Status)
	assert.Equal(t, first.Scores, second.Scores)
	assert.Equal(t, first.Presence, second.Presence)
	assert.Equal(t, first.Retained.ToArray(), second.Retained.ToArray())

	n := len(first.Structures)
	for _, row := range first.Presence {
		require.Len(t, row.Cells, n)
		present := 0
		for _, c := range row.Cells {
			if c.Present {
				present++
			}
		}
		assert.InDelta(t, float64(present)/float64(n), row.Score, 1e-12)
		assert.GreaterOrEqual(t, row.Score, params.Probability)
	}
	for id, score := range first.Scores {
		assert.GreaterOrEqual(t, score, 0.0, id)
		assert.LessOrEqual(t, score, 1.0, id)
	}
}
