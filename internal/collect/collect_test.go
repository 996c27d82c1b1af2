package collect

import (
	"testing"

	"github.com/hupe1980/cwater/distance"
	"github.com/hupe1980/cwater/structure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeStructure(id string, serials ...int) *structure.Structure {
	key := structure.NewKey(id, "A")
	s := &structure.Structure{Key: key}
	for _, serial := range serials {
		s.Waters = append(s.Waters, structure.WaterAtom{
			Key:    key,
			Serial: serial,
			Coord:  distance.Point{float64(serial), 0, 0},
		})
	}
	return s
}

func TestCollectCanonicalOrder(t *testing.T) {
	query := makeStructure("1qry", 7, 3)
	other := makeStructure("2oth", 1)
	empty := makeStructure("3emp")

	ps, err := Collect([]*structure.Structure{query, other, empty}, 0)
	require.NoError(t, err)

	assert.Equal(t, 3, ps.Len())
	assert.Equal(t, 3, ps.StructureCount())
	assert.Equal(t, []string{"1qry_A_7", "1qry_A_3", "2oth_A_1"}, ps.IDs)
	assert.Equal(t, []int{0, 0, 1}, ps.Owner)
	assert.Equal(t, []int{7, 3, 1}, ps.Serials)
	assert.Equal(t, distance.Point{3, 0, 0}, ps.Points[1])
	assert.Equal(t, structure.NewKey("3emp", "A"), ps.Keys[2])
}

func TestCollectLimit(t *testing.T) {
	a := makeStructure("1aaa", 1, 2, 3)
	b := makeStructure("2bbb", 1, 2)

	_, err := Collect([]*structure.Structure{a, b}, 5)
	var le *LimitError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, 5, le.Count)
	assert.Equal(t, 5, le.Limit)

	ps, err := Collect([]*structure.Structure{a, b}, 6)
	require.NoError(t, err)
	assert.Equal(t, 5, ps.Len())
}

func TestCollectDefaultLimit(t *testing.T) {
	serials := make([]int, 30000)
	for i := range serials {
		serials[i] = i + 1
	}
	a := makeStructure("1aaa", serials...)
	b := makeStructure("2bbb", serials...)

	_, err := Collect([]*structure.Structure{a, b}, 0)
	var le *LimitError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, 60000, le.Count)
	assert.Equal(t, DefaultLimit, le.Limit)
}
