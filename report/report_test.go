package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hupe1980/cwater/codec"
	"github.com/hupe1980/cwater/internal/conserve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "1.0", FormatScore(1))
	assert.Equal(t, "0.75", FormatScore(0.75))
	assert.Equal(t, "0.6666666666666666", FormatScore(2.0/3.0))
}

func TestWritePresence(t *testing.T) {
	rows := []conserve.PresenceRow{
		{Score: 1, Cells: []conserve.Cell{{Serial: 301, Present: true}, {Serial: 17, Present: true}, {Serial: 5, Present: true}}},
		{Score: 2.0 / 3.0, Cells: []conserve.Cell{{Serial: 302, Present: true}, {}, {Serial: 9, Present: true}}},
	}

	var buf bytes.Buffer
	require.NoError(t, WritePresence(&buf, []string{"1abc_A", "2xyz_A", "3pqr_B"}, rows))

	want := "Water Conservation Score\t1abc_A\t2xyz_A\t3pqr_B\n" +
		"1.0\t301\t17\t5\n" +
		"0.6666666666666666\t302\tNoWater\t9\n"
	assert.Equal(t, want, buf.String())

	table, err := ReadPresence(strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, []string{"1abc_A", "2xyz_A", "3pqr_B"}, table.Structures)
	assert.Equal(t, rows, table.Rows)
}

func TestWritePresenceHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePresence(&buf, []string{"1abc_A", "2xyz_A"}, nil))
	assert.Equal(t, "Water Conservation Score\t1abc_A\t2xyz_A\n", buf.String())
}

func TestWritePresenceCellMismatch(t *testing.T) {
	var buf bytes.Buffer
	err := WritePresence(&buf, []string{"1abc_A", "2xyz_A"}, []conserve.PresenceRow{{Score: 1, Cells: []conserve.Cell{{}}}})
	assert.Error(t, err)
}

func TestReadPresenceMalformed(t *testing.T) {
	_, err := ReadPresence(strings.NewReader("score\t1abc_A\n"))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = ReadPresence(strings.NewReader("Water Conservation Score\t1abc_A\nhigh\t301\n"))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = ReadPresence(strings.NewReader("Water Conservation Score\t1abc_A\n1.0\tabc\n"))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = ReadPresence(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestSummaryRoundTrip(t *testing.T) {
	s := Summary{
		Query:  "1abc_A",
		Status: "conserved",
		Parameters: Parameters{
			Refinement:    "mobility",
			Linkage:       "complete",
			Inconsistency: 2.0,
			Probability:   0.7,
		},
		Structures: []string{"1abc_A", "2xyz_A"},
		Excluded:   []Excluded{{Structure: "3pqr_B", Reason: "refinement"}},
		Waters:     10,
		Clusters:   6,
		Accepted:   2,
		Scores:     map[string]float64{"1abc_A_301": 1},
	}

	for _, c := range []codec.Codec{codec.JSON{}, codec.GoJSON{}} {
		data, err := EncodeSummary(c, s)
		require.NoError(t, err)

		got, err := DecodeSummary(nil, data)
		require.NoError(t, err)
		assert.Equal(t, c.Name(), got.Codec)
		got.Codec = ""
		assert.Equal(t, s, got)
	}
}

func TestSummaryEmptyScores(t *testing.T) {
	data, err := EncodeSummary(codec.JSON{}, Summary{Query: "1abc_A", Status: "no-conserved"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scores": {}`)
}
