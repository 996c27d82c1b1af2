package cwater

import (
	"errors"
	"math"
	"testing"

	"github.com/hupe1980/cwater/structure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestValidate(t *testing.T) {
	valid := DefaultRequest(structure.NewKey("1abc", "A"))
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(r *Request)
		field  string
	}{
		{"query id", func(r *Request) { r.Query = structure.NewKey("1ab", "A") }, "query"},
		{"query chain", func(r *Request) { r.Query = structure.NewKey("1abc", "AB") }, "query"},
		{"seq identity", func(r *Request) { r.SeqIdentity = 60 }, "seq identity"},
		{"resolution too high", func(r *Request) { r.Resolution = 3.5 }, "resolution"},
		{"resolution zero", func(r *Request) { r.Resolution = 0 }, "resolution"},
		{"inconsistency", func(r *Request) { r.Inconsistency = 2.81 }, "inconsistency"},
		{"inconsistency negative", func(r *Request) { r.Inconsistency = -1 }, "inconsistency"},
		{"inconsistency NaN", func(r *Request) { r.Inconsistency = math.NaN() }, "inconsistency"},
		{"probability low", func(r *Request) { r.Probability = 0.39 }, "probability"},
		{"probability high", func(r *Request) { r.Probability = 1.01 }, "probability"},
		{"linkage", func(r *Request) { r.Linkage = "ward" }, "linkage"},
		{"refinement", func(r *Request) { r.Refinement = "occupancy" }, "refinement"},
		{"custom list too short", func(r *Request) { r.Structures = []structure.Key{structure.NewKey("2xyz", "A")} }, "structures"},
		{"custom list entry", func(r *Request) {
			r.Structures = []structure.Key{structure.NewKey("2xyz", "A"), structure.NewKey("bad", "A")}
		}, "structures"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			err := r.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)

			var ve *InputValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestRequestValidateBoundaries(t *testing.T) {
	r := DefaultRequest(structure.NewKey("1abc", "A"))
	r.Inconsistency = 0
	r.Probability = 0.4
	r.Resolution = 3.0
	require.NoError(t, r.Validate())

	r.Inconsistency = 2.8
	r.Probability = 1.0
	require.NoError(t, r.Validate())

	for _, s := range SeqIdentities {
		r.SeqIdentity = s
		require.NoError(t, r.Validate(), s)
	}
}

func TestRequestCustomListSkipsSourceParams(t *testing.T) {
	r := DefaultRequest(structure.NewKey("1abc", "A"))
	r.SeqIdentity = 0
	r.Resolution = 0
	r.Structures = []structure.Key{structure.NewKey("2xyz", "A"), structure.NewKey("3pqr", "B")}
	assert.NoError(t, r.Validate())
}

func TestParseStructureList(t *testing.T) {
	keys, err := ParseStructureList("1ABC_a, 2xyz_B,")
	require.NoError(t, err)
	assert.Equal(t, []structure.Key{structure.NewKey("1abc", "A"), structure.NewKey("2xyz", "B")}, keys)

	_, err = ParseStructureList("1abc_A")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = ParseStructureList("1abc_A,nope")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestStatus(t *testing.T) {
	q := structure.NewKey("1abc", "A")
	assert.Equal(t, "conserved", StatusConserved.String())
	assert.Equal(t, "1abc_A has no conserved waters", StatusNoConserved.Message(q))
	assert.Equal(t, "Unknown(42)", Status(42).String())

	text, err := StatusSingleWater.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "single-water", string(text))
}

func TestErrors(t *testing.T) {
	err := &ResourceExhaustionError{Count: 60000, Limit: 50000}
	assert.ErrorIs(t, err, ErrResourceExhausted)
	assert.NotErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "resource exhausted: 60000 water atoms reach the limit of 50000", err.Error())

	err = &ResourceExhaustionError{Count: 3, Bytes: 24}
	assert.Equal(t, "resource exhausted: distance matrix of 3 waters needs 24 bytes", err.Error())

	ve := invalid("probability", 0.1, "must be between 0.4 and 1.0")
	assert.Equal(t, "invalid probability 0.1: must be between 0.4 and 1.0", ve.Error())
	assert.NoError(t, translateError(nil, 0, 0))
}

func TestCanonicalOrder(t *testing.T) {
	q := structure.NewKey("1qry", "A")
	a := structure.NewKey("2aaa", "A")
	b := structure.NewKey("3bbb", "B")

	assert.Equal(t, []structure.Key{q, a, b}, canonicalOrder(q, []structure.Key{a, q, b, a}))
	assert.Equal(t, []structure.Key{q, b}, canonicalOrder(q, []structure.Key{b}))
}
