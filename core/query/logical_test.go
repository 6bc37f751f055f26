package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asaidimu/go-lego/core/record"
)

func xy() record.Collection {
	return record.Collection{
		{"id": "a", "x": 1, "y": 2},
		{"id": "b", "x": 1, "y": 9},
		{"id": "c", "x": 9, "y": 2},
		{"id": "d", "x": 9, "y": 9},
	}
}

func ids(c record.Collection) []any {
	out := make([]any, len(c))
	for i, r := range c {
		out[i] = r["id"]
	}
	return out
}

func TestOr(t *testing.T) {
	t.Run("keeps records matching any operand", func(t *testing.T) {
		out, err := Or(FilterIn("x", 1), FilterIn("y", 2)).Apply(xy())
		require.NoError(t, err)
		assert.Equal(t, []any{"a", "b", "c"}, ids(out))
	})

	t.Run("follows working order, not operand order", func(t *testing.T) {
		out, err := Or(FilterIn("id", "d"), FilterIn("id", "a")).Apply(xy())
		require.NoError(t, err)
		assert.Equal(t, []any{"a", "d"}, ids(out))
	})

	t.Run("no operands keeps nothing", func(t *testing.T) {
		out, err := Or().Apply(xy())
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("returns the working records themselves", func(t *testing.T) {
		in := xy()
		out, err := Or(FilterIn("x", 1)).Apply(in)
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, record.Identity(in[0]), record.Identity(out[0]))
	})
}

func TestAnd(t *testing.T) {
	t.Run("keeps records matching every operand", func(t *testing.T) {
		out, err := And(FilterIn("x", 1), FilterIn("y", 2)).Apply(xy())
		require.NoError(t, err)
		assert.Equal(t, []any{"a"}, ids(out))
	})

	t.Run("no operands keeps everything", func(t *testing.T) {
		out, err := And().Apply(xy())
		require.NoError(t, err)
		assert.Equal(t, []any{"a", "b", "c", "d"}, ids(out))
	})

	t.Run("nests with or", func(t *testing.T) {
		op := And(
			Or(FilterIn("x", 1), FilterIn("y", 2)),
			FilterIn("id", "b", "c", "d"),
		)
		out, err := op.Apply(xy())
		require.NoError(t, err)
		assert.Equal(t, []any{"b", "c"}, ids(out))
	})
}

func TestLogicalMembershipIsByIdentity(t *testing.T) {
	// Two records with identical contents: a filter that keeps only the first
	// by position must not make the second survive through value equality.
	twins := record.Collection{{"v": 1}, {"v": 1}}
	first := NewTransformation(KindFilterIn, func(c record.Collection) (record.Collection, error) {
		return c[:1], nil
	})

	out, err := Or(first).Apply(twins)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, record.Identity(twins[0]), record.Identity(out[0]))

	out, err = And(first, FilterIn("v", 1)).Apply(twins)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestLogicalDropsNilRecords(t *testing.T) {
	keepFirst := NewTransformation(KindFilterIn, func(c record.Collection) (record.Collection, error) {
		return c[:1], nil
	})
	keepAll := NewTransformation(KindFilterIn, func(c record.Collection) (record.Collection, error) {
		return c, nil
	})

	out, err := Or(keepFirst).Apply(record.Collection{nil, nil})
	require.NoError(t, err)
	assert.Empty(t, out)

	mixed := record.Collection{nil, {"id": "a"}, nil}
	out, err = Or(keepAll).Apply(mixed)
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, ids(out))

	out, err = And().Apply(mixed)
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, ids(out))
}

func TestLogicalIgnoresReshapedRecords(t *testing.T) {
	// Select builds new records, so nothing it returns is a member of the
	// working collection.
	out, err := Or(Select("x")).Apply(xy())
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestLogicalPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	failing := NewTransformation(KindFilterIn, func(c record.Collection) (record.Collection, error) {
		return nil, boom
	})

	_, err := Or(FilterIn("x", 1), failing).Apply(xy())
	assert.ErrorIs(t, err, boom)

	_, err = And(failing).Apply(xy())
	assert.ErrorIs(t, err, boom)
}
