package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClone(t *testing.T) {
	t.Run("copies fields into a new map", func(t *testing.T) {
		original := Record{"name": "A", "age": 1}
		copied := Clone(original)
		assert.Equal(t, original, copied)

		copied["name"] = "B"
		assert.Equal(t, "A", original["name"])
		assert.NotEqual(t, Identity(original), Identity(copied))
	})

	t.Run("shares field values", func(t *testing.T) {
		tags := []string{"x"}
		copied := Clone(Record{"tags": tags})
		copied["tags"].([]string)[0] = "y"
		assert.Equal(t, "y", tags[0])
	})

	t.Run("nil clones to empty", func(t *testing.T) {
		copied := Clone(nil)
		assert.NotNil(t, copied)
		assert.Empty(t, copied)
	})
}

func TestCloneCollection(t *testing.T) {
	original := Collection{{"id": 1}, {"id": 2}}
	copied := CloneCollection(original)
	require.Len(t, copied, 2)
	assert.Equal(t, original, copied)

	copied[0]["id"] = 99
	copied[1] = Record{"id": 3}
	assert.Equal(t, 1, original[0]["id"])
	assert.Equal(t, 2, original[1]["id"])

	empty := CloneCollection(nil)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestRecordAccessors(t *testing.T) {
	r := Record{"a": 1, "b": nil}

	v, ok := r.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = r.Get("c")
	assert.False(t, ok)

	assert.True(t, r.Has("b"))
	assert.False(t, r.Has("c"))
}

func TestIdentity(t *testing.T) {
	a := Record{"x": 1}
	b := Record{"x": 1}
	alias := a
	assert.Equal(t, Identity(a), Identity(alias))
	assert.NotEqual(t, Identity(a), Identity(b))
}

type user struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

func TestStructConversion(t *testing.T) {
	c, err := FromStructs([]user{{Name: "Ada", Age: 36}, {Name: "Bob", Age: 41}})
	require.NoError(t, err)
	assert.Equal(t, Collection{
		{"name": "Ada", "age": 36},
		{"name": "Bob", "age": 41},
	}, c)

	users, err := ToStructs[user](c)
	require.NoError(t, err)
	assert.Equal(t, []user{{Name: "Ada", Age: 36}, {Name: "Bob", Age: 41}}, users)

	_, err = FromStructs([]int{1})
	assert.Error(t, err)

	_, err = ToStructs[user](Collection{{"age": "old"}})
	assert.Error(t, err)
}
