package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQueryBuilder(t *testing.T) {
	qb := NewQueryBuilder()
	assert.NotNil(t, qb)
	assert.Equal(t, QueryDSL{}, qb.Build())
}

func TestQueryBuilder_Build(t *testing.T) {
	dsl := NewQueryBuilder().
		Select("name", "age").
		Where("city").In("Nairobi", "Mombasa").
		Where("active").Eq(true).
		Expression("record.age > 18").
		OrderByDesc("age").
		Format("name", "upper").
		Limit(10).
		Build()

	assert.Equal(t, []string{"name", "age"}, dsl.Projection)
	require.Len(t, dsl.Filters, 2)
	assert.Equal(t, &FilterCondition{Field: "city", Operator: ComparisonOperatorIn, Value: []any{"Nairobi", "Mombasa"}}, dsl.Filters[0].Condition)
	assert.Equal(t, &FilterCondition{Field: "active", Operator: ComparisonOperatorEq, Value: true}, dsl.Filters[1].Condition)
	assert.Equal(t, "record.age > 18", dsl.Where)
	assert.Equal(t, []SortConfiguration{{Field: "age", Direction: SortDirectionDesc}}, dsl.Sort)
	assert.Equal(t, []FormatConfiguration{{Field: "name", Formatter: "upper"}}, dsl.Format)
	require.NotNil(t, dsl.Limit)
	assert.Equal(t, 10, *dsl.Limit)
}

func TestQueryBuilder_Clone(t *testing.T) {
	qb := NewQueryBuilder().Limit(10).OrderByAsc("name").Select("name")
	clonedQb := qb.Clone()

	assert.NotNil(t, clonedQb)
	assert.Equal(t, qb.Build(), clonedQb.Build())

	clonedQb.Limit(20).OrderByDesc("age").Select("age")
	assert.Equal(t, 10, *qb.Build().Limit)
	assert.Equal(t, 20, *clonedQb.Build().Limit)
	assert.Len(t, qb.Build().Sort, 1)
	assert.Equal(t, []string{"name"}, qb.Build().Projection)
}

func TestQueryBuilder_Reset(t *testing.T) {
	qb := NewQueryBuilder().Limit(10).OrderByAsc("name").Where("x").Eq(1)
	assert.NotNil(t, qb.Build().Limit)

	qb.Reset()
	assert.Equal(t, QueryDSL{}, qb.Build())
}

func TestQueryBuilder_OrderBy(t *testing.T) {
	dsl := NewQueryBuilder().OrderByAsc("a").OrderBy("b", SortDirectionDesc).Build()
	assert.Equal(t, []SortConfiguration{
		{Field: "a", Direction: SortDirectionAsc},
		{Field: "b", Direction: SortDirectionDesc},
	}, dsl.Sort)
}

func TestQueryBuilder_WhereGroup(t *testing.T) {
	t.Run("flat group", func(t *testing.T) {
		dsl := NewQueryBuilder().
			WhereGroup(LogicalOperatorOr).
			Where("x").Eq(1).
			Where("y").In(2, 3).
			End().
			Build()

		require.Len(t, dsl.Filters, 1)
		group := dsl.Filters[0].Group
		require.NotNil(t, group)
		assert.Equal(t, LogicalOperatorOr, group.Operator)
		require.Len(t, group.Conditions, 2)
		assert.Equal(t, "x", group.Conditions[0].Condition.Field)
		assert.Equal(t, []any{2, 3}, group.Conditions[1].Condition.Value)
	})

	t.Run("nested groups", func(t *testing.T) {
		dsl := NewQueryBuilder().
			WhereGroup(LogicalOperatorAnd).
			Where("x").Eq(1).
			WhereGroup(LogicalOperatorOr).
			Where("y").Eq(2).
			Where("z").Eq(3).
			EndGroup().
			Where("w").Eq(4).
			End().
			Build()

		require.Len(t, dsl.Filters, 1)
		outer := dsl.Filters[0].Group
		require.NotNil(t, outer)
		assert.Equal(t, LogicalOperatorAnd, outer.Operator)
		require.Len(t, outer.Conditions, 3)
		assert.Equal(t, "x", outer.Conditions[0].Condition.Field)

		inner := outer.Conditions[1].Group
		require.NotNil(t, inner)
		assert.Equal(t, LogicalOperatorOr, inner.Operator)
		assert.Len(t, inner.Conditions, 2)

		assert.Equal(t, "w", outer.Conditions[2].Condition.Field)
	})

	t.Run("end closes every open group", func(t *testing.T) {
		dsl := NewQueryBuilder().
			WhereGroup(LogicalOperatorAnd).
			Where("x").Eq(1).
			WhereGroup(LogicalOperatorOr).
			Where("y").Eq(2).
			End().
			Build()

		require.Len(t, dsl.Filters, 1)
		outer := dsl.Filters[0].Group
		require.Len(t, outer.Conditions, 2)
		assert.NotNil(t, outer.Conditions[1].Group)
	})

	t.Run("end group on a top-level group finalises it", func(t *testing.T) {
		qb := NewQueryBuilder()
		parent := qb.WhereGroup(LogicalOperatorOr).Where("x").Eq(1).EndGroup()
		assert.Nil(t, parent)
		assert.Len(t, qb.Build().Filters, 1)
	})
}
