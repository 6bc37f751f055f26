// Package query provides a fluent API for building pipelines as a QueryDSL.
// The builder only assembles data; nothing is validated until the DSL is
// compiled by an Engine.
package query

import "slices"

// QueryBuilder provides a fluent and intuitive API for building QueryDSL structures.
type QueryBuilder struct {
	query QueryDSL
}

// NewQueryBuilder creates a new, empty query builder instance.
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{
		query: QueryDSL{},
	}
}

// Build returns the constructed QueryDSL object.
func (qb *QueryBuilder) Build() QueryDSL {
	return qb.query
}

// Clone returns an independent copy of the builder. Appending to the clone
// never changes the original.
func (qb *QueryBuilder) Clone() *QueryBuilder {
	q := qb.query
	q.Projection = slices.Clone(q.Projection)
	q.Filters = slices.Clone(q.Filters)
	q.Sort = slices.Clone(q.Sort)
	q.Format = slices.Clone(q.Format)
	if q.Limit != nil {
		q.Limit = IntPtr(*q.Limit)
	}
	return &QueryBuilder{query: q}
}

// Reset clears all configurations from the query builder, returning it to its initial state.
func (qb *QueryBuilder) Reset() *QueryBuilder {
	qb.query = QueryDSL{}
	return qb
}

// Select adds fields to the projection.
func (qb *QueryBuilder) Select(fields ...string) *QueryBuilder {
	qb.query.Projection = append(qb.query.Projection, fields...)
	return qb
}

// Where begins a filter condition on a field. Each call adds a separate
// filter; records have to pass all of them.
func (qb *QueryBuilder) Where(field string) *FilterConditionBuilder {
	return &FilterConditionBuilder{parent: qb, field: field}
}

// WhereGroup begins a group of filter conditions combined with operator.
func (qb *QueryBuilder) WhereGroup(operator LogicalOperator) *FilterGroupBuilder {
	return &FilterGroupBuilder{
		query:      qb,
		operator:   operator,
		conditions: []QueryFilter{},
	}
}

// Expression sets a CEL expression the records must satisfy.
func (qb *QueryBuilder) Expression(expression string) *QueryBuilder {
	qb.query.Where = expression
	return qb
}

// FilterConditionBuilder is used to build a single top-level filter condition.
type FilterConditionBuilder struct {
	parent *QueryBuilder
	field  string
}

// Eq keeps records whose field equals value.
func (fcb *FilterConditionBuilder) Eq(value FilterValue) *QueryBuilder {
	return fcb.addCondition(ComparisonOperatorEq, value)
}

// In keeps records whose field equals one of values.
func (fcb *FilterConditionBuilder) In(values ...FilterValue) *QueryBuilder {
	return fcb.addCondition(ComparisonOperatorIn, toAnySlice(values))
}

func (fcb *FilterConditionBuilder) addCondition(operator ComparisonOperator, value FilterValue) *QueryBuilder {
	fcb.parent.query.Filters = append(fcb.parent.query.Filters, QueryFilter{
		Condition: &FilterCondition{
			Field:    fcb.field,
			Operator: operator,
			Value:    value,
		},
	})
	return fcb.parent
}

// FilterGroupBuilder is used to build a group of filter conditions.
type FilterGroupBuilder struct {
	query      *QueryBuilder
	parent     *FilterGroupBuilder
	operator   LogicalOperator
	conditions []QueryFilter
}

// Where adds a new condition to the current filter group.
func (fgb *FilterGroupBuilder) Where(field string) *FilterConditionBuilderInGroup {
	return &FilterConditionBuilderInGroup{
		groupBuilder: fgb,
		field:        field,
	}
}

// WhereGroup opens a nested group inside the current one. Close it with
// EndGroup to keep adding to the current group.
func (fgb *FilterGroupBuilder) WhereGroup(operator LogicalOperator) *FilterGroupBuilder {
	return &FilterGroupBuilder{
		query:      fgb.query,
		parent:     fgb,
		operator:   operator,
		conditions: []QueryFilter{},
	}
}

// EndGroup closes a nested group and returns its parent. On a top-level
// group it behaves like End and returns nil.
func (fgb *FilterGroupBuilder) EndGroup() *FilterGroupBuilder {
	if fgb.parent == nil {
		fgb.End()
		return nil
	}
	fgb.parent.conditions = append(fgb.parent.conditions, fgb.filter())
	return fgb.parent
}

// End closes the current group, and every open group around it, and returns
// to the main query builder.
func (fgb *FilterGroupBuilder) End() *QueryBuilder {
	if fgb.parent != nil {
		return fgb.EndGroup().End()
	}
	fgb.query.query.Filters = append(fgb.query.query.Filters, fgb.filter())
	return fgb.query
}

func (fgb *FilterGroupBuilder) filter() QueryFilter {
	return QueryFilter{Group: &FilterGroup{
		Operator:   fgb.operator,
		Conditions: fgb.conditions,
	}}
}

// FilterConditionBuilderInGroup is used to build a filter condition within a group.
type FilterConditionBuilderInGroup struct {
	groupBuilder *FilterGroupBuilder
	field        string
}

// Eq adds an equality condition to the current filter group.
func (fcbg *FilterConditionBuilderInGroup) Eq(value FilterValue) *FilterGroupBuilder {
	return fcbg.addConditionToGroup(ComparisonOperatorEq, value)
}

// In adds an "in" condition to the current filter group.
func (fcbg *FilterConditionBuilderInGroup) In(values ...FilterValue) *FilterGroupBuilder {
	return fcbg.addConditionToGroup(ComparisonOperatorIn, toAnySlice(values))
}

func (fcbg *FilterConditionBuilderInGroup) addConditionToGroup(operator ComparisonOperator, value FilterValue) *FilterGroupBuilder {
	fcbg.groupBuilder.conditions = append(fcbg.groupBuilder.conditions, QueryFilter{
		Condition: &FilterCondition{
			Field:    fcbg.field,
			Operator: operator,
			Value:    value,
		},
	})
	return fcbg.groupBuilder
}

// OrderBy adds a sorting configuration to the query.
func (qb *QueryBuilder) OrderBy(field string, direction SortDirection) *QueryBuilder {
	qb.query.Sort = append(qb.query.Sort, SortConfiguration{
		Field:     field,
		Direction: direction,
	})
	return qb
}

// OrderByAsc adds an ascending sort order for a specific field.
func (qb *QueryBuilder) OrderByAsc(field string) *QueryBuilder {
	return qb.OrderBy(field, SortDirectionAsc)
}

// OrderByDesc adds a descending sort order for a specific field.
func (qb *QueryBuilder) OrderByDesc(field string) *QueryBuilder {
	return qb.OrderBy(field, SortDirectionDesc)
}

// Format rewrites field with the formatter registered under formatter.
func (qb *QueryBuilder) Format(field, formatter string) *QueryBuilder {
	qb.query.Format = append(qb.query.Format, FormatConfiguration{
		Field:     field,
		Formatter: formatter,
	})
	return qb
}

// Limit sets the maximum number of records to be returned by the query.
func (qb *QueryBuilder) Limit(limit int) *QueryBuilder {
	qb.query.Limit = IntPtr(limit)
	return qb
}

func toAnySlice(values []FilterValue) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
