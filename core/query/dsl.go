// Package query defines the Domain-Specific Language (DSL) for describing a
// query pipeline declaratively. A QueryDSL is plain data, so it can be built
// with the QueryBuilder, stored, or decoded from JSON, and is turned into
// transformations by Engine.Compile.
package query

import "github.com/asaidimu/go-lego/core/record"

// LogicalOperator combines filter conditions.
type LogicalOperator string

// Logical operators for combining filter conditions.
const (
	LogicalOperatorAnd LogicalOperator = "and"
	LogicalOperatorOr  LogicalOperator = "or"
)

// ComparisonOperator defines the set of operators that can be used in a filter condition.
type ComparisonOperator string

// Supported comparison operators.
const (
	ComparisonOperatorEq ComparisonOperator = "eq"
	ComparisonOperatorIn ComparisonOperator = "in"
)

// FilterValue represents the value used in a filter condition. It can be of any type.
//
// Values decoded from JSON arrive as float64, string, bool or nil. Numbers
// match record values of any Go numeric type holding the same value, so 25
// matches int(25) and int64(25) but not 25.5 or "25". Other values match only
// record values of exactly the same type.
type FilterValue any

// FilterCondition defines a single condition for filtering records.
type FilterCondition struct {
	Field    string             `json:"field"`    // The field to apply the filter on.
	Operator ComparisonOperator `json:"operator"` // The comparison operator to use.
	Value    FilterValue        `json:"value"`    // A single value for eq, a list of values for in.
}

// FilterGroup combines multiple filter conditions using a logical operator.
// Groups may nest.
type FilterGroup struct {
	Operator   LogicalOperator `json:"operator"`
	Conditions []QueryFilter   `json:"conditions"`
}

// QueryFilter is a union type that can represent either a single filter condition
// or a group of conditions. Exactly one of the two must be set.
type QueryFilter struct {
	Condition *FilterCondition `json:"condition,omitempty"`
	Group     *FilterGroup     `json:"group,omitempty"`
}

// SortDirection specifies the direction for sorting.
type SortDirection string

// Supported sort directions.
const (
	SortDirectionAsc  SortDirection = "asc"
	SortDirectionDesc SortDirection = "desc"
)

// SortConfiguration defines the sorting order for a specific field.
type SortConfiguration struct {
	Field     string        `json:"field"`
	Direction SortDirection `json:"direction"`
}

// FormatConfiguration rewrites a field with a formatter registered on the
// engine under the given name.
type FormatConfiguration struct {
	Field     string `json:"field"`
	Formatter string `json:"formatter"`
}

// QueryDSL is the top-level structure that describes a complete pipeline.
// The order of its parts carries no meaning; the engine applies them by
// operation priority.
type QueryDSL struct {
	Projection []string              `json:"projection,omitempty"`
	Filters    []QueryFilter         `json:"filters,omitempty"`
	Where      string                `json:"where,omitempty"`
	Sort       []SortConfiguration   `json:"sort,omitempty"`
	Format     []FormatConfiguration `json:"format,omitempty"`
	Limit      *int                  `json:"limit,omitempty"`
}

// QueryResult is what Engine.Execute returns.
type QueryResult struct {
	QueryID string            `json:"queryId"`
	Data    record.Collection `json:"data"`
	Count   int               `json:"count"`
}
