package query

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// Compile turns a QueryDSL into the transformations it describes. Named
// formatters are resolved against the engine's registry at compile time.
func (e *Engine) Compile(dsl *QueryDSL) ([]Transformation, error) {
	if dsl == nil {
		return nil, nil
	}

	var ops []Transformation

	for i := range dsl.Filters {
		op, err := compileFilter(&dsl.Filters[i])
		if err != nil {
			return nil, fmt.Errorf("filter %d: %w", i, err)
		}
		ops = append(ops, op)
	}

	if dsl.Where != "" {
		op, err := Where(dsl.Where)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}

	// Sorts are stable and applied in sequence, so the last one applied is the
	// primary key. Adding them in reverse makes the first configuration primary.
	for i := len(dsl.Sort) - 1; i >= 0; i-- {
		op, err := SortBy(dsl.Sort[i].Field, dsl.Sort[i].Direction)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}

	if len(dsl.Projection) > 0 {
		ops = append(ops, Select(dsl.Projection...))
	}

	for _, f := range dsl.Format {
		fn, ok := e.formatter(f.Formatter)
		if !ok {
			return nil, invalidArgument(KindFormat, "unregistered formatter %q", f.Formatter)
		}
		ops = append(ops, Format(f.Field, fn))
	}

	if dsl.Limit != nil {
		op, err := Limit(*dsl.Limit)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}

	e.logger.Debug("Compiled query", zapOps(ops))
	return ops, nil
}

// compileFilter maps a filter condition onto FilterIn and a filter group onto
// And or Or over its compiled members.
func compileFilter(filter *QueryFilter) (Transformation, error) {
	switch {
	case filter.Condition != nil && filter.Group != nil:
		return Transformation{}, invalidArgument(KindFilterIn, "filter sets both a condition and a group")
	case filter.Condition != nil:
		return compileCondition(filter.Condition)
	case filter.Group != nil:
		members := make([]Transformation, 0, len(filter.Group.Conditions))
		for i := range filter.Group.Conditions {
			op, err := compileFilter(&filter.Group.Conditions[i])
			if err != nil {
				return Transformation{}, err
			}
			members = append(members, op)
		}
		switch filter.Group.Operator {
		case LogicalOperatorAnd:
			return And(members...), nil
		case LogicalOperatorOr:
			return Or(members...), nil
		default:
			return Transformation{}, invalidArgument(KindFilterIn, "unsupported logical operator %q", filter.Group.Operator)
		}
	default:
		return Transformation{}, invalidArgument(KindFilterIn, "empty filter")
	}
}

// compileCondition matches numbers by value rather than by Go type, since a
// decoded DSL carries every number as float64 while records hold ints.
func compileCondition(cond *FilterCondition) (Transformation, error) {
	if cond.Field == "" {
		return Transformation{}, invalidArgument(KindFilterIn, "condition has no field")
	}
	switch cond.Operator {
	case ComparisonOperatorEq:
		return filterIn(cond.Field, []any{cond.Value}, looseEqual), nil
	case ComparisonOperatorIn:
		values, ok := toValueList(cond.Value)
		if !ok {
			return Transformation{}, invalidArgument(KindFilterIn, "in on %q needs a list of values, got %T", cond.Field, cond.Value)
		}
		return filterIn(cond.Field, values, looseEqual), nil
	default:
		return Transformation{}, invalidArgument(KindFilterIn, "unsupported comparison operator %q", cond.Operator)
	}
}

// toValueList flattens any slice or array into []any.
func toValueList(v any) ([]any, bool) {
	switch list := v.(type) {
	case []any:
		return list, true
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func zapOps(ops []Transformation) zap.Field {
	kinds := make([]string, len(ops))
	for i, op := range ops {
		kinds[i] = string(op.Kind())
	}
	return zap.Strings("kinds", kinds)
}
