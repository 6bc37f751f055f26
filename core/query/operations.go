package query

import (
	"slices"

	"github.com/asaidimu/go-lego/core/record"
)

// Formatter rewrites a single field value.
type Formatter func(value any) any

// Select keeps only the listed fields of every record. Fields a record does
// not have are left out rather than set to nil.
func Select(fields ...string) Transformation {
	fields = slices.Clone(fields)
	return NewTransformation(KindSelect, func(c record.Collection) (record.Collection, error) {
		out := make(record.Collection, len(c))
		for i, r := range c {
			selected := make(record.Record, len(fields))
			for _, field := range fields {
				if v, ok := r[field]; ok {
					selected[field] = v
				}
			}
			out[i] = selected
		}
		return out, nil
	})
}

// FilterIn keeps the records whose value at field equals one of values.
// Equality is Go's ==, with no type coercion, so int(1) does not match
// int64(1). Records without the field never match.
//
// values is variadic: to filter by a slice, spread it with FilterIn("x", vals...).
// A slice passed as a single value is one uncomparable value and matches nothing.
func FilterIn(field string, values ...any) Transformation {
	return filterIn(field, values, equalValues)
}

// filterIn builds a filterIn transformation around a custom equality.
func filterIn(field string, values []any, equal func(a, b any) bool) Transformation {
	values = slices.Clone(values)
	return NewTransformation(KindFilterIn, func(c record.Collection) (record.Collection, error) {
		out := make(record.Collection, 0, len(c))
		for _, r := range c {
			v, ok := r[field]
			if !ok {
				continue
			}
			if slices.ContainsFunc(values, func(allowed any) bool { return equal(v, allowed) }) {
				out = append(out, r)
			}
		}
		return out, nil
	})
}

// SortBy orders records by the value at field. The sort is stable, so records
// with equal keys keep their relative order. direction must be
// SortDirectionAsc or SortDirectionDesc.
func SortBy(field string, direction SortDirection) (Transformation, error) {
	var sign int
	switch direction {
	case SortDirectionAsc:
		sign = 1
	case SortDirectionDesc:
		sign = -1
	default:
		return Transformation{}, invalidArgument(KindSortBy, "direction must be %q or %q, got %q", SortDirectionAsc, SortDirectionDesc, direction)
	}

	return NewTransformation(KindSortBy, func(c record.Collection) (record.Collection, error) {
		out := record.CloneCollection(c)
		slices.SortStableFunc(out, func(a, b record.Record) int {
			return sign * CompareValues(a[field], b[field])
		})
		return out, nil
	}), nil
}

// Format replaces the value at field with formatter(value) on a copy of every
// record. A record missing the field gets formatter(nil) written under it.
func Format(field string, formatter Formatter) Transformation {
	return NewTransformation(KindFormat, func(c record.Collection) (record.Collection, error) {
		out := make(record.Collection, len(c))
		for i, r := range c {
			copied := record.Clone(r)
			copied[field] = formatter(copied[field])
			out[i] = copied
		}
		return out, nil
	})
}

// Limit keeps at most the first count records.
func Limit(count int) (Transformation, error) {
	if count < 0 {
		return Transformation{}, invalidArgument(KindLimit, "count must be >= 0, got %d", count)
	}
	return NewTransformation(KindLimit, func(c record.Collection) (record.Collection, error) {
		n := min(count, len(c))
		out := make(record.Collection, n)
		copy(out, c[:n])
		return out, nil
	}), nil
}
