package query

import (
	"cmp"
	"maps"
	"slices"
)

// Kind identifies the operation a Transformation performs. It is fixed when
// the transformation is built and is the only thing the engine looks at when
// ordering a pipeline.
type Kind string

// Supported operation kinds.
const (
	KindFilterIn Kind = "filterIn"
	KindOr       Kind = "or"
	KindAnd      Kind = "and"
	KindWhere    Kind = "where"
	KindSortBy   Kind = "sortBy"
	KindSelect   Kind = "select"
	KindLimit    Kind = "limit"
	KindFormat   Kind = "format"
)

// priorities ranks every kind. Lower ranks run first. Filters come before the
// sort so discarded rows are never sorted, and limit/format share the last
// slot, tied by input order.
var priorities = map[Kind]int{
	KindFilterIn: 1,
	KindOr:       1,
	KindAnd:      1,
	KindWhere:    1,
	KindSortBy:   3,
	KindSelect:   5,
	KindLimit:    10,
	KindFormat:   10,
}

// Priority returns the rank of kind and whether the kind is known.
func Priority(kind Kind) (int, bool) {
	p, ok := priorities[kind]
	return p, ok
}

// Kinds returns every known kind, ordered by priority and then by name.
func Kinds() []Kind {
	out := slices.Collect(maps.Keys(priorities))
	slices.SortFunc(out, func(a, b Kind) int {
		return cmp.Or(cmp.Compare(priorities[a], priorities[b]), cmp.Compare(a, b))
	})
	return out
}
