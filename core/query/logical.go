package query

import (
	"fmt"

	"github.com/asaidimu/go-lego/core/record"
)

// Or keeps a record when at least one of ops keeps it. Every op runs on the
// same working collection and membership is decided by record identity, so
// ops are expected to be filters that return the records they were given.
// The result follows the working collection's order. Nil records are dropped.
func Or(ops ...Transformation) Transformation {
	return combine(KindOr, ops, func(hits, total int) bool { return hits > 0 })
}

// And keeps a record only when every one of ops keeps it. With no ops every
// record survives.
func And(ops ...Transformation) Transformation {
	return combine(KindAnd, ops, func(hits, total int) bool { return hits == total })
}

// combine runs ops independently over the working collection, counts how many
// of the sub-results hold each record and keeps the records keep approves.
// Nil records share one identity, so they are never kept.
func combine(kind Kind, ops []Transformation, keep func(hits, total int) bool) Transformation {
	ops = append([]Transformation(nil), ops...)
	return NewTransformation(kind, func(c record.Collection) (record.Collection, error) {
		hits := make(map[uintptr]int, len(c))
		for i, op := range ops {
			result, err := op.Apply(c)
			if err != nil {
				return nil, fmt.Errorf("%s operand %d (%s): %w", kind, i, op.Kind(), err)
			}
			seen := make(map[uintptr]struct{}, len(result))
			for _, r := range result {
				if r == nil {
					continue
				}
				id := record.Identity(r)
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				hits[id]++
			}
		}

		out := make(record.Collection, 0, len(c))
		for _, r := range c {
			if r != nil && keep(hits[record.Identity(r)], len(ops)) {
				out = append(out, r)
			}
		}
		return out, nil
	})
}
