package query

import (
	"github.com/asaidimu/go-lego/core/record"
)

// ApplyFunc is the body of a transformation. It receives the working
// collection and returns the next one. It must not modify the records it is
// given; operations that change records work on copies made with
// record.Clone.
type ApplyFunc func(c record.Collection) (record.Collection, error)

// Transformation is one step of a query pipeline, tagged with the kind of
// operation it performs.
type Transformation struct {
	kind  Kind
	apply ApplyFunc
}

// NewTransformation wraps fn as a step of the given kind. The kind decides
// where the step runs; Query rejects kinds missing from the priority table.
func NewTransformation(kind Kind, fn ApplyFunc) Transformation {
	return Transformation{kind: kind, apply: fn}
}

// Kind returns the operation kind.
func (t Transformation) Kind() Kind {
	return t.kind
}

// Apply runs the transformation on c. A zero Transformation passes c through.
func (t Transformation) Apply(c record.Collection) (record.Collection, error) {
	if t.apply == nil {
		return c, nil
	}
	return t.apply(c)
}
