// Package record defines the data model the query engine operates on: flat
// key-value records and ordered collections of them, together with the
// shallow-copy helpers every operation uses when it hands out new records.
package record

import (
	"fmt"
	"maps"
	"reflect"

	"github.com/asaidimu/go-lego/utils"
)

// Record is a single row of data. Records of one collection are expected to
// share a compatible set of fields, but nothing enforces it.
type Record map[string]any

// Collection is an ordered sequence of records.
type Collection []Record

// Clone returns a shallow copy of r. Field values are shared, not deep-copied.
// A nil record clones to an empty one.
func Clone(r Record) Record {
	copied := make(Record, len(r))
	maps.Copy(copied, r)
	return copied
}

// CloneCollection returns a new collection holding shallow copies of every
// record in c. The result is never nil.
func CloneCollection(c Collection) Collection {
	copied := make(Collection, len(c))
	for i, r := range c {
		copied[i] = Clone(r)
	}
	return copied
}

// Get returns the value stored under field and whether the field exists.
func (r Record) Get(field string) (any, bool) {
	v, ok := r[field]
	return v, ok
}

// Has reports whether the record carries field, even if its value is nil.
func (r Record) Has(field string) bool {
	_, ok := r[field]
	return ok
}

// Identity returns a token that is equal for two records only when they are
// the same map, not merely maps with equal contents. Every nil record has
// identity 0, so nil records cannot be told apart.
func Identity(r Record) uintptr {
	return reflect.ValueOf(r).Pointer()
}

// FromStructs converts a slice of structs into a collection, naming fields
// after their JSON tags.
func FromStructs[T any](items []T) (Collection, error) {
	out := make(Collection, 0, len(items))
	for i, item := range items {
		m, err := utils.StructToMap(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, Record(m))
	}
	return out, nil
}

// ToStructs decodes every record of c into a value of type T.
func ToStructs[T any](c Collection) ([]T, error) {
	out := make([]T, 0, len(c))
	for i, r := range c {
		v, err := utils.MapToStruct[T](r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}
