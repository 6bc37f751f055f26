package query

import (
	"context"

	"github.com/asaidimu/go-lego/core/record"
)

// Source produces the collection a query runs over. Implementations may read
// from anywhere (a database table, a file, a cache) as long as the whole
// collection is materialised in memory.
type Source interface {
	Collection(ctx context.Context) (record.Collection, error)
}

// StaticSource is a Source over a collection that is already in memory.
type StaticSource record.Collection

// Collection returns the wrapped collection.
func (s StaticSource) Collection(ctx context.Context) (record.Collection, error) {
	return record.Collection(s), nil
}
