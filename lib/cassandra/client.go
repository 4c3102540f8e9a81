package cassandra

import (
	"context"
	"errors"
)

// ErrNotFound - returned by the clients when the addressed column, super column or keyspace does not exist
var ErrNotFound = errors.New("cassandra: not found")

// Client - the remote procedure interface of the column-store
type Client interface {
	// Insert writes a column under the parent of a row.
	Insert(ctx context.Context, keyspace, key string, parent ColumnParent, column Column, level ConsistencyLevel) error

	// Remove deletes everything addressed by the path with a write time lower or equal to the timestamp.
	Remove(ctx context.Context, keyspace, key string, path ColumnPath, timestamp int64, level ConsistencyLevel) error

	// Get reads a single column or super column.
	Get(ctx context.Context, keyspace, key string, path ColumnPath, level ConsistencyLevel) (ColumnOrSuperColumn, error)

	// GetSlice reads the columns of a row selected by the predicate.
	GetSlice(ctx context.Context, keyspace, key string, parent ColumnParent, predicate SlicePredicate, level ConsistencyLevel) ([]ColumnOrSuperColumn, error)

	// GetRangeSlice reads up to count rows between two keys (both inclusive, empty means unbounded).
	GetRangeSlice(ctx context.Context, keyspace string, parent ColumnParent, predicate SlicePredicate, startKey, finishKey string, count int32, level ConsistencyLevel) ([]KeySlice, error)

	// GetCount counts the columns under the parent of a row.
	GetCount(ctx context.Context, keyspace, key string, parent ColumnParent, level ConsistencyLevel) (int32, error)
}

// Describer - a client able to describe the column families of a keyspace
type Describer interface {
	DescribeKeyspace(ctx context.Context, keyspace string) (Description, error)
}
