package persistence

import (
	"context"

	"github.com/uol/cassakeyspace/lib/cassandra"
)

// Backend hides the underlying implementation of the column-store
type Backend interface {
	cassandra.Client
	cassandra.Describer

	// CreateColumnFamily should create (or update the attributes of) a
	// column family, creating its keyspace description when needed
	CreateColumnFamily(ctx context.Context, keyspace, name string, attributes map[string]string) error

	// Close should release the backend resources
	Close()
}
