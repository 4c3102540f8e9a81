package constants

//
// Defines all available backend types.
//

// BackendType - the type of the storage backend
type BackendType string

const (
	// BackendMemory - keeps all data in memory (development and tests)
	BackendMemory BackendType = "memory"

	// BackendScylla - stores data in a scylla / cassandra cluster
	BackendScylla BackendType = "scylla"
)
