// Package cassandra holds the request and response structures of the
// column-store remote procedure interface (paths, parents, predicates,
// columns, super columns and key slices) together with the Client contract
// every backend implements. Nothing in this package talks to the network.
package cassandra
