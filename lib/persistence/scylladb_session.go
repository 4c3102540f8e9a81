package persistence

import (
	"fmt"

	"github.com/gocql/gocql"
	"github.com/uol/funks"

	"github.com/uol/cassakeyspace/lib/cassandra"
)

// ScyllaSettings - the cluster connection settings
type ScyllaSettings struct {
	Hosts             []string
	Port              int
	Username          string
	Password          string
	ProtoVersion      int
	NumConns          int
	Timeout           funks.Duration
	ConnectTimeout    funks.Duration
	Datacenter        string
	ReplicationFactor int
}

// Validate - checks the mandatory settings
func (s *ScyllaSettings) Validate() error {

	if len(s.Hosts) == 0 {
		return fmt.Errorf("at least one scylla host is required")
	}

	if s.ReplicationFactor < 0 {
		return fmt.Errorf("replication factor can not be negative")
	}

	return nil
}

// NewScyllaSession - connects to the cluster
func NewScyllaSession(s *ScyllaSettings) (*gocql.Session, error) {

	if err := s.Validate(); err != nil {
		return nil, err
	}

	cluster := gocql.NewCluster(s.Hosts...)

	if s.Port > 0 {
		cluster.Port = s.Port
	}

	if s.ProtoVersion > 0 {
		cluster.ProtoVersion = s.ProtoVersion
	}

	if s.NumConns > 0 {
		cluster.NumConns = s.NumConns
	}

	if s.Timeout.Duration > 0 {
		cluster.Timeout = s.Timeout.Duration
	}

	if s.ConnectTimeout.Duration > 0 {
		cluster.ConnectTimeout = s.ConnectTimeout.Duration
	}

	if s.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: s.Username,
			Password: s.Password,
		}
	}

	return cluster.CreateSession()
}

// gocqlConsistency - maps the column-store levels to the native protocol ones
func gocqlConsistency(level cassandra.ConsistencyLevel) gocql.Consistency {

	switch level {
	case cassandra.ZERO, cassandra.ANY:
		return gocql.Any
	case cassandra.ONE:
		return gocql.One
	case cassandra.QUORUM:
		return gocql.Quorum
	case cassandra.DCQUORUM:
		return gocql.LocalQuorum
	case cassandra.DCQUORUMSYNC:
		return gocql.EachQuorum
	case cassandra.ALL:
		return gocql.All
	}

	return gocql.One
}
