package cassandra

import (
	"fmt"
	"strings"
)

// ConsistencyLevel - how many replicas must acknowledge a read or a write
type ConsistencyLevel int

const (
	// ZERO - no acknowledgment, writes are asynchronous
	ZERO ConsistencyLevel = iota
	// ONE - one replica
	ONE
	// QUORUM - a quorum of all replicas
	QUORUM
	// DCQUORUM - a quorum of the local datacenter replicas
	DCQUORUM
	// DCQUORUMSYNC - a quorum on each datacenter
	DCQUORUMSYNC
	// ALL - every replica
	ALL
	// ANY - any node, hinted handoff included
	ANY
)

var consistencyNames = []string{
	"ZERO",
	"ONE",
	"QUORUM",
	"DCQUORUM",
	"DCQUORUMSYNC",
	"ALL",
	"ANY",
}

// String - the level name
func (c ConsistencyLevel) String() string {

	if c < ZERO || int(c) >= len(consistencyNames) {
		return fmt.Sprintf("ConsistencyLevel(%d)", int(c))
	}

	return consistencyNames[c]
}

// ParseConsistencyLevel - parses a level name (case insensitive)
func ParseConsistencyLevel(name string) (ConsistencyLevel, error) {

	upper := strings.ToUpper(strings.TrimSpace(name))

	for i, n := range consistencyNames {
		if n == upper {
			return ConsistencyLevel(i), nil
		}
	}

	return ZERO, fmt.Errorf("unknown consistency level: %q", name)
}

// MarshalText - encodes the level name
func (c ConsistencyLevel) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText - decodes the level name, used by the configuration parsers
func (c *ConsistencyLevel) UnmarshalText(text []byte) error {

	level, err := ParseConsistencyLevel(string(text))
	if err != nil {
		return err
	}

	*c = level

	return nil
}
