package keyspace

import (
	"context"
	"encoding/hex"
	"errors"
	"sort"
	"time"

	"github.com/uol/gobol"
	"github.com/uol/hashing"
	"github.com/uol/logh"

	"github.com/uol/cassakeyspace/lib/cassandra"
	"github.com/uol/cassakeyspace/lib/constants"
	"github.com/uol/cassakeyspace/lib/tsstats"
)

//
// A keyspace of the column-store: shapes the requests, stamps the writes and
// validates them against the cached description before calling the client.
//

const (
	cPackage string = "keyspace"

	fingerprintSize int = 16
)

// Keyspace - a named keyspace reached through a remote client
type Keyspace struct {
	client      cassandra.Client
	name        string
	description cassandra.Description
	level       cassandra.ConsistencyLevel
	logger      *logh.ContextualLogger
	stats       tsstats.Collector
	now         func() time.Time
}

// Option - configures a keyspace
type Option func(*Keyspace)

// WithStats - records the operation statistics on the given collector
func WithStats(c tsstats.Collector) Option {
	return func(ks *Keyspace) {
		ks.stats = tsstats.OrNoOp(c)
	}
}

// WithClock - overrides the clock used to stamp the writes
func WithClock(fn func() time.Time) Option {
	return func(ks *Keyspace) {
		if fn != nil {
			ks.now = fn
		}
	}
}

// New - creates a keyspace from an already fetched description
func New(
	client cassandra.Client,
	name string,
	description cassandra.Description,
	level cassandra.ConsistencyLevel,
	opts ...Option,
) *Keyspace {

	ks := &Keyspace{
		client:      client,
		name:        name,
		description: description.Copy(),
		level:       level,
		logger:      logh.CreateContextualLogger(constants.StringsPKG, cPackage, constants.StringsKeyspace, name),
		stats:       tsstats.NoOp{},
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(ks)
	}

	return ks
}

// Load - fetches the keyspace description using the client and creates the keyspace
func Load(
	ctx context.Context,
	client cassandra.Client,
	name string,
	level cassandra.ConsistencyLevel,
	opts ...Option,
) (*Keyspace, gobol.Error) {

	const function = "Load"

	describer, ok := client.(cassandra.Describer)
	if !ok {
		return nil, errInvalidRequest(function, "the client can not describe keyspaces")
	}

	description, err := describer.DescribeKeyspace(ctx, name)
	if err != nil {
		if errors.Is(err, cassandra.ErrNotFound) {
			return nil, errNotFound(function, "keyspace \""+name+"\" does not exist")
		}

		return nil, errTransport(function, err)
	}

	ks := New(client, name, description, level, opts...)

	if logh.InfoEnabled {
		fingerprint, err := ks.Fingerprint()
		ks.logger.Info().Str(constants.StringsFunc, function).Int("columnFamilies", len(description)).Str("fingerprint", fingerprint).Err(err).Msg("keyspace description loaded")
	}

	return ks, nil
}

// Name - the keyspace name
func (ks *Keyspace) Name() string {
	return ks.name
}

// ConsistencyLevel - the consistency level used by every operation
func (ks *Keyspace) ConsistencyLevel() cassandra.ConsistencyLevel {
	return ks.level
}

// Description - a copy of the cached keyspace description
func (ks *Keyspace) Description() cassandra.Description {
	return ks.description.Copy()
}

// Fingerprint - a short hash identifying the cached description
func (ks *Keyspace) Fingerprint() (string, error) {

	columnFamilies := make([]string, 0, len(ks.description))
	for cf := range ks.description {
		columnFamilies = append(columnFamilies, cf)
	}
	sort.Strings(columnFamilies)

	parameters := []interface{}{ks.name}
	for _, cf := range columnFamilies {
		attributes := ks.description[cf]
		keys := make([]string, 0, len(attributes))
		for k := range attributes {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parameters = append(parameters, cf)
		for _, k := range keys {
			parameters = append(parameters, k, attributes[k])
		}
	}

	hash, err := hashing.GenerateSHAKE128(fingerprintSize, parameters...)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(hash), nil
}

// timestamp - microseconds since the epoch
func (ks *Keyspace) timestamp() int64 {
	return ks.now().UnixNano() / int64(time.Microsecond)
}
