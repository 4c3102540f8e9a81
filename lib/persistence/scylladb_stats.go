package persistence

import (
	"time"

	"github.com/uol/cassakeyspace/lib/constants"
	"github.com/uol/cassakeyspace/lib/tsstats"
)

type scyllaOperation string

const (
	scyllaCreate scyllaOperation = "create"
	scyllaInsert scyllaOperation = "insert"
	scyllaSelect scyllaOperation = "select"
	scyllaDelete scyllaOperation = "delete"
)

func (backend *Scylla) statsQuery(function, keyspace string, operation scyllaOperation, d time.Duration) {

	backend.stats.FlattenMaxN(
		function,
		tsstats.Milliseconds(d),
		constants.StringsMetricScyllaQueryDuration,
		constants.StringsKeyspace, keyspace,
		constants.StringsOperation, string(operation),
	)

	backend.stats.FlattenCountIncN(
		function,
		constants.StringsMetricScyllaQuery,
		constants.StringsKeyspace, keyspace,
		constants.StringsOperation, string(operation),
	)
}

func (backend *Scylla) statsQueryError(function, keyspace string, operation scyllaOperation) {

	backend.stats.FlattenCountIncN(
		function,
		constants.StringsMetricScyllaQueryError,
		constants.StringsKeyspace, keyspace,
		constants.StringsOperation, string(operation),
	)
}
