package keyspace

import (
	"time"

	"github.com/uol/cassakeyspace/lib/constants"
	"github.com/uol/cassakeyspace/lib/tsstats"
)

func (ks *Keyspace) statsOperation(function, columnFamily string, d time.Duration) {

	ks.stats.FlattenMaxN(
		function,
		tsstats.Milliseconds(d),
		constants.StringsMetricKeyspaceOperationDuration,
		constants.StringsKeyspace, ks.name,
		constants.StringsColumnFamily, columnFamily,
		constants.StringsOperation, function,
	)

	ks.stats.FlattenCountIncN(
		function,
		constants.StringsMetricKeyspaceOperation,
		constants.StringsKeyspace, ks.name,
		constants.StringsColumnFamily, columnFamily,
		constants.StringsOperation, function,
	)
}

func (ks *Keyspace) statsOperationError(function, columnFamily string) {

	ks.stats.FlattenCountIncN(
		function,
		constants.StringsMetricKeyspaceOperationError,
		constants.StringsKeyspace, ks.name,
		constants.StringsColumnFamily, columnFamily,
		constants.StringsOperation, function,
	)
}
