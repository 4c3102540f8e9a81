package constants

const (
	// StringsEmpty - a empty space
	StringsEmpty = ""

	// StringsPKG - the package abbreviation
	StringsPKG = "pkg"

	// StringsFunc - the function abbreviation
	StringsFunc = "func"

	// StringsKeyspace - the keyspace tag/field name
	StringsKeyspace = "keyspace"

	// StringsColumnFamily - the column family tag/field name
	StringsColumnFamily = "column_family"

	// StringsSuperColumn - the super column field name
	StringsSuperColumn = "super_column"

	// StringsColumn - the column field name
	StringsColumn = "column"

	// StringsKey - the row key field name
	StringsKey = "key"

	// StringsOperation - the operation tag name
	StringsOperation = "operation"

	// StringsType - the column family type attribute in a keyspace description
	StringsType = "Type"

	// StringsStandard - the standard column family type
	StringsStandard = "Standard"

	// StringsSuper - the super column family type
	StringsSuper = "Super"

	// StringsMetricKeyspaceOperation - counts the keyspace operations
	StringsMetricKeyspaceOperation = "keyspace.operation"

	// StringsMetricKeyspaceOperationDuration - the keyspace operation duration
	StringsMetricKeyspaceOperationDuration = "keyspace.operation.duration"

	// StringsMetricKeyspaceOperationError - counts the keyspace operation errors
	StringsMetricKeyspaceOperationError = "keyspace.operation.error"

	// StringsMetricScyllaQuery - counts the scylla queries
	StringsMetricScyllaQuery = "scylla.query"

	// StringsMetricScyllaQueryDuration - the scylla query duration
	StringsMetricScyllaQueryDuration = "scylla.query.duration"

	// StringsMetricScyllaQueryError - counts the scylla query errors
	StringsMetricScyllaQueryError = "scylla.query.error"

	// StringsMetricHTTPRequest - counts the rest requests
	StringsMetricHTTPRequest = "http.request"

	// StringsMetricHTTPRequestDuration - the rest request duration
	StringsMetricHTTPRequestDuration = "http.request.duration"

	// StringsMethod - the http method tag name
	StringsMethod = "method"

	// StringsStatus - the http status tag name
	StringsStatus = "status"
)
