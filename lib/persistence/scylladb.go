package persistence

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gocql/gocql"
	"github.com/uol/logh"

	"github.com/uol/cassakeyspace/lib/cassandra"
	"github.com/uol/cassakeyspace/lib/constants"
	"github.com/uol/cassakeyspace/lib/tsstats"
)

//
// Each column family is a table partitioned by the row key and clustered by
// super column and column name; standard column families use an empty super
// column. The keyspace description lives in the column_families table.
//

const (
	structScylla string = "Scylla"

	tableColumnFamilies string = "column_families"

	formatCreateKeyspace string = `CREATE KEYSPACE IF NOT EXISTS %s WITH replication = {'class': 'NetworkTopologyStrategy', '%s': %d}`

	formatCreateDescription string = `CREATE TABLE IF NOT EXISTS %s.` + tableColumnFamilies + ` (name text PRIMARY KEY, attributes map<text, text>)`

	formatCreateColumnFamily string = `CREATE TABLE IF NOT EXISTS %s.%s (key text, super_column text, column_name text, value blob, PRIMARY KEY (key, super_column, column_name))`

	formatInsertDescription string = `INSERT INTO %s.` + tableColumnFamilies + ` (name, attributes) VALUES (?, ?)`

	formatSelectDescription string = `SELECT name, attributes FROM %s.` + tableColumnFamilies

	formatInsertColumn string = `INSERT INTO %s.%s (key, super_column, column_name, value) VALUES (?, ?, ?, ?) USING TIMESTAMP ? AND TTL ?`

	formatDeleteColumn string = `DELETE FROM %s.%s USING TIMESTAMP ? WHERE key = ? AND super_column = ? AND column_name = ?`

	formatDeleteSuperColumn string = `DELETE FROM %s.%s USING TIMESTAMP ? WHERE key = ? AND super_column = ?`

	formatDeleteRow string = `DELETE FROM %s.%s USING TIMESTAMP ? WHERE key = ?`

	selectCells string = `SELECT column_name, value, WRITETIME(value), TTL(value) FROM %s.%s WHERE key = ? AND super_column = ?`

	selectRowCells string = `SELECT super_column, column_name, value, WRITETIME(value), TTL(value) FROM %s.%s WHERE key = ?`

	selectRangeCells string = `SELECT key, super_column, column_name, value, WRITETIME(value), TTL(value) FROM %s.%s`

	formatCountColumns string = `SELECT COUNT(*) FROM %s.%s WHERE key = ? AND super_column = ?`
)

// Scylla - a backend over a gocql session, safe for concurrent use
type Scylla struct {
	session      *gocql.Session
	logger       *logh.ContextualLogger
	stats        tsstats.Collector
	descriptions sync.Map
}

// NewScylla - creates the backend over an open session
func NewScylla(session *gocql.Session, stats tsstats.Collector) *Scylla {

	return &Scylla{
		session: session,
		logger:  logh.CreateContextualLogger(constants.StringsPKG, cPackage, "backend", string(constants.BackendScylla)),
		stats:   tsstats.OrNoOp(stats),
	}
}

// quote - identifiers are case sensitive in the column-store
func quote(identifier string) string {
	return `"` + strings.Replace(identifier, `"`, `""`, -1) + `"`
}

func (backend *Scylla) query(ctx context.Context, level cassandra.ConsistencyLevel, stmt string, values ...interface{}) *gocql.Query {
	return backend.session.Query(stmt, values...).WithContext(ctx).Consistency(gocqlConsistency(level))
}

// failed - records the error and converts it
func (backend *Scylla) failed(method, keyspace string, operation scyllaOperation, err error) error {

	if err == gocql.ErrNotFound {
		return cassandra.ErrNotFound
	}

	backend.statsQueryError(method, keyspace, operation)

	if logh.ErrorEnabled {
		backend.logger.Error().Str(constants.StringsFunc, method).Str(constants.StringsKeyspace, keyspace).Err(err).Send()
	}

	return errPersist(method, structScylla, err)
}

// CreateKeyspace - creates the keyspace replicated in the datacenter
func (backend *Scylla) CreateKeyspace(ctx context.Context, keyspace, datacenter string, replicationFactor int) error {

	const method = "CreateKeyspace"

	if replicationFactor <= 0 {
		replicationFactor = 1
	}

	start := time.Now()
	err := backend.session.Query(
		fmt.Sprintf(formatCreateKeyspace, quote(keyspace), datacenter, replicationFactor),
	).WithContext(ctx).Exec()
	if err != nil {
		return backend.failed(method, keyspace, scyllaCreate, err)
	}

	backend.statsQuery(method, keyspace, scyllaCreate, time.Since(start))

	if logh.InfoEnabled {
		backend.logger.Info().Str(constants.StringsKeyspace, keyspace).Msg("keyspace created")
	}

	return nil
}

// CreateColumnFamily - creates the column family table and registers its attributes
func (backend *Scylla) CreateColumnFamily(ctx context.Context, keyspace, name string, attributes map[string]string) error {

	const method = "CreateColumnFamily"

	start := time.Now()

	statements := []string{
		fmt.Sprintf(formatCreateDescription, quote(keyspace)),
		fmt.Sprintf(formatCreateColumnFamily, quote(keyspace), quote(name)),
	}

	for _, stmt := range statements {
		if err := backend.session.Query(stmt).WithContext(ctx).Exec(); err != nil {
			return backend.failed(method, keyspace, scyllaCreate, err)
		}
	}

	err := backend.session.Query(
		fmt.Sprintf(formatInsertDescription, quote(keyspace)),
		name, attributes,
	).WithContext(ctx).Consistency(gocql.All).Exec()
	if err != nil {
		return backend.failed(method, keyspace, scyllaInsert, err)
	}

	backend.descriptions.Delete(keyspace)
	backend.statsQuery(method, keyspace, scyllaCreate, time.Since(start))

	if logh.InfoEnabled {
		backend.logger.Info().Str(constants.StringsKeyspace, keyspace).Str(constants.StringsColumnFamily, name).Msg("column family created")
	}

	return nil
}

// DescribeKeyspace - reads the column families table, the result is cached until a column family is created
func (backend *Scylla) DescribeKeyspace(ctx context.Context, keyspace string) (cassandra.Description, error) {

	const method = "DescribeKeyspace"

	if cached, ok := backend.descriptions.Load(keyspace); ok {
		return cached.(cassandra.Description).Copy(), nil
	}

	start := time.Now()
	iter := backend.session.Query(fmt.Sprintf(formatSelectDescription, quote(keyspace))).WithContext(ctx).Iter()

	var (
		name        string
		attributes  map[string]string
		description = cassandra.Description{}
	)

	for iter.Scan(&name, &attributes) {
		description[name] = attributes
		attributes = nil
	}

	if err := iter.Close(); err != nil {
		return nil, backend.failed(method, keyspace, scyllaSelect, err)
	}

	backend.statsQuery(method, keyspace, scyllaSelect, time.Since(start))

	if len(description) == 0 {
		return nil, cassandra.ErrNotFound
	}

	backend.descriptions.Store(keyspace, description)

	return description.Copy(), nil
}

// Close - closes the session
func (backend *Scylla) Close() {
	backend.session.Close()
}

func (backend *Scylla) columnFamilyType(ctx context.Context, method, keyspace, columnFamily string) (string, error) {

	description, err := backend.DescribeKeyspace(ctx, keyspace)
	if err == cassandra.ErrNotFound {
		return "", errUnknownColumnFamily(method, structScylla, keyspace, columnFamily)
	}
	if err != nil {
		return "", err
	}

	cfType, ok := description.Type(columnFamily)
	if !ok {
		return "", errUnknownColumnFamily(method, structScylla, keyspace, columnFamily)
	}

	return cfType, nil
}

// Insert - writes the column with the client timestamp
func (backend *Scylla) Insert(ctx context.Context, keyspace, key string, parent cassandra.ColumnParent, column cassandra.Column, level cassandra.ConsistencyLevel) error {

	const method = "Insert"

	if column.Name == "" {
		return errInvalid(method, structScylla, fmt.Errorf("a column name is required"))
	}

	if _, err := backend.columnFamilyType(ctx, method, keyspace, parent.ColumnFamily); err != nil {
		return err
	}

	start := time.Now()
	err := backend.query(
		ctx, level,
		fmt.Sprintf(formatInsertColumn, quote(keyspace), quote(parent.ColumnFamily)),
		key, parent.SuperColumn.String(), column.Name, []byte(column.Value), column.Timestamp, int(column.TTL),
	).Exec()
	if err != nil {
		return backend.failed(method, keyspace, scyllaInsert, err)
	}

	backend.statsQuery(method, keyspace, scyllaInsert, time.Since(start))

	return nil
}

// Remove - deletes the row, super column or column addressed by the path
func (backend *Scylla) Remove(ctx context.Context, keyspace, key string, path cassandra.ColumnPath, timestamp int64, level cassandra.ConsistencyLevel) error {

	const method = "Remove"

	if _, err := backend.columnFamilyType(ctx, method, keyspace, path.ColumnFamily); err != nil {
		return err
	}

	table := quote(path.ColumnFamily)
	ks := quote(keyspace)

	var q *gocql.Query
	if column, ok := path.Column.Get(); ok {
		q = backend.query(ctx, level, fmt.Sprintf(formatDeleteColumn, ks, table), timestamp, key, path.SuperColumn.String(), column)
	} else if superColumn, ok := path.SuperColumn.Get(); ok {
		q = backend.query(ctx, level, fmt.Sprintf(formatDeleteSuperColumn, ks, table), timestamp, key, superColumn)
	} else {
		q = backend.query(ctx, level, fmt.Sprintf(formatDeleteRow, ks, table), timestamp, key)
	}

	start := time.Now()
	if err := q.Exec(); err != nil {
		return backend.failed(method, keyspace, scyllaDelete, err)
	}

	backend.statsQuery(method, keyspace, scyllaDelete, time.Since(start))

	return nil
}

// readColumns - reads the columns under a super column name, the predicate is pushed to the query
func (backend *Scylla) readColumns(
	ctx context.Context,
	method, keyspace, columnFamily, key, superColumn string,
	predicate cassandra.SlicePredicate,
	level cassandra.ConsistencyLevel,
) ([]cassandra.Column, error) {

	stmt := fmt.Sprintf(selectCells, quote(keyspace), quote(columnFamily))
	values := []interface{}{key, superColumn}

	switch p := predicate.(type) {
	case cassandra.ColumnNames:
		if len(p) == 0 {
			return []cassandra.Column{}, nil
		}
		stmt += ` AND column_name IN ?`
		values = append(values, []string(p))

	case cassandra.SliceRange:
		lower, upper := p.Start, p.Finish
		if p.Reversed {
			lower, upper = p.Finish, p.Start
		}
		if lower != "" {
			stmt += ` AND column_name >= ?`
			values = append(values, lower)
		}
		if upper != "" {
			stmt += ` AND column_name <= ?`
			values = append(values, upper)
		}
		if p.Reversed {
			stmt += ` ORDER BY super_column DESC, column_name DESC`
		}
		if p.Count > 0 {
			stmt += fmt.Sprintf(` LIMIT %d`, p.Count)
		}

	case nil:

	default:
		return nil, errInvalid(method, structScylla, errUnknownPredicate)
	}

	start := time.Now()
	iter := backend.query(ctx, level, stmt, values...).Iter()

	var (
		column  cassandra.Column
		value   []byte
		ttl     int
		columns = []cassandra.Column{}
	)

	for iter.Scan(&column.Name, &value, &column.Timestamp, &ttl) {
		column.Value = string(value)
		column.TTL = int32(ttl)
		columns = append(columns, column)
	}

	if err := iter.Close(); err != nil {
		return nil, backend.failed(method, keyspace, scyllaSelect, err)
	}

	backend.statsQuery(method, keyspace, scyllaSelect, time.Since(start))

	return columns, nil
}

// readSuperColumns - reads every super column of a row, in name order
func (backend *Scylla) readSuperColumns(
	ctx context.Context,
	method, keyspace, columnFamily, key string,
	level cassandra.ConsistencyLevel,
) ([]cassandra.SuperColumn, error) {

	start := time.Now()
	iter := backend.query(ctx, level, fmt.Sprintf(selectRowCells, quote(keyspace), quote(columnFamily)), key).Iter()

	var (
		superColumn string
		column      cassandra.Column
		value       []byte
		ttl         int
		grouper     = superColumnGrouper{}
	)

	for iter.Scan(&superColumn, &column.Name, &value, &column.Timestamp, &ttl) {
		column.Value = string(value)
		column.TTL = int32(ttl)
		grouper.add(superColumn, column)
	}

	if err := iter.Close(); err != nil {
		return nil, backend.failed(method, keyspace, scyllaSelect, err)
	}

	backend.statsQuery(method, keyspace, scyllaSelect, time.Since(start))

	return grouper.superColumns, nil
}

// superColumnGrouper - groups cells arriving in clustering order
type superColumnGrouper struct {
	superColumns []cassandra.SuperColumn
}

func (g *superColumnGrouper) add(superColumn string, column cassandra.Column) {

	if superColumn == "" {
		return
	}

	last := len(g.superColumns) - 1
	if last < 0 || g.superColumns[last].Name != superColumn {
		g.superColumns = append(g.superColumns, cassandra.SuperColumn{Name: superColumn})
		last++
	}

	g.superColumns[last].Columns = append(g.superColumns[last].Columns, column)
}

// Get - reads a column or a super column
func (backend *Scylla) Get(ctx context.Context, keyspace, key string, path cassandra.ColumnPath, level cassandra.ConsistencyLevel) (cassandra.ColumnOrSuperColumn, error) {

	const method = "Get"

	if _, err := backend.columnFamilyType(ctx, method, keyspace, path.ColumnFamily); err != nil {
		return cassandra.ColumnOrSuperColumn{}, err
	}

	superColumn := path.SuperColumn.String()

	if column, ok := path.Column.Get(); ok {
		columns, err := backend.readColumns(ctx, method, keyspace, path.ColumnFamily, key, superColumn, cassandra.ColumnNames{column}, level)
		if err != nil {
			return cassandra.ColumnOrSuperColumn{}, err
		}
		if len(columns) == 0 {
			return cassandra.ColumnOrSuperColumn{}, cassandra.ErrNotFound
		}
		return cassandra.ColumnOrSuperColumn{Column: columns[0]}, nil
	}

	if !path.SuperColumn.IsSet() {
		return cassandra.ColumnOrSuperColumn{}, errInvalid(method, structScylla, errEmptyPath)
	}

	columns, err := backend.readColumns(ctx, method, keyspace, path.ColumnFamily, key, superColumn, nil, level)
	if err != nil {
		return cassandra.ColumnOrSuperColumn{}, err
	}

	if len(columns) == 0 {
		return cassandra.ColumnOrSuperColumn{}, cassandra.ErrNotFound
	}

	return cassandra.ColumnOrSuperColumn{
		SuperColumn: cassandra.SuperColumn{Name: superColumn, Columns: columns},
	}, nil
}

// GetSlice - reads the columns (or super columns) of a row selected by the predicate
func (backend *Scylla) GetSlice(ctx context.Context, keyspace, key string, parent cassandra.ColumnParent, predicate cassandra.SlicePredicate, level cassandra.ConsistencyLevel) ([]cassandra.ColumnOrSuperColumn, error) {

	const method = "GetSlice"

	if _, err := selectIndexes(nil, predicate); err != nil {
		return nil, errInvalid(method, structScylla, err)
	}

	cfType, err := backend.columnFamilyType(ctx, method, keyspace, parent.ColumnFamily)
	if err != nil {
		return nil, err
	}

	if cfType == constants.StringsSuper && !parent.SuperColumn.IsSet() {
		superColumns, err := backend.readSuperColumns(ctx, method, keyspace, parent.ColumnFamily, key, level)
		if err != nil {
			return nil, err
		}
		return selectSuperColumns(superColumns, predicate)
	}

	columns, err := backend.readColumns(ctx, method, keyspace, parent.ColumnFamily, key, parent.SuperColumn.String(), predicate, level)
	if err != nil {
		return nil, err
	}

	result := make([]cassandra.ColumnOrSuperColumn, len(columns))
	for i, c := range columns {
		result[i] = cassandra.ColumnOrSuperColumn{Column: c}
	}

	return result, nil
}

// GetRangeSlice - scans the rows by token between the two keys
func (backend *Scylla) GetRangeSlice(
	ctx context.Context,
	keyspace string,
	parent cassandra.ColumnParent,
	predicate cassandra.SlicePredicate,
	startKey, finishKey string,
	count int32,
	level cassandra.ConsistencyLevel,
) ([]cassandra.KeySlice, error) {

	const method = "GetRangeSlice"

	if _, err := selectIndexes(nil, predicate); err != nil {
		return nil, errInvalid(method, structScylla, err)
	}

	cfType, err := backend.columnFamilyType(ctx, method, keyspace, parent.ColumnFamily)
	if err != nil {
		return nil, err
	}

	stmt := fmt.Sprintf(selectRangeCells, quote(keyspace), quote(parent.ColumnFamily))
	conditions := []string{}
	values := []interface{}{}

	if startKey != "" {
		conditions = append(conditions, `token(key) >= token(?)`)
		values = append(values, startKey)
	}

	if finishKey != "" {
		conditions = append(conditions, `token(key) <= token(?)`)
		values = append(values, finishKey)
	}

	if len(conditions) > 0 {
		stmt += ` WHERE ` + strings.Join(conditions, ` AND `)
	}

	superMode := cfType == constants.StringsSuper && !parent.SuperColumn.IsSet()
	wanted := parent.SuperColumn.String()

	result := []cassandra.KeySlice{}

	var (
		currentKey string
		columns    []cassandra.Column
		grouper    superColumnGrouper
		started    bool
		flushErr   error
	)

	flush := func() {
		if !started || flushErr != nil {
			return
		}

		var (
			selected []cassandra.ColumnOrSuperColumn
			err      error
		)

		if superMode {
			selected, err = selectSuperColumns(grouper.superColumns, predicate)
		} else {
			selected, err = selectColumns(columns, predicate)
		}

		if err != nil {
			flushErr = err
			return
		}

		if len(selected) > 0 {
			result = append(result, cassandra.KeySlice{Key: currentKey, Columns: selected})
		}
	}

	full := func() bool {
		return count > 0 && int32(len(result)) >= count
	}

	start := time.Now()
	iter := backend.query(ctx, level, stmt, values...).Iter()

	var (
		key         string
		superColumn string
		column      cassandra.Column
		value       []byte
		ttl         int
	)

	for !full() && iter.Scan(&key, &superColumn, &column.Name, &value, &column.Timestamp, &ttl) {

		if !started || key != currentKey {
			flush()
			if full() {
				break
			}
			currentKey = key
			columns = nil
			grouper = superColumnGrouper{}
			started = true
		}

		column.Value = string(value)
		column.TTL = int32(ttl)

		if superMode {
			grouper.add(superColumn, column)
		} else if superColumn == wanted {
			columns = append(columns, column)
		}
	}

	if !full() {
		flush()
	}

	if err := iter.Close(); err != nil {
		return nil, backend.failed(method, keyspace, scyllaSelect, err)
	}

	if flushErr != nil {
		return nil, errInvalid(method, structScylla, flushErr)
	}

	backend.statsQuery(method, keyspace, scyllaSelect, time.Since(start))

	return result, nil
}

// GetCount - counts the columns (or super columns) under the parent
func (backend *Scylla) GetCount(ctx context.Context, keyspace, key string, parent cassandra.ColumnParent, level cassandra.ConsistencyLevel) (int32, error) {

	const method = "GetCount"

	cfType, err := backend.columnFamilyType(ctx, method, keyspace, parent.ColumnFamily)
	if err != nil {
		return 0, err
	}

	if cfType == constants.StringsSuper && !parent.SuperColumn.IsSet() {
		superColumns, err := backend.readSuperColumns(ctx, method, keyspace, parent.ColumnFamily, key, level)
		if err != nil {
			return 0, err
		}
		return int32(len(superColumns)), nil
	}

	var count int64

	start := time.Now()
	err = backend.query(
		ctx, level,
		fmt.Sprintf(formatCountColumns, quote(keyspace), quote(parent.ColumnFamily)),
		key, parent.SuperColumn.String(),
	).Scan(&count)
	if err != nil {
		return 0, backend.failed(method, keyspace, scyllaSelect, err)
	}

	backend.statsQuery(method, keyspace, scyllaSelect, time.Since(start))

	return int32(count), nil
}
