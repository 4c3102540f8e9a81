package persistence

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/uol/logh"

	"github.com/uol/cassakeyspace/lib/cassandra"
	"github.com/uol/cassakeyspace/lib/constants"
)

//
// An in-memory column-store: last write wins by timestamp, removals leave
// tombstones, TTLs expire against the configured clock.
//

const structMemory string = "Memory"

type memCell struct {
	value     string
	timestamp int64
	ttl       int32
	expiresAt time.Time
	deleted   bool
}

func (c *memCell) live(now time.Time) bool {
	return !c.deleted && (c.expiresAt.IsZero() || now.Before(c.expiresAt))
}

type memRow struct {
	deletedAt      int64
	superDeletedAt map[string]int64
	// super column name (empty for standard column families) -> column name -> cell
	cells map[string]map[string]*memCell
}

func newMemRow() *memRow {
	return &memRow{
		deletedAt:      -1,
		superDeletedAt: map[string]int64{},
		cells:          map[string]map[string]*memCell{},
	}
}

type memKeyspace struct {
	description cassandra.Description
	// column family -> row key -> row
	rows map[string]map[string]*memRow
}

// Memory - an in-memory backend, safe for concurrent use
type Memory struct {
	mu        sync.RWMutex
	keyspaces map[string]*memKeyspace
	now       func() time.Time
	logger    *logh.ContextualLogger
}

// MemoryOption - configures the memory backend
type MemoryOption func(*Memory)

// WithMemoryClock - overrides the clock used to expire the columns
func WithMemoryClock(fn func() time.Time) MemoryOption {
	return func(m *Memory) {
		if fn != nil {
			m.now = fn
		}
	}
}

// NewMemory - creates an empty memory backend
func NewMemory(opts ...MemoryOption) *Memory {

	m := &Memory{
		keyspaces: map[string]*memKeyspace{},
		now:       time.Now,
		logger:    logh.CreateContextualLogger(constants.StringsPKG, cPackage, "backend", string(constants.BackendMemory)),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// CreateColumnFamily - creates the column family and its keyspace if needed
func (m *Memory) CreateColumnFamily(ctx context.Context, keyspace, name string, attributes map[string]string) error {

	m.mu.Lock()
	defer m.mu.Unlock()

	ks, ok := m.keyspaces[keyspace]
	if !ok {
		ks = &memKeyspace{
			description: cassandra.Description{},
			rows:        map[string]map[string]*memRow{},
		}
		m.keyspaces[keyspace] = ks
	}

	copied := make(map[string]string, len(attributes))
	for k, v := range attributes {
		copied[k] = v
	}

	ks.description[name] = copied
	if _, ok := ks.rows[name]; !ok {
		ks.rows[name] = map[string]*memRow{}
	}

	if logh.InfoEnabled {
		m.logger.Info().Str(constants.StringsKeyspace, keyspace).Str(constants.StringsColumnFamily, name).Msg("column family created")
	}

	return nil
}

// DescribeKeyspace - returns a copy of the keyspace description
func (m *Memory) DescribeKeyspace(ctx context.Context, keyspace string) (cassandra.Description, error) {

	m.mu.RLock()
	defer m.mu.RUnlock()

	ks, ok := m.keyspaces[keyspace]
	if !ok {
		return nil, cassandra.ErrNotFound
	}

	return ks.description.Copy(), nil
}

// Close - nothing to release
func (m *Memory) Close() {}

// columnFamily - returns the rows and the type of a column family, the caller must hold the lock
func (m *Memory) columnFamily(method, keyspace, columnFamily string) (map[string]*memRow, string, error) {

	ks, ok := m.keyspaces[keyspace]
	if !ok {
		return nil, "", errUnknownColumnFamily(method, structMemory, keyspace, columnFamily)
	}

	cfType, ok := ks.description.Type(columnFamily)
	if !ok {
		return nil, "", errUnknownColumnFamily(method, structMemory, keyspace, columnFamily)
	}

	return ks.rows[columnFamily], cfType, nil
}

// Insert - writes the column if it is newer than what is stored
func (m *Memory) Insert(ctx context.Context, keyspace, key string, parent cassandra.ColumnParent, column cassandra.Column, level cassandra.ConsistencyLevel) error {

	const method = "Insert"

	if err := ctx.Err(); err != nil {
		return err
	}

	if column.Name == "" {
		return errInvalid(method, structMemory, fmt.Errorf("a column name is required"))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rows, _, err := m.columnFamily(method, keyspace, parent.ColumnFamily)
	if err != nil {
		return err
	}

	row, ok := rows[key]
	if !ok {
		row = newMemRow()
		rows[key] = row
	}

	superColumn := parent.SuperColumn.String()

	if column.Timestamp <= row.deletedAt {
		return nil
	}

	if deletedAt, ok := row.superDeletedAt[superColumn]; ok && column.Timestamp <= deletedAt {
		return nil
	}

	columns, ok := row.cells[superColumn]
	if !ok {
		columns = map[string]*memCell{}
		row.cells[superColumn] = columns
	}

	if existing, ok := columns[column.Name]; ok {
		if existing.timestamp > column.Timestamp || (existing.deleted && existing.timestamp == column.Timestamp) {
			return nil
		}
	}

	cell := &memCell{
		value:     column.Value,
		timestamp: column.Timestamp,
		ttl:       column.TTL,
	}

	if column.TTL > 0 {
		cell.expiresAt = m.now().Add(time.Duration(column.TTL) * time.Second)
	}

	columns[column.Name] = cell

	return nil
}

// Remove - deletes the row, super column or column addressed by the path
func (m *Memory) Remove(ctx context.Context, keyspace, key string, path cassandra.ColumnPath, timestamp int64, level cassandra.ConsistencyLevel) error {

	const method = "Remove"

	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rows, _, err := m.columnFamily(method, keyspace, path.ColumnFamily)
	if err != nil {
		return err
	}

	row, ok := rows[key]
	if !ok {
		row = newMemRow()
		rows[key] = row
	}

	superColumn := path.SuperColumn.String()

	if column, ok := path.Column.Get(); ok {
		columns, ok := row.cells[superColumn]
		if !ok {
			columns = map[string]*memCell{}
			row.cells[superColumn] = columns
		}

		if existing, ok := columns[column]; ok && existing.timestamp > timestamp {
			return nil
		}

		columns[column] = &memCell{timestamp: timestamp, deleted: true}

		return nil
	}

	if path.SuperColumn.IsSet() {
		if timestamp > row.superDeletedAt[superColumn] {
			row.superDeletedAt[superColumn] = timestamp
		}
		purge(row.cells[superColumn], timestamp)

		return nil
	}

	if timestamp > row.deletedAt {
		row.deletedAt = timestamp
	}
	for _, columns := range row.cells {
		purge(columns, timestamp)
	}

	return nil
}

func purge(columns map[string]*memCell, timestamp int64) {
	for name, cell := range columns {
		if cell.timestamp <= timestamp {
			delete(columns, name)
		}
	}
}

// liveColumns - the sorted live columns under a super column name, the caller must hold the lock
func (m *Memory) liveColumns(row *memRow, superColumn string) []cassandra.Column {

	now := m.now()
	columns := []cassandra.Column{}

	for name, cell := range row.cells[superColumn] {
		if cell.live(now) {
			columns = append(columns, cassandra.Column{
				Name:      name,
				Value:     cell.value,
				Timestamp: cell.timestamp,
				TTL:       cell.ttl,
			})
		}
	}

	sortColumns(columns)

	return columns
}

// liveSuperColumns - the sorted super columns having live columns, the caller must hold the lock
func (m *Memory) liveSuperColumns(row *memRow) []cassandra.SuperColumn {

	superColumns := []cassandra.SuperColumn{}

	for name := range row.cells {
		if name == "" {
			continue
		}

		columns := m.liveColumns(row, name)
		if len(columns) > 0 {
			superColumns = append(superColumns, cassandra.SuperColumn{Name: name, Columns: columns})
		}
	}

	sortSuperColumns(superColumns)

	return superColumns
}

// Get - reads a column or a super column
func (m *Memory) Get(ctx context.Context, keyspace, key string, path cassandra.ColumnPath, level cassandra.ConsistencyLevel) (cassandra.ColumnOrSuperColumn, error) {

	const method = "Get"

	if err := ctx.Err(); err != nil {
		return cassandra.ColumnOrSuperColumn{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	rows, _, err := m.columnFamily(method, keyspace, path.ColumnFamily)
	if err != nil {
		return cassandra.ColumnOrSuperColumn{}, err
	}

	row, ok := rows[key]
	if !ok {
		return cassandra.ColumnOrSuperColumn{}, cassandra.ErrNotFound
	}

	superColumn := path.SuperColumn.String()

	if column, ok := path.Column.Get(); ok {
		for _, c := range m.liveColumns(row, superColumn) {
			if c.Name == column {
				return cassandra.ColumnOrSuperColumn{Column: c}, nil
			}
		}
		return cassandra.ColumnOrSuperColumn{}, cassandra.ErrNotFound
	}

	if !path.SuperColumn.IsSet() {
		return cassandra.ColumnOrSuperColumn{}, errInvalid(method, structMemory, errEmptyPath)
	}

	columns := m.liveColumns(row, superColumn)
	if len(columns) == 0 {
		return cassandra.ColumnOrSuperColumn{}, cassandra.ErrNotFound
	}

	return cassandra.ColumnOrSuperColumn{
		SuperColumn: cassandra.SuperColumn{Name: superColumn, Columns: columns},
	}, nil
}

// slice - the caller must hold the lock
func (m *Memory) slice(row *memRow, cfType string, parent cassandra.ColumnParent, predicate cassandra.SlicePredicate) ([]cassandra.ColumnOrSuperColumn, error) {

	if cfType == constants.StringsSuper && !parent.SuperColumn.IsSet() {
		return selectSuperColumns(m.liveSuperColumns(row), predicate)
	}

	return selectColumns(m.liveColumns(row, parent.SuperColumn.String()), predicate)
}

// GetSlice - reads the columns (or super columns) of a row selected by the predicate
func (m *Memory) GetSlice(ctx context.Context, keyspace, key string, parent cassandra.ColumnParent, predicate cassandra.SlicePredicate, level cassandra.ConsistencyLevel) ([]cassandra.ColumnOrSuperColumn, error) {

	const method = "GetSlice"

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	rows, cfType, err := m.columnFamily(method, keyspace, parent.ColumnFamily)
	if err != nil {
		return nil, err
	}

	row, ok := rows[key]
	if !ok {
		if _, err := selectIndexes(nil, predicate); err != nil {
			return nil, errInvalid(method, structMemory, err)
		}
		return []cassandra.ColumnOrSuperColumn{}, nil
	}

	result, err := m.slice(row, cfType, parent, predicate)
	if err != nil {
		return nil, errInvalid(method, structMemory, err)
	}

	return result, nil
}

// GetRangeSlice - reads the rows between two keys in key order, rows without live data are skipped
func (m *Memory) GetRangeSlice(
	ctx context.Context,
	keyspace string,
	parent cassandra.ColumnParent,
	predicate cassandra.SlicePredicate,
	startKey, finishKey string,
	count int32,
	level cassandra.ConsistencyLevel,
) ([]cassandra.KeySlice, error) {

	const method = "GetRangeSlice"

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	rows, cfType, err := m.columnFamily(method, keyspace, parent.ColumnFamily)
	if err != nil {
		return nil, err
	}

	if _, err := selectIndexes(nil, predicate); err != nil {
		return nil, errInvalid(method, structMemory, err)
	}

	keys := make([]string, 0, len(rows))
	for key := range rows {
		if keyInRange(key, startKey, finishKey) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	result := []cassandra.KeySlice{}
	for _, key := range keys {
		if count > 0 && int32(len(result)) >= count {
			break
		}

		columns, err := m.slice(rows[key], cfType, parent, predicate)
		if err != nil {
			return nil, errInvalid(method, structMemory, err)
		}

		if len(columns) == 0 {
			continue
		}

		result = append(result, cassandra.KeySlice{Key: key, Columns: columns})
	}

	return result, nil
}

// GetCount - counts the live columns (or super columns) under the parent
func (m *Memory) GetCount(ctx context.Context, keyspace, key string, parent cassandra.ColumnParent, level cassandra.ConsistencyLevel) (int32, error) {

	result, err := m.GetSlice(ctx, keyspace, key, parent, cassandra.SliceRange{}, level)
	if err != nil {
		return 0, err
	}

	return int32(len(result)), nil
}
