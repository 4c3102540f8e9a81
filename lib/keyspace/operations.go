package keyspace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uol/gobol"
	"github.com/uol/logh"

	"github.com/uol/cassakeyspace/lib/cassandra"
	"github.com/uol/cassakeyspace/lib/constants"
	"github.com/uol/cassakeyspace/lib/tserr"
)

// rejected - logs and counts a request refused before reaching the client
func (ks *Keyspace) rejected(function, columnFamily string, gerr gobol.Error) gobol.Error {

	ks.statsOperationError(function, columnFamily)

	if logh.DebugEnabled {
		ks.logger.Debug().Str(constants.StringsFunc, function).Str(constants.StringsColumnFamily, columnFamily).Err(gerr).Msg("request rejected")
	}

	return gerr
}

// called - records the client call and converts its error
func (ks *Keyspace) called(function, columnFamily string, start time.Time, err error) gobol.Error {

	if err == nil {
		ks.statsOperation(function, columnFamily, time.Since(start))
		return nil
	}

	ks.statsOperationError(function, columnFamily)

	if errors.Is(err, cassandra.ErrNotFound) {
		if logh.DebugEnabled {
			ks.logger.Debug().Str(constants.StringsFunc, function).Str(constants.StringsColumnFamily, columnFamily).Msg("not found")
		}
		return errNotFoundFrom(function, err)
	}

	if tserr.HasCode(err, constants.ErrorCodeInvalidRequest) {
		if logh.DebugEnabled {
			ks.logger.Debug().Str(constants.StringsFunc, function).Str(constants.StringsColumnFamily, columnFamily).Err(err).Msg("request refused by the client")
		}
		return errInvalidRequestFrom(function, err)
	}

	if logh.ErrorEnabled {
		ks.logger.Error().Str(constants.StringsFunc, function).Str(constants.StringsColumnFamily, columnFamily).Err(err).Send()
	}

	return errTransport(function, err)
}

// InsertColumn - inserts a column in a column family, inside a super column if its name is not empty
func (ks *Keyspace) InsertColumn(ctx context.Context, key, columnFamily, superColumn, column, value string, ttl int32) gobol.Error {

	const function = "InsertColumn"

	parent := cassandra.NewColumnParent(columnFamily, superColumn)

	col := cassandra.Column{
		Name:      column,
		Value:     value,
		Timestamp: ks.timestamp(),
		TTL:       ttl,
	}

	if gerr := ValidateColumnParent(ks.description, parent); gerr != nil {
		return ks.rejected(function, columnFamily, gerr)
	}

	start := time.Now()
	err := ks.client.Insert(ctx, ks.name, key, parent, col, ks.level)

	return ks.called(function, columnFamily, start, err)
}

// Insert - inserts a column directly in a column family
func (ks *Keyspace) Insert(ctx context.Context, key, columnFamily, column, value string) gobol.Error {
	return ks.InsertColumn(ctx, key, columnFamily, constants.StringsEmpty, column, value, 0)
}

// Remove - removes everything matching the column path
func (ks *Keyspace) Remove(ctx context.Context, key string, path cassandra.ColumnPath) gobol.Error {

	const function = "Remove"

	if gerr := ValidateColumnPath(ks.description, path); gerr != nil {
		return ks.rejected(function, path.ColumnFamily, gerr)
	}

	start := time.Now()
	err := ks.client.Remove(ctx, ks.name, key, path, ks.timestamp(), ks.level)

	return ks.called(function, path.ColumnFamily, start, err)
}

// RemoveColumn - removes a column, a super column (empty column name) or a column inside a super column
func (ks *Keyspace) RemoveColumn(ctx context.Context, key, columnFamily, superColumn, column string) gobol.Error {
	return ks.Remove(ctx, key, cassandra.NewColumnPath(columnFamily, superColumn, column))
}

// RemoveSuperColumn - removes a super column and all the columns under it
func (ks *Keyspace) RemoveSuperColumn(ctx context.Context, key, columnFamily, superColumn string) gobol.Error {
	return ks.RemoveColumn(ctx, key, columnFamily, superColumn, constants.StringsEmpty)
}

// GetColumn - reads a column, possibly inside a super column; an absent column is an error
func (ks *Keyspace) GetColumn(ctx context.Context, key, columnFamily, superColumn, column string) (cassandra.Column, gobol.Error) {

	const function = "GetColumn"

	path := cassandra.ColumnPath{
		ColumnFamily: columnFamily,
		SuperColumn:  cassandra.NewName(superColumn),
		Column:       cassandra.NewName(column),
	}

	if gerr := ValidateColumnPath(ks.description, path); gerr != nil {
		return cassandra.Column{}, ks.rejected(function, columnFamily, gerr)
	}

	start := time.Now()
	cosc, err := ks.client.Get(ctx, ks.name, key, path, ks.level)
	if gerr := ks.called(function, columnFamily, start, err); gerr != nil {
		return cassandra.Column{}, gerr
	}

	if !cosc.IsColumn() {
		return cassandra.Column{}, errNotFound(function, fmt.Sprintf("column \"%s\" not found in row \"%s\"", column, key))
	}

	return cosc.Column, nil
}

// GetColumnValue - reads only the value of a column
func (ks *Keyspace) GetColumnValue(ctx context.Context, key, columnFamily, superColumn, column string) (string, gobol.Error) {

	col, gerr := ks.GetColumn(ctx, key, columnFamily, superColumn, column)
	if gerr != nil {
		return constants.StringsEmpty, gerr
	}

	return col.Value, nil
}

// GetSuperColumn - reads a super column of a super column family; an absent super column is an error
func (ks *Keyspace) GetSuperColumn(ctx context.Context, key, columnFamily, superColumn string) (cassandra.SuperColumn, gobol.Error) {

	const function = "GetSuperColumn"

	path := cassandra.ColumnPath{
		ColumnFamily: columnFamily,
		SuperColumn:  cassandra.NewName(superColumn),
	}

	if gerr := ValidateSuperColumnPath(ks.description, path); gerr != nil {
		return cassandra.SuperColumn{}, ks.rejected(function, columnFamily, gerr)
	}

	start := time.Now()
	cosc, err := ks.client.Get(ctx, ks.name, key, path, ks.level)
	if gerr := ks.called(function, columnFamily, start, err); gerr != nil {
		return cassandra.SuperColumn{}, gerr
	}

	if !cosc.IsSuperColumn() {
		return cassandra.SuperColumn{}, errNotFound(function, fmt.Sprintf("super column \"%s\" not found in row \"%s\"", superColumn, key))
	}

	return cosc.SuperColumn, nil
}

// GetSliceNames - reads the named columns of a row
func (ks *Keyspace) GetSliceNames(ctx context.Context, key string, parent cassandra.ColumnParent, names cassandra.ColumnNames) ([]cassandra.Column, gobol.Error) {
	return ks.getSlice(ctx, "GetSliceNames", key, parent, names)
}

// GetSliceRange - reads the columns of a row inside a range of names
func (ks *Keyspace) GetSliceRange(ctx context.Context, key string, parent cassandra.ColumnParent, sliceRange cassandra.SliceRange) ([]cassandra.Column, gobol.Error) {
	return ks.getSlice(ctx, "GetSliceRange", key, parent, sliceRange)
}

func (ks *Keyspace) getSlice(ctx context.Context, function, key string, parent cassandra.ColumnParent, predicate cassandra.SlicePredicate) ([]cassandra.Column, gobol.Error) {

	if gerr := ValidateReadParent(ks.description, parent); gerr != nil {
		return nil, ks.rejected(function, parent.ColumnFamily, gerr)
	}

	start := time.Now()
	result, err := ks.client.GetSlice(ctx, ks.name, key, parent, predicate, ks.level)
	if gerr := ks.called(function, parent.ColumnFamily, start, err); gerr != nil {
		return nil, gerr
	}

	return columnList(result), nil
}

// GetRangeSlice - reads the columns of the rows between two keys, mapped by row key
func (ks *Keyspace) GetRangeSlice(
	ctx context.Context,
	parent cassandra.ColumnParent,
	predicate cassandra.SlicePredicate,
	startKey, finishKey string,
	rowCount int32,
) (map[string][]cassandra.Column, gobol.Error) {

	keySlices, gerr := ks.getRangeSlice(ctx, "GetRangeSlice", parent, predicate, startKey, finishKey, rowCount)
	if gerr != nil {
		return nil, gerr
	}

	rows := make(map[string][]cassandra.Column, len(keySlices))
	for _, slice := range keySlices {
		if _, exists := rows[slice.Key]; !exists {
			rows[slice.Key] = columnList(slice.Columns)
		}
	}

	return rows, nil
}

// GetSuperRangeSlice - reads the super columns of the rows between two keys, mapped by row key
func (ks *Keyspace) GetSuperRangeSlice(
	ctx context.Context,
	parent cassandra.ColumnParent,
	predicate cassandra.SlicePredicate,
	startKey, finishKey string,
	rowCount int32,
) (map[string][]cassandra.SuperColumn, gobol.Error) {

	keySlices, gerr := ks.getRangeSlice(ctx, "GetSuperRangeSlice", parent, predicate, startKey, finishKey, rowCount)
	if gerr != nil {
		return nil, gerr
	}

	rows := make(map[string][]cassandra.SuperColumn, len(keySlices))
	for _, slice := range keySlices {
		if _, exists := rows[slice.Key]; !exists {
			rows[slice.Key] = superColumnList(slice.Columns)
		}
	}

	return rows, nil
}

func (ks *Keyspace) getRangeSlice(
	ctx context.Context,
	function string,
	parent cassandra.ColumnParent,
	predicate cassandra.SlicePredicate,
	startKey, finishKey string,
	rowCount int32,
) ([]cassandra.KeySlice, gobol.Error) {

	if predicate == nil {
		return nil, ks.rejected(function, parent.ColumnFamily, errInvalidRequest(function, "a slice predicate is required"))
	}

	if gerr := ValidateReadParent(ks.description, parent); gerr != nil {
		return nil, ks.rejected(function, parent.ColumnFamily, gerr)
	}

	start := time.Now()
	keySlices, err := ks.client.GetRangeSlice(ctx, ks.name, parent, predicate, startKey, finishKey, rowCount, ks.level)
	if gerr := ks.called(function, parent.ColumnFamily, start, err); gerr != nil {
		return nil, gerr
	}

	return keySlices, nil
}

// GetCount - counts the columns of a row or of a super column
func (ks *Keyspace) GetCount(ctx context.Context, key string, parent cassandra.ColumnParent) (int32, gobol.Error) {

	const function = "GetCount"

	if gerr := ValidateReadParent(ks.description, parent); gerr != nil {
		return 0, ks.rejected(function, parent.ColumnFamily, gerr)
	}

	start := time.Now()
	count, err := ks.client.GetCount(ctx, ks.name, key, parent, ks.level)
	if gerr := ks.called(function, parent.ColumnFamily, start, err); gerr != nil {
		return 0, gerr
	}

	return count, nil
}

// columnList - keeps only the plain columns, in order
func columnList(cols []cassandra.ColumnOrSuperColumn) []cassandra.Column {

	result := make([]cassandra.Column, 0, len(cols))
	for _, c := range cols {
		if c.IsColumn() {
			result = append(result, c.Column)
		}
	}

	return result
}

// superColumnList - keeps only the super columns, in order
func superColumnList(cols []cassandra.ColumnOrSuperColumn) []cassandra.SuperColumn {

	result := make([]cassandra.SuperColumn, 0, len(cols))
	for _, c := range cols {
		if c.IsSuperColumn() {
			result = append(result, c.SuperColumn)
		}
	}

	return result
}
