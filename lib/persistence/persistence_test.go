package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uol/cassakeyspace/lib/cassandra"
	"github.com/uol/cassakeyspace/lib/constants"
)

const (
	testStandardCF = "CF1"
	testSuperCF    = "Super1"
)

func createTestColumnFamilies(t *testing.T, backend Backend, keyspace string) {

	ctx := context.Background()

	require.NoError(t, backend.CreateColumnFamily(ctx, keyspace, testStandardCF, map[string]string{constants.StringsType: constants.StringsStandard}))
	require.NoError(t, backend.CreateColumnFamily(ctx, keyspace, testSuperCF, map[string]string{constants.StringsType: constants.StringsSuper}))
}

func column(name, value string, timestamp int64) cassandra.Column {
	return cassandra.Column{Name: name, Value: value, Timestamp: timestamp}
}

func columnNames(cols []cassandra.ColumnOrSuperColumn) []string {

	names := make([]string, 0, len(cols))
	for _, c := range cols {
		if c.IsSuperColumn() {
			names = append(names, c.SuperColumn.Name)
			continue
		}
		names = append(names, c.Column.Name)
	}

	return names
}

// genericBackendTest - the behaviour every backend must share
func genericBackendTest(t *testing.T, backend Backend, keyspace string) {

	ctx := context.Background()
	level := cassandra.ONE

	createTestColumnFamilies(t, backend, keyspace)

	description, err := backend.DescribeKeyspace(ctx, keyspace)
	require.NoError(t, err)
	cfType, ok := description.Type(testSuperCF)
	assert.True(t, ok)
	assert.Equal(t, constants.StringsSuper, cfType)

	standard := cassandra.NewColumnParent(testStandardCF, "")

	for i, name := range []string{"c", "a", "b", "d"} {
		require.NoError(t, backend.Insert(ctx, keyspace, "row1", standard, column(name, "v"+name, int64(10+i)), level))
	}

	t.Run("get", func(t *testing.T) {
		cosc, err := backend.Get(ctx, keyspace, "row1", cassandra.NewColumnPath(testStandardCF, "", "a"), level)
		require.NoError(t, err)
		assert.True(t, cosc.IsColumn())
		assert.Equal(t, "va", cosc.Column.Value)
		assert.Equal(t, int64(11), cosc.Column.Timestamp)

		_, err = backend.Get(ctx, keyspace, "row1", cassandra.NewColumnPath(testStandardCF, "", "zz"), level)
		assert.Equal(t, cassandra.ErrNotFound, err)
	})

	t.Run("slice", func(t *testing.T) {
		cols, err := backend.GetSlice(ctx, keyspace, "row1", standard, cassandra.ColumnNames{"d", "a", "x"}, level)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "d"}, columnNames(cols))

		cols, err = backend.GetSlice(ctx, keyspace, "row1", standard, cassandra.SliceRange{Start: "b", Finish: "c"}, level)
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "c"}, columnNames(cols))

		cols, err = backend.GetSlice(ctx, keyspace, "row1", standard, cassandra.SliceRange{Reversed: true, Count: 2}, level)
		require.NoError(t, err)
		assert.Equal(t, []string{"d", "c"}, columnNames(cols))

		cols, err = backend.GetSlice(ctx, keyspace, "missing", standard, cassandra.SliceRange{}, level)
		require.NoError(t, err)
		assert.Empty(t, cols)
	})

	t.Run("count", func(t *testing.T) {
		count, err := backend.GetCount(ctx, keyspace, "row1", standard, level)
		require.NoError(t, err)
		assert.Equal(t, int32(4), count)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, backend.Insert(ctx, keyspace, "row1", standard, column("a", "newer", 100), level))

		cosc, err := backend.Get(ctx, keyspace, "row1", cassandra.NewColumnPath(testStandardCF, "", "a"), level)
		require.NoError(t, err)
		assert.Equal(t, "newer", cosc.Column.Value)
	})

	t.Run("remove column", func(t *testing.T) {
		require.NoError(t, backend.Remove(ctx, keyspace, "row1", cassandra.NewColumnPath(testStandardCF, "", "d"), 200, level))

		_, err := backend.Get(ctx, keyspace, "row1", cassandra.NewColumnPath(testStandardCF, "", "d"), level)
		assert.Equal(t, cassandra.ErrNotFound, err)

		count, err := backend.GetCount(ctx, keyspace, "row1", standard, level)
		require.NoError(t, err)
		assert.Equal(t, int32(3), count)
	})

	t.Run("super columns", func(t *testing.T) {
		for _, sc := range []string{"sc2", "sc1"} {
			parent := cassandra.NewColumnParent(testSuperCF, sc)
			require.NoError(t, backend.Insert(ctx, keyspace, "row1", parent, column("x", sc+"x", 10), level))
			require.NoError(t, backend.Insert(ctx, keyspace, "row1", parent, column("y", sc+"y", 10), level))
		}

		cosc, err := backend.Get(ctx, keyspace, "row1", cassandra.NewColumnPath(testSuperCF, "sc1", ""), level)
		require.NoError(t, err)
		require.True(t, cosc.IsSuperColumn())
		assert.Equal(t, "sc1", cosc.SuperColumn.Name)
		assert.Len(t, cosc.SuperColumn.Columns, 2)

		cols, err := backend.GetSlice(ctx, keyspace, "row1", cassandra.NewColumnParent(testSuperCF, ""), cassandra.SliceRange{}, level)
		require.NoError(t, err)
		assert.Equal(t, []string{"sc1", "sc2"}, columnNames(cols))

		cols, err = backend.GetSlice(ctx, keyspace, "row1", cassandra.NewColumnParent(testSuperCF, "sc2"), cassandra.ColumnNames{"y"}, level)
		require.NoError(t, err)
		require.Len(t, cols, 1)
		assert.Equal(t, "sc2y", cols[0].Column.Value)

		count, err := backend.GetCount(ctx, keyspace, "row1", cassandra.NewColumnParent(testSuperCF, ""), level)
		require.NoError(t, err)
		assert.Equal(t, int32(2), count)

		require.NoError(t, backend.Remove(ctx, keyspace, "row1", cassandra.NewColumnPath(testSuperCF, "sc1", ""), 20, level))

		_, err = backend.Get(ctx, keyspace, "row1", cassandra.NewColumnPath(testSuperCF, "sc1", ""), level)
		assert.Equal(t, cassandra.ErrNotFound, err)
	})

	t.Run("range slice", func(t *testing.T) {
		for _, key := range []string{"row2", "row3"} {
			require.NoError(t, backend.Insert(ctx, keyspace, key, standard, column("a", key, 10), level))
		}

		slices, err := backend.GetRangeSlice(ctx, keyspace, standard, cassandra.ColumnNames{"a"}, "", "", 0, level)
		require.NoError(t, err)

		values := map[string]string{}
		for _, s := range slices {
			require.Len(t, s.Columns, 1)
			values[s.Key] = s.Columns[0].Column.Value
		}

		assert.Equal(t, map[string]string{"row1": "newer", "row2": "row2", "row3": "row3"}, values)

		slices, err = backend.GetRangeSlice(ctx, keyspace, standard, cassandra.ColumnNames{"a"}, "", "", 2, level)
		require.NoError(t, err)
		assert.Len(t, slices, 2)
	})

	t.Run("remove row", func(t *testing.T) {
		require.NoError(t, backend.Remove(ctx, keyspace, "row2", cassandra.ColumnPath{ColumnFamily: testStandardCF}, 300, level))

		count, err := backend.GetCount(ctx, keyspace, "row2", standard, level)
		require.NoError(t, err)
		assert.Equal(t, int32(0), count)
	})

	t.Run("unknown column family", func(t *testing.T) {
		err := backend.Insert(ctx, keyspace, "row1", cassandra.NewColumnParent("nope", ""), column("a", "b", 1), level)
		assert.Error(t, err)
	})

	t.Run("unknown keyspace", func(t *testing.T) {
		_, err := backend.DescribeKeyspace(ctx, keyspace+"_missing")
		assert.Error(t, err)
	})
}
