package keyspace

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uol/cassakeyspace/lib/cassandra"
	"github.com/uol/cassakeyspace/lib/constants"
	"github.com/uol/cassakeyspace/lib/persistence"
	"github.com/uol/cassakeyspace/lib/tserr"
)

// recordingClient - records the last request and answers with the configured results
type recordingClient struct {
	calls     []string
	key       string
	parent    cassandra.ColumnParent
	path      cassandra.ColumnPath
	column    cassandra.Column
	timestamp int64
	predicate cassandra.SlicePredicate
	startKey  string
	finishKey string
	rowCount  int32
	level     cassandra.ConsistencyLevel

	get       cassandra.ColumnOrSuperColumn
	slice     []cassandra.ColumnOrSuperColumn
	keySlices []cassandra.KeySlice
	count     int32
	err       error
}

func (c *recordingClient) Insert(ctx context.Context, keyspace, key string, parent cassandra.ColumnParent, column cassandra.Column, level cassandra.ConsistencyLevel) error {
	c.calls = append(c.calls, "Insert")
	c.key, c.parent, c.column, c.level = key, parent, column, level
	return c.err
}

func (c *recordingClient) Remove(ctx context.Context, keyspace, key string, path cassandra.ColumnPath, timestamp int64, level cassandra.ConsistencyLevel) error {
	c.calls = append(c.calls, "Remove")
	c.key, c.path, c.timestamp, c.level = key, path, timestamp, level
	return c.err
}

func (c *recordingClient) Get(ctx context.Context, keyspace, key string, path cassandra.ColumnPath, level cassandra.ConsistencyLevel) (cassandra.ColumnOrSuperColumn, error) {
	c.calls = append(c.calls, "Get")
	c.key, c.path, c.level = key, path, level
	return c.get, c.err
}

func (c *recordingClient) GetSlice(ctx context.Context, keyspace, key string, parent cassandra.ColumnParent, predicate cassandra.SlicePredicate, level cassandra.ConsistencyLevel) ([]cassandra.ColumnOrSuperColumn, error) {
	c.calls = append(c.calls, "GetSlice")
	c.key, c.parent, c.predicate, c.level = key, parent, predicate, level
	return c.slice, c.err
}

func (c *recordingClient) GetRangeSlice(ctx context.Context, keyspace string, parent cassandra.ColumnParent, predicate cassandra.SlicePredicate, startKey, finishKey string, count int32, level cassandra.ConsistencyLevel) ([]cassandra.KeySlice, error) {
	c.calls = append(c.calls, "GetRangeSlice")
	c.parent, c.predicate, c.startKey, c.finishKey, c.rowCount, c.level = parent, predicate, startKey, finishKey, count, level
	return c.keySlices, c.err
}

func (c *recordingClient) GetCount(ctx context.Context, keyspace, key string, parent cassandra.ColumnParent, level cassandra.ConsistencyLevel) (int32, error) {
	c.calls = append(c.calls, "GetCount")
	c.key, c.parent, c.level = key, parent, level
	return c.count, c.err
}

type countingCollector struct {
	counts map[string]int
}

func (c *countingCollector) FlattenCountIncN(caller string, metric string, tags ...interface{}) {
	c.counts[metric]++
}

func (c *countingCollector) FlattenMaxN(caller string, value float64, metric string, tags ...interface{}) {}

var testNow = time.Date(2020, 7, 1, 12, 0, 0, 123456789, time.UTC)

func newTestKeyspace(client cassandra.Client, opts ...Option) *Keyspace {
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return New(client, "Keyspace1", testDescription, cassandra.QUORUM, opts...)
}

func col(name string) cassandra.ColumnOrSuperColumn {
	return cassandra.ColumnOrSuperColumn{Column: cassandra.Column{Name: name, Value: "v" + name}}
}

func superCol(name string, columns ...string) cassandra.ColumnOrSuperColumn {
	sc := cassandra.SuperColumn{Name: name}
	for _, c := range columns {
		sc.Columns = append(sc.Columns, cassandra.Column{Name: c})
	}
	return cassandra.ColumnOrSuperColumn{SuperColumn: sc}
}

func TestAccessors(t *testing.T) {

	ks := newTestKeyspace(&recordingClient{})

	assert.Equal(t, "Keyspace1", ks.Name())
	assert.Equal(t, cassandra.QUORUM, ks.ConsistencyLevel())
	assert.Equal(t, testDescription, ks.Description())

	description := ks.Description()
	description["CF1"][constants.StringsType] = constants.StringsSuper
	delete(description, "Super1")

	assert.Equal(t, testDescription, ks.Description())
	assert.Equal(t, constants.StringsStandard, testDescription["CF1"][constants.StringsType])
}

func TestInsertColumn(t *testing.T) {

	client := &recordingClient{}
	ks := newTestKeyspace(client)

	require.NoError(t, ks.InsertColumn(context.Background(), "k", "Super1", "sc", "c", "v", 30))

	assert.Equal(t, []string{"Insert"}, client.calls)
	assert.Equal(t, "k", client.key)
	assert.Equal(t, cassandra.NewColumnParent("Super1", "sc"), client.parent)
	assert.Equal(t, cassandra.Column{Name: "c", Value: "v", Timestamp: 1593604800123456, TTL: 30}, client.column)
	assert.Equal(t, cassandra.QUORUM, client.level)

	require.NoError(t, ks.Insert(context.Background(), "k", "CF1", "c", "v"))
	assert.False(t, client.parent.SuperColumn.IsSet())
	assert.Equal(t, int32(0), client.column.TTL)
}

func TestRemovePaths(t *testing.T) {

	ctx := context.Background()

	testCases := []struct {
		name     string
		remove   func(ks *Keyspace) error
		expected cassandra.ColumnPath
	}{
		{
			name:     "column",
			remove:   func(ks *Keyspace) error { return ks.RemoveColumn(ctx, "k", "CF1", "", "c") },
			expected: cassandra.NewColumnPath("CF1", "", "c"),
		},
		{
			name:     "column of super column",
			remove:   func(ks *Keyspace) error { return ks.RemoveColumn(ctx, "k", "Super1", "sc", "c") },
			expected: cassandra.NewColumnPath("Super1", "sc", "c"),
		},
		{
			name:     "super column",
			remove:   func(ks *Keyspace) error { return ks.RemoveSuperColumn(ctx, "k", "Super1", "sc") },
			expected: cassandra.NewColumnPath("Super1", "sc", ""),
		},
		{
			name:     "path",
			remove:   func(ks *Keyspace) error { return ks.Remove(ctx, "k", cassandra.NewColumnPath("CF1", "", "c")) },
			expected: cassandra.NewColumnPath("CF1", "", "c"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client := &recordingClient{}
			ks := newTestKeyspace(client)

			require.NoError(t, tc.remove(ks))
			assert.Equal(t, []string{"Remove"}, client.calls)
			assert.Equal(t, tc.expected, client.path)
			assert.Equal(t, int64(1593604800123456), client.timestamp)
		})
	}
}

func TestInvalidRequestsNeverReachTheClient(t *testing.T) {

	ctx := context.Background()

	testCases := []struct {
		name string
		call func(ks *Keyspace) error
	}{
		{"insert unknown column family", func(ks *Keyspace) error { return ks.Insert(ctx, "k", "Missing", "c", "v") }},
		{"insert super without super column", func(ks *Keyspace) error { return ks.Insert(ctx, "k", "Super1", "c", "v") }},
		{"remove standard without column", func(ks *Keyspace) error { return ks.RemoveColumn(ctx, "k", "CF1", "", "") }},
		{"remove super without super column", func(ks *Keyspace) error { return ks.RemoveColumn(ctx, "k", "Super1", "", "c") }},
		{"get standard without column", func(ks *Keyspace) error {
			_, err := ks.GetColumn(ctx, "k", "CF1", "sc", "")
			return err
		}},
		{"get super column of standard", func(ks *Keyspace) error {
			_, err := ks.GetSuperColumn(ctx, "k", "CF1", "sc")
			return err
		}},
		{"get super column without name", func(ks *Keyspace) error {
			_, err := ks.GetSuperColumn(ctx, "k", "Super1", "")
			return err
		}},
		{"slice unknown column family", func(ks *Keyspace) error {
			_, err := ks.GetSliceNames(ctx, "k", cassandra.NewColumnParent("Missing", "sc"), cassandra.ColumnNames{"a"})
			return err
		}},
		{"range slice without predicate", func(ks *Keyspace) error {
			_, err := ks.GetRangeSlice(ctx, cassandra.NewColumnParent("CF1", ""), nil, "", "", 10)
			return err
		}},
		{"range slice unknown column family", func(ks *Keyspace) error {
			_, err := ks.GetSuperRangeSlice(ctx, cassandra.NewColumnParent("Missing", ""), cassandra.SliceRange{}, "", "", 10)
			return err
		}},
		{"count untyped column family", func(ks *Keyspace) error {
			_, err := ks.GetCount(ctx, "k", cassandra.NewColumnParent("Untyped", ""))
			return err
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client := &recordingClient{}
			stats := &countingCollector{counts: map[string]int{}}
			ks := newTestKeyspace(client, WithStats(stats))

			err := tc.call(ks)
			assert.True(t, IsInvalidRequest(err))
			assert.False(t, IsNotFound(err))
			assert.Empty(t, client.calls)
			assert.Equal(t, 1, stats.counts[constants.StringsMetricKeyspaceOperationError])
		})
	}
}

func TestGetColumn(t *testing.T) {

	ctx := context.Background()

	client := &recordingClient{get: col("c")}
	ks := newTestKeyspace(client)

	column, gerr := ks.GetColumn(ctx, "k", "Super1", "sc", "c")
	require.NoError(t, gerr)
	assert.Equal(t, "vc", column.Value)
	assert.Equal(t, cassandra.NewColumnPath("Super1", "sc", "c"), client.path)

	value, gerr := ks.GetColumnValue(ctx, "k", "CF1", "", "c")
	require.NoError(t, gerr)
	assert.Equal(t, "vc", value)
}

func TestGetColumnNotFound(t *testing.T) {

	ctx := context.Background()

	testCases := []struct {
		name   string
		client *recordingClient
	}{
		{"empty column", &recordingClient{}},
		{"super column instead of column", &recordingClient{get: superCol("sc", "c")}},
		{"client not found", &recordingClient{err: cassandra.ErrNotFound}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ks := newTestKeyspace(tc.client)

			_, gerr := ks.GetColumnValue(ctx, "k", "CF1", "", "c")
			require.Error(t, gerr)
			assert.True(t, IsNotFound(gerr))
			assert.True(t, IsInvalidRequest(gerr))
			assert.Equal(t, 404, gerr.StatusCode())
			assert.Equal(t, []string{"Get"}, tc.client.calls)
		})
	}

	_, gerr := newTestKeyspace(&recordingClient{err: cassandra.ErrNotFound}).GetColumn(ctx, "k", "CF1", "", "c")
	assert.True(t, errors.Is(gerr, cassandra.ErrNotFound))
}

func TestGetSuperColumn(t *testing.T) {

	ctx := context.Background()

	client := &recordingClient{get: superCol("sc", "a", "b")}
	ks := newTestKeyspace(client)

	sc, gerr := ks.GetSuperColumn(ctx, "k", "Super1", "sc")
	require.NoError(t, gerr)
	assert.Equal(t, "sc", sc.Name)
	assert.Len(t, sc.Columns, 2)
	assert.Equal(t, cassandra.NewColumnPath("Super1", "sc", ""), client.path)

	_, gerr = newTestKeyspace(&recordingClient{}).GetSuperColumn(ctx, "k", "Super1", "sc")
	assert.True(t, IsNotFound(gerr))
}

func TestTransportError(t *testing.T) {

	cause := errors.New("connection refused")
	client := &recordingClient{err: cause}
	stats := &countingCollector{counts: map[string]int{}}
	ks := newTestKeyspace(client, WithStats(stats))

	_, gerr := ks.GetCount(context.Background(), "k", cassandra.NewColumnParent("CF1", ""))
	require.Error(t, gerr)
	assert.True(t, errors.Is(gerr, cause))
	assert.False(t, IsInvalidRequest(gerr))
	assert.Equal(t, 500, gerr.StatusCode())
	assert.Equal(t, constants.ErrorCodeTransport, gerr.ErrorCode())
	assert.Equal(t, 1, stats.counts[constants.StringsMetricKeyspaceOperationError])
	assert.Equal(t, 0, stats.counts[constants.StringsMetricKeyspaceOperation])
}

func TestGetSliceKeepsOnlyColumnsInOrder(t *testing.T) {

	ctx := context.Background()

	client := &recordingClient{
		slice: []cassandra.ColumnOrSuperColumn{col("b"), superCol("sc", "x"), col("a"), {}, col("c")},
	}
	ks := newTestKeyspace(client)

	parent := cassandra.NewColumnParent("CF1", "")

	columns, gerr := ks.GetSliceNames(ctx, "k", parent, cassandra.ColumnNames{"a", "b", "c"})
	require.NoError(t, gerr)
	assert.Equal(t, []string{"b", "a", "c"}, names(columns))
	assert.Equal(t, cassandra.ColumnNames{"a", "b", "c"}, client.predicate)

	sliceRange := cassandra.SliceRange{Start: "a", Finish: "c", Reversed: true, Count: 3}
	columns, gerr = ks.GetSliceRange(ctx, "k", parent, sliceRange)
	require.NoError(t, gerr)
	assert.Len(t, columns, 3)
	assert.Equal(t, sliceRange, client.predicate)

	client.slice = nil
	columns, gerr = ks.GetSliceRange(ctx, "k", parent, cassandra.SliceRange{})
	require.NoError(t, gerr)
	assert.NotNil(t, columns)
	assert.Empty(t, columns)
}

func names(columns []cassandra.Column) []string {
	result := make([]string, len(columns))
	for i, c := range columns {
		result[i] = c.Name
	}
	return result
}

func TestGetRangeSlice(t *testing.T) {

	ctx := context.Background()

	client := &recordingClient{
		keySlices: []cassandra.KeySlice{
			{Key: "k1", Columns: []cassandra.ColumnOrSuperColumn{col("a"), superCol("sc", "x")}},
			{Key: "k2", Columns: []cassandra.ColumnOrSuperColumn{superCol("sc", "x")}},
			{Key: "k3", Columns: []cassandra.ColumnOrSuperColumn{col("b"), col("c")}},
			{Key: "k1", Columns: []cassandra.ColumnOrSuperColumn{col("z")}},
		},
	}
	ks := newTestKeyspace(client)

	rows, gerr := ks.GetRangeSlice(ctx, cassandra.NewColumnParent("CF1", ""), cassandra.ColumnNames{"a"}, "k1", "k9", 10)
	require.NoError(t, gerr)
	assert.Len(t, rows, 3)
	assert.Equal(t, []string{"a"}, names(rows["k1"]))
	assert.Empty(t, rows["k2"])
	assert.Equal(t, []string{"b", "c"}, names(rows["k3"]))

	assert.Equal(t, "k1", client.startKey)
	assert.Equal(t, "k9", client.finishKey)
	assert.Equal(t, int32(10), client.rowCount)

	superRows, gerr := ks.GetSuperRangeSlice(ctx, cassandra.NewColumnParent("Super1", ""), cassandra.SliceRange{}, "", "", 10)
	require.NoError(t, gerr)
	assert.Len(t, superRows, 3)
	if assert.Len(t, superRows["k2"], 1) {
		assert.Equal(t, "sc", superRows["k2"][0].Name)
	}
	assert.Empty(t, superRows["k3"])
}

func TestGetCount(t *testing.T) {

	client := &recordingClient{count: 7}
	stats := &countingCollector{counts: map[string]int{}}
	ks := newTestKeyspace(client, WithStats(stats))

	count, gerr := ks.GetCount(context.Background(), "k", cassandra.NewColumnParent("Super1", "sc"))
	require.NoError(t, gerr)
	assert.Equal(t, int32(7), count)
	assert.Equal(t, cassandra.NewColumnParent("Super1", "sc"), client.parent)
	assert.Equal(t, 1, stats.counts[constants.StringsMetricKeyspaceOperation])
}

func newMemoryKeyspace(t *testing.T) *Keyspace {

	backend := persistence.NewMemory()
	require.NoError(t, backend.CreateColumnFamily(context.Background(), "Keyspace1", "CF1", map[string]string{constants.StringsType: constants.StringsStandard}))
	require.NoError(t, backend.CreateColumnFamily(context.Background(), "Keyspace1", "Super1", map[string]string{constants.StringsType: constants.StringsSuper}))

	ks, gerr := Load(context.Background(), backend, "Keyspace1", cassandra.ONE)
	require.NoError(t, gerr)

	return ks
}

func TestInsertThenGet(t *testing.T) {

	ctx := context.Background()
	ks := newMemoryKeyspace(t)

	require.NoError(t, ks.InsertColumn(ctx, "k", "CF1", "", "c", "v", 0))

	value, gerr := ks.GetColumnValue(ctx, "k", "CF1", "", "c")
	require.NoError(t, gerr)
	assert.Equal(t, "v", value)

	_, gerr = ks.GetSuperColumn(ctx, "k", "CF1", "x")
	assert.True(t, IsInvalidRequest(gerr))

	_, gerr = ks.GetColumnValue(ctx, "k", "CF1", "", "missing")
	assert.True(t, IsNotFound(gerr))
}

func TestClientInvalidRequest(t *testing.T) {

	cause := errors.New("a column name is required")
	client := &recordingClient{
		err: tserr.NewErrorWithCode(cause, cause.Error(), "persistence/Memory", "Insert", http.StatusBadRequest, constants.ErrorCodeInvalidRequest),
	}
	stats := &countingCollector{counts: map[string]int{}}
	ks := newTestKeyspace(client, WithStats(stats))

	gerr := ks.Insert(context.Background(), "k", "CF1", "c", "v")
	require.Error(t, gerr)
	assert.True(t, errors.Is(gerr, cause))
	assert.True(t, IsInvalidRequest(gerr))
	assert.False(t, IsNotFound(gerr))
	assert.Equal(t, http.StatusBadRequest, gerr.StatusCode())
	assert.Equal(t, constants.ErrorCodeInvalidRequest, gerr.ErrorCode())
	assert.Equal(t, cause.Error(), gerr.Message())
	assert.Equal(t, 1, stats.counts[constants.StringsMetricKeyspaceOperationError])

	memory := newMemoryKeyspace(t)

	gerr = memory.Insert(context.Background(), "k", "CF1", "", "v")
	require.Error(t, gerr)
	assert.True(t, IsInvalidRequest(gerr))
	assert.Equal(t, http.StatusBadRequest, gerr.StatusCode())
	assert.Equal(t, constants.ErrorCodeInvalidRequest, gerr.ErrorCode())
}

func TestStandardColumnsUnderSuperColumnName(t *testing.T) {

	ctx := context.Background()
	ks := newMemoryKeyspace(t)

	require.NoError(t, ks.InsertColumn(ctx, "k", "CF1", "sc1", "c", "v", 0))

	value, gerr := ks.GetColumnValue(ctx, "k", "CF1", "sc1", "c")
	require.NoError(t, gerr)
	assert.Equal(t, "v", value)

	parent := cassandra.NewColumnParent("CF1", "sc1")

	columns, gerr := ks.GetSliceNames(ctx, "k", parent, cassandra.ColumnNames{"c"})
	require.NoError(t, gerr)
	assert.Equal(t, []string{"c"}, names(columns))

	columns, gerr = ks.GetSliceRange(ctx, "k", parent, cassandra.SliceRange{})
	require.NoError(t, gerr)
	assert.Equal(t, []string{"c"}, names(columns))

	count, gerr := ks.GetCount(ctx, "k", parent)
	require.NoError(t, gerr)
	assert.Equal(t, int32(1), count)

	rows, gerr := ks.GetRangeSlice(ctx, parent, cassandra.ColumnNames{"c"}, "", "", 0)
	require.NoError(t, gerr)
	assert.Equal(t, []string{"c"}, names(rows["k"]))

	count, gerr = ks.GetCount(ctx, "k", cassandra.NewColumnParent("CF1", ""))
	require.NoError(t, gerr)
	assert.Equal(t, int32(0), count)
}

func TestSuperColumnLifecycle(t *testing.T) {

	ctx := context.Background()
	ks := newMemoryKeyspace(t)

	require.NoError(t, ks.InsertColumn(ctx, "k", "Super1", "sc1", "a", "1", 0))
	require.NoError(t, ks.InsertColumn(ctx, "k", "Super1", "sc1", "b", "2", 0))
	require.NoError(t, ks.InsertColumn(ctx, "k", "Super1", "sc2", "a", "3", 0))

	sc, gerr := ks.GetSuperColumn(ctx, "k", "Super1", "sc1")
	require.NoError(t, gerr)
	assert.Equal(t, []string{"a", "b"}, names(sc.Columns))

	count, gerr := ks.GetCount(ctx, "k", cassandra.NewColumnParent("Super1", ""))
	require.NoError(t, gerr)
	assert.Equal(t, int32(2), count)

	columns, gerr := ks.GetSliceRange(ctx, "k", cassandra.NewColumnParent("Super1", "sc1"), cassandra.SliceRange{Start: "b"})
	require.NoError(t, gerr)
	assert.Equal(t, []string{"b"}, names(columns))

	rows, gerr := ks.GetSuperRangeSlice(ctx, cassandra.NewColumnParent("Super1", ""), cassandra.ColumnNames{"sc2"}, "", "", 0)
	require.NoError(t, gerr)
	if assert.Len(t, rows["k"], 1) {
		assert.Equal(t, "sc2", rows["k"][0].Name)
	}

	require.NoError(t, ks.RemoveColumn(ctx, "k", "Super1", "sc1", "a"))
	sc, gerr = ks.GetSuperColumn(ctx, "k", "Super1", "sc1")
	require.NoError(t, gerr)
	assert.Equal(t, []string{"b"}, names(sc.Columns))

	// the removal stamps a later timestamp than the inserts made at the same instant
	clock := time.Now().Add(time.Second)
	later := New(ks.client, ks.Name(), ks.Description(), ks.ConsistencyLevel(), WithClock(func() time.Time { return clock }))
	require.NoError(t, later.RemoveSuperColumn(ctx, "k", "Super1", "sc1"))

	_, gerr = ks.GetSuperColumn(ctx, "k", "Super1", "sc1")
	assert.True(t, IsNotFound(gerr))
}

func TestLoad(t *testing.T) {

	ctx := context.Background()

	_, gerr := Load(ctx, persistence.NewMemory(), "Missing", cassandra.ONE)
	assert.True(t, IsNotFound(gerr))

	_, gerr = Load(ctx, &recordingClient{}, "Keyspace1", cassandra.ONE)
	assert.True(t, IsInvalidRequest(gerr))
	assert.False(t, IsNotFound(gerr))

	ks := newMemoryKeyspace(t)
	assert.Equal(t, "Keyspace1", ks.Name())
	assert.Equal(t, cassandra.ONE, ks.ConsistencyLevel())
	assert.Len(t, ks.Description(), 2)
}

func TestFingerprint(t *testing.T) {

	first, err := newTestKeyspace(&recordingClient{}).Fingerprint()
	require.NoError(t, err)
	assert.Len(t, first, 32)

	again, err := newTestKeyspace(&recordingClient{}).Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, first, again)

	other, err := New(&recordingClient{}, "Keyspace1", cassandra.Description{"CF1": {constants.StringsType: constants.StringsSuper}}, cassandra.ONE).Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}
