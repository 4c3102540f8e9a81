package cassandra

// Name - an optional column or super column name, the zero value is absent
type Name struct {
	value string
	set   bool
}

// NewName - creates a name, an empty string produces an absent name
func NewName(value string) Name {

	if value == "" {
		return Name{}
	}

	return Name{value: value, set: true}
}

// Get - returns the name and if it is present
func (n Name) Get() (string, bool) {
	return n.value, n.set
}

// IsSet - true if the name is present
func (n Name) IsSet() bool {
	return n.set
}

// String - returns the name or an empty string if absent
func (n Name) String() string {
	return n.value
}

// ColumnParent - identifies a container of columns: a column family or a super column inside it
type ColumnParent struct {
	ColumnFamily string
	SuperColumn  Name
}

// NewColumnParent - builds a parent, the super column is set only if not empty
func NewColumnParent(columnFamily, superColumn string) ColumnParent {
	return ColumnParent{
		ColumnFamily: columnFamily,
		SuperColumn:  NewName(superColumn),
	}
}

// ColumnPath - identifies a single column, a super column or a whole row of a column family
type ColumnPath struct {
	ColumnFamily string
	SuperColumn  Name
	Column       Name
}

// NewColumnPath - builds a path, the empty names are left absent
func NewColumnPath(columnFamily, superColumn, column string) ColumnPath {
	return ColumnPath{
		ColumnFamily: columnFamily,
		SuperColumn:  NewName(superColumn),
		Column:       NewName(column),
	}
}

// Parent - returns the parent of this path
func (p ColumnPath) Parent() ColumnParent {
	return ColumnParent{
		ColumnFamily: p.ColumnFamily,
		SuperColumn:  p.SuperColumn,
	}
}

// Column - a named value stamped with its write time
type Column struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	// Timestamp is expressed in microseconds since the epoch.
	Timestamp int64 `json:"timestamp"`
	// TTL in seconds, zero means the column never expires.
	TTL int32 `json:"ttl,omitempty"`
}

// SuperColumn - a named and ordered group of columns
type SuperColumn struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

// ColumnOrSuperColumn - one entry of a heterogeneous result, exactly one of the fields has a name
type ColumnOrSuperColumn struct {
	Column      Column
	SuperColumn SuperColumn
}

// IsColumn - true if the entry holds a plain column
func (c ColumnOrSuperColumn) IsColumn() bool {
	return c.Column.Name != ""
}

// IsSuperColumn - true if the entry holds a super column
func (c ColumnOrSuperColumn) IsSuperColumn() bool {
	return c.SuperColumn.Name != ""
}

// KeySlice - the result entries of one row
type KeySlice struct {
	Key     string
	Columns []ColumnOrSuperColumn
}
