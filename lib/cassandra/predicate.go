package cassandra

// SlicePredicate - selects the columns of a read: either ColumnNames or SliceRange
type SlicePredicate interface {
	slicePredicate()
}

// ColumnNames - selects the columns by their names
type ColumnNames []string

func (ColumnNames) slicePredicate() {}

// SliceRange - selects the columns between two names (both inclusive, empty means unbounded)
type SliceRange struct {
	Start    string `json:"start"`
	Finish   string `json:"finish"`
	Reversed bool   `json:"reversed"`
	// Count limits the number of returned columns, zero or less means no limit.
	Count int32 `json:"count"`
}

func (SliceRange) slicePredicate() {}
