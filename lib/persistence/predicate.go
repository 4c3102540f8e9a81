package persistence

import (
	"sort"

	"github.com/uol/cassakeyspace/lib/cassandra"
)

//
// Evaluates the slice predicates over name-ordered columns.
//

// selectIndexes - returns the positions of the sorted names chosen by the predicate, in result order
func selectIndexes(names []string, predicate cassandra.SlicePredicate) ([]int, error) {

	switch p := predicate.(type) {
	case cassandra.ColumnNames:
		return selectByNames(names, p), nil
	case cassandra.SliceRange:
		return selectByRange(names, p), nil
	}

	return nil, errUnknownPredicate
}

func selectByNames(names []string, wanted cassandra.ColumnNames) []int {

	set := make(map[string]struct{}, len(wanted))
	for _, w := range wanted {
		set[w] = struct{}{}
	}

	indexes := []int{}
	for i, name := range names {
		if _, ok := set[name]; ok {
			indexes = append(indexes, i)
		}
	}

	return indexes
}

// selectByRange - when reversed the start is the greatest bound, as in the column-store
func selectByRange(names []string, r cassandra.SliceRange) []int {

	indexes := []int{}

	accept := func(name string) bool {
		if r.Reversed {
			return (r.Start == "" || name <= r.Start) && (r.Finish == "" || name >= r.Finish)
		}
		return (r.Start == "" || name >= r.Start) && (r.Finish == "" || name <= r.Finish)
	}

	full := func() bool {
		return r.Count > 0 && int32(len(indexes)) >= r.Count
	}

	if r.Reversed {
		for i := len(names) - 1; i >= 0 && !full(); i-- {
			if accept(names[i]) {
				indexes = append(indexes, i)
			}
		}
		return indexes
	}

	for i := 0; i < len(names) && !full(); i++ {
		if accept(names[i]) {
			indexes = append(indexes, i)
		}
	}

	return indexes
}

// selectColumns - applies the predicate to the columns (sorted by name)
func selectColumns(columns []cassandra.Column, predicate cassandra.SlicePredicate) ([]cassandra.ColumnOrSuperColumn, error) {

	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}

	indexes, err := selectIndexes(names, predicate)
	if err != nil {
		return nil, err
	}

	result := make([]cassandra.ColumnOrSuperColumn, len(indexes))
	for i, index := range indexes {
		result[i] = cassandra.ColumnOrSuperColumn{Column: columns[index]}
	}

	return result, nil
}

// selectSuperColumns - applies the predicate to the super column names (sorted)
func selectSuperColumns(superColumns []cassandra.SuperColumn, predicate cassandra.SlicePredicate) ([]cassandra.ColumnOrSuperColumn, error) {

	names := make([]string, len(superColumns))
	for i, sc := range superColumns {
		names[i] = sc.Name
	}

	indexes, err := selectIndexes(names, predicate)
	if err != nil {
		return nil, err
	}

	result := make([]cassandra.ColumnOrSuperColumn, len(indexes))
	for i, index := range indexes {
		result[i] = cassandra.ColumnOrSuperColumn{SuperColumn: superColumns[index]}
	}

	return result, nil
}

// keyInRange - start and finish are inclusive, empty means unbounded
func keyInRange(key, startKey, finishKey string) bool {
	return (startKey == "" || key >= startKey) && (finishKey == "" || key <= finishKey)
}

func sortColumns(columns []cassandra.Column) {
	sort.Slice(columns, func(i, j int) bool { return columns[i].Name < columns[j].Name })
}

func sortSuperColumns(superColumns []cassandra.SuperColumn) {
	sort.Slice(superColumns, func(i, j int) bool { return superColumns[i].Name < superColumns[j].Name })
}
