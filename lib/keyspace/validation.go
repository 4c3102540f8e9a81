package keyspace

import (
	"fmt"

	"github.com/uol/gobol"

	"github.com/uol/cassakeyspace/lib/cassandra"
	"github.com/uol/cassakeyspace/lib/constants"
)

const (
	funcValidateColumnPath      string = "ValidateColumnPath"
	funcValidateColumnParent    string = "ValidateColumnParent"
	funcValidateSuperColumnPath string = "ValidateSuperColumnPath"
	funcValidateReadParent      string = "ValidateReadParent"
)

func columnFamilyType(function string, description cassandra.Description, columnFamily string) (string, gobol.Error) {

	cfType, ok := description.Type(columnFamily)
	if !ok {
		return constants.StringsEmpty, errInvalidRequest(function, fmt.Sprintf("unknown column family \"%s\"", columnFamily))
	}

	return cfType, nil
}

func errMismatch(function, columnFamily, cfType, requirement string) gobol.Error {

	if cfType == constants.StringsEmpty {
		return errInvalidRequest(function, fmt.Sprintf("column family \"%s\" has no declared type", columnFamily))
	}

	return errInvalidRequest(function, fmt.Sprintf("column family \"%s\" is of type \"%s\" and %s", columnFamily, cfType, requirement))
}

// ValidateColumnPath - a path to a standard column family needs a column
// name, a path to a super column family needs a super column name
func ValidateColumnPath(description cassandra.Description, path cassandra.ColumnPath) gobol.Error {

	cfType, gerr := columnFamilyType(funcValidateColumnPath, description, path.ColumnFamily)
	if gerr != nil {
		return gerr
	}

	switch cfType {
	case constants.StringsStandard:
		if path.Column.IsSet() {
			return nil
		}
		return errMismatch(funcValidateColumnPath, path.ColumnFamily, cfType, "requires a column name")
	case constants.StringsSuper:
		if path.SuperColumn.IsSet() {
			return nil
		}
		return errMismatch(funcValidateColumnPath, path.ColumnFamily, cfType, "requires a super column name")
	}

	return errMismatch(funcValidateColumnPath, path.ColumnFamily, cfType, "is not supported")
}

// ValidateColumnParent - any parent of a standard column family is valid, a
// parent of a super column family needs a super column name
func ValidateColumnParent(description cassandra.Description, parent cassandra.ColumnParent) gobol.Error {

	cfType, gerr := columnFamilyType(funcValidateColumnParent, description, parent.ColumnFamily)
	if gerr != nil {
		return gerr
	}

	switch cfType {
	case constants.StringsStandard:
		return nil
	case constants.StringsSuper:
		if parent.SuperColumn.IsSet() {
			return nil
		}
		return errMismatch(funcValidateColumnParent, parent.ColumnFamily, cfType, "requires a super column name")
	}

	return errMismatch(funcValidateColumnParent, parent.ColumnFamily, cfType, "is not supported")
}

// ValidateSuperColumnPath - the path must address a super column of a super column family
func ValidateSuperColumnPath(description cassandra.Description, path cassandra.ColumnPath) gobol.Error {

	cfType, gerr := columnFamilyType(funcValidateSuperColumnPath, description, path.ColumnFamily)
	if gerr != nil {
		return gerr
	}

	if cfType != constants.StringsSuper {
		return errMismatch(funcValidateSuperColumnPath, path.ColumnFamily, cfType, "has no super columns")
	}

	if !path.SuperColumn.IsSet() {
		return errMismatch(funcValidateSuperColumnPath, path.ColumnFamily, cfType, "requires a super column name")
	}

	return nil
}

// ValidateReadParent - validates the parent of slice, range and count reads:
// any parent of a standard column family is valid, as in ValidateColumnParent,
// and a super column family is read with or without a super column
func ValidateReadParent(description cassandra.Description, parent cassandra.ColumnParent) gobol.Error {

	cfType, gerr := columnFamilyType(funcValidateReadParent, description, parent.ColumnFamily)
	if gerr != nil {
		return gerr
	}

	switch cfType {
	case constants.StringsStandard, constants.StringsSuper:
		return nil
	}

	return errMismatch(funcValidateReadParent, parent.ColumnFamily, cfType, "is not supported")
}
