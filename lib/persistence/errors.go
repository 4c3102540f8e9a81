package persistence

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/uol/gobol"

	"github.com/uol/cassakeyspace/lib/constants"
	"github.com/uol/cassakeyspace/lib/tserr"
)

const cPackage string = "persistence"

var (
	errUnknownPredicate = errors.New("unknown slice predicate")
	errEmptyPath        = errors.New("the column path addresses nothing")
)

func errBasic(method, structure, message string, code int, errorCode string, err error) gobol.Error {
	if err != nil {
		return tserr.NewErrorWithCode(
			err,
			message,
			cPackage+"/"+structure,
			method,
			code,
			errorCode,
		)
	}
	return nil
}

func errPersist(method, structure string, err error) gobol.Error {
	return errBasic(method, structure, err.Error(), http.StatusInternalServerError, constants.ErrorCodeTransport, err)
}

func errInvalid(method, structure string, err error) gobol.Error {
	return errBasic(method, structure, err.Error(), http.StatusBadRequest, constants.ErrorCodeInvalidRequest, err)
}

func errUnknownColumnFamily(method, structure, keyspace, columnFamily string) gobol.Error {
	return errInvalid(method, structure, fmt.Errorf("unknown column family \"%s\" in keyspace \"%s\"", columnFamily, keyspace))
}
