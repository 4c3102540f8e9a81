package keyspace

import (
	"errors"
	"net/http"

	"github.com/uol/gobol"

	"github.com/uol/cassakeyspace/lib/constants"
	"github.com/uol/cassakeyspace/lib/tserr"
)

func errBasic(function, msg string, code int, errorCode string, e error) gobol.Error {
	if e != nil {
		return tserr.NewErrorWithCode(
			e,
			msg,
			cPackage,
			function,
			code,
			errorCode,
		)
	}
	return nil
}

func errInvalidRequest(function, msg string) gobol.Error {
	return errBasic(function, msg, http.StatusBadRequest, constants.ErrorCodeInvalidRequest, errors.New(msg))
}

func errInvalidRequestFrom(function string, e error) gobol.Error {
	return errBasic(function, e.Error(), http.StatusBadRequest, constants.ErrorCodeInvalidRequest, e)
}

func errNotFound(function, msg string) gobol.Error {
	return errBasic(function, msg, http.StatusNotFound, constants.ErrorCodeNotFound, errors.New(msg))
}

func errNotFoundFrom(function string, e error) gobol.Error {
	return errBasic(function, e.Error(), http.StatusNotFound, constants.ErrorCodeNotFound, e)
}

func errTransport(function string, e error) gobol.Error {
	if e == nil {
		return nil
	}
	return errBasic(function, e.Error(), http.StatusInternalServerError, constants.ErrorCodeTransport, e)
}

// IsInvalidRequest - true if the error was raised by a request that does not
// agree with the keyspace description or that addressed a missing column
func IsInvalidRequest(err error) bool {
	return tserr.HasCode(err, constants.ErrorCodeInvalidRequest, constants.ErrorCodeNotFound)
}

// IsNotFound - true if the error was raised because the addressed column, super column or keyspace does not exist
func IsNotFound(err error) bool {
	return tserr.HasCode(err, constants.ErrorCodeNotFound)
}
