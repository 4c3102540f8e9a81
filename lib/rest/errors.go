package rest

import (
	"net/http"

	"github.com/uol/gobol"

	"github.com/uol/cassakeyspace/lib/constants"
	"github.com/uol/cassakeyspace/lib/tserr"
)

func errBadRequest(function, message string, e error) gobol.Error {
	return tserr.NewErrorWithCode(e, message, cPackage, function, http.StatusBadRequest, constants.ErrorCodeInvalidRequest)
}

func errInternal(function string, e error) gobol.Error {
	return tserr.New(e, e.Error(), cPackage, function, http.StatusInternalServerError)
}
