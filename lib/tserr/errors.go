package tserr

import (
	"github.com/uol/gobol"

	"github.com/uol/cassakeyspace/lib/constants"
)

// New - creates a new error without an error code
func New(e error, msg, pkg, function string, httpCode int) gobol.Error {
	return customError{
		e,
		msg,
		pkg,
		function,
		httpCode,
		constants.StringsEmpty,
	}
}

// NewErrorWithCode - creates a new error with an error code
func NewErrorWithCode(e error, msg, pkg, function string, httpCode int, errorCode string) gobol.Error {
	return customError{
		e,
		msg,
		pkg,
		function,
		httpCode,
		errorCode,
	}
}

// HasCode - checks if the error (or any error it wraps) is a gobol.Error with one of the given codes
func HasCode(err error, codes ...string) bool {

	for err != nil {
		if gerr, ok := err.(gobol.Error); ok {
			for _, code := range codes {
				if gerr.ErrorCode() == code {
					return true
				}
			}
		}

		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}

		err = u.Unwrap()
	}

	return false
}

type customError struct {
	error
	msg       string
	pkg       string
	function  string
	httpCode  int
	errorCode string
}

func (e customError) Package() string {
	return e.pkg
}

func (e customError) Function() string {
	return e.function
}

func (e customError) Message() string {
	return e.msg
}

func (e customError) StatusCode() int {
	return e.httpCode
}

func (e customError) ErrorCode() string {
	return e.errorCode
}

// Unwrap - returns the cause
func (e customError) Unwrap() error {
	return e.error
}
