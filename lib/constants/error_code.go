package constants

//
// Defines all error codes.
// @author: rnojiri
//

const (
	// ErrorCodeInvalidRequest - the request does not agree with the keyspace description
	ErrorCodeInvalidRequest string = "IRE"

	// ErrorCodeNotFound - the requested column or super column does not exist
	ErrorCodeNotFound string = "NFE"

	// ErrorCodeTransport - the remote client failed
	ErrorCodeTransport string = "TRE"
)
