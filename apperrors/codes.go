package apperrors

type Code string

const (
	CodeUnknown            Code = "UNKNOWN"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeNotFound           Code = "NOT_FOUND"
	CodeAlreadyExists      Code = "ALREADY_EXISTS"
	CodeForbidden          Code = "FORBIDDEN"
	CodeUnauthenticated    Code = "UNAUTHENTICATED"
	CodePersistenceFailure Code = "PERSISTENCE_FAILURE"
	CodeStreamClosed       Code = "STREAM_CLOSED"
	CodeInternal           Code = "INTERNAL"
)
