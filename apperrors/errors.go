package apperrors

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type AppError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

// Constructors
func New(code Code, message string) error {
	return &AppError{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) error {
	return &AppError{Code: code, Message: message, Cause: cause}
}

func InvalidArg(msg string) error {
	return New(CodeInvalidArgument, msg)
}

func NotFound(msg string) error {
	return New(CodeNotFound, msg)
}

func AlreadyExists(msg string) error {
	return New(CodeAlreadyExists, msg)
}

func Unauthenticated(msg string) error {
	return New(CodeUnauthenticated, msg)
}

func Forbidden(msg string) error {
	return New(CodeForbidden, msg)
}

func Internal(msg string) error {
	return New(CodeInternal, msg)
}

// PersistenceFailure wraps a store error that is not an expected
// idempotent-create collapse.
func PersistenceFailure(msg string, cause error) error {
	return Wrap(CodePersistenceFailure, msg, cause)
}

// Domain sentinels
var (
	ErrUserNotFound         = NotFound("user not found")
	ErrConversationNotFound = NotFound("conversation not found")
	ErrPostNotFound         = NotFound("post not found")
	ErrReportNotFound       = NotFound("report not found")
	ErrNotParticipant       = Forbidden("not a participant of this conversation")
	ErrEmailTaken           = AlreadyExists("email is already registered")
	ErrHandleTaken          = AlreadyExists("handle is already taken")
	ErrSelfConversation     = InvalidArg("cannot start a conversation with yourself")
	ErrAccountDisabled      = Forbidden("account is deactivated")

	// ErrStreamClosed marks a write against an already-terminated channel.
	// Callers catch and discard it; it never reaches a client.
	ErrStreamClosed = New(CodeStreamClosed, "stream already closed")
)

// CodeOf extracts the taxonomy code from err, or CodeUnknown.
func CodeOf(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// HTTPStatus maps a taxonomy code to the HTTP status the fiber error handler
// responds with.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeInvalidArgument:
		return fiber.StatusBadRequest
	case CodeUnauthenticated:
		return fiber.StatusUnauthorized
	case CodeForbidden:
		return fiber.StatusForbidden
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeAlreadyExists:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
