package serverutils

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type ErrorKind string

const (
	KindNotFound        ErrorKind = "NOT_FOUND"
	KindUnauthorized    ErrorKind = "UNAUTHORIZED"
	KindTooManyRequests ErrorKind = "TOO_MANY_REQUESTS"
	KindValidation      ErrorKind = "VALIDATION"
	KindServer          ErrorKind = "SERVER"
)

// AppError is the typed failure services return. The error handler
// middleware maps it onto the HTTP envelope so clients can branch on Kind.
type AppError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Status: fiber.StatusNotFound, Message: message}
}

func Unauthorized(message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Status: fiber.StatusUnauthorized, Message: message}
}

func TooManyRequests(message string) *AppError {
	return &AppError{Kind: KindTooManyRequests, Status: fiber.StatusTooManyRequests, Message: message}
}

func Validation(message string) *AppError {
	return &AppError{Kind: KindValidation, Status: fiber.StatusBadRequest, Message: message}
}

// Conflict is a VALIDATION-class failure carried on 409, used for
// duplicate registration.
func Conflict(message string) *AppError {
	return &AppError{Kind: KindValidation, Status: fiber.StatusConflict, Message: message}
}

func Server(err error) *AppError {
	return &AppError{Kind: KindServer, Status: fiber.StatusInternalServerError, Message: "internal server error", Err: err}
}
