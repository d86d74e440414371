package errors

import (
	stderrors "errors"
	"net/http"
)

var (
	// NotFound is returned by stores when the requested record does not exist
	// or is soft-deleted.
	NotFound = stderrors.New("not found")
	// ErrDuplicateEmail is returned by stores when the unique email constraint
	// rejects an insert.
	ErrDuplicateEmail = stderrors.New("duplicate email")
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

func IsNotFound(err error) bool {
	if stderrors.Is(err, NotFound) {
		return true
	}
	var e *ErrorWithStatusCode
	return stderrors.As(err, &e) && e.StatusCode == http.StatusNotFound
}

func IsDuplicateEmail(err error) bool {
	return stderrors.Is(err, ErrDuplicateEmail)
}

func BadRequest(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusBadRequest}
}

func NotFoundError(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusNotFound}
}

func TooManyRequests(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusTooManyRequests}
}

// As and Is mirror the standard library so callers importing this package
// under the name errors do not need a second import.
func As(err error, target any) bool { return stderrors.As(err, target) }

func Is(err, target error) bool { return stderrors.Is(err, target) }
