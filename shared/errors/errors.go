package errors

import (
	"errors"
	"net/http"
)

// ErrNotFound is returned by storage when a thread or reply id does not resolve.
var ErrNotFound = errors.New("not found")

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindOwnershipMismatch
	KindUnauthorized
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindOwnershipMismatch:
		return "ownership_mismatch"
	case KindUnauthorized:
		return "unauthorized"
	case KindPersistence:
		return "persistence"
	default:
		return "internal"
	}
}

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
	Kind       Kind
	Err        error // underlying cause, never shown to the client
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

func (e *ErrorWithStatusCode) Unwrap() error {
	return e.Err
}

func Validation(msg string) error {
	return &ErrorWithStatusCode{Message: msg, StatusCode: http.StatusBadRequest, Kind: KindValidation}
}

func NotFound(msg string) error {
	return &ErrorWithStatusCode{Message: msg, StatusCode: http.StatusNotFound, Kind: KindNotFound}
}

func OwnershipMismatch(msg string) error {
	return &ErrorWithStatusCode{Message: msg, StatusCode: http.StatusBadRequest, Kind: KindOwnershipMismatch}
}

func Unauthorized(msg string) error {
	return &ErrorWithStatusCode{Message: msg, StatusCode: http.StatusUnauthorized, Kind: KindUnauthorized}
}

func Persistence(msg string, cause error) error {
	return &ErrorWithStatusCode{Message: msg, StatusCode: http.StatusInternalServerError, Kind: KindPersistence, Err: cause}
}

// KindOf returns the kind of err, KindInternal for errors of unknown origin.
func KindOf(err error) Kind {
	var e *ErrorWithStatusCode
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
