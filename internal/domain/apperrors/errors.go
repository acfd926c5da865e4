package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation  Kind = "validation"
	KindNotFound    Kind = "not_found"
	KindConflict    Kind = "conflict"
	KindRateLimited Kind = "rate_limited"
	KindUpstream    Kind = "upstream"
	KindGeneration  Kind = "generation"
	KindInternal    Kind = "internal"
)

// Error carries a Kind so handlers can pick a status code without string matching.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Kind so errors.Is(err, apperrors.ErrNotFound) works for any not-found error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

var (
	ErrValidation  = New(KindValidation, "invalid request", nil)
	ErrNotFound    = New(KindNotFound, "not found", nil)
	ErrConflict    = New(KindConflict, "conflict", nil)
	ErrRateLimited = New(KindRateLimited, "rate limit exceeded", nil)
	ErrUpstream    = New(KindUpstream, "upstream service failure", nil)
	ErrGeneration  = New(KindGeneration, "answer generation failed", nil)
	ErrInternal    = New(KindInternal, "internal error", nil)
)

func Validation(message string) *Error {
	return New(KindValidation, message, nil)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message, nil)
}

func Upstream(message string, err error) *Error {
	return New(KindUpstream, message, err)
}

// Generation marks a failure to phrase an answer after good context was found.
func Generation(err error) *Error {
	return New(KindGeneration, "we found relevant information but could not phrase an answer, please retry", err)
}

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error to its response code and whether the client may retry.
func HTTPStatus(err error) (int, bool) {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest, false
	case KindNotFound:
		return http.StatusNotFound, false
	case KindConflict:
		return http.StatusConflict, false
	case KindRateLimited:
		return http.StatusTooManyRequests, true
	case KindUpstream:
		return http.StatusBadGateway, true
	case KindGeneration:
		return http.StatusServiceUnavailable, true
	default:
		return http.StatusInternalServerError, false
	}
}

// PublicMessage hides wrapped causes from clients.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal Server Error"
}
