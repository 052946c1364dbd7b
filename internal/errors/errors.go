package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a domain failure. Every kind maps to exactly one HTTP status.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindPaymentRequired
	KindForbidden
	KindNotFound
	KindTimeout
	KindConflict
	KindUnprocessableEntity
)

var kindStatus = map[Kind]int{
	KindInternal:            http.StatusInternalServerError,
	KindValidation:          http.StatusBadRequest,
	KindUnauthorized:        http.StatusUnauthorized,
	KindPaymentRequired:     http.StatusPaymentRequired,
	KindForbidden:           http.StatusForbidden,
	KindNotFound:            http.StatusNotFound,
	KindTimeout:             http.StatusRequestTimeout,
	KindConflict:            http.StatusConflict,
	KindUnprocessableEntity: http.StatusUnprocessableEntity,
}

// StatusCode returns the HTTP status for k.
func (k Kind) StatusCode() int {
	if code, ok := kindStatus[k]; ok {
		return code
	}
	return http.StatusInternalServerError
}

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindPaymentRequired:
		return "payment_required"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindTimeout:
		return "timeout"
	case KindConflict:
		return "conflict"
	case KindUnprocessableEntity:
		return "unprocessable_entity"
	default:
		return "internal"
	}
}

// AppError is a typed domain error carrying the message shown to clients.
type AppError struct {
	Kind    Kind
	Message string
	Data    interface{}
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

// New creates an AppError of the given kind.
func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

// Validation creates a 400 error.
func Validation(message string) *AppError { return New(KindValidation, message) }

// Unauthorized creates a 401 error.
func Unauthorized(message string) *AppError { return New(KindUnauthorized, message) }

// PaymentRequired creates a 402 error.
func PaymentRequired(message string) *AppError { return New(KindPaymentRequired, message) }

// Forbidden creates a 403 error.
func Forbidden(message string) *AppError { return New(KindForbidden, message) }

// NotFound creates a 404 error.
func NotFound(message string) *AppError { return New(KindNotFound, message) }

// Timeout creates a 408 error.
func Timeout(message string) *AppError { return New(KindTimeout, message) }

// Conflict creates a 409 error.
func Conflict(message string) *AppError { return New(KindConflict, message) }

// Unprocessable creates a 422 error.
func Unprocessable(message string) *AppError { return New(KindUnprocessableEntity, message) }

// Internal wraps an unexpected failure. The cause is kept for logs only.
func Internal(err error) *AppError {
	return &AppError{Kind: KindInternal, Message: "Something went very wrong!", Err: err}
}

// KindOf returns the kind of err, or KindInternal if err is not an AppError.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err is an AppError of kind k.
func Is(err error, k Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == k
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Data       interface{}
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{StatusCode: statusCode, Message: message}
}

// ToErrorResponse converts an HTTPError to the envelope. 4xx responses are
// "fail", everything else "error".
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	status := "error"
	if e.StatusCode >= 400 && e.StatusCode < 500 {
		status = "fail"
	}
	return ErrorResponse{Status: status, Message: e.Message, Data: e.Data}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Internal details are only
// exposed when exposeInternal is set.
func MapErrorToHTTP(err error, exposeInternal bool) *HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Kind == KindInternal {
			return internalHTTPError(err, exposeInternal)
		}
		return &HTTPError{
			StatusCode: appErr.Kind.StatusCode(),
			Message:    appErr.Message,
			Data:       appErr.Data,
		}
	}
	return internalHTTPError(err, exposeInternal)
}

func internalHTTPError(err error, exposeInternal bool) *HTTPError {
	msg := "Something went very wrong!"
	if exposeInternal && err != nil {
		msg = err.Error()
	}
	return NewHTTPError(http.StatusInternalServerError, msg)
}
