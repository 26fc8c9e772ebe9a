// Package apperr normalizes anything a failed operation can produce into a
// single error shape, and gives callers a success/data calling convention so
// failures never escape into command handlers.
package apperr

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
	json "github.com/json-iterator/go"
)

const (
	// FallbackMessage is used when an error carries no message of its own
	FallbackMessage = "Something went wrong. Please try again."
	// CodeUnknown marks errors that could not be classified
	CodeUnknown = "unknown_error"
	// CodeValidation marks errors raised before a request is issued
	CodeValidation = "validation_error"
)

// AppError is the uniform error shape every failure is reduced to.
type AppError struct {
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Status  int                    `json:"status,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("[%d] %s: %s", e.Status, e.Code, e.Message)
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// serverError is the error body the backend sends alongside failure statuses
type serverError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// FromResponse builds an AppError from a non-success HTTP response,
// preferring the server-provided message and client error code.
func FromResponse(resp *resty.Response) *AppError {
	status := resp.StatusCode()

	var body serverError
	if err := json.Unmarshal(resp.Body(), &body); err == nil && body.Message != "" {
		code := body.Code
		if code == "" {
			code = CodeUnknown
		}
		return &AppError{
			Message: body.Message,
			Code:    code,
			Status:  status,
			Details: body.Details,
		}
	}

	msg := resp.Status()
	if msg == "" {
		msg = FallbackMessage
	}
	return &AppError{
		Message: msg,
		Code:    CodeUnknown,
		Status:  status,
	}
}

// Normalize converts any thrown value into an AppError. Classification
// order: already-normalized HTTP error, generic error, unknown value.
// The returned Message is never empty.
func Normalize(v interface{}) *AppError {
	switch err := v.(type) {
	case nil:
		return &AppError{Message: FallbackMessage, Code: CodeUnknown}
	case *AppError:
		if err.Message == "" {
			err.Message = FallbackMessage
		}
		return err
	case error:
		msg := err.Error()
		if msg == "" {
			msg = FallbackMessage
		}
		return &AppError{Message: msg}
	default:
		return &AppError{Message: FallbackMessage, Code: CodeUnknown}
	}
}

// Validation builds an error for input rejected before any request is made
func Validation(field, reason string) *AppError {
	return &AppError{
		Message: fmt.Sprintf("%s: %s", field, reason),
		Code:    CodeValidation,
	}
}

// IsUnauthorized checks if error is due to missing/invalid authentication
func IsUnauthorized(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Status == 401
	}
	return false
}

// IsNotFound checks if error is due to resource not found
func IsNotFound(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Status == 404
	}
	return false
}

// IsServerError checks if error is due to server error (5xx)
func IsServerError(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Status >= 500
	}
	return false
}

// CheckResponse returns an AppError for transport failures and non-success
// statuses, nil otherwise.
func CheckResponse(resp *resty.Response, err error) error {
	if err != nil {
		return Normalize(err)
	}
	if !resp.IsSuccess() {
		return FromResponse(resp)
	}
	return nil
}

var handlerMu sync.RWMutex
var handler func(*AppError)

// SetHandler registers the app-wide error handler. Registration is
// last-writer-wins: a second call replaces the first.
func SetHandler(h func(*AppError)) {
	handlerMu.Lock()
	handler = h
	handlerMu.Unlock()
}

// ClearHandler removes the registered handler
func ClearHandler() {
	SetHandler(nil)
}

// Notify invokes the registered handler, if any, with the normalized error
func Notify(err *AppError) {
	handlerMu.RLock()
	h := handler
	handlerMu.RUnlock()
	if h != nil {
		h(err)
	}
}

// Tracker tracks whether a wrapped call is in flight
type Tracker struct {
	inFlight atomic.Bool
}

// InFlight reports whether a call wrapped with this tracker is running
func (t *Tracker) InFlight() bool {
	return t.inFlight.Load()
}

// Call runs fn and converts its outcome into a (data, success) pair instead
// of an error. On failure the zero value is returned, success is false, and
// the registered handler is notified with the normalized error. The tracker
// is optional and reports in-flight state for the duration of fn.
func Call[T any](t *Tracker, fn func() (T, error)) (T, bool) {
	if t != nil {
		t.inFlight.Store(true)
		defer t.inFlight.Store(false)
	}

	data, err := fn()
	if err != nil {
		Notify(Normalize(err))
		var zero T
		return zero, false
	}
	return data, true
}
