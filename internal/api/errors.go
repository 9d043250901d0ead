package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an API failure so callers can branch on meaning
// instead of re-parsing raw status codes and bodies at every call site.
type Kind string

const (
	KindNetwork    Kind = "network"
	KindAuth       Kind = "auth"
	KindForbidden  Kind = "forbidden"
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindNotFound   Kind = "not_found"
	KindServer     Kind = "server"
	KindUnknown    Kind = "unknown"
)

// APIError is the tagged result produced once at the transport boundary.
type APIError struct {
	Status  int
	Kind    Kind
	Message string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// ErrorKind extracts the Kind from an error chain, or KindUnknown
func ErrorKind(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// Message returns the user-facing message from an API error, or the
// generic fallback for anything unstructured.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return GenericFailureMessage
}

// GenericFailureMessage is shown when the backend gives us nothing usable.
// Raw technical errors never reach the user as the primary message.
const GenericFailureMessage = "the operation failed, please try again"

// IsRetryable reports whether a failure is worth retrying. Authorization
// failures are never retried: the session has already been cleared and
// repeating the request cannot succeed.
func IsRetryable(err error) bool {
	switch ErrorKind(err) {
	case KindNetwork, KindServer:
		return true
	default:
		return false
	}
}

// errorBody is the backend's error envelope. The message field arrives
// either as a single string or as an array of strings.
type errorBody struct {
	Message json.RawMessage `json:"message"`
	Error   string          `json:"error"`
}

// parseError turns a non-2xx response into an APIError, extracting the
// backend-provided message when one is present.
func parseError(status int, body []byte) *APIError {
	return &APIError{
		Status:  status,
		Kind:    kindForStatus(status),
		Message: extractMessage(body),
	}
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindAuth
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status >= 400 && status < 500:
		return KindValidation
	case status >= 500:
		return KindServer
	default:
		return KindUnknown
	}
}

// extractMessage handles both message shapes the backend emits:
// a plain string and an array of strings (first element wins).
func extractMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return GenericFailureMessage
	}

	if len(eb.Message) > 0 {
		var single string
		if err := json.Unmarshal(eb.Message, &single); err == nil && single != "" {
			return single
		}

		var many []string
		if err := json.Unmarshal(eb.Message, &many); err == nil && len(many) > 0 && many[0] != "" {
			return many[0]
		}
	}

	if eb.Error != "" {
		return eb.Error
	}

	return GenericFailureMessage
}
