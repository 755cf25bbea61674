package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sony/gobreaker"
)

// Generic messages used when the server gives no detail.
const (
	MsgFetchFailed  = "Failed to fetch graph"
	MsgAddFailed    = "Failed to add keyword"
	MsgExportFailed = "Failed to export node"
	MsgDeleteFailed = "Failed to delete node"
)

// APIError represents a non-2xx response from the mind map server.
type APIError struct {
	StatusCode int    `json:"-"`
	Detail     string `json:"detail"`
	RequestID  string `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := e.Detail
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.RequestID != "" {
		return fmt.Sprintf("mindmap: %d: %s (request_id=%s)", e.StatusCode, msg, e.RequestID)
	}
	return fmt.Sprintf("mindmap: %d: %s", e.StatusCode, msg)
}

// IsNotFound returns true if the error is a 404 not found.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsBadRequest returns true if the server rejected the request (400).
func IsBadRequest(err error) bool {
	return hasStatus(err, http.StatusBadRequest)
}

// IsUnavailable returns true if the circuit breaker refused the call.
func IsUnavailable(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

func hasStatus(err error, status int) bool {
	var e *APIError
	if errors.As(err, &e) {
		return e.StatusCode == status
	}
	return false
}

// Message turns err into the one line shown to the user: the server's
// detail when it sent one, otherwise fallback.
func Message(err error, fallback string) string {
	var e *APIError
	if errors.As(err, &e) && e.Detail != "" {
		return e.Detail
	}
	return fallback
}

// countsAsSuccess keeps 4xx responses from tripping the circuit breaker.
func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	var e *APIError
	return errors.As(err, &e) && e.StatusCode < 500
}

// parseAPIError decodes the server's {"detail": ...} body. Validation
// errors carry a list of {"msg": ...} objects instead of a string.
func parseAPIError(statusCode int, body []byte, requestID string) *APIError {
	apiErr := &APIError{StatusCode: statusCode, RequestID: requestID}

	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return apiErr
	}

	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err == nil {
		apiErr.Detail = detail
		return apiErr
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		apiErr.Detail = strings.Join(msgs, "; ")
	}
	return apiErr
}
