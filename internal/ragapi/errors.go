package ragapi

import (
	"encoding/json"
	"fmt"
)

// APIError is returned for any non-2xx response. It always carries the
// numeric status so callers can branch on it (401 vs 500).
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api request failed with status %d: %s", e.StatusCode, e.Message)
}

// buildError extracts a human-readable message from an error response body.
// The backend is inconsistent about the field name, so it probes "message"
// then "error", and falls back to a generic message when the body is
// malformed or absent.
func buildError(statusCode int, body []byte) *APIError {
	message := "request failed"

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			message = payload.Message
		} else if payload.Error != "" {
			message = payload.Error
		}
	}

	return &APIError{StatusCode: statusCode, Message: message}
}
