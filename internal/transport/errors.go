package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinels matched by APIError and TransportError via errors.Is.
var (
	ErrAPI       = errors.New("mmws api error")
	ErrTransport = errors.New("mmws transport error")
)

// APIError is a request the server rejected with a structured error
// envelope. It is returned as is and never retried.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Is(target error) bool { return target == ErrAPI }

// TransportError is a response with an unexpected status and no decodable
// error envelope.
type TransportError struct {
	StatusCode int
	Status     string
	Body       string // leading part of the response body, for diagnostics
}

func (e *TransportError) Error() string {
	status := e.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	if e.Body == "" {
		return "unexpected status " + status
	}
	return fmt.Sprintf("unexpected status %s: %s", status, e.Body)
}

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// StatusCode returns the HTTP status carried by an APIError or
// TransportError in err's chain, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	var tErr *TransportError
	if errors.As(err, &tErr) {
		return tErr.StatusCode
	}
	return 0
}

const maxErrorBody = 1024

type errorEnvelope struct {
	Error *struct {
		Code    json.RawMessage `json:"code"`
		Message string          `json:"message"`
	} `json:"error"`
}

// decodeError maps a failed response to an error. It is the only place
// that knows the error envelope; every verb goes through it.
func decodeError(statusCode int, status string, body []byte) error {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil {
		code := codeString(env.Error.Code)
		if code != "" || env.Error.Message != "" {
			return &APIError{StatusCode: statusCode, Code: code, Message: env.Error.Message}
		}
	}
	snippet := strings.TrimSpace(string(body))
	if len(snippet) > maxErrorBody {
		snippet = snippet[:maxErrorBody]
	}
	return &TransportError{StatusCode: statusCode, Status: status, Body: snippet}
}

// codeString normalizes the error code, which the API sends either as a
// string or as a number.
func codeString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
