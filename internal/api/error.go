package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Error is returned for any non-2xx response.
// Message is the response body text, or the status line when the body is empty.
type Error struct {
	StatusCode int
	Message    string
}

func newError(resp *http.Response, body []byte) *Error {
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = resp.Status
	}
	if msg == "" {
		msg = fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return &Error{StatusCode: resp.StatusCode, Message: msg}
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// Detail extracts a readable message from a DRF error body such as
// {"detail": "..."} or {"email": ["..."]}, falling back to Message.
func (e *Error) Detail() string {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(e.Message), &obj); err != nil || len(obj) == 0 {
		return e.Message
	}

	for _, key := range []string{"detail", "error", "message", "non_field_errors"} {
		if raw, ok := obj[key]; ok {
			if s := firstString(raw); s != "" {
				return s
			}
		}
	}

	fields := make([]string, 0, len(obj))
	for k := range obj {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, k := range fields {
		if s := firstString(obj[k]); s != "" {
			parts = append(parts, k+": "+s)
		}
	}
	if len(parts) == 0 {
		return e.Message
	}
	return strings.Join(parts, "; ")
}

func firstString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[0]
	}
	return ""
}

// StatusCode returns the HTTP status of an *Error in err's chain, or 0
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsUnauthorized reports whether the backend rejected the credential
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsForbidden reports a 403 from the backend
func IsForbidden(err error) bool {
	return StatusCode(err) == http.StatusForbidden
}

// IsNotFound reports a 404 from the backend
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}
