// Package errors defines biblio's coded errors. Codes are grouped by category
// (AUTH, API, SESSION, ROUTE, CONFIG, INPUT, IO) and the category decides the exit code.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Authentication errors (AUTH-001 to AUTH-099)
	ErrCodeNotAuthenticated  ErrorCode = "AUTH-001"
	ErrCodeLoginFailed       ErrorCode = "AUTH-002"
	ErrCodeForbidden         ErrorCode = "AUTH-003"
	ErrCodeCredentialMissing ErrorCode = "AUTH-004"

	// API errors (API-001 to API-099)
	ErrCodeAPIRequest     ErrorCode = "API-001"
	ErrCodeAPIResponse    ErrorCode = "API-002"
	ErrCodeAPIDecode      ErrorCode = "API-003"
	ErrCodeAPIUnreachable ErrorCode = "API-004"

	// Session storage errors (SESSION-001 to SESSION-099)
	ErrCodeSessionRead    ErrorCode = "SESSION-001"
	ErrCodeSessionWrite   ErrorCode = "SESSION-002"
	ErrCodeSessionBackend ErrorCode = "SESSION-003"

	// Routing errors (ROUTE-001 to ROUTE-099)
	ErrCodeRouteNotFound  ErrorCode = "ROUTE-001"
	ErrCodeRouteLoop      ErrorCode = "ROUTE-002"
	ErrCodeRouteRedirect  ErrorCode = "ROUTE-003"
	ErrCodeRouteUnbounded ErrorCode = "ROUTE-004"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigInvalid ErrorCode = "CONFIG-001"
	ErrCodeConfigRead    ErrorCode = "CONFIG-002"

	// Input validation errors (INPUT-001 to INPUT-099)
	ErrCodeInputRequired ErrorCode = "INPUT-001"
	ErrCodeInputInvalid  ErrorCode = "INPUT-002"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound   ErrorCode = "IO-001"
	ErrCodeFileReadFailed ErrorCode = "IO-002"
)

// BiblioError is an error with a stable code, a cause and recovery hints
type BiblioError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	Cause       error
}

// Error renders "[CODE] message: cause" followed by the suggestions, one per line
func (e *BiblioError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Code, e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, s := range e.Suggestions {
			fmt.Fprintf(&b, "\n  • %s", s)
		}
	}
	return b.String()
}

func (e *BiblioError) Unwrap() error {
	return e.Cause
}

// Is matches any BiblioError with the same code, so
// errors.Is(err, New(ErrCodeForbidden, "")) tests the code alone.
func (e *BiblioError) Is(target error) bool {
	t, ok := target.(*BiblioError)
	return ok && t.Code == e.Code
}

// Category is the code prefix, e.g. "AUTH" for AUTH-003
func (c ErrorCode) Category() string {
	category, _, _ := strings.Cut(string(c), "-")
	return category
}

func New(code ErrorCode, message string) *BiblioError {
	return &BiblioError{Code: code, Message: message}
}

func Wrap(code ErrorCode, message string, cause error) *BiblioError {
	return &BiblioError{Code: code, Message: message, Cause: cause}
}

// WithSuggestion appends a hint and returns e for chaining
func (e *BiblioError) WithSuggestion(suggestion string) *BiblioError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

func (e *BiblioError) WithSuggestions(suggestions ...string) *BiblioError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// CodeOf returns the code of the first BiblioError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var be *BiblioError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// HasCategory reports whether err carries a code in category, e.g. "AUTH".
func HasCategory(err error, category string) bool {
	code := CodeOf(err)
	return code != "" && code.Category() == category
}

// Common error constructors

// NewNotAuthenticatedError is returned when a command needs a session and none exists
func NewNotAuthenticatedError() *BiblioError {
	return New(ErrCodeNotAuthenticated, "not logged in").
		WithSuggestion("Run 'biblio login' to authenticate")
}

// NewLoginFailedError wraps an authentication endpoint failure
func NewLoginFailedError(email string, cause error) *BiblioError {
	return Wrap(ErrCodeLoginFailed, fmt.Sprintf("login failed for %s", email), cause).
		WithSuggestion("Check your email and password").
		WithSuggestion("Verify the API URL with 'biblio config view'")
}

// NewForbiddenError is returned when the session role cannot open a path
func NewForbiddenError(path string) *BiblioError {
	return New(ErrCodeForbidden, fmt.Sprintf("access denied to %s", path)).
		WithSuggestion("Ask a super administrator to grant you the required role")
}

// NewRedirectedError reports that navigation ended somewhere other than the requested path
func NewRedirectedError(requested, landed string) *BiblioError {
	return New(ErrCodeRouteRedirect, fmt.Sprintf("%s is not available for your role, redirected to %s", requested, landed))
}

// NewRouteNotFoundError creates an unknown path error
func NewRouteNotFoundError(path string) *BiblioError {
	return New(ErrCodeRouteNotFound, fmt.Sprintf("no view registered for %s", path)).
		WithSuggestion("Run 'biblio shell' to browse the available views")
}

// NewInputRequiredError creates a missing value error
func NewInputRequiredError(field string) *BiblioError {
	return New(ErrCodeInputRequired, fmt.Sprintf("%s is required", field)).
		WithSuggestion(fmt.Sprintf("Pass --%s or run the command in an interactive terminal", field))
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string) *BiblioError {
	return New(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path)).
		WithSuggestion("Check if the file path is correct").
		WithSuggestion("Verify the file exists and you have read permissions")
}
