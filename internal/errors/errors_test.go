package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeLoginFailed, "test error message")

	if err.Code != ErrCodeLoginFailed {
		t.Errorf("expected code %s, got %s", ErrCodeLoginFailed, err.Code)
	}

	if err.Message != "test error message" {
		t.Errorf("expected message 'test error message', got '%s'", err.Message)
	}

	if err.Cause != nil {
		t.Errorf("expected nil cause, got %v", err.Cause)
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("underlying error")
	err := Wrap(ErrCodeSessionRead, "failed to read session", cause)

	if err.Code != ErrCodeSessionRead {
		t.Errorf("expected code %s, got %s", ErrCodeSessionRead, err.Code)
	}

	if !errors.Is(err, cause) {
		t.Errorf("Wrap should support errors.Is")
	}
}

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name     string
		err      *BiblioError
		wantCode string
		wantMsg  string
	}{
		{
			name:     "simple error",
			err:      New(ErrCodeRouteNotFound, "no view"),
			wantCode: "ROUTE-001",
			wantMsg:  "no view",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeAPIResponse, "request failed", fmt.Errorf("permission denied")),
			wantCode: "API-002",
			wantMsg:  "permission denied",
		},
		{
			name:     "suggestions are listed",
			err:      NewNotAuthenticatedError(),
			wantCode: "AUTH-001",
			wantMsg:  "biblio login",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errStr := tt.err.Error()

			if !strings.Contains(errStr, tt.wantCode) {
				t.Errorf("error string should contain code %s, got: %s", tt.wantCode, errStr)
			}

			if !strings.Contains(errStr, tt.wantMsg) {
				t.Errorf("error string should contain message '%s', got: %s", tt.wantMsg, errStr)
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", NewForbiddenError("/users"))

	if got := CodeOf(wrapped); got != ErrCodeForbidden {
		t.Errorf("CodeOf() = %s, want %s", got, ErrCodeForbidden)
	}
	if got := CodeOf(errors.New("plain")); got != "" {
		t.Errorf("CodeOf(plain) = %s, want empty", got)
	}
}

func TestHasCategory(t *testing.T) {
	if !HasCategory(NewNotAuthenticatedError(), "AUTH") {
		t.Error("expected AUTH category")
	}
	if HasCategory(NewRouteNotFoundError("/x"), "AUTH") {
		t.Error("ROUTE error should not be in AUTH category")
	}
	if HasCategory(nil, "AUTH") {
		t.Error("nil error has no category")
	}
}

func TestIs_MatchesByCode(t *testing.T) {
	err := fmt.Errorf("users: %w", NewForbiddenError("/users"))

	if !errors.Is(err, New(ErrCodeForbidden, "")) {
		t.Error("errors.Is should match a BiblioError with the same code")
	}
	if errors.Is(err, New(ErrCodeNotAuthenticated, "")) {
		t.Error("errors.Is should not match a different code")
	}
}

func TestCategory(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{ErrCodeNotAuthenticated, "AUTH"},
		{ErrCodeSessionBackend, "SESSION"},
		{ErrCodeFileReadFailed, "IO"},
		{ErrorCode("plain"), "plain"},
	}

	for _, tt := range tests {
		if got := tt.code.Category(); got != tt.want {
			t.Errorf("%s.Category() = %q, want %q", tt.code, got, tt.want)
		}
	}
}
