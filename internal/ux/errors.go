package ux

import (
	"errors"
	"net/http"
	"strings"

	"github.com/felixgeelhaar/biblio/internal/api"
	berrors "github.com/felixgeelhaar/biblio/internal/errors"
)

// Hinted is an error printed with one recovery hint under it
type Hinted struct {
	Err  error
	Hint string
}

func (h *Hinted) Error() string {
	return h.Err.Error() + "\n\n💡 " + h.Hint
}

func (h *Hinted) Unwrap() error {
	return h.Err
}

type hintRule struct {
	match func(error) bool
	hint  string
}

func apiStatus(match func(int) bool) func(error) bool {
	return func(err error) bool {
		var apiErr *api.Error
		return errors.As(err, &apiErr) && match(apiErr.StatusCode)
	}
}

func is(code int) func(int) bool { return func(s int) bool { return s == code } }

func mentions(fragments ...string) func(error) bool {
	return func(err error) bool {
		msg := err.Error()
		for _, f := range fragments {
			if strings.Contains(msg, f) {
				return true
			}
		}
		return false
	}
}

// hintRules are tried in order; the first match wins
var hintRules = []hintRule{
	{apiStatus(is(http.StatusUnauthorized)), "Your session is missing or expired. Run 'biblio login' again"},
	{apiStatus(is(http.StatusForbidden)), "Your role does not allow this action. Check it with 'biblio whoami'"},
	{apiStatus(is(http.StatusNotFound)), "The item does not exist anymore. List it again to get a fresh id"},
	{apiStatus(func(s int) bool { return s >= http.StatusInternalServerError }), "The library server failed. Try again later"},
	{mentions("connection refused", "no such host", "no route to host"),
		"Check that the API is running and that api.url is right ('biblio config view')"},
	{mentions("permission denied"), "Check permissions on the biblio directory (BIBLIO_HOME, default ~/.biblio)"},
	{mentions("no such file or directory"), "Check if the file path is correct"},
}

// EnhanceError adds a hint to uncoded errors that match a known failure.
// Coded errors already carry their suggestions and are returned as is.
func EnhanceError(err error) error {
	if err == nil || berrors.CodeOf(err) != "" {
		return err
	}
	for _, rule := range hintRules {
		if rule.match(err) {
			return &Hinted{Err: err, Hint: rule.hint}
		}
	}
	return err
}
