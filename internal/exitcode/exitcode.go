// Package exitcode maps command errors to process exit codes.
package exitcode

import (
	"context"
	"errors"
	"net"
	"os"
	"strings"

	berrors "github.com/felixgeelhaar/biblio/internal/errors"
)

const (
	Success      = 0
	GeneralError = 1
	UsageError   = 2 // bad flags, missing arguments or values
	ConfigError  = 3
	AuthError    = 5 // not logged in, wrong role, redirected away
	NetworkError = 6
	Interrupted  = 130
)

// byCategory maps an error code category to its exit code
var byCategory = map[string]int{
	"AUTH":   AuthError,
	"CONFIG": ConfigError,
	"INPUT":  UsageError,
}

// byCode overrides the category for single codes
var byCode = map[berrors.ErrorCode]int{
	berrors.ErrCodeRouteRedirect:  AuthError,
	berrors.ErrCodeAPIUnreachable: NetworkError,
}

// cobraUsage are fragments of the usage errors cobra and pflag return
var cobraUsage = []string{"unknown flag", "unknown command", "unknown shorthand flag",
	"required flag", "accepts ", "requires at least", "flag needs an argument", "invalid argument"}

// Exit terminates the process
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError terminates the process with the code for err
func ExitWithError(err error) {
	Exit(DetermineExitCode(err))
}

// DetermineExitCode returns the exit code for err. Coded errors decide by code,
// then by category; uncoded errors by type, then by cobra's usage messages.
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	if code := berrors.CodeOf(err); code != "" {
		if exit, ok := byCode[code]; ok {
			return exit
		}
		if exit, ok := byCategory[code.Category()]; ok {
			return exit
		}
		return GeneralError
	}

	if errors.Is(err, context.Canceled) {
		return Interrupted
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return NetworkError
	}

	msg := strings.ToLower(err.Error())
	for _, fragment := range cobraUsage {
		if strings.Contains(msg, fragment) {
			return UsageError
		}
	}
	return GeneralError
}

// Describe returns a short description of code
func Describe(code int) string {
	switch code {
	case Success:
		return "success"
	case GeneralError:
		return "general error"
	case UsageError:
		return "invalid flags or arguments"
	case ConfigError:
		return "configuration error"
	case AuthError:
		return "not logged in or not allowed"
	case NetworkError:
		return "API unreachable"
	case Interrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}
