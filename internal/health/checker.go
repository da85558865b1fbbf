// Package health runs the diagnostics behind 'biblio doctor'.
//
// A Checker verifies one dependency of the client: the API, the session storage
// backend, the stored credential. The Manager runs every checker in parallel under
// a timeout and reports results in registration order.
package health

import (
	"context"
	"time"
)

// Checker verifies one dependency
type Checker interface {
	// Name is lowercase with hyphens, e.g. "api", "session-storage".
	Name() string

	// Check must respect the context deadline.
	Check(ctx context.Context) *Result
}

// Status orders check outcomes from best to worst
type Status int

const (
	StatusHealthy Status = iota
	// StatusDegraded means commands still run with reduced function, e.g. no session
	StatusDegraded
	// StatusUnhealthy means commands depending on the check will fail
	StatusUnhealthy
)

var statusNames = [...]string{"healthy", "degraded", "unhealthy"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

// MarshalText renders the status name in JSON and YAML reports
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is the outcome of one check
type Result struct {
	Status  Status
	Message string

	// Details holds structured values such as the API URL or the HTTP status.
	Details map[string]interface{}

	Latency time.Duration
}

func NewResult(status Status, message string) *Result {
	return &Result{Status: status, Message: message, Details: map[string]interface{}{}}
}

// WithDetail sets key and returns r for chaining
func (r *Result) WithDetail(key string, value interface{}) *Result {
	r.Details[key] = value
	return r
}

func Healthy(message string) *Result   { return NewResult(StatusHealthy, message) }
func Degraded(message string) *Result  { return NewResult(StatusDegraded, message) }
func Unhealthy(message string) *Result { return NewResult(StatusUnhealthy, message) }
