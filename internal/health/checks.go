package health

import (
	"context"
	"fmt"
	"net/http"

	"github.com/felixgeelhaar/biblio/internal/api"
	"github.com/felixgeelhaar/biblio/internal/session"
)

// Pinger is the part of the API client used to test reachability.
// *api.Client satisfies it.
type Pinger interface {
	BaseURL() string
	Ping(ctx context.Context) (int, error)
}

// APIChecker verifies the API answers
type APIChecker struct {
	client Pinger
}

// NewAPIChecker creates an API reachability check
func NewAPIChecker(client Pinger) *APIChecker {
	return &APIChecker{client: client}
}

// Name implements Checker
func (c *APIChecker) Name() string { return "api" }

// Check implements Checker. 5xx answers are degraded; no answer is unhealthy.
func (c *APIChecker) Check(ctx context.Context) *Result {
	status, err := c.client.Ping(ctx)
	if err != nil {
		return Unhealthy("API unreachable").
			WithDetail("url", c.client.BaseURL()).
			WithDetail("error", err.Error())
	}

	res := Healthy("API reachable")
	if status >= http.StatusInternalServerError {
		res = Degraded(fmt.Sprintf("API answers with %d", status))
	}
	return res.WithDetail("url", c.client.BaseURL()).WithDetail("status", status)
}

// StorageChecker verifies the session storage backend can be read
type StorageChecker struct {
	backend string
	storage session.Storage
}

// NewStorageChecker creates a storage check; backend names it in the report
func NewStorageChecker(backend string, storage session.Storage) *StorageChecker {
	return &StorageChecker{backend: backend, storage: storage}
}

// Name implements Checker
func (c *StorageChecker) Name() string { return "session-storage" }

// Check implements Checker
func (c *StorageChecker) Check(ctx context.Context) *Result {
	if _, _, err := c.storage.Get(ctx, session.KeyToken); err != nil {
		return Unhealthy(c.backend + " storage cannot be read").
			WithDetail("backend", c.backend).
			WithDetail("error", err.Error())
	}
	return Healthy(c.backend + " storage readable").WithDetail("backend", c.backend)
}

// SessionSource provides the current session. *session.Store satisfies it.
type SessionSource interface {
	Snapshot() session.Session
}

// Probe performs one authenticated request
type Probe func(ctx context.Context) error

// SessionChecker verifies a session exists and its token is accepted
type SessionChecker struct {
	sessions SessionSource
	probe    Probe
}

// NewSessionChecker creates a session check. probe runs only when logged in.
func NewSessionChecker(sessions SessionSource, probe Probe) *SessionChecker {
	return &SessionChecker{sessions: sessions, probe: probe}
}

// Name implements Checker
func (c *SessionChecker) Name() string { return "session" }

// Check implements Checker. No session is degraded; a rejected token is unhealthy.
func (c *SessionChecker) Check(ctx context.Context) *Result {
	snap := c.sessions.Snapshot()
	if !snap.Authenticated() {
		return Degraded("not logged in")
	}

	res := Healthy("logged in as " + snap.User.Email).
		WithDetail("email", snap.User.Email).
		WithDetail("role", snap.User.Role.String())
	if c.probe == nil {
		return res
	}

	if err := c.probe(ctx); err != nil {
		if api.IsUnauthorized(err) {
			return Unhealthy("stored token was rejected").WithDetail("email", snap.User.Email)
		}
		return Degraded("token could not be verified").WithDetail("error", err.Error())
	}
	return res
}
