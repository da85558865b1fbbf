// Package session owns the authenticated identity and credential of the running process.
//
// One Store is created by the application root and injected into the router, the views
// and the API client. Its user and token are always set and cleared together.
package session

import (
	"encoding/json"
	"strings"

	"github.com/felixgeelhaar/biblio/internal/authz"
)

// Identity is the authenticated account
type Identity struct {
	ID    string     `json:"id"`
	Email string     `json:"email"`
	Name  string     `json:"name"`
	Role  authz.Role `json:"role"`
}

// DisplayName returns Name, or Email when the name is blank
func (i Identity) DisplayName() string {
	if strings.TrimSpace(i.Name) != "" {
		return i.Name
	}
	return i.Email
}

// parseIdentity decodes a persisted identity. The role is normalized again so that
// values written by other clients still collapse to the canonical set.
func parseIdentity(raw string) (*Identity, bool) {
	var stored struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
		Role  string `json:"role"`
	}
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, false
	}
	if stored.ID == "" && stored.Email == "" {
		return nil, false
	}
	return &Identity{
		ID:    stored.ID,
		Email: stored.Email,
		Name:  stored.Name,
		Role:  authz.Normalize(stored.Role),
	}, true
}

// Session is a point-in-time copy of the store state
type Session struct {
	User      *Identity
	Token     string
	IsLoading bool
}

// Authenticated reports whether a user is logged in and the store is settled
func (s Session) Authenticated() bool {
	return !s.IsLoading && s.User != nil
}

// Role returns the user's role, or "" without a user
func (s Session) Role() authz.Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}
