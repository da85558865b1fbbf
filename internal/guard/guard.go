// Package guard decides whether a navigation target may be shown for a session.
//
// Evaluation is pure: it reads a session snapshot and a static rule and returns a
// Decision. Callers re-evaluate on every navigation.
package guard

import (
	"fmt"

	"github.com/felixgeelhaar/biblio/internal/authz"
	"github.com/felixgeelhaar/biblio/internal/session"
)

const (
	// LoginPath is where unauthenticated sessions are sent
	LoginPath = "/login"

	// LandingPath is where authenticated but unauthorized sessions are sent
	LandingPath = "/dashboard"
)

// Kind is the outcome of a guard evaluation
type Kind int

const (
	// Loading means the session is not settled; show a neutral indicator only.
	Loading Kind = iota
	// Redirect means navigate to Decision.Path instead.
	Redirect
	// Fallback means show Decision.Fallback in place of the target.
	Fallback
	// Render means show the target.
	Render
)

// String implements fmt.Stringer
func (k Kind) String() string {
	switch k {
	case Loading:
		return "loading"
	case Redirect:
		return "redirect"
	case Fallback:
		return "fallback"
	case Render:
		return "render"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Rule is a static access rule. The zero Rule admits any authenticated session
// and redirects anonymous ones to LoginPath.
type Rule struct {
	// AllowedRoles restricts the target to these roles. Nil means any
	// authenticated role; an empty non-nil set admits nobody.
	AllowedRoles authz.RoleSet

	// RedirectPath is used when there is no user. Empty means LoginPath.
	RedirectPath string

	// Fallback is rendered instead of redirecting when the role is not allowed.
	Fallback string
}

// Decision is the result of evaluating a rule
type Decision struct {
	Kind     Kind
	Path     string // redirect target, set for Redirect
	Fallback string // view to show, set for Fallback
	Reason   string
}

// String implements fmt.Stringer
func (d Decision) String() string {
	switch d.Kind {
	case Redirect:
		return fmt.Sprintf("redirect to %s (%s)", d.Path, d.Reason)
	case Fallback:
		return fmt.Sprintf("fallback %s (%s)", d.Fallback, d.Reason)
	default:
		return d.Kind.String()
	}
}

// Evaluate applies rule to sess:
//  1. loading: Loading, nothing else is decided
//  2. no user: Redirect to rule.RedirectPath
//  3. role not allowed: Fallback when declared, otherwise Redirect to LandingPath
//  4. Render
func Evaluate(sess session.Session, rule Rule) Decision {
	if sess.IsLoading {
		return Decision{Kind: Loading, Reason: "session loading"}
	}

	if sess.User == nil {
		path := rule.RedirectPath
		if path == "" {
			path = LoginPath
		}
		return Decision{Kind: Redirect, Path: path, Reason: "not authenticated"}
	}

	if !rule.AllowedRoles.Allows(sess.User.Role) {
		reason := fmt.Sprintf("role %s not in %s", sess.User.Role, rule.AllowedRoles)
		if rule.Fallback != "" {
			return Decision{Kind: Fallback, Fallback: rule.Fallback, Reason: reason}
		}
		return Decision{Kind: Redirect, Path: LandingPath, Reason: reason}
	}

	return Decision{Kind: Render}
}

// Chain evaluates rules outer to inner and returns the first decision that is not
// Render. An empty chain renders.
func Chain(sess session.Session, rules ...Rule) Decision {
	for _, rule := range rules {
		if d := Evaluate(sess, rule); d.Kind != Render {
			return d
		}
	}
	return Decision{Kind: Render}
}
