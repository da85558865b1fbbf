// Package router holds the static route table and resolves navigation against the
// current session.
package router

import (
	"strings"

	"github.com/felixgeelhaar/biblio/internal/authz"
	berrors "github.com/felixgeelhaar/biblio/internal/errors"
	"github.com/felixgeelhaar/biblio/internal/guard"
	"github.com/felixgeelhaar/biblio/internal/session"
)

// MaxHops bounds redirect chains followed by Navigate
const MaxHops = 5

// SessionSource provides the snapshot evaluated on each navigation.
// *session.Store satisfies it.
type SessionSource interface {
	Snapshot() session.Session
}

// Result is the outcome of resolving one path
type Result struct {
	Path     string
	Route    *Route
	Decision guard.Decision
	Found    bool
}

// Navigation is the outcome of following redirects from Requested
type Navigation struct {
	Requested string
	Visited   []string
	Final     Result
}

// Redirected reports whether navigation ended somewhere other than the request
func (n Navigation) Redirected() bool {
	return n.Final.Path != n.Requested
}

// Router resolves paths against a fixed route table
type Router struct {
	sessions SessionSource
	routes   []Route
	byPath   map[string]int
	aliases  map[string]string
}

// New creates a router over routes. The table is copied and never mutated.
func New(sessions SessionSource, routes []Route) *Router {
	r := &Router{
		sessions: sessions,
		routes:   make([]Route, len(routes)),
		byPath:   make(map[string]int, len(routes)),
		aliases:  defaultAliases(),
	}
	copy(r.routes, routes)
	for i, route := range r.routes {
		r.byPath[route.Path] = i
	}
	return r
}

// NewDefault creates a router over DefaultRoutes
func NewDefault(sessions SessionSource) *Router {
	return New(sessions, DefaultRoutes())
}

// Routes returns a copy of the route table
func (r *Router) Routes() []Route {
	out := make([]Route, len(r.routes))
	copy(out, r.routes)
	return out
}

// Lookup returns the route registered at path
func (r *Router) Lookup(path string) (Route, bool) {
	i, ok := r.byPath[Clean(path)]
	if !ok {
		return Route{}, false
	}
	return r.routes[i], true
}

// Clean normalizes a user-typed path: leading slash, no trailing slash
func Clean(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return PathRoot
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}

// Resolve evaluates the guard chain of path against a fresh snapshot
func (r *Router) Resolve(path string) Result {
	return r.resolve(Clean(path), r.sessions.Snapshot())
}

func (r *Router) resolve(path string, sess session.Session) Result {
	if target, ok := r.aliases[path]; ok {
		return Result{
			Path:     path,
			Found:    true,
			Decision: guard.Decision{Kind: guard.Redirect, Path: target, Reason: "alias"},
		}
	}

	i, ok := r.byPath[path]
	if !ok {
		return Result{Path: path, Found: false}
	}

	route := r.routes[i]
	return Result{
		Path:     path,
		Route:    &route,
		Found:    true,
		Decision: guard.Chain(sess, route.Rules...),
	}
}

// Navigate resolves path and follows redirects until a non-redirect decision.
// The whole walk uses one snapshot. Unknown paths and redirect loops are errors.
func (r *Router) Navigate(path string) (Navigation, error) {
	sess := r.sessions.Snapshot()
	current := Clean(path)
	nav := Navigation{Requested: current}
	seen := map[string]bool{}

	for hop := 0; hop <= MaxHops; hop++ {
		if seen[current] {
			return nav, berrors.New(berrors.ErrCodeRouteLoop, "redirect loop at "+current)
		}
		seen[current] = true
		nav.Visited = append(nav.Visited, current)

		res := r.resolve(current, sess)
		nav.Final = res
		if !res.Found {
			return nav, berrors.NewRouteNotFoundError(current)
		}
		if res.Decision.Kind != guard.Redirect {
			return nav, nil
		}
		current = Clean(res.Decision.Path)
	}

	return nav, berrors.New(berrors.ErrCodeRouteUnbounded, "too many redirects from "+nav.Requested)
}

// Menu returns the sidebar routes whose chain renders for role
func (r *Router) Menu(role authz.Role) []Route {
	sess := session.Session{User: &session.Identity{Role: role}, Token: "menu"}

	var items []Route
	for _, route := range r.routes {
		if !route.Menu {
			continue
		}
		if guard.Chain(sess, route.Rules...).Kind == guard.Render {
			items = append(items, route)
		}
	}
	return items
}

// Destination is where a session lands after logging in
func Destination(role authz.Role) string {
	if role == authz.RoleUser {
		return PathChat
	}
	return PathDashboard
}
