package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/biblio/internal/authz"
	berrors "github.com/felixgeelhaar/biblio/internal/errors"
	"github.com/felixgeelhaar/biblio/internal/guard"
	"github.com/felixgeelhaar/biblio/internal/session"
)

// fixedSession is a SessionSource that tests mutate between navigations
type fixedSession struct {
	sess session.Session
}

func (f *fixedSession) Snapshot() session.Session { return f.sess }

func (f *fixedSession) as(role authz.Role) *fixedSession {
	f.sess = session.Session{User: &session.Identity{ID: "1", Role: role}, Token: "tok"}
	return f
}

func (f *fixedSession) logout() {
	f.sess = session.Session{}
}

func TestResolve_Table(t *testing.T) {
	tests := []struct {
		role     authz.Role
		path     string
		wantKind guard.Kind
		wantPath string
	}{
		{authz.RoleUser, PathDashboard, guard.Render, ""},
		{authz.RoleUser, PathChat, guard.Render, ""},
		{authz.RoleUser, PathMyLibrary, guard.Render, ""},
		{authz.RoleUser, PathSearch, guard.Render, ""},
		{authz.RoleUser, PathGeneralLibrary, guard.Redirect, PathDashboard},
		{authz.RoleUser, PathApprovals, guard.Redirect, PathDashboard},
		{authz.RoleUser, PathUsers, guard.Fallback, ""},
		{authz.RoleAdmin, PathGeneralLibrary, guard.Render, ""},
		{authz.RoleAdmin, PathApprovals, guard.Redirect, PathDashboard},
		{authz.RoleAdmin, PathUsers, guard.Fallback, ""},
		{authz.RoleSuperAdmin, PathGeneralLibrary, guard.Render, ""},
		{authz.RoleSuperAdmin, PathApprovals, guard.Render, ""},
		{authz.RoleSuperAdmin, PathUsers, guard.Render, ""},
		{authz.RoleUser, PathLogin, guard.Render, ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+tt.path, func(t *testing.T) {
			r := NewDefault((&fixedSession{}).as(tt.role))
			res := r.Resolve(tt.path)
			require.True(t, res.Found)
			assert.Equal(t, tt.wantKind, res.Decision.Kind, res.Decision.String())
			assert.Equal(t, tt.wantPath, res.Decision.Path)
		})
	}
}

func TestResolve_Anonymous(t *testing.T) {
	r := NewDefault(&fixedSession{})

	for _, route := range DefaultRoutes() {
		res := r.Resolve(route.Path)
		if route.Public() {
			assert.Equal(t, guard.Render, res.Decision.Kind, route.Path)
			continue
		}
		assert.Equal(t, guard.Redirect, res.Decision.Kind, route.Path)
		assert.Equal(t, PathLogin, res.Decision.Path, route.Path)
	}
}

func TestResolve_Loading(t *testing.T) {
	src := &fixedSession{sess: session.Session{IsLoading: true}}
	r := NewDefault(src)

	assert.Equal(t, guard.Loading, r.Resolve(PathUsers).Decision.Kind)
	assert.Equal(t, guard.Loading, r.Resolve(PathChat).Decision.Kind)
}

func TestResolve_NotFound(t *testing.T) {
	r := NewDefault((&fixedSession{}).as(authz.RoleUser))
	res := r.Resolve("/nowhere")
	assert.False(t, res.Found)
	assert.Nil(t, res.Route)
}

func TestResolve_ReevaluatedPerNavigation(t *testing.T) {
	src := (&fixedSession{}).as(authz.RoleSuperAdmin)
	r := NewDefault(src)

	assert.Equal(t, guard.Render, r.Resolve(PathUsers).Decision.Kind)

	src.logout()
	res := r.Resolve(PathUsers)
	assert.Equal(t, guard.Redirect, res.Decision.Kind)
	assert.Equal(t, PathLogin, res.Decision.Path, "logged out on a superadmin page lands on login, not the dashboard")
}

func TestNavigate(t *testing.T) {
	t.Run("admin on approvals lands on dashboard", func(t *testing.T) {
		r := NewDefault((&fixedSession{}).as(authz.RoleAdmin))
		nav, err := r.Navigate(PathApprovals)
		require.NoError(t, err)
		assert.True(t, nav.Redirected())
		assert.Equal(t, PathDashboard, nav.Final.Path)
		assert.Equal(t, guard.Render, nav.Final.Decision.Kind)
		assert.Equal(t, []string{PathApprovals, PathDashboard}, nav.Visited)
	})

	t.Run("anonymous lands on login", func(t *testing.T) {
		r := NewDefault(&fixedSession{})
		nav, err := r.Navigate(PathGeneralLibrary)
		require.NoError(t, err)
		assert.Equal(t, PathLogin, nav.Final.Path)
	})

	t.Run("root aliases login", func(t *testing.T) {
		r := NewDefault(&fixedSession{})
		nav, err := r.Navigate("")
		require.NoError(t, err)
		assert.Equal(t, []string{PathRoot, PathLogin}, nav.Visited)
	})

	t.Run("rendered path is not redirected", func(t *testing.T) {
		r := NewDefault((&fixedSession{}).as(authz.RoleUser))
		nav, err := r.Navigate("search/")
		require.NoError(t, err)
		assert.False(t, nav.Redirected())
		assert.Equal(t, PathSearch, nav.Final.Path)
	})

	t.Run("fallback stops navigation", func(t *testing.T) {
		r := NewDefault((&fixedSession{}).as(authz.RoleAdmin))
		nav, err := r.Navigate(PathUsers)
		require.NoError(t, err)
		assert.False(t, nav.Redirected())
		assert.Equal(t, guard.Fallback, nav.Final.Decision.Kind)
		assert.Equal(t, ViewForbidden, nav.Final.Decision.Fallback)
	})

	t.Run("unknown path", func(t *testing.T) {
		r := NewDefault((&fixedSession{}).as(authz.RoleUser))
		_, err := r.Navigate("/nowhere")
		require.Error(t, err)
		assert.Equal(t, berrors.ErrCodeRouteNotFound, berrors.CodeOf(err))
	})
}

func TestNavigate_Loop(t *testing.T) {
	routes := []Route{
		{Path: "/a", Rules: []guard.Rule{{RedirectPath: "/b"}}},
		{Path: "/b", Rules: []guard.Rule{{RedirectPath: "/a"}}},
	}
	r := New(&fixedSession{}, routes)

	_, err := r.Navigate("/a")
	require.Error(t, err)
	assert.Equal(t, berrors.ErrCodeRouteLoop, berrors.CodeOf(err))
}

func TestNavigate_Unbounded(t *testing.T) {
	var routes []Route
	paths := []string{"/p0", "/p1", "/p2", "/p3", "/p4", "/p5", "/p6", "/p7"}
	for i := 0; i < len(paths)-1; i++ {
		routes = append(routes, Route{Path: paths[i], Rules: []guard.Rule{{RedirectPath: paths[i+1]}}})
	}
	routes = append(routes, Route{Path: paths[len(paths)-1]})
	r := New(&fixedSession{}, routes)

	_, err := r.Navigate("/p0")
	require.Error(t, err)
	assert.Equal(t, berrors.ErrCodeRouteUnbounded, berrors.CodeOf(err))
}

func TestMenu(t *testing.T) {
	r := NewDefault(&fixedSession{})

	paths := func(routes []Route) []string {
		var out []string
		for _, route := range routes {
			out = append(out, route.Path)
		}
		return out
	}

	assert.Equal(t, []string{PathDashboard, PathMyLibrary, PathSearch, PathChat}, paths(r.Menu(authz.RoleUser)))
	assert.Equal(t, []string{PathDashboard, PathGeneralLibrary, PathMyLibrary, PathSearch, PathChat}, paths(r.Menu(authz.RoleAdmin)))
	assert.Equal(t, []string{
		PathDashboard, PathGeneralLibrary, PathMyLibrary, PathSearch, PathChat, PathApprovals, PathUsers,
	}, paths(r.Menu(authz.RoleSuperAdmin)))
}

func TestDestination(t *testing.T) {
	assert.Equal(t, PathChat, Destination(authz.RoleUser))
	assert.Equal(t, PathDashboard, Destination(authz.RoleAdmin))
	assert.Equal(t, PathDashboard, Destination(authz.RoleSuperAdmin))
}

func TestClean(t *testing.T) {
	assert.Equal(t, "/", Clean(""))
	assert.Equal(t, "/users", Clean("users"))
	assert.Equal(t, "/users", Clean(" /users/ "))
	assert.Equal(t, "/", Clean("/"))
}

func TestLookup(t *testing.T) {
	r := NewDefault(&fixedSession{})
	route, ok := r.Lookup("users")
	require.True(t, ok)
	assert.Equal(t, "Gestion utilisateurs", route.Title)

	_, ok = r.Lookup("/nope")
	assert.False(t, ok)
}
