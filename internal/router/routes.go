package router

import (
	"github.com/felixgeelhaar/biblio/internal/authz"
	"github.com/felixgeelhaar/biblio/internal/guard"
)

// Paths of every navigable view
const (
	PathRoot           = "/"
	PathLogin          = guard.LoginPath
	PathChat           = "/chat"
	PathDashboard      = guard.LandingPath
	PathGeneralLibrary = "/general-library"
	PathMyLibrary      = "/my-library"
	PathSearch         = "/search"
	PathApprovals      = "/approvals"
	PathUsers          = "/users"
)

// ViewForbidden is the fallback rendered on /users for roles that may not manage accounts
const ViewForbidden = "forbidden"

// Route binds a path to its guard chain and sidebar entry
type Route struct {
	Path  string
	Title string

	// Rules are evaluated outer to inner. A route without rules is public.
	Rules []guard.Rule

	// Menu places the route in the sidebar for roles that pass the chain
	Menu bool
}

// Public reports whether the route skips authentication
func (r Route) Public() bool {
	return len(r.Rules) == 0
}

// layout is the shared outer rule: any authenticated session
var layout = guard.Rule{}

// DefaultRoutes returns the application's static route table in sidebar order
func DefaultRoutes() []Route {
	return []Route{
		{Path: PathLogin, Title: "Connexion"},
		{Path: PathDashboard, Title: "Tableau de bord", Rules: []guard.Rule{layout}, Menu: true},
		{
			Path:  PathGeneralLibrary,
			Title: "Bibliothèque générale",
			Rules: []guard.Rule{layout, {AllowedRoles: authz.NewRoleSet(authz.RoleAdmin, authz.RoleSuperAdmin)}},
			Menu:  true,
		},
		{Path: PathMyLibrary, Title: "Ma bibliothèque", Rules: []guard.Rule{layout}, Menu: true},
		{Path: PathSearch, Title: "Recherche", Rules: []guard.Rule{layout}, Menu: true},
		{Path: PathChat, Title: "Assistant", Rules: []guard.Rule{{}}, Menu: true},
		{
			Path:  PathApprovals,
			Title: "Validation documents",
			Rules: []guard.Rule{layout, {AllowedRoles: authz.NewRoleSet(authz.RoleSuperAdmin)}},
			Menu:  true,
		},
		{
			Path:  PathUsers,
			Title: "Gestion utilisateurs",
			Rules: []guard.Rule{layout, {AllowedRoles: authz.NewRoleSet(authz.RoleSuperAdmin), Fallback: ViewForbidden}},
			Menu:  true,
		},
	}
}

// defaultAliases are permanent redirects resolved before any guard runs
func defaultAliases() map[string]string {
	return map[string]string{PathRoot: PathLogin}
}
