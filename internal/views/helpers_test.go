package views

import (
	"testing"

	"github.com/felixgeelhaar/biblio/internal/api"
	"github.com/felixgeelhaar/biblio/internal/apitest"
	"github.com/felixgeelhaar/biblio/internal/authz"
	"github.com/felixgeelhaar/biblio/internal/session"
)

// recorder collects notices
type recorder struct {
	notices []Notice
}

func (r *recorder) Notify(n Notice) { r.notices = append(r.notices, n) }

func (r *recorder) last() Notice {
	if len(r.notices) == 0 {
		return Notice{}
	}
	return r.notices[len(r.notices)-1]
}

// fixture is a fake backend plus a client logged in as one account
type fixture struct {
	srv    *apitest.Server
	client *api.Client
	viewer session.Identity
	notes  *recorder
}

func newFixture(t *testing.T, role string) *fixture {
	t.Helper()
	srv := apitest.New(t)
	user, token := srv.AddUser("me@biblio.test", "secret", "Moi", role)
	client := api.NewClient(srv.APIURL())
	client.SetToken(token)

	return &fixture{
		srv:    srv,
		client: client,
		viewer: session.Identity{ID: user.ID, Email: user.Email, Name: user.Name, Role: authz.Normalize(role)},
		notes:  &recorder{},
	}
}

// otherOwner is an owner id that is never the viewer
const otherOwner = "someone-else"
