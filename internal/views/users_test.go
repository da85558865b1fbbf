package views

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/biblio/internal/authz"
	berrors "github.com/felixgeelhaar/biblio/internal/errors"
)

func TestUsers_LoadNormalizesRoles(t *testing.T) {
	f := newFixture(t, "super_admin")
	f.srv.AddUser("boss@biblio.test", "pw", "Boss", "Super Admin")
	f.srv.AddUser("odd@biblio.test", "pw", "Odd", "librarian")

	view := NewUsers(f.client, f.notes)
	require.NoError(t, view.Load(context.Background()))

	roles := map[string]authz.Role{}
	for _, a := range view.Accounts() {
		roles[a.Email] = a.Role
	}
	assert.Equal(t, authz.RoleSuperAdmin, roles["boss@biblio.test"])
	assert.Equal(t, authz.RoleSuperAdmin, roles["me@biblio.test"])
	assert.Equal(t, authz.RoleUser, roles["odd@biblio.test"])
}

func TestUsers_CreateWithPassword(t *testing.T) {
	f := newFixture(t, "super_admin")
	view := NewUsers(f.client, f.notes)

	created, err := view.Create(context.Background(), CreateInput{
		Name: "Bob", Email: "bob@biblio.test", Role: authz.RoleSuperAdmin, Password: "choisi",
	})
	require.NoError(t, err)
	assert.Empty(t, created.GeneratedPassword)
	assert.Equal(t, authz.RoleSuperAdmin, created.Account.Role)
	assert.Equal(t, "choisi", f.srv.Password("bob@biblio.test"))
	assert.Contains(t, string(f.srv.Requests()[0].Body), `"role":"super_admin"`)
	assert.Len(t, view.Accounts(), 2)
}

func TestUsers_CreateGeneratesPassword(t *testing.T) {
	f := newFixture(t, "super_admin")
	view := NewUsers(f.client, f.notes)

	created, err := view.Create(context.Background(), CreateInput{Name: "Eve", Email: "eve@biblio.test", Role: authz.RoleUser})
	require.NoError(t, err)
	require.NotEmpty(t, created.GeneratedPassword)
	assert.Equal(t, created.GeneratedPassword, f.srv.Password("eve@biblio.test"))
	assert.NotEqual(t, GeneratePassword(), GeneratePassword())
}

func TestUsers_CreateValidation(t *testing.T) {
	f := newFixture(t, "super_admin")
	view := NewUsers(f.client, f.notes)

	_, err := view.Create(context.Background(), CreateInput{Email: "x@biblio.test"})
	assert.Equal(t, berrors.ErrCodeInputRequired, berrors.CodeOf(err))

	_, err = view.Create(context.Background(), CreateInput{Name: "X", Email: "not an email"})
	assert.Equal(t, berrors.ErrCodeInputInvalid, berrors.CodeOf(err))

	assert.Empty(t, f.srv.Requests(), "validation happens before any request")
}

func TestUsers_UpdateSendsOnlyGivenFields(t *testing.T) {
	f := newFixture(t, "super_admin")
	target, _ := f.srv.AddUser("bob@biblio.test", "initial", "Bob", "user")
	view := NewUsers(f.client, f.notes)

	admin := authz.RoleAdmin
	require.NoError(t, view.Update(context.Background(), target.ID, UpdateInput{Role: &admin}))
	assert.Equal(t, "initial", f.srv.Password("bob@biblio.test"), "password is only sent when given")

	require.NoError(t, view.Update(context.Background(), target.ID, UpdateInput{Password: "nouveau"}))
	assert.Equal(t, "nouveau", f.srv.Password("bob@biblio.test"))

	err := view.Update(context.Background(), target.ID, UpdateInput{})
	assert.Equal(t, berrors.ErrCodeInputRequired, berrors.CodeOf(err))
}

func TestUsers_Delete(t *testing.T) {
	f := newFixture(t, "super_admin")
	target, _ := f.srv.AddUser("bob@biblio.test", "pw", "Bob", "user")
	view := NewUsers(f.client, f.notes)

	require.NoError(t, view.Delete(context.Background(), target.ID))
	assert.Len(t, view.Accounts(), 1)
	assert.Equal(t, "Utilisateur supprimé", f.notes.last().Title)
}
