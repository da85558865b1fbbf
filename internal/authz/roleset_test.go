package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleSet_NilVersusEmpty(t *testing.T) {
	var absent RoleSet
	empty := NewRoleSet()

	assert.False(t, absent.Restricted())
	assert.True(t, empty.Restricted())

	for _, r := range AllRoles {
		assert.True(t, absent.Allows(r), "absent set allows %s", r)
		assert.False(t, empty.Allows(r), "empty set denies %s", r)
	}

	assert.Equal(t, "any", absent.String())
	assert.Equal(t, "{}", empty.String())
}

func TestRoleSet_Allows(t *testing.T) {
	set := NewRoleSet(RoleAdmin, RoleSuperAdmin)

	assert.True(t, set.Allows(RoleAdmin))
	assert.True(t, set.Allows(RoleSuperAdmin))
	assert.False(t, set.Allows(RoleUser))
	assert.Equal(t, "{admin,superadmin}", set.String())
}

func TestAtLeast(t *testing.T) {
	assert.Equal(t, []Role{RoleAdmin, RoleSuperAdmin}, AtLeast(RoleAdmin).Roles())
	assert.Equal(t, []Role{RoleSuperAdmin}, AtLeast(RoleSuperAdmin).Roles())
	assert.Equal(t, AllRoles, AtLeast(RoleUser).Roles())
}

func TestParseRoleSet(t *testing.T) {
	set := ParseRoleSet("Super Admin", "ADMIN")
	assert.Equal(t, []Role{RoleAdmin, RoleSuperAdmin}, set.Roles())

	assert.True(t, ParseRoleSet().Restricted(), "parsing nothing still yields a restricting set")
}
